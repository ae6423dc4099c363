package dto

type SubjectStats struct {
	Total    int `json:"total"`
	Answered int `json:"answered"`
	Mastered int `json:"mastered"`
}

type CollectionStats struct {
	Name     string `json:"name"`
	Total    int    `json:"total"`
	Answered int    `json:"answered"`
	Mastered int    `json:"mastered"`
}

type StatsReport struct {
	Total        int                        `json:"total_questions"`
	Answered     int                        `json:"answered_questions"`
	Mastered     int                        `json:"mastered_questions"`
	NeedsReview  int                        `json:"need_review_questions"`
	BySubject    map[string]SubjectStats    `json:"by_subject"`
	ByDifficulty map[string]int             `json:"by_difficulty"`
	ByCollection map[string]CollectionStats `json:"by_collection"`
}

type RecommendationsQuery struct {
	Limit   int    `query:"limit"`
	Subject string `query:"subject"`
}
