package dto

type UploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type DeleteImageRequest struct {
	PublicID string `json:"public_id"`
}

type ReapResponse struct {
	Reaped int `json:"reaped"`
	Failed int `json:"failed"`
}
