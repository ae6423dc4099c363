package dto

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestUpdateItemRequestCollectionPresence(t *testing.T) {
	id := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	tests := []struct {
		name   string
		body   string
		set    bool
		clears bool
		want   *uuid.UUID
	}{
		{"omitted", `{"title":"t"}`, false, false, nil},
		{"null", `{"collection_id":null}`, true, true, nil},
		{"value", `{"collection_id":"` + id.String() + `"}`, true, false, &id},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateItemRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("decode %s: %v", tt.body, err)
			}
			got := req.CollectionID
			if got.Set != tt.set || got.Clears() != tt.clears {
				t.Fatalf("set=%v clears=%v, want %v/%v", got.Set, got.Clears(), tt.set, tt.clears)
			}
			if (got.Value == nil) != (tt.want == nil) || (got.Value != nil && *got.Value != *tt.want) {
				t.Fatalf("value = %v, want %v", got.Value, tt.want)
			}
		})
	}

	var req UpdateItemRequest
	if err := json.Unmarshal([]byte(`{"collection_id":"not-a-uuid"}`), &req); err == nil {
		t.Fatal("malformed collection_id decoded without error")
	}
}
