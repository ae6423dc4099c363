package dto

import (
	"errors"
	"strings"
)

const MaxCollectionNameLength = 100

type CreateCollectionRequest struct {
	Name  string  `json:"name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

func (r *CreateCollectionRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validateCollectionName(r.Name)
}

// UpdateCollectionRequest renames, restyles, or moves a collection in and
// out of the trash.
type UpdateCollectionRequest struct {
	Name      *string `json:"name"`
	Icon      *string `json:"icon"`
	Color     *string `json:"color"`
	IsDeleted *bool   `json:"is_deleted"`
}

func (r *UpdateCollectionRequest) Validate() error {
	if r.Name == nil {
		return nil
	}
	name := strings.TrimSpace(*r.Name)
	r.Name = &name
	return validateCollectionName(name)
}

func validateCollectionName(name string) error {
	if name == "" {
		return errors.New("name is required")
	}
	if len([]rune(name)) > MaxCollectionNameLength {
		return errors.New("name must be at most 100 characters")
	}
	return nil
}
