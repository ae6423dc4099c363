package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "student"
	RoleParent  = "parent"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

// User owns every item, collection, tag and answer. PasswordHash is nil for
// accounts that only sign in through an OAuth provider.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:120;not null;uniqueIndex" json:"email"`
	PasswordHash *string   `gorm:"size:256" json:"-"`
	Role         string    `gorm:"size:20;not null;default:'student';check:chk_users_role,role IN ('student','parent','tutor','admin')" json:"role"`
	GoogleID     *string   `gorm:"size:100;uniqueIndex" json:"-"`
	AuthProvider string    `gorm:"size:20;not null;default:'local'" json:"auth_provider"`
	AvatarURL    *string   `gorm:"size:500" json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SelfServiceRole reports whether role may be chosen at registration.
func SelfServiceRole(role string) bool {
	switch role {
	case RoleStudent, RoleParent, RoleTutor:
		return true
	}
	return false
}
