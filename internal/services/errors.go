package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error classes surfaced to the HTTP layer. Domain errors below wrap one of
// them so callers can branch with errors.Is on either level.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrItemNotFound         = notFound("item not found")
	ErrCollectionNotFound   = notFound("collection not found")
	ErrUserNotFound         = notFound("user not found")
	ErrNotOwner             = forbidden("access denied")
	ErrCollectionNameTaken  = conflict("a collection with this name already exists")
	ErrRestoreNameTaken     = conflict("an active collection with this name already exists, rename it first")
	ErrCollectionNotInTrash = validation("collection must be in trash to delete permanently")
	ErrUsernameTaken        = conflict("username already exists")
	ErrEmailTaken           = conflict("email already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrOAuthOnlyAccount     = errors.New("this account uses Google Sign-In, please sign in with Google")
	ErrUploadFailed         = errors.New("upload failed")
	ErrImageNotOwned        = forbidden("image does not belong to you")
)

func validation(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

func notFound(msg string) error {
	return errors.Join(ErrNotFound, errors.New(msg))
}

func forbidden(msg string) error {
	return errors.Join(ErrForbidden, errors.New(msg))
}

func conflict(msg string) error {
	return errors.Join(ErrConflict, errors.New(msg))
}

// Message returns the caller-facing part of a classified error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts := joined.Unwrap()
		if len(parts) > 1 {
			return parts[len(parts)-1].Error()
		}
	}
	return err.Error()
}

// isUniqueViolation reports whether err comes from a unique index rejecting
// a write.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint failed")
}

// isClientError reports whether err was caused by the caller rather than by
// the store or an external service.
func isClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) || errors.Is(err, ErrConflict)
}
