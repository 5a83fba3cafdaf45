package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/spec-kit/user-service/pkg/apperrors"
)

const (
	MaxUserIDLength   = 128
	MaxUserNameLength = 255
)

// User is the domain model for an account. ID is assigned by the caller and
// never changes; timestamps are stamped by the creator, not by the store.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the caller-supplied fields and returns a validation error
// listing every violation in field order.
func (u *User) Validate() error {
	var violations []string

	switch {
	case u.ID == "":
		violations = append(violations, "id is required")
	case utf8.RuneCountInString(u.ID) > MaxUserIDLength:
		violations = append(violations, "id must be at most 128 characters")
	case strings.IndexFunc(u.ID, unicode.IsSpace) >= 0:
		violations = append(violations, "id must not contain whitespace")
	}

	switch {
	case strings.TrimSpace(u.Name) == "":
		violations = append(violations, "name is required")
	case utf8.RuneCountInString(u.Name) > MaxUserNameLength:
		violations = append(violations, "name must be at most 255 characters")
	}

	if len(violations) > 0 {
		return apperrors.NewValidation("invalid user", violations...)
	}
	return nil
}
