package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/pkg/apperrors"
)

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name           string
		user           User
		wantViolations []string
	}{
		{
			name: "valid",
			user: User{ID: "u1", Name: "Alice"},
		},
		{
			name:           "missing everything",
			user:           User{},
			wantViolations: []string{"id is required", "name is required"},
		},
		{
			name:           "blank name",
			user:           User{ID: "u1", Name: "   "},
			wantViolations: []string{"name is required"},
		},
		{
			name:           "id with whitespace",
			user:           User{ID: "u 1", Name: "Alice"},
			wantViolations: []string{"id must not contain whitespace"},
		},
		{
			name:           "id too long",
			user:           User{ID: strings.Repeat("x", MaxUserIDLength+1), Name: "Alice"},
			wantViolations: []string{"id must be at most 128 characters"},
		},
		{
			name:           "name too long",
			user:           User{ID: "u1", Name: strings.Repeat("n", MaxUserNameLength+1)},
			wantViolations: []string{"name must be at most 255 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantViolations == nil {
				assert.NoError(t, err)
				return
			}
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindValidation, appErr.Kind)
			assert.Equal(t, tt.wantViolations, appErr.Violations)
		})
	}
}
