package profile

import (
	"net/url"
	"strings"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// UpdateInput holds a partial profile update.
type UpdateInput struct {
	FullName *string
	Avatar   *string // ptr("") clears the avatar
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.FullName == nil && i.Avatar == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.FullName != nil && len(strings.TrimSpace(*i.FullName)) > 200 {
		errs = append(errs, domain.FieldError{Field: "fullName", Message: "too long"})
	}
	if i.Avatar != nil && *i.Avatar != "" {
		u, err := url.Parse(*i.Avatar)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, domain.FieldError{Field: "avatar", Message: "must be an http(s) URL"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// GoalInput holds the parameters for creating a goal.
type GoalInput struct {
	Name string
}

// Validate checks all fields and collects all errors.
func (i GoalInput) Validate() error {
	name := strings.TrimSpace(i.Name)
	if name == "" {
		return domain.NewValidationError("name", "required")
	}
	if len(name) > 200 {
		return domain.NewValidationError("name", "too long")
	}
	return nil
}
