package organization

import (
	"net/url"
	"strings"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const (
	maxNameLen = 200
	maxDescLen = 5000
	maxURLLen  = 2048
)

// CreateInput holds the parameters for creating an organization.
type CreateInput struct {
	Name    string
	Desc    string
	Logo    string
	Website string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}
	if len(i.Desc) > maxDescLen {
		errs = append(errs, domain.FieldError{Field: "desc", Message: "too long"})
	}
	errs = checkURL(errs, "logo", i.Logo)
	errs = checkURL(errs, "website", i.Website)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i CreateInput) Build(int64) *domain.Organization {
	return &domain.Organization{
		Name:    strings.TrimSpace(i.Name),
		Desc:    i.Desc,
		Logo:    strings.TrimSpace(i.Logo),
		Website: strings.TrimSpace(i.Website),
	}
}

// UpdateInput holds a partial organization update. Nil fields are left
// unchanged; an empty logo or website clears it.
type UpdateInput struct {
	Name    *string
	Desc    *string
	Logo    *string
	Website *string
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i == (UpdateInput{}) {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Name != nil {
		name := strings.TrimSpace(*i.Name)
		if name == "" {
			errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
		}
		if len(name) > maxNameLen {
			errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
		}
	}
	if i.Desc != nil && len(*i.Desc) > maxDescLen {
		errs = append(errs, domain.FieldError{Field: "desc", Message: "too long"})
	}
	if i.Logo != nil {
		errs = checkURL(errs, "logo", *i.Logo)
	}
	if i.Website != nil {
		errs = checkURL(errs, "website", *i.Website)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i UpdateInput) Apply(o *domain.Organization) {
	if i.Name != nil {
		o.Name = strings.TrimSpace(*i.Name)
	}
	if i.Desc != nil {
		o.Desc = *i.Desc
	}
	if i.Logo != nil {
		o.Logo = strings.TrimSpace(*i.Logo)
	}
	if i.Website != nil {
		o.Website = strings.TrimSpace(*i.Website)
	}
}

// checkURL accepts an empty value or an absolute http(s) URL.
func checkURL(errs []domain.FieldError, field, raw string) []domain.FieldError {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errs
	}
	if len(raw) > maxURLLen {
		return append(errs, domain.FieldError{Field: field, Message: "too long"})
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return append(errs, domain.FieldError{Field: field, Message: "must be an http(s) URL"})
	}
	return errs
}
