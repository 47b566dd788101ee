package relationship

import (
	"strings"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const (
	maxNameLen = 200
	maxDescLen = 5000
	maxGoals   = 100
)

// CreateInput holds the parameters for creating a relationship.
type CreateInput struct {
	Name  string
	Desc  string
	Goals []int64
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
	errs = checkGoals(errs, i.Goals)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i CreateInput) Build(authorID int64) *domain.Relationship {
	return &domain.Relationship{
		Author: authorID,
		Name:   strings.TrimSpace(i.Name),
		Desc:   i.Desc,
		Goals:  dedupe(i.Goals),
	}
}

// UpdateInput holds a partial relationship update. A nil Goals keeps the
// current list; an empty non-nil slice clears it.
type UpdateInput struct {
	Name  *string
	Desc  *string
	Goals []int64
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == nil && i.Desc == nil && i.Goals == nil {
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
	errs = checkGoals(errs, i.Goals)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i UpdateInput) Apply(r *domain.Relationship) {
	if i.Name != nil {
		r.Name = strings.TrimSpace(*i.Name)
	}
	if i.Desc != nil {
		r.Desc = *i.Desc
	}
	if i.Goals != nil {
		r.Goals = dedupe(i.Goals)
	}
}

func checkGoals(errs []domain.FieldError, goals []int64) []domain.FieldError {
	if len(goals) > maxGoals {
		errs = append(errs, domain.FieldError{Field: "goals", Message: "too many goals"})
	}
	for _, id := range goals {
		if id <= 0 {
			errs = append(errs, domain.FieldError{Field: "goals", Message: "goal ids must be positive"})
			break
		}
	}
	return errs
}

// dedupe keeps the first occurrence of each id, preserving order.
func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
