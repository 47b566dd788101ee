package contract

import (
	"net/mail"
	"strings"
	"time"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const (
	maxNameLen  = 200
	maxEmailLen = 254
	maxTextLen  = 5000
)

// CreateInput holds the parameters for creating a contract.
type CreateInput struct {
	Name              string
	Description       string
	Customer          string
	CustomerEmail     string
	CustomerTerms     string
	RenewalPeriod     domain.RenewalPeriod
	CancellationTerms domain.CancellationTerms
	BillingType       domain.BillingType
	ContractStart     *time.Time
	ContractEnd       *time.Time
	Resources         string
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	errs = checkText(errs, "name", name, maxNameLen)
	errs = checkText(errs, "description", i.Description, maxTextLen)
	errs = checkText(errs, "customer", strings.TrimSpace(i.Customer), maxNameLen)
	errs = checkEmail(errs, i.CustomerEmail)
	errs = checkText(errs, "customerTerms", i.CustomerTerms, maxTextLen)
	errs = checkText(errs, "resources", i.Resources, maxTextLen)
	errs = checkEnums(errs, &i.RenewalPeriod, &i.CancellationTerms, &i.BillingType)
	errs = checkPeriod(errs, i.ContractStart, i.ContractEnd)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Build returns the contract to persist, authored by authorID.
func (i CreateInput) Build(authorID int64) *domain.Contract {
	return &domain.Contract{
		Author:            authorID,
		Name:              strings.TrimSpace(i.Name),
		Description:       i.Description,
		Customer:          strings.TrimSpace(i.Customer),
		CustomerEmail:     strings.TrimSpace(i.CustomerEmail),
		CustomerTerms:     i.CustomerTerms,
		RenewalPeriod:     i.RenewalPeriod,
		CancellationTerms: i.CancellationTerms,
		BillingType:       i.BillingType,
		ContractStart:     i.ContractStart,
		ContractEnd:       i.ContractEnd,
		Resources:         i.Resources,
	}
}

// UpdateInput holds a partial contract update. Nil fields are left unchanged.
type UpdateInput struct {
	Name              *string
	Description       *string
	Customer          *string
	CustomerEmail     *string
	CustomerTerms     *string
	RenewalPeriod     *domain.RenewalPeriod
	CancellationTerms *domain.CancellationTerms
	BillingType       *domain.BillingType
	ContractStart     *time.Time
	ContractEnd       *time.Time
	Resources         *string
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
		errs = checkText(errs, "name", name, maxNameLen)
	}
	if i.Description != nil {
		errs = checkText(errs, "description", *i.Description, maxTextLen)
	}
	if i.Customer != nil {
		errs = checkText(errs, "customer", strings.TrimSpace(*i.Customer), maxNameLen)
	}
	if i.CustomerEmail != nil {
		errs = checkEmail(errs, *i.CustomerEmail)
	}
	if i.CustomerTerms != nil {
		errs = checkText(errs, "customerTerms", *i.CustomerTerms, maxTextLen)
	}
	if i.Resources != nil {
		errs = checkText(errs, "resources", *i.Resources, maxTextLen)
	}
	errs = checkEnums(errs, i.RenewalPeriod, i.CancellationTerms, i.BillingType)
	errs = checkPeriod(errs, i.ContractStart, i.ContractEnd)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Apply copies the provided fields onto c.
func (i UpdateInput) Apply(c *domain.Contract) {
	if i.Name != nil {
		c.Name = strings.TrimSpace(*i.Name)
	}
	if i.Description != nil {
		c.Description = *i.Description
	}
	if i.Customer != nil {
		c.Customer = strings.TrimSpace(*i.Customer)
	}
	if i.CustomerEmail != nil {
		c.CustomerEmail = strings.TrimSpace(*i.CustomerEmail)
	}
	if i.CustomerTerms != nil {
		c.CustomerTerms = *i.CustomerTerms
	}
	if i.RenewalPeriod != nil {
		c.RenewalPeriod = *i.RenewalPeriod
	}
	if i.CancellationTerms != nil {
		c.CancellationTerms = *i.CancellationTerms
	}
	if i.BillingType != nil {
		c.BillingType = *i.BillingType
	}
	if i.ContractStart != nil {
		t := *i.ContractStart
		c.ContractStart = &t
	}
	if i.ContractEnd != nil {
		t := *i.ContractEnd
		c.ContractEnd = &t
	}
	if i.Resources != nil {
		c.Resources = *i.Resources
	}
}

func checkText(errs []domain.FieldError, field, v string, limit int) []domain.FieldError {
	if len(v) > limit {
		errs = append(errs, domain.FieldError{Field: field, Message: "too long"})
	}
	return errs
}

func checkEmail(errs []domain.FieldError, email string) []domain.FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return errs
	}
	if len(email) > maxEmailLen {
		return append(errs, domain.FieldError{Field: "customerEmail", Message: "too long"})
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return append(errs, domain.FieldError{Field: "customerEmail", Message: "invalid email"})
	}
	return errs
}

func checkEnums(
	errs []domain.FieldError,
	renewal *domain.RenewalPeriod,
	cancellation *domain.CancellationTerms,
	billing *domain.BillingType,
) []domain.FieldError {
	if renewal != nil && !renewal.IsValid() {
		errs = append(errs, domain.FieldError{Field: "renewalPeriod", Message: "out of range"})
	}
	if cancellation != nil && !cancellation.IsValid() {
		errs = append(errs, domain.FieldError{Field: "cancellationTerms", Message: "out of range"})
	}
	if billing != nil && !billing.IsValid() {
		errs = append(errs, domain.FieldError{Field: "billingType", Message: "out of range"})
	}
	return errs
}

// checkPeriod only compares the bounds when both are known. A partial update
// that moves one bound is checked again by the database constraint.
func checkPeriod(errs []domain.FieldError, start, end *time.Time) []domain.FieldError {
	if start != nil && end != nil && !end.After(*start) {
		errs = append(errs, domain.FieldError{Field: "contractEnd", Message: "must be after contractStart"})
	}
	return errs
}
