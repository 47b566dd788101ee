package binding

import (
	"fmt"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/service/contract"
	"github.com/heartmarshall/contracthub-backend/internal/service/crud"
	"github.com/heartmarshall/contracthub-backend/internal/service/organization"
	"github.com/heartmarshall/contracthub-backend/internal/service/relationship"
)

// ContractBinder binds contract inputs.
type ContractBinder struct{}

func (ContractBinder) CreateInput(raw map[string]any) (crud.CreateInput[*domain.Contract], error) {
	o := NewObject(raw)
	in := contract.CreateInput{
		Name:              o.String("name"),
		Description:       o.String("description"),
		Customer:          o.String("customer"),
		CustomerEmail:     o.String("customerEmail"),
		CustomerTerms:     o.String("customerTerms"),
		RenewalPeriod:     domain.RenewalPeriod(o.Int("renewalPeriod")),
		CancellationTerms: domain.CancellationTerms(o.Int("cancellationTerms")),
		BillingType:       domain.BillingType(o.Int("billingType")),
		ContractStart:     o.Time("contractStart"),
		ContractEnd:       o.Time("contractEnd"),
		Resources:         o.String("resources"),
	}
	if err := o.Err(); err != nil {
		return nil, err
	}
	return in, nil
}

func (ContractBinder) UpdateInput(raw map[string]any) (crud.UpdateInput[*domain.Contract], error) {
	o := NewObject(raw)
	in := contract.UpdateInput{
		Name:          o.OptString("name"),
		Description:   o.OptString("description"),
		Customer:      o.OptString("customer"),
		CustomerEmail: o.OptString("customerEmail"),
		CustomerTerms: o.OptString("customerTerms"),
		ContractStart: o.Time("contractStart"),
		ContractEnd:   o.Time("contractEnd"),
		Resources:     o.OptString("resources"),
	}
	if p := o.OptInt("renewalPeriod"); p != nil {
		v := domain.RenewalPeriod(*p)
		in.RenewalPeriod = &v
	}
	if p := o.OptInt("cancellationTerms"); p != nil {
		v := domain.CancellationTerms(*p)
		in.CancellationTerms = &v
	}
	if p := o.OptInt("billingType"); p != nil {
		v := domain.BillingType(*p)
		in.BillingType = &v
	}
	if err := o.Err(); err != nil {
		return nil, err
	}
	return in, nil
}

// OrganizationBinder binds organization inputs.
type OrganizationBinder struct{}

func (OrganizationBinder) CreateInput(raw map[string]any) (crud.CreateInput[*domain.Organization], error) {
	o := NewObject(raw)
	in := organization.CreateInput{
		Name:    o.String("name"),
		Desc:    o.String("desc"),
		Logo:    o.String("logo"),
		Website: o.String("website"),
	}
	if err := o.Err(); err != nil {
		return nil, err
	}
	return in, nil
}

func (OrganizationBinder) UpdateInput(raw map[string]any) (crud.UpdateInput[*domain.Organization], error) {
	o := NewObject(raw)
	in := organization.UpdateInput{
		Name:    o.OptString("name"),
		Desc:    o.OptString("desc"),
		Logo:    o.OptString("logo"),
		Website: o.OptString("website"),
	}
	if err := o.Err(); err != nil {
		return nil, err
	}
	return in, nil
}

type codeDecoder interface {
	Decode(t domain.EntityType, code string) (int64, error)
}

// RelationshipBinder binds relationship inputs. Goals arrive as goal codes
// and are decoded to ids here.
type RelationshipBinder struct {
	Codes codeDecoder
}

func (b RelationshipBinder) CreateInput(raw map[string]any) (crud.CreateInput[*domain.Relationship], error) {
	o := NewObject(raw)
	in := relationship.CreateInput{
		Name: o.String("name"),
		Desc: o.String("desc"),
	}
	codes, _ := o.Strings("goals")
	if err := o.Err(); err != nil {
		return nil, err
	}
	goals, err := b.goals(codes)
	if err != nil {
		return nil, err
	}
	in.Goals = goals
	return in, nil
}

func (b RelationshipBinder) UpdateInput(raw map[string]any) (crud.UpdateInput[*domain.Relationship], error) {
	o := NewObject(raw)
	in := relationship.UpdateInput{
		Name: o.OptString("name"),
		Desc: o.OptString("desc"),
	}
	codes, present := o.Strings("goals")
	if err := o.Err(); err != nil {
		return nil, err
	}
	if present {
		goals, err := b.goals(codes)
		if err != nil {
			return nil, err
		}
		// Non-nil so an empty list clears the goals.
		in.Goals = append([]int64{}, goals...)
	}
	return in, nil
}

func (b RelationshipBinder) goals(codes []string) ([]int64, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(codes))
	for _, code := range codes {
		id, err := b.Codes.Decode(domain.EntityTypeGoal, code)
		if err != nil {
			return nil, fmt.Errorf("goal %q: %w", code, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
