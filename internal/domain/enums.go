package domain

// EntityType identifies a record collection. Its collection name doubles as
// the salt for public codes.
type EntityType string

const (
	EntityTypeContract     EntityType = "contract"
	EntityTypeOrganization EntityType = "organization"
	EntityTypeRelationship EntityType = "relationship"
	EntityTypeUser         EntityType = "user"
	EntityTypeGoal         EntityType = "goal"
)

// EntityTypes lists every entity type that has public codes.
var EntityTypes = []EntityType{
	EntityTypeContract,
	EntityTypeOrganization,
	EntityTypeRelationship,
	EntityTypeUser,
	EntityTypeGoal,
}

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeContract, EntityTypeOrganization, EntityTypeRelationship,
		EntityTypeUser, EntityTypeGoal:
		return true
	}
	return false
}

// Collection returns the plural collection name used in URLs and as code salt.
func (e EntityType) Collection() string {
	switch e {
	case EntityTypeContract:
		return "contracts"
	case EntityTypeOrganization:
		return "organizations"
	case EntityTypeRelationship:
		return "relationships"
	case EntityTypeUser:
		return "users"
	case EntityTypeGoal:
		return "goals"
	}
	return string(e)
}

// ChangeKind is the kind of mutation a change event reports.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeRemoved ChangeKind = "removed"
)

func (k ChangeKind) String() string { return string(k) }

func (k ChangeKind) IsValid() bool {
	switch k {
	case ChangeCreated, ChangeUpdated, ChangeRemoved:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

// RenewalPeriod is how often a contract renews.
type RenewalPeriod int

const (
	RenewalNone RenewalPeriod = iota
	RenewalMonthly
	RenewalQuarterly
	RenewalYearly
)

func (p RenewalPeriod) IsValid() bool { return p >= RenewalNone && p <= RenewalYearly }

// CancellationTerms is the notice a party must give to cancel a contract.
type CancellationTerms int

const (
	CancellationAnytime CancellationTerms = iota
	CancellationNotice30
	CancellationNotice60
	CancellationNotice90
)

func (c CancellationTerms) IsValid() bool {
	return c >= CancellationAnytime && c <= CancellationNotice90
}

// BillingType is how a contract is invoiced.
type BillingType int

const (
	BillingFixed BillingType = iota
	BillingHourly
	BillingUsage
	BillingSubscription
)

func (b BillingType) IsValid() bool { return b >= BillingFixed && b <= BillingSubscription }
