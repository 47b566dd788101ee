package domain

import "testing"

func TestEntityType_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  EntityType
		want bool
	}{
		{EntityTypeContract, true},
		{EntityTypeOrganization, true},
		{EntityTypeRelationship, true},
		{EntityTypeUser, true},
		{EntityTypeGoal, true},
		{EntityType("invoice"), false},
		{EntityType(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			t.Parallel()
			if got := tt.typ.IsValid(); got != tt.want {
				t.Errorf("EntityType(%q).IsValid() = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestEntityType_Collection(t *testing.T) {
	t.Parallel()

	seen := make(map[string]EntityType)
	for _, typ := range EntityTypes {
		c := typ.Collection()
		if prev, dup := seen[c]; dup {
			t.Fatalf("collection %q shared by %s and %s", c, prev, typ)
		}
		seen[c] = typ
	}
	if got := EntityTypeRelationship.Collection(); got != "relationships" {
		t.Errorf("got %q, want relationships", got)
	}
}

func TestChangeKind_IsValid(t *testing.T) {
	t.Parallel()

	for _, k := range []ChangeKind{ChangeCreated, ChangeUpdated, ChangeRemoved} {
		if !k.IsValid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if ChangeKind("archived").IsValid() {
		t.Error("archived should be invalid")
	}
}

func TestUserRole_IsAdmin(t *testing.T) {
	t.Parallel()

	if !UserRoleAdmin.IsAdmin() {
		t.Error("admin role should be admin")
	}
	if UserRoleUser.IsAdmin() {
		t.Error("user role should not be admin")
	}
	if UserRole("root").IsValid() {
		t.Error("unknown role should be invalid")
	}
}

func TestContractEnums_IsValid(t *testing.T) {
	t.Parallel()

	if !RenewalYearly.IsValid() || RenewalPeriod(4).IsValid() || RenewalPeriod(-1).IsValid() {
		t.Error("renewal period range mismatch")
	}
	if !CancellationNotice90.IsValid() || CancellationTerms(4).IsValid() {
		t.Error("cancellation terms range mismatch")
	}
	if !BillingSubscription.IsValid() || BillingType(9).IsValid() {
		t.Error("billing type range mismatch")
	}
}
