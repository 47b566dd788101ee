package domain

// Permission is the level an action requires. Levels are ordered by
// strictness.
type Permission int

const (
	PermissionPublic Permission = iota
	PermissionLoggedIn
	PermissionOwner
	PermissionAdmin
)

func (p Permission) String() string {
	switch p {
	case PermissionPublic:
		return "public"
	case PermissionLoggedIn:
		return "loggedIn"
	case PermissionOwner:
		return "owner"
	case PermissionAdmin:
		return "admin"
	}
	return "unknown"
}

// Actor is the authenticated caller of an action.
type Actor struct {
	UserID int64
	Role   UserRole
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role.IsAdmin()
}
