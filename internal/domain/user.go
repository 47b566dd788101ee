package domain

import "time"

// User represents an authenticated application user.
type User struct {
	ID           int64
	Username     string
	Email        string
	FullName     string
	Avatar       string
	Role         UserRole
	PasswordHash string
	CreatedAt    time.Time
	EditedAt     time.Time
}

// Goal is an objective a relationship can reference.
type Goal struct {
	ID        int64
	Author    int64
	Name      string
	CreatedAt time.Time
}
