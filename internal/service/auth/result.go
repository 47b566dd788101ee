package auth

import (
	"time"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// AuthResult is returned by Login and Register.
type AuthResult struct {
	AccessToken string
	ExpiresIn   time.Duration
	User        *domain.User
}
