package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/service/auth"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	Login(ctx context.Context, input auth.LoginInput) (*auth.AuthResult, error)
	Register(ctx context.Context, input auth.RegisterInput) (*auth.AuthResult, error)
}

type userEncoder interface {
	Encode(t domain.EntityType, id int64) (string, error)
}

// AuthHandler serves auth REST endpoints.
type AuthHandler struct {
	svc   authService
	codes userEncoder
	log   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, codes userEncoder, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, codes: codes, log: logger.With("handler", "auth")}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type authResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        userResponse `json:"user"`
}

type userResponse struct {
	Code     string `json:"code"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result, err := h.svc.Login(r.Context(), auth.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, result)
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.respond(w, r, http.StatusCreated, result)
}

func (h *AuthHandler) respond(w http.ResponseWriter, r *http.Request, status int, result *auth.AuthResult) {
	code, err := h.codes.Encode(domain.EntityTypeUser, result.User.ID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, status, authResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(result.ExpiresIn.Seconds()),
		User: userResponse{
			Code:     code,
			Username: result.User.Username,
			Email:    result.User.Email,
			FullName: result.User.FullName,
			Role:     result.User.Role.String(),
		},
	})
}
