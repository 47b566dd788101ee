package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/service/profile"
)

type profileService interface {
	Me(ctx context.Context) (domain.Document, error)
	Update(ctx context.Context, input profile.UpdateInput) (domain.Document, error)
	Goals(ctx context.Context) ([]domain.Document, error)
	CreateGoal(ctx context.Context, input profile.GoalInput) (domain.Document, error)
}

// ProfileHandler serves the current user's profile and goals.
type ProfileHandler struct {
	svc profileService
	log *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(svc profileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, log: logger.With("handler", "profile")}
}

type updateProfileRequest struct {
	FullName *string `json:"fullName"`
	Avatar   *string `json:"avatar"`
}

type createGoalRequest struct {
	Name string `json:"name"`
}

// Me handles GET /api/profile.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Me(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Update handles PATCH /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	doc, err := h.svc.Update(r.Context(), profile.UpdateInput{FullName: req.FullName, Avatar: req.Avatar})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Goals handles GET /api/profile/goals.
func (h *ProfileHandler) Goals(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.Goals(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": docs})
}

// CreateGoal handles POST /api/profile/goals.
func (h *ProfileHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	doc, err := h.svc.CreateGoal(r.Context(), profile.GoalInput{Name: req.Name})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}
