package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/service/user"
)

type adminService interface {
	ListUsers(ctx context.Context, limit, offset int) (*user.Page, error)
	SetRole(ctx context.Context, code string, role domain.UserRole) (domain.Document, error)
	History(ctx context.Context, t domain.EntityType, code string, limit int) ([]domain.Document, error)
}

// AdminHandler serves user management and record history. The service
// enforces the admin level on every call.
type AdminHandler struct {
	svc adminService
	log *slog.Logger
}

func NewAdminHandler(svc adminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: logger.With("handler", "admin")}
}

// ListUsers handles GET /api/admin/users?limit=&offset=.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	page, err := h.svc.ListUsers(r.Context(), filter.Limit, filter.Offset)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetRole handles PUT /api/admin/users/{code}/role.
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	doc, err := h.svc.SetRole(r.Context(), r.PathValue("code"), domain.UserRole(req.Role))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// History handles GET /api/admin/history/{type}/{code}?limit=. The type
// segment accepts either the entity name or its collection name.
func (h *AdminHandler) History(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	docs, err := h.svc.History(r.Context(), entityTypeParam(r.PathValue("type")), r.PathValue("code"), filter.Limit)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": docs})
}

func entityTypeParam(s string) domain.EntityType {
	for _, t := range domain.EntityTypes {
		if s == string(t) || s == t.Collection() {
			return t
		}
	}
	return domain.EntityType(s)
}
