package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/transport/binding"
)

// RecordHandler serves the action set of one collection under
// /api/<collection>.
type RecordHandler struct {
	col binding.Collection
	log *slog.Logger
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(col binding.Collection, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{col: col, log: logger.With("handler", col.Type().Collection())}
}

// Register mounts the handler's routes on mux.
func (h *RecordHandler) Register(mux *http.ServeMux) {
	base := "/api/" + h.col.Type().Collection()
	mux.HandleFunc("GET "+base, h.Find)
	mux.HandleFunc("POST "+base, h.Create)
	mux.HandleFunc("GET "+base+"/{code}", h.Get)
	mux.HandleFunc("PUT "+base+"/{code}", h.Update)
	mux.HandleFunc("PATCH "+base+"/{code}", h.Update)
	mux.HandleFunc("DELETE "+base+"/{code}", h.Remove)
}

type listResponse struct {
	Rows   []domain.Document `json:"rows"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
	Sort   string            `json:"sort"`
}

// Find handles GET /api/<collection>?limit=&offset=&sort=.
func (h *RecordHandler) Find(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	rows, err := h.col.Find(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.Document{}
	}

	filter = filter.Normalize()
	writeJSON(w, http.StatusOK, listResponse{Rows: rows, Limit: filter.Limit, Offset: filter.Offset, Sort: filter.Sort})
}

// Get handles GET /api/<collection>/{code}.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.col.Get(r.Context(), r.PathValue("code"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Create handles POST /api/<collection>.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decodeBody(w, r, &body); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	doc, err := h.col.Create(r.Context(), body)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.Header().Set("Location", r.URL.Path+"/"+doc.Code())
	writeJSON(w, http.StatusCreated, doc)
}

// Update handles PUT and PATCH /api/<collection>/{code}. Both apply only the
// fields present in the body.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decodeBody(w, r, &body); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	doc, err := h.col.Update(r.Context(), r.PathValue("code"), body)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Remove handles DELETE /api/<collection>/{code} and returns the removed
// document.
func (h *RecordHandler) Remove(w http.ResponseWriter, r *http.Request) {
	doc, err := h.col.Remove(r.Context(), r.PathValue("code"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func parseListFilter(r *http.Request) (domain.ListFilter, error) {
	q := r.URL.Query()
	var (
		filter domain.ListFilter
		errs   []domain.FieldError
	)
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "limit", Message: "must be an integer"})
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, domain.FieldError{Field: "offset", Message: "must be a non-negative integer"})
		}
		filter.Offset = n
	}
	filter.Sort = q.Get("sort")
	if len(errs) > 0 {
		return filter, domain.NewValidationErrors(errs)
	}
	return filter, nil
}
