package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/heartmarshall/contracthub-backend/internal/access"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(col *fakeCollection, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	NewRecordHandler(col, discardLogger()).Register(mux)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestRecordHandler_Find_PassesPaging(t *testing.T) {
	t.Parallel()

	var got domain.ListFilter
	col := &fakeCollection{
		typ: domain.EntityTypeContract,
		findFn: func(_ context.Context, f domain.ListFilter) ([]domain.Document, error) {
			got = f
			return nil, nil
		},
	}

	rec := serve(col, http.MethodGet, "/api/contracts?limit=5&offset=10&sort=-views", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, domain.ListFilter{Limit: 5, Offset: 10, Sort: "-views"}, got)
	body := decodeMap(t, rec)
	assert.Equal(t, []any{}, body["rows"])
	assert.EqualValues(t, 5, body["limit"])
	assert.Equal(t, "-views", body["sort"])
}

func TestRecordHandler_Find_BadPaging(t *testing.T) {
	t.Parallel()

	col := &fakeCollection{typ: domain.EntityTypeContract}
	rec := serve(col, http.MethodGet, "/api/contracts?limit=abc&offset=-1", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeMap(t, rec)
	assert.Len(t, body["fields"], 2)
}

func TestRecordHandler_Get(t *testing.T) {
	t.Parallel()

	col := &fakeCollection{
		typ: domain.EntityTypeOrganization,
		getFn: func(_ context.Context, code string) (domain.Document, error) {
			return domain.Document{"code": code, "views": 1}, nil
		},
	}

	rec := serve(col, http.MethodGet, "/api/organizations/abc123", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", decodeMap(t, rec)["code"])
}

func TestRecordHandler_Create(t *testing.T) {
	t.Parallel()

	var raw map[string]any
	col := &fakeCollection{
		typ: domain.EntityTypeContract,
		createFn: func(_ context.Context, in map[string]any) (domain.Document, error) {
			raw = in
			return domain.Document{"code": "k9x2"}, nil
		},
	}

	rec := serve(col, http.MethodPost, "/api/contracts", `{"name":"Acme","renewalPeriod":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/contracts/k9x2", rec.Header().Get("Location"))
	assert.Equal(t, json.Number("3"), raw["renewalPeriod"])
}

func TestRecordHandler_Create_InvalidJSON(t *testing.T) {
	t.Parallel()

	col := &fakeCollection{typ: domain.EntityTypeContract}
	rec := serve(col, http.MethodPost, "/api/contracts", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordHandler_UpdateMethods(t *testing.T) {
	t.Parallel()

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		col := &fakeCollection{
			typ: domain.EntityTypeRelationship,
			updateFn: func(_ context.Context, code string, raw map[string]any) (domain.Document, error) {
				return domain.Document{"code": code, "name": raw["name"]}, nil
			},
		}
		rec := serve(col, method, "/api/relationships/r1", `{"name":"renamed"}`)
		require.Equal(t, http.StatusOK, rec.Code, method)
		assert.Equal(t, "renamed", decodeMap(t, rec)["name"], method)
	}
}

func TestRecordHandler_Remove(t *testing.T) {
	t.Parallel()

	col := &fakeCollection{
		typ: domain.EntityTypeContract,
		removeFn: func(_ context.Context, code string) (domain.Document, error) {
			return domain.Document{"code": code}, nil
		},
	}
	rec := serve(col, http.MethodDelete, "/api/contracts/c1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", decodeMap(t, rec)["code"])
}

func TestRecordHandler_ErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("get: %w", domain.ErrNotFound), http.StatusNotFound},
		{"validation", domain.NewValidationError("name", "required"), http.StatusBadRequest},
		{"malformed", fmt.Errorf("decode: %w", domain.ErrMalformedCode), http.StatusBadRequest},
		{"anonymous", access.Authorize(domain.PermissionLoggedIn, nil, nil), http.StatusUnauthorized},
		{"not owner", access.Authorize(domain.PermissionAdmin, &domain.Actor{UserID: 1}, nil), http.StatusForbidden},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			col := &fakeCollection{
				typ:   domain.EntityTypeContract,
				getFn: func(context.Context, string) (domain.Document, error) { return nil, tt.err },
			}
			rec := serve(col, http.MethodGet, "/api/contracts/x", "")
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decodeMap(t, rec)["error"])
		})
	}
}

func TestHandleError_LogsMisconfiguredGate(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	req := httptest.NewRequest(http.MethodDelete, "/api/contracts/x", nil)

	rec := httptest.NewRecorder()
	handleError(log, rec, req, access.Authorize(domain.PermissionOwner, &domain.Actor{UserID: 2}, &domain.Contract{Author: 1}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, logs.String())

	rec = httptest.NewRecorder()
	handleError(log, rec, req, access.Authorize(domain.PermissionOwner, &domain.Actor{UserID: 2}, nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, logs.String(), "permission gate misconfigured")
	assert.Contains(t, logs.String(), "/api/contracts/x")
}

func TestRecordHandler_ValidationFieldsInBody(t *testing.T) {
	t.Parallel()

	col := &fakeCollection{
		typ: domain.EntityTypeContract,
		createFn: func(context.Context, map[string]any) (domain.Document, error) {
			return nil, domain.NewValidationErrors([]domain.FieldError{
				{Field: "name", Message: "required"},
				{Field: "customerEmail", Message: "invalid email"},
			})
		},
	}
	rec := serve(col, http.MethodPost, "/api/contracts", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "validation failed", body.Error)
	require.Len(t, body.Fields, 2)
	assert.Equal(t, "customerEmail", body.Fields[1].Field)
}
