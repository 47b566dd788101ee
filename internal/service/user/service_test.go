package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/contracthub-backend/internal/codec"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/pkg/ctxutil"
)

//go:generate moq -out mocks_mock_test.go -pkg user . userRepo auditLog

var created = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, users userRepo, audit auditLog) (*Service, *codec.Registry) {
	t.Helper()
	reg, err := codec.NewRegistry("admin-test", 8)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, users, audit, reg), reg
}

func adminCtx(id int64) context.Context {
	ctx := ctxutil.WithUserID(context.Background(), id)
	return ctxutil.WithUserRole(ctx, domain.UserRoleAdmin.String())
}

func userCtx(id int64) context.Context {
	ctx := ctxutil.WithUserID(context.Background(), id)
	return ctxutil.WithUserRole(ctx, domain.UserRoleUser.String())
}

func TestService_RequiresAdmin(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{}
	svc, reg := newTestService(t, users, &auditLogMock{})
	code, err := reg.Encode(domain.EntityTypeUser, 3)
	require.NoError(t, err)

	tests := []struct {
		name string
		ctx  context.Context
		want error
	}{
		{"anonymous", context.Background(), domain.ErrUnauthorized},
		{"regular user", userCtx(1), domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListUsers(tt.ctx, 10, 0)
			assert.ErrorIs(t, err, tt.want)
			_, err = svc.SetRole(tt.ctx, code, domain.UserRoleAdmin)
			assert.ErrorIs(t, err, tt.want)
			_, err = svc.History(tt.ctx, domain.EntityTypeContract, "abc", 10)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_ListUsers(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		ListFunc: func(_ context.Context, limit, offset int) ([]domain.User, error) {
			return []domain.User{
				{ID: 1, Username: "root", Role: domain.UserRoleAdmin, CreatedAt: created},
				{ID: 2, Username: "alice", Role: domain.UserRoleUser, CreatedAt: created},
			}, nil
		},
		CountFunc: func(context.Context) (int, error) { return 12, nil },
	}
	svc, reg := newTestService(t, users, nil)

	page, err := svc.ListUsers(adminCtx(1), 1000, 4)
	require.NoError(t, err)

	require.Len(t, users.ListCalls(), 1)
	assert.Equal(t, maxPageSize, users.ListCalls()[0].Limit)
	assert.Equal(t, 4, users.ListCalls()[0].Offset)
	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Rows, 2)

	aliceCode, err := reg.Encode(domain.EntityTypeUser, 2)
	require.NoError(t, err)
	assert.Equal(t, aliceCode, page.Rows[1]["code"])
	assert.Equal(t, "user", page.Rows[1]["role"])
	assert.NotContains(t, page.Rows[1], "passwordHash")
}

func TestService_ListUsers_Defaults(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		ListFunc:  func(context.Context, int, int) ([]domain.User, error) { return nil, nil },
		CountFunc: func(context.Context) (int, error) { return 0, nil },
	}
	svc, _ := newTestService(t, users, nil)

	page, err := svc.ListUsers(adminCtx(1), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, page.Limit)
	assert.NotNil(t, page.Rows)

	_, err = svc.ListUsers(adminCtx(1), 10, -1)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestService_SetRole(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		UpdateRoleFunc: func(_ context.Context, id int64, role domain.UserRole) (*domain.User, error) {
			return &domain.User{ID: id, Username: "bob", Role: role, CreatedAt: created}, nil
		},
	}
	svc, reg := newTestService(t, users, nil)
	code, err := reg.Encode(domain.EntityTypeUser, 5)
	require.NoError(t, err)

	doc, err := svc.SetRole(adminCtx(1), code, domain.UserRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin", doc["role"])
	require.Len(t, users.UpdateRoleCalls(), 1)
	assert.Equal(t, int64(5), users.UpdateRoleCalls()[0].ID)
}

func TestService_SetRole_Rejects(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{}
	svc, reg := newTestService(t, users, nil)
	self, err := reg.Encode(domain.EntityTypeUser, 1)
	require.NoError(t, err)

	var ve *domain.ValidationError

	_, err = svc.SetRole(adminCtx(1), self, domain.UserRoleUser)
	assert.ErrorAs(t, err, &ve, "self demotion")

	_, err = svc.SetRole(adminCtx(1), self, domain.UserRole("owner"))
	assert.ErrorAs(t, err, &ve, "unknown role")

	_, err = svc.SetRole(adminCtx(1), "!!", domain.UserRoleAdmin)
	assert.ErrorIs(t, err, domain.ErrMalformedCode)

	assert.Empty(t, users.UpdateRoleCalls())
}

func TestService_SetRole_NotFound(t *testing.T) {
	t.Parallel()

	users := &userRepoMock{
		UpdateRoleFunc: func(context.Context, int64, domain.UserRole) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc, reg := newTestService(t, users, nil)
	code, err := reg.Encode(domain.EntityTypeUser, 99)
	require.NoError(t, err)

	_, err = svc.SetRole(adminCtx(1), code, domain.UserRoleUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_History(t *testing.T) {
	t.Parallel()

	audit := &auditLogMock{
		ListFunc: func(_ context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error) {
			return []domain.AuditEntry{
				{Kind: domain.ChangeRemoved, Code: f.Code, At: created.Add(time.Hour)},
				{Kind: domain.ChangeCreated, Code: f.Code, ActorID: 7, Document: domain.Document{"name": "Acme SaaS"}, At: created},
			}, nil
		},
	}
	svc, reg := newTestService(t, &userRepoMock{}, audit)
	code, err := reg.Encode(domain.EntityTypeContract, 42)
	require.NoError(t, err)

	docs, err := svc.History(adminCtx(1), domain.EntityTypeContract, code, 20)
	require.NoError(t, err)

	require.Len(t, audit.ListCalls(), 1)
	assert.Equal(t, domain.AuditFilter{Type: domain.EntityTypeContract, Code: code, Limit: 20}, audit.ListCalls()[0].F)

	require.Len(t, docs, 2)
	assert.Equal(t, "removed", docs[0]["kind"])
	assert.Nil(t, docs[0]["actor"])
	actorCode, err := reg.Encode(domain.EntityTypeUser, 7)
	require.NoError(t, err)
	assert.Equal(t, actorCode, docs[1]["actor"])
	assert.Equal(t, domain.Document{"name": "Acme SaaS"}, docs[1]["document"])
}

func TestService_History_Errors(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &userRepoMock{}, &auditLogMock{})

	_, err := svc.History(adminCtx(1), domain.EntityType("planet"), "abc", 0)
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.History(adminCtx(1), domain.EntityTypeContract, "", 0)
	assert.ErrorIs(t, err, domain.ErrMalformedCode)

	disabled, _ := newTestService(t, &userRepoMock{}, nil)
	_, err = disabled.History(adminCtx(1), domain.EntityTypeContract, "abc", 0)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
