package rest

import (
	"context"
	"io"
	"log/slog"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/service/auth"
	"github.com/heartmarshall/contracthub-backend/internal/service/profile"
	"github.com/heartmarshall/contracthub-backend/internal/service/user"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCollection is a binding.Collection whose behaviour each test sets.
type fakeCollection struct {
	typ      domain.EntityType
	findFn   func(ctx context.Context, f domain.ListFilter) ([]domain.Document, error)
	getFn    func(ctx context.Context, code string) (domain.Document, error)
	createFn func(ctx context.Context, raw map[string]any) (domain.Document, error)
	updateFn func(ctx context.Context, code string, raw map[string]any) (domain.Document, error)
	removeFn func(ctx context.Context, code string) (domain.Document, error)
}

func (f *fakeCollection) Type() domain.EntityType { return f.typ }

func (f *fakeCollection) Find(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	return f.findFn(ctx, filter)
}

func (f *fakeCollection) Get(ctx context.Context, code string) (domain.Document, error) {
	return f.getFn(ctx, code)
}

func (f *fakeCollection) Create(ctx context.Context, raw map[string]any) (domain.Document, error) {
	return f.createFn(ctx, raw)
}

func (f *fakeCollection) Update(ctx context.Context, code string, raw map[string]any) (domain.Document, error) {
	return f.updateFn(ctx, code, raw)
}

func (f *fakeCollection) Remove(ctx context.Context, code string) (domain.Document, error) {
	return f.removeFn(ctx, code)
}

type fakeAuth struct {
	loginFn    func(ctx context.Context, in auth.LoginInput) (*auth.AuthResult, error)
	registerFn func(ctx context.Context, in auth.RegisterInput) (*auth.AuthResult, error)
}

func (f *fakeAuth) Login(ctx context.Context, in auth.LoginInput) (*auth.AuthResult, error) {
	return f.loginFn(ctx, in)
}

func (f *fakeAuth) Register(ctx context.Context, in auth.RegisterInput) (*auth.AuthResult, error) {
	return f.registerFn(ctx, in)
}

type fakeProfile struct {
	meFn         func(ctx context.Context) (domain.Document, error)
	updateFn     func(ctx context.Context, in profile.UpdateInput) (domain.Document, error)
	goalsFn      func(ctx context.Context) ([]domain.Document, error)
	createGoalFn func(ctx context.Context, in profile.GoalInput) (domain.Document, error)
}

func (f *fakeProfile) Me(ctx context.Context) (domain.Document, error) { return f.meFn(ctx) }

func (f *fakeProfile) Update(ctx context.Context, in profile.UpdateInput) (domain.Document, error) {
	return f.updateFn(ctx, in)
}

func (f *fakeProfile) Goals(ctx context.Context) ([]domain.Document, error) { return f.goalsFn(ctx) }

func (f *fakeProfile) CreateGoal(ctx context.Context, in profile.GoalInput) (domain.Document, error) {
	return f.createGoalFn(ctx, in)
}

type fixedEncoder struct{}

func (fixedEncoder) Encode(t domain.EntityType, id int64) (string, error) {
	return string(t) + "-code", nil
}

type fakeAdmin struct {
	listFn    func(ctx context.Context, limit, offset int) (*user.Page, error)
	setRoleFn func(ctx context.Context, code string, role domain.UserRole) (domain.Document, error)
	historyFn func(ctx context.Context, t domain.EntityType, code string, limit int) ([]domain.Document, error)
}

func (f *fakeAdmin) ListUsers(ctx context.Context, limit, offset int) (*user.Page, error) {
	return f.listFn(ctx, limit, offset)
}

func (f *fakeAdmin) SetRole(ctx context.Context, code string, role domain.UserRole) (domain.Document, error) {
	return f.setRoleFn(ctx, code, role)
}

func (f *fakeAdmin) History(ctx context.Context, t domain.EntityType, code string, limit int) ([]domain.Document, error) {
	return f.historyFn(ctx, t, code, limit)
}
