package app

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/contracthub-backend/internal/config"
	"github.com/heartmarshall/contracthub-backend/internal/populate"
	"github.com/heartmarshall/contracthub-backend/internal/transport/graphql"
	"github.com/heartmarshall/contracthub-backend/internal/transport/middleware"
	"github.com/heartmarshall/contracthub-backend/internal/transport/rest"
)

// Handlers are the transport endpoints the router mounts. Nil entries are
// skipped.
type Handlers struct {
	Health   *rest.HealthHandler
	Auth     *rest.AuthHandler
	Profile  *rest.ProfileHandler
	Admin    *rest.AdminHandler
	Records  []*rest.RecordHandler
	GraphQL  *graphql.Handler
	Realtime http.Handler
}

// RouterDeps are the cross-cutting pieces the middleware chain needs.
type RouterDeps struct {
	Logger     *slog.Logger
	CORS       config.CORSConfig
	Tokens     middleware.TokenValidator
	Populate   *populate.Sources
	Limiter    *middleware.RateLimiter
	LoginRate  int
	Playground bool
}

// NewRouter mounts every endpoint and wraps the mux in the global
// middleware chain.
func NewRouter(h Handlers, deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	if h.Health != nil {
		mux.HandleFunc("GET /live", h.Health.Live)
		mux.HandleFunc("GET /ready", h.Health.Ready)
		mux.HandleFunc("GET /health", h.Health.Health)
	}

	if h.Auth != nil {
		limit := func(_ string, fn http.HandlerFunc) http.Handler { return fn }
		if deps.Limiter != nil && deps.LoginRate > 0 {
			limit = func(scope string, fn http.HandlerFunc) http.Handler {
				return deps.Limiter.Limit(scope, deps.LoginRate)(fn)
			}
		}
		mux.Handle("POST /api/auth/login", limit("login", h.Auth.Login))
		mux.Handle("POST /api/auth/register", limit("register", h.Auth.Register))
	}

	if h.Profile != nil {
		mux.Handle("GET /api/profile", middleware.RequireUser(http.HandlerFunc(h.Profile.Me)))
		mux.Handle("PATCH /api/profile", middleware.RequireUser(http.HandlerFunc(h.Profile.Update)))
		mux.Handle("GET /api/profile/goals", middleware.RequireUser(http.HandlerFunc(h.Profile.Goals)))
		mux.Handle("POST /api/profile/goals", middleware.RequireUser(http.HandlerFunc(h.Profile.CreateGoal)))
	}

	if h.Admin != nil {
		mux.Handle("GET /api/admin/users", middleware.RequireUser(http.HandlerFunc(h.Admin.ListUsers)))
		mux.Handle("PUT /api/admin/users/{code}/role", middleware.RequireUser(http.HandlerFunc(h.Admin.SetRole)))
		mux.Handle("GET /api/admin/history/{type}/{code}", middleware.RequireUser(http.HandlerFunc(h.Admin.History)))
	}

	for _, rh := range h.Records {
		rh.Register(mux)
	}

	if h.GraphQL != nil {
		h.GraphQL.Register(mux, "/query", deps.Playground)
	}

	if h.Realtime != nil {
		mux.Handle("GET /ws", h.Realtime)
	}

	chain := []middleware.Middleware{
		middleware.Recovery(deps.Logger),
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		middleware.CORS(deps.CORS),
	}
	if deps.Tokens != nil {
		chain = append(chain, middleware.Auth(deps.Tokens))
	}
	if deps.Populate != nil {
		chain = append(chain, populate.Middleware(deps.Populate))
	}
	return middleware.Chain(mux, chain...)
}
