package graphql

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Limits bounds what a single operation may ask for. Zero disables a limit.
type Limits struct {
	MaxDepth      int
	MaxComplexity int
}

// Handler serves GraphQL over HTTP.
type Handler struct {
	srv *handler.Server
}

// NewHandler builds the gqlgen server for es. Queries are accepted over GET
// and POST; mutations over POST only.
func NewHandler(es graphql.ExecutableSchema, logger *slog.Logger, limits Limits) *Handler {
	log := logger.With("handler", "graphql")

	srv := handler.New(es)
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	srv.SetQueryCache(lru.New[*ast.QueryDocument](1000))
	srv.SetErrorPresenter(NewErrorPresenter(log))
	srv.SetRecoverFunc(func(ctx context.Context, v any) error {
		log.ErrorContext(ctx, "graphql resolver panic", slog.Any("panic", v))
		return gqlerror.Errorf("internal error")
	})

	srv.Use(extension.Introspection{})
	if limits.MaxDepth > 0 {
		srv.Use(DepthLimit(limits.MaxDepth))
	}
	if limits.MaxComplexity > 0 {
		srv.Use(extension.FixedComplexityLimit(limits.MaxComplexity))
	}
	return &Handler{srv: srv}
}

// Register mounts the endpoint at path and, when withPlayground is set, the
// GraphQL playground at /playground.
func (h *Handler) Register(mux *http.ServeMux, path string, withPlayground bool) {
	mux.Handle("GET "+path, h.srv)
	mux.Handle("POST "+path, h.srv)
	if withPlayground {
		mux.Handle("GET /playground", playground.Handler("contracthub", path))
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.srv.ServeHTTP(w, r)
}
