package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/contracthub-backend/internal/adapter/postgres"
	auditrepo "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres/audit"
	contractrepo "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres/contract"
	goalrepo "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres/goal"
	organizationrepo "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres/organization"
	relationshiprepo "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres/relationship"
	userrepo "github.com/heartmarshall/contracthub-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/contracthub-backend/internal/adapter/redis"
	"github.com/heartmarshall/contracthub-backend/internal/auth"
	"github.com/heartmarshall/contracthub-backend/internal/changes"
	"github.com/heartmarshall/contracthub-backend/internal/codec"
	"github.com/heartmarshall/contracthub-backend/internal/config"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
	"github.com/heartmarshall/contracthub-backend/internal/populate"
	authsvc "github.com/heartmarshall/contracthub-backend/internal/service/auth"
	"github.com/heartmarshall/contracthub-backend/internal/service/contract"
	"github.com/heartmarshall/contracthub-backend/internal/service/crud"
	"github.com/heartmarshall/contracthub-backend/internal/service/organization"
	"github.com/heartmarshall/contracthub-backend/internal/service/profile"
	"github.com/heartmarshall/contracthub-backend/internal/service/relationship"
	"github.com/heartmarshall/contracthub-backend/internal/service/user"
	"github.com/heartmarshall/contracthub-backend/internal/transport/binding"
	"github.com/heartmarshall/contracthub-backend/internal/transport/graphql"
	"github.com/heartmarshall/contracthub-backend/internal/transport/middleware"
	"github.com/heartmarshall/contracthub-backend/internal/transport/rest"
	"github.com/heartmarshall/contracthub-backend/internal/transport/ws"
)

// Run is the server entry point. It wires storage, services and transports
// and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		rdb, err = redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer rdb.Close()
	} else {
		logger.Warn("redis disabled, running without document cache and change bus")
	}

	srv, err := newServer(cfg, logger, pool, rdb)
	if err != nil {
		return err
	}
	return srv.serve(ctx)
}

// server is a fully wired application instance.
type server struct {
	cfg     *config.Config
	log     *slog.Logger
	http    *http.Server
	hub     *ws.Hub
	bus     *redis.ChangeBus
	limiter *middleware.RateLimiter
}

func newServer(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool, rdb *goredis.Client) (*server, error) {
	codecs, err := codec.NewRegistry(cfg.Codec.Secret, cfg.Codec.MinLength)
	if err != nil {
		return nil, fmt.Errorf("build codecs: %w", err)
	}

	users := userrepo.New(pool)
	goals := goalrepo.New(pool)
	sources := &populate.Sources{Users: users, Goals: goals}
	resolver := populate.NewResolver(sources, codecs)

	hub := ws.NewHub(logger, ws.Options{
		OriginPatterns: cfg.Realtime.Origins(),
		PingInterval:   cfg.Realtime.PingInterval,
		SendBuffer:     cfg.Realtime.SendBuffer,
		Types: []domain.EntityType{
			domain.EntityTypeContract,
			domain.EntityTypeOrganization,
			domain.EntityTypeRelationship,
		},
	})

	fanout := changes.NewFanout(logger)
	s := &server{cfg: cfg, log: logger, hub: hub}

	var cache *redis.Cache
	if rdb != nil {
		if cfg.Cache.Enabled {
			cache = redis.NewCache(rdb, cfg.Cache.TTL)
			fanout.Add(cache)
		}
		// Clients hear about changes from every instance through the bus.
		s.bus = redis.NewChangeBus(rdb, logger)
		fanout.Add(s.bus)
	} else {
		fanout.Add(hub)
	}

	// A nil history interface makes the admin history endpoint report
	// not found instead of querying an unused table.
	var history *auditrepo.Repo
	if cfg.Audit.Enabled {
		history = auditrepo.New(pool)
		fanout.Add(history)
	}

	cols := wireCollections(pool, codecs, resolver, fanout, cache, logger)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	authService := authsvc.NewService(logger, users, jwtManager, cfg.Auth)
	profileService := profile.NewService(logger, users, goals, codecs)
	var adminService *user.Service
	if history != nil {
		adminService = user.NewService(logger, users, history, codecs)
	} else {
		adminService = user.NewService(logger, users, nil, codecs)
	}

	schema, err := graphql.LoadSchema()
	if err != nil {
		return nil, fmt.Errorf("load graphql schema: %w", err)
	}
	gqlSchema := graphql.NewExecutableSchema(schema, cols, profileService, logger)

	health := rest.NewHealthHandler(pool, BuildVersion())
	if rdb != nil {
		health.AddCheck("redis", rest.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
	}

	var records []*rest.RecordHandler
	for _, col := range cols.All() {
		records = append(records, rest.NewRecordHandler(col, logger))
	}

	s.limiter = middleware.NewRateLimiter(time.Minute)
	handler := NewRouter(Handlers{
		Health:   health,
		Auth:     rest.NewAuthHandler(authService, codecs, logger),
		Profile:  rest.NewProfileHandler(profileService, logger),
		Admin:    rest.NewAdminHandler(adminService, logger),
		Records:  records,
		GraphQL:  graphql.NewHandler(gqlSchema, logger, graphql.Limits{
			MaxDepth:      cfg.GraphQL.MaxDepth,
			MaxComplexity: cfg.GraphQL.MaxComplexity,
		}),
		Realtime: hub,
	}, RouterDeps{
		Logger:     logger,
		CORS:       cfg.CORS,
		Tokens:     authService,
		Populate:   sources,
		Limiter:    s.limiter,
		LoginRate:  cfg.Auth.LoginRatePerMinute,
		Playground: cfg.GraphQL.PlaygroundEnabled,
	})

	s.http = &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s, nil
}

// wireCollections builds the record services and binds them for the
// transports. cache may be nil.
func wireCollections(pool *pgxpool.Pool, codecs *codec.Registry, resolver *populate.Resolver,
	fanout *changes.Fanout, cache *redis.Cache, logger *slog.Logger) *binding.Registry {
	txm := postgres.NewTxManager(pool)
	deps := func(t domain.EntityType) crud.Deps {
		d := crud.Deps{
			Codec:     codecs.For(t),
			Populator: resolver,
			Changes:   fanout,
			Tx:        txm,
		}
		// Leave Cache as a nil interface rather than a typed nil.
		if cache != nil {
			d.Cache = cache
		}
		return d
	}

	contracts := contract.NewService(logger, contractrepo.New(pool), deps(domain.EntityTypeContract))
	organizations := organization.NewService(logger, organizationrepo.New(pool), deps(domain.EntityTypeOrganization))
	relationships := relationship.NewService(logger, relationshiprepo.New(pool), deps(domain.EntityTypeRelationship))

	return binding.NewRegistry(
		binding.Bind(contracts, binding.ContractBinder{}),
		binding.Bind(organizations, binding.OrganizationBinder{}),
		binding.Bind(relationships, binding.RelationshipBinder{Codes: codecs}),
	)
}

// NewCollections wires the record collections for offline tools. Changes go
// to the audit log only, so running servers keep their caches until the TTL
// expires.
func NewCollections(cfg *config.Config, logger *slog.Logger, pool *pgxpool.Pool) (*binding.Registry, error) {
	codecs, err := codec.NewRegistry(cfg.Codec.Secret, cfg.Codec.MinLength)
	if err != nil {
		return nil, fmt.Errorf("build codecs: %w", err)
	}
	resolver := populate.NewResolver(&populate.Sources{Users: userrepo.New(pool), Goals: goalrepo.New(pool)}, codecs)

	fanout := changes.NewFanout(logger)
	if cfg.Audit.Enabled {
		fanout.Add(auditrepo.New(pool))
	}
	return wireCollections(pool, codecs, resolver, fanout, nil, logger), nil
}

// serve runs the HTTP server and, with Redis, the change bus subscriber.
// Cancelling ctx shuts both down gracefully.
func (s *server) serve(ctx context.Context) error {
	defer s.limiter.Stop()

	g, gctx := errgroup.WithContext(ctx)

	if s.bus != nil {
		g.Go(func() error {
			ready := make(chan struct{})
			err := s.bus.Subscribe(gctx, ready, func(ev domain.ChangeEvent) {
				_ = s.hub.Notify(gctx, ev)
			})
			if err != nil {
				return fmt.Errorf("change bus: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		s.log.Info("http server listening", slog.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down")
		s.hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}
