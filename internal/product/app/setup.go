// Package app contains the application setup for the product catalog.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fernando061/software-architecture-styles/internal/product/config"
	"github.com/fernando061/software-architecture-styles/internal/product/migrations"
	"github.com/fernando061/software-architecture-styles/internal/product/service"
	"github.com/fernando061/software-architecture-styles/internal/product/store"
	grpcImpl "github.com/fernando061/software-architecture-styles/internal/product/transport/grpc"
	"github.com/fernando061/software-architecture-styles/internal/product/transport/rest"
	"github.com/fernando061/software-architecture-styles/pkg/bootstrap"
	pkgconfig "github.com/fernando061/software-architecture-styles/pkg/config"
	"github.com/fernando061/software-architecture-styles/pkg/messaging"
	"github.com/fernando061/software-architecture-styles/pkg/messaging/events"
	pkgnats "github.com/fernando061/software-architecture-styles/pkg/nats"
	"github.com/fernando061/software-architecture-styles/pkg/server"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
)

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
}

func SetupDependencies(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		ProductService: service.NewService(repo, publisher),
		Logger:         logger,
	}
}

// SetupStore opens the store selected by cfg.Store.Driver. The returned func releases its connections.
func SetupStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ProductStore, func(), error) {
	var opts []store.Option
	if cfg.Store.Seed {
		opts = append(opts, store.WithSeed(store.DemoCatalog(time.Now())...))
	}

	switch cfg.Store.Driver {
	case pkgconfig.StoreDriverPostgres:
		if cfg.Database.Migrate {
			if err := bootstrap.Migrate(migrations.FS, ".", cfg.Database.URL); err != nil {
				return nil, nil, err
			}
			logger.Info("Database migrations applied")
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		logger.Info("Successfully connected to the database!")
		if cfg.Store.Seed {
			logger.Warn("store.seed is ignored for the postgres store")
		}
		return store.NewPgStore(dbPool), dbPool.Close, nil

	case pkgconfig.StoreDriverSqlite:
		db, err := store.OpenSqlite(cfg.Store.Sqlite.Path)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		gormStore, err := store.NewGormStore(ctx, db, opts...)
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		logger.Info("Using sqlite store", slog.String("path", cfg.Store.Sqlite.Path))
		return gormStore, closeDB, nil

	default:
		logger.Info("Using in-memory store", slog.Bool("seed", cfg.Store.Seed))
		return store.NewInMemoryStore(opts...), func() {}, nil
	}
}

// SetupPublisher connects to NATS JetStream when enabled and makes sure the products stream exists.
// Without NATS, events are dropped.
func SetupPublisher(ctx context.Context, cfg pkgconfig.NATSConfig, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Enabled {
		return messaging.NopPublisher{}, func() {}, nil
	}
	nc, err := pkgnats.NewClient(cfg.Url, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := pkgnats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err := pkgnats.EnsureStream(ctx, js, cfg.Stream, events.ProductsSubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS", slog.String("url", cfg.Url), slog.String("stream", cfg.Stream))
	return pkgnats.NewNatsPublisher(js), nc.Close, nil
}

// SetupHttpHandler initializes the router and routes of the product catalog.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures the HTTP server of the product catalog.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupGrpcServer initializes the gRPC server of the product catalog.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	productRegisterFunc := func(s *grpc.Server) {
		grpcImpl.RegisterProductServiceServer(s, grpcImpl.NewServer(deps.ProductService, deps.Logger))
	}
	return server.NewGRPCServer(reflectionEnabled, productRegisterFunc)
}

// SetupMetricsServer serves the Prometheus handler on /metrics.
func SetupMetricsServer(addr string, metrics http.Handler) *http.Server {
	mux := chi.NewRouter()
	mux.Handle("/metrics", metrics)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
