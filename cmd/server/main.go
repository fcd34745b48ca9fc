package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"library-route-service/internal/adapters/cache"
	"library-route-service/internal/adapters/graphsource"
	"library-route-service/internal/adapters/kakao"
	"library-route-service/internal/adapters/library"
	"library-route-service/internal/adapters/repositories"
	"library-route-service/internal/api"
	"library-route-service/internal/config"
	"library-route-service/internal/platform/db"
	"library-route-service/internal/platform/httpx"
	"library-route-service/internal/platform/logging"
	"library-route-service/internal/ports"
	"library-route-service/internal/services"
)

// libraryCacheMaxAge bounds how stale a cached region listing may be.
const libraryCacheMaxAge = 24 * time.Hour

// main is the application composition root.
// It wires concrete adapters (Kakao, data4library, Overpass, Postgres, Redis)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sqlDB *sql.DB
	if cfg.Database.URL != "" {
		sqlDB, err = db.Open(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		defer sqlDB.Close()

		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			log.Fatal().Err(err).Msg("init schema")
		}
	}

	resolver, err := buildResolver(cfg, sqlDB)
	if err != nil {
		log.Fatal().Err(err).Msg("region resolver")
	}
	directory, catalog, err := buildLibraries(cfg, sqlDB)
	if err != nil {
		log.Fatal().Err(err).Msg("library directory")
	}
	graphs, closeGraphs, err := buildGraphProvider(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("graph provider")
	}
	defer closeGraphs()

	router := api.NewRouter(api.Deps{
		Resolver:  resolver,
		Directory: directory,
		Catalog:   catalog,
		Planner: &services.WalkingRoutePlanner{
			Graphs:          graphs,
			Resolver:        resolver,
			Directory:       directory,
			RadiusFactor:    cfg.Graph.RadiusFactor,
			MinRadiusMeters: cfg.Graph.MinRadiusMeters,
			SearchTimeout:   cfg.Routing.SearchTimeout,
		},
		DefaultSpeedKmh:    cfg.Routing.DefaultSpeedKmh,
		CORSOrigins:        cfg.Server.CORSOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	})

	// Timeouts are tuned for cold-cache route planning (Overpass latency).
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", srv.Addr).Str("graph_source", cfg.Graph.Source).Str("facilities_source", cfg.Facilities.Source).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("serve")
	}
}

func buildResolver(cfg *config.Config, sqlDB *sql.DB) (ports.RegionResolver, error) {
	client, err := kakao.NewClient(cfg.Kakao.APIKey, cfg.Kakao.BaseURL, httpx.New(httpx.Options{
		Name:            "kakao",
		Timeout:         10 * time.Second,
		BreakerFailures: 5,
	}))
	if err != nil {
		return nil, err
	}
	if sqlDB == nil {
		return client, nil
	}
	return cache.NewSQLRegionCache(sqlDB, client), nil
}

// buildLibraries returns the facility directory and book catalog. With
// facilities.source=db the directory reads the seeded libraries table; the
// catalog always needs the API.
func buildLibraries(cfg *config.Config, sqlDB *sql.DB) (ports.FacilityDirectory, ports.BookCatalog, error) {
	client, err := library.NewClient(cfg.Library.APIKey, cfg.Library.BaseURL, cfg.Library.PageSize, httpx.New(httpx.Options{
		Name:            "data4library",
		Timeout:         15 * time.Second,
		BreakerFailures: 5,
	}))
	if err != nil {
		return nil, nil, err
	}

	switch {
	case cfg.Facilities.Source == "db":
		if sqlDB == nil {
			return nil, nil, errors.New("facilities.source=db requires database.url")
		}
		return repositories.NewPostgresLibraryRepository(sqlDB), client, nil
	case sqlDB != nil:
		return cache.NewSQLFacilityCache(sqlDB, client, libraryCacheMaxAge), client, nil
	default:
		return client, client, nil
	}
}

func buildGraphProvider(ctx context.Context, cfg *config.Config) (ports.GraphProvider, func(), error) {
	var provider ports.GraphProvider
	switch cfg.Graph.Source {
	case "pbf":
		provider = graphsource.NewPBFProvider(cfg.Graph.PBFPath)
	case "file":
		provider = graphsource.NewFileProvider(cfg.Graph.FilePath)
	default:
		provider = graphsource.NewOverpassProvider(cfg.Overpass.URL, httpx.New(httpx.Options{
			Name:              "overpass",
			Timeout:           cfg.Overpass.Timeout,
			RequestsPerMinute: cfg.Overpass.RequestsPerMinute,
			BreakerFailures:   3,
		}))
	}

	if cfg.Redis.Addr == "" {
		return provider, func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// Routing still works without the cache, only slower.
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, graph cache disabled")
		_ = rdb.Close()
		return provider, func() {}, nil
	}

	closeFn := func() { _ = rdb.Close() }
	return cache.NewRedisGraphCache(rdb, provider, cfg.Redis.GraphTTL), closeFn, nil
}
