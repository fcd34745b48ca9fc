package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"library-route-service/internal/api/handlers"
	"library-route-service/internal/ports"
	"library-route-service/internal/services"
)

type Deps struct {
	Resolver  ports.RegionResolver
	Directory ports.FacilityDirectory
	Catalog   ports.BookCatalog
	Planner   *services.WalkingRoutePlanner

	DefaultSpeedKmh    float64
	CORSOrigins        []string
	RateLimitPerMinute int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(chimiddleware.Recoverer)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	libHandler := &handlers.LibraryHandler{
		Resolver:        d.Resolver,
		Directory:       d.Directory,
		DefaultSpeedKmh: d.DefaultSpeedKmh,
	}
	routeHandler := &handlers.RouteHandler{
		Planner:         d.Planner,
		DefaultSpeedKmh: d.DefaultSpeedKmh,
	}
	bookHandler := &handlers.BookHandler{Catalog: d.Catalog}

	r.Group(func(r chi.Router) {
		if d.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(d.RateLimitPerMinute, time.Minute))
		}
		r.Post("/libraries/nearest", libHandler.Nearest)
		r.Post("/routes", routeHandler.Plan)
		r.Get("/books/popular", bookHandler.Popular)
	})

	return r
}
