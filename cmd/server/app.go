package main

import (
	"net/http"
	"time"

	"github.com/diewo77/clientpath/auth"
	"github.com/diewo77/clientpath/httpx"
	"github.com/diewo77/clientpath/internal/config"
	"github.com/diewo77/clientpath/internal/handlers"
	"github.com/diewo77/clientpath/internal/metrics"
	"github.com/diewo77/clientpath/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Options tune the router beyond what the store provides.
type Options struct {
	// DemoUserID, when set, serves requests without credentials as that user.
	DemoUserID uint
	RateLimit  float64
	RateBurst  int
}

func optionsFromConfig(cfg *config.Config) Options {
	return Options{RateLimit: cfg.Auth.RateLimit, RateBurst: cfg.Auth.RateBurst}
}

// NewApp builds the HTTP handler: probes and metrics at the root, the JSON
// API under /api.
func NewApp(store storage.Store, lg *zap.SugaredLogger, opts Options) http.Handler {
	if lg == nil {
		lg = zap.NewNop().Sugar()
	}
	api := handlers.NewAPI(store, lg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(requestLogger(lg))
	r.Use(metrics.InstrumentHandler)

	r.Get("/health", api.Health.Live)
	r.Get("/healthz", api.Health.Ready)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware)
		if opts.DemoUserID != 0 {
			r.Use(auth.DefaultUser(opts.DemoUserID))
		}
		r.Group(func(r chi.Router) {
			if opts.RateLimit > 0 {
				r.Use(httpx.NewRateLimiter(opts.RateLimit, opts.RateBurst).Middleware)
			}
			api.PublicRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			api.Routes(r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
	return r
}

// requestLogger logs one line per request with its status and latency.
func requestLogger(lg *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			lg.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
