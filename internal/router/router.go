package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/actuallystonmai/health-advisor/internal/config"
	"github.com/actuallystonmai/health-advisor/internal/handler"
	"github.com/actuallystonmai/health-advisor/internal/ratelimit"
)

const requestIDHeader = "X-Request-ID"

func Setup(h *handler.Handler, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(hlog.NewHandler(logger))
	r.Use(requestID)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(handler.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(ratelimit.ClientLimiter(cfg.ClientRateLimitRPS, cfg.ClientRateLimitBurst))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// Routes
	r.Get("/", h.Banner)
	r.Get("/health", handler.Health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/health-advice", h.HealthAdvice)
		r.Post("/quick-advice", h.QuickAdvice)
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.NotFound)

	return r
}

// requestID reuses the caller's X-Request-ID or assigns a new one, echoes it
// back, and attaches it to the request logger.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := zerolog.Ctx(r.Context()).With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	event := hlog.FromRequest(r).Info()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
	}
	event.
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}
