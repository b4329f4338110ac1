package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raushankrgupta/user-meets/utils"
)

type RouterConfig struct {
	JWTSecret      string
	RateLimit      int // requests per minute per client IP, 0 disables
	RequestTimeout time.Duration
}

// NewRouter wires the meets routes behind auth, plus health and metrics.
func NewRouter(cfg RouterConfig, meetsH *MeetsHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(LatencyMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	}))
	if cfg.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
	}

	r.Get("/health", Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.JWTSecret))
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}

		r.Get("/meets", meetsH.GetMeets)
		r.Delete("/meets/history", meetsH.ResetHistory)
		r.Get("/meets/{userId}", meetsH.GetUserProfile)
		r.Post("/meets/{userId}/pass", meetsH.PassUser)
		r.Post("/meets/{userId}/view", meetsH.MarkViewed)
	})

	return r
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
