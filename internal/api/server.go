// Package api exposes the health engine over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sells-group/bizhealth/internal/assess"
	"github.com/sells-group/bizhealth/internal/config"
)

const maxBodyBytes = 1 << 20

// Server holds the handler dependencies.
type Server struct {
	svc      *assess.Service
	validate *validator.Validate
}

// NewRouter builds the HTTP handler for svc.
func NewRouter(svc *assess.Service, cfg config.ServerConfig) http.Handler {
	s := &Server{svc: svc, validate: newValidator()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimit(cfg.RateLimit, cfg.RateBurst))
		r.Use(middleware.Timeout(30 * time.Second))

		r.Post("/health/calculate", s.handleCalculate)
		r.Post("/health/insights", s.handleInsights)
		r.Get("/businesses/{id}/health", s.handleBusinessHealth)
		r.Get("/businesses/{id}/metrics", s.handleBusinessMetrics)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
