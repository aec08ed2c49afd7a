package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/bizhealth/internal/health"
	"github.com/sells-group/bizhealth/internal/model"
	"github.com/sells-group/bizhealth/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCalculate scores a snapshot posted in the body.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var b model.Business
	if !s.decode(w, r, &b) {
		return
	}
	if err := s.validate.Struct(b); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	a, err := s.svc.Evaluate(&b)
	if err != nil {
		s.calculationFailed(w, r, err)
		return
	}
	overallScores.Observe(float64(a.Result.Scores.Overall))
	writeJSON(w, http.StatusOK, a)
}

// handleInsights digests a previously computed result.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var res health.Result
	if !s.decode(w, r, &res) {
		return
	}
	writeJSON(w, http.StatusOK, health.GenerateInsightsWith(&res, s.svc.Calculator().Weights()))
}

// handleBusinessHealth scores a stored business; ?save=true persists the
// metric record.
func (s *Server) handleBusinessHealth(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	save, _ := strconv.ParseBool(r.URL.Query().Get("save"))

	a, err := s.svc.ScoreOne(r.Context(), id, save)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "business not found")
		return
	case health.IsCalculationError(err):
		s.calculationFailed(w, r, err)
		return
	case err != nil:
		zap.L().Error("score business", zap.String("business_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	overallScores.Observe(float64(a.Result.Scores.Overall))
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleBusinessMetrics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	recs, err := s.svc.History(r.Context(), id, limit)
	if err != nil {
		zap.L().Error("metric history", zap.String("business_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if recs == nil {
		recs = []health.MetricRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"business_id": id, "metrics": recs})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// calculationFailed logs the full error and returns a generic 422.
func (s *Server) calculationFailed(w http.ResponseWriter, r *http.Request, err error) {
	calculationFailures.Inc()
	zap.L().Error("health calculation failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error: "health score calculation failed",
		Code:  health.CodeCalculation,
	})
}
