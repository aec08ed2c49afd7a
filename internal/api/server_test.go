package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bizhealth/internal/assess"
	"github.com/sells-group/bizhealth/internal/config"
	"github.com/sells-group/bizhealth/internal/health"
	"github.com/sells-group/bizhealth/internal/model"
	"github.com/sells-group/bizhealth/internal/store"
)

var fixedNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

const greentechJSON = `{
	"id": "greentech",
	"title": "GreenTech Solutions",
	"category": "TECHNOLOGY",
	"revenue": 425000,
	"profit": 85000,
	"gross_margin": 0.68,
	"net_margin": 0.20,
	"yearly_growth": 0.15,
	"employees": 12,
	"established": "2019-01-01T00:00:00Z"
}`

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{Port: 8080, AllowedOrigins: []string{"*"}}
}

func newTestRouter(t *testing.T, cfg config.ServerConfig, calc *health.Calculator) (http.Handler, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	if calc == nil {
		calc = health.NewCalculator(health.WithClock(func() time.Time { return fixedNow }))
	}
	return NewRouter(assess.New(st, calc), cfg), st
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, testServerConfig(), nil)
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCalculate(t *testing.T) {
	h, _ := newTestRouter(t, testServerConfig(), nil)
	rec := do(t, h, http.MethodPost, "/v1/health/calculate", greentechJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got assess.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "greentech", got.BusinessID)
	assert.Equal(t, 66, got.Result.Scores.Overall)
	assert.Equal(t, health.TrajectoryImproving, got.Result.Scores.Trajectory)
	assert.NotEmpty(t, got.Insights.Summary)
}

func TestCalculate_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t, testServerConfig(), nil)

	rec := do(t, h, http.MethodPost, "/v1/health/calculate", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/health/calculate", `{"category":"RETAIL"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")

	rec = do(t, h, http.MethodPost, "/v1/health/calculate", `{"title":"A","employees":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "employees must be at least 0")
}

func TestCalculate_CalculationErrorIs422(t *testing.T) {
	calc := health.NewCalculator(health.WithClock(func() time.Time { panic("clock failure") }))
	h, _ := newTestRouter(t, testServerConfig(), calc)

	rec := do(t, h, http.MethodPost, "/v1/health/calculate", greentechJSON)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"health score calculation failed","code":"CALCULATION_ERROR"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "clock failure")
}

func TestBusinessHealthAndMetrics(t *testing.T) {
	h, st := newTestRouter(t, testServerConfig(), nil)
	require.NoError(t, st.UpsertBusiness(context.Background(), &model.Business{
		ID:           "bakery",
		Title:        "Main Street Bakery",
		Category:     model.CategoryRestaurant,
		Revenue:      model.Money(185000),
		Profit:       model.Money(12000),
		YearlyGrowth: model.Float(-0.08),
		Employees:    model.Int(8),
	}))

	rec := do(t, h, http.MethodGet, "/v1/businesses/missing/health", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/businesses/bakery/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var a assess.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, health.TrajectoryDeclining, a.Result.Scores.Trajectory)
	assert.Empty(t, a.MetricID)

	rec = do(t, h, http.MethodGet, "/v1/businesses/bakery/health?save=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.NotEmpty(t, a.MetricID)

	rec = do(t, h, http.MethodGet, "/v1/businesses/bakery/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		BusinessID string                `json:"business_id"`
		Metrics    []health.MetricRecord `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Metrics, 1)
	assert.Equal(t, a.MetricID, history.Metrics[0].ID)

	rec = do(t, h, http.MethodGet, "/v1/businesses/other/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"metrics":[]`)

	rec = do(t, h, http.MethodGet, "/v1/businesses/bakery/metrics?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsights(t *testing.T) {
	h, _ := newTestRouter(t, testServerConfig(), nil)

	rec := do(t, h, http.MethodPost, "/v1/health/calculate", greentechJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	var a assess.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))

	body, err := json.Marshal(a.Result)
	require.NoError(t, err)
	rec = do(t, h, http.MethodPost, "/v1/health/insights", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var ins health.Insights
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ins))
	assert.Equal(t, a.Insights, ins)
}

func TestRateLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 1
	h, _ := newTestRouter(t, cfg, nil)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/v1/health/calculate", greentechJSON).Code)
	rec := do(t, h, http.MethodPost, "/v1/health/calculate", greentechJSON)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Health checks are not throttled.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
}

func TestCORS(t *testing.T) {
	cfg := testServerConfig()
	cfg.AllowedOrigins = []string{"https://app.example.com"}
	h, _ := newTestRouter(t, cfg, nil)

	req := httptest.NewRequest(http.MethodOptions, "/v1/health/calculate", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, testServerConfig(), nil)
	do(t, h, http.MethodGet, "/health", "")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bizhealth_http_requests_total")
}
