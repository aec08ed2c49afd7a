// Package store persists business snapshots and computed health metrics.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/bizhealth/internal/config"
	"github.com/sells-group/bizhealth/internal/db"
	"github.com/sells-group/bizhealth/internal/health"
	"github.com/sells-group/bizhealth/internal/model"
)

// ErrNotFound is returned when a business or metric does not exist.
var ErrNotFound = eris.New("store: not found")

// BusinessFilter specifies criteria for listing businesses.
type BusinessFilter struct {
	Category model.Category `json:"category,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Offset   int            `json:"offset,omitempty"`
}

// Store defines the persistence interface for snapshots and metrics.
type Store interface {
	// Businesses
	UpsertBusiness(ctx context.Context, b *model.Business) error
	UpsertBusinesses(ctx context.Context, bs []model.Business) (int, error)
	GetBusiness(ctx context.Context, id string) (*model.Business, error)
	ListBusinesses(ctx context.Context, filter BusinessFilter) ([]model.Business, error)

	// Health metrics
	SaveMetric(ctx context.Context, rec health.MetricRecord) error
	LatestMetric(ctx context.Context, businessID string) (*health.MetricRecord, error)
	ListMetrics(ctx context.Context, businessID string, limit int) ([]health.MetricRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolConfig{
			MaxConns: cfg.MaxConns,
			MinConns: cfg.MinConns,
		})
		if err != nil {
			return nil, eris.Wrap(err, "store: open postgres")
		}
		return NewPostgres(pool), nil
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

const defaultLimit = 100

func limitOrDefault(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	return n
}

// prepareBusiness assigns an id when missing, stamps UpdatedAt and returns
// the JSON snapshot to persist.
func prepareBusiness(b *model.Business) ([]byte, error) {
	if b == nil {
		return nil, eris.New("store: business is required")
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(b)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal business")
	}
	return data, nil
}

func decodeBusiness(data []byte) (*model.Business, error) {
	var b model.Business
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal business")
	}
	return &b, nil
}
