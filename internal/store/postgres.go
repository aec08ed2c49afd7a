package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/bizhealth/internal/db"
	"github.com/sells-group/bizhealth/internal/health"
	"github.com/sells-group/bizhealth/internal/model"
)

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres wraps an open pool. The store owns the pool and closes it.
func NewPostgres(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying pool for callers that need direct queries.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS businesses (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	snapshot   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS health_metrics (
	id                   TEXT PRIMARY KEY,
	business_id          TEXT NOT NULL,
	calculated_at        TIMESTAMPTZ NOT NULL,
	overall_score        INTEGER NOT NULL,
	financial_score      INTEGER NOT NULL,
	growth_score         INTEGER NOT NULL,
	operational_score    INTEGER NOT NULL,
	sale_readiness_score INTEGER NOT NULL,
	confidence_score     INTEGER NOT NULL,
	trajectory           TEXT NOT NULL,
	breakdown            JSONB NOT NULL,
	confidence           JSONB NOT NULL,
	algorithm_version    TEXT NOT NULL,
	data_version         TEXT NOT NULL,
	config_hash          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_businesses_category ON businesses(category);
CREATE INDEX IF NOT EXISTS idx_health_metrics_business ON health_metrics(business_id, calculated_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertBusiness(ctx context.Context, b *model.Business) error {
	data, err := prepareBusiness(b)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO businesses (id, title, category, snapshot, updated_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, category = EXCLUDED.category,
		 snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at`,
		b.ID, b.Title, string(b.Category), data, b.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: upsert business %s", b.ID)
}

var businessUpsert = db.UpsertConfig{
	Table:        "businesses",
	Columns:      []string{"id", "title", "category", "snapshot", "updated_at"},
	ConflictKeys: []string{"id"},
}

// UpsertBusinesses loads a batch through COPY and a single merge.
func (s *PostgresStore) UpsertBusinesses(ctx context.Context, bs []model.Business) (int, error) {
	rows := make([][]any, 0, len(bs))
	for i := range bs {
		b := &bs[i]
		data, err := prepareBusiness(b)
		if err != nil {
			return 0, err
		}
		rows = append(rows, []any{b.ID, b.Title, string(b.Category), json.RawMessage(data), b.UpdatedAt})
	}
	n, err := db.BulkUpsert(ctx, s.pool, businessUpsert, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: upsert businesses")
	}
	return int(n), nil
}

func (s *PostgresStore) GetBusiness(ctx context.Context, id string) (*model.Business, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT snapshot FROM businesses WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get business %s", id)
	}
	return decodeBusiness(data)
}

func (s *PostgresStore) ListBusinesses(ctx context.Context, filter BusinessFilter) ([]model.Business, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT snapshot FROM businesses WHERE ($1 = '' OR category = $1) ORDER BY id LIMIT $2 OFFSET $3`,
		string(filter.Category), limitOrDefault(filter.Limit), max(filter.Offset, 0),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list businesses")
	}
	defer rows.Close()

	var out []model.Business
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan business")
		}
		b, err := decodeBusiness(data)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list businesses iterate")
}

func (s *PostgresStore) SaveMetric(ctx context.Context, rec health.MetricRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO health_metrics (`+metricColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rec.ID, rec.BusinessID, rec.CalculatedAt, rec.OverallScore, rec.FinancialScore,
		rec.GrowthScore, rec.OperationalScore, rec.SaleReadiness, rec.ConfidenceScore,
		string(rec.Trajectory), []byte(rec.Breakdown), []byte(rec.Confidence),
		rec.AlgorithmVersion, rec.DataVersion, rec.ConfigHash,
	)
	return eris.Wrapf(err, "postgres: insert metric for %s", rec.BusinessID)
}

func (s *PostgresStore) LatestMetric(ctx context.Context, businessID string) (*health.MetricRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+metricColumns+` FROM health_metrics WHERE business_id = $1 ORDER BY calculated_at DESC LIMIT 1`,
		businessID,
	)
	rec, err := scanMetric(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: latest metric for %s", businessID)
	}
	return rec, nil
}

func (s *PostgresStore) ListMetrics(ctx context.Context, businessID string, limit int) ([]health.MetricRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+metricColumns+` FROM health_metrics WHERE business_id = $1 ORDER BY calculated_at DESC LIMIT $2`,
		businessID, limitOrDefault(limit),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list metrics for %s", businessID)
	}
	defer rows.Close()

	var out []health.MetricRecord
	for rows.Next() {
		rec, err := scanMetric(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan metric")
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list metrics iterate")
}
