package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/bizhealth/internal/health"
	"github.com/sells-group/bizhealth/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS businesses (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	snapshot   TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS health_metrics (
	id                   TEXT PRIMARY KEY,
	business_id          TEXT NOT NULL,
	calculated_at        DATETIME NOT NULL,
	overall_score        INTEGER NOT NULL,
	financial_score      INTEGER NOT NULL,
	growth_score         INTEGER NOT NULL,
	operational_score    INTEGER NOT NULL,
	sale_readiness_score INTEGER NOT NULL,
	confidence_score     INTEGER NOT NULL,
	trajectory           TEXT NOT NULL,
	breakdown            TEXT NOT NULL,
	confidence           TEXT NOT NULL,
	algorithm_version    TEXT NOT NULL,
	data_version         TEXT NOT NULL,
	config_hash          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_businesses_category ON businesses(category);
CREATE INDEX IF NOT EXISTS idx_health_metrics_business ON health_metrics(business_id, calculated_at DESC);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteUpsertBusiness = `INSERT INTO businesses (id, title, category, snapshot, updated_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET title = excluded.title, category = excluded.category,
	snapshot = excluded.snapshot, updated_at = excluded.updated_at`

func (s *SQLiteStore) UpsertBusiness(ctx context.Context, b *model.Business) error {
	data, err := prepareBusiness(b)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, sqliteUpsertBusiness,
		b.ID, b.Title, string(b.Category), string(data), b.UpdatedAt)
	return eris.Wrapf(err, "sqlite: upsert business %s", b.ID)
}

func (s *SQLiteStore) UpsertBusinesses(ctx context.Context, bs []model.Business) (int, error) {
	if len(bs) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, sqliteUpsertBusiness)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close() //nolint:errcheck

	for i := range bs {
		b := &bs[i]
		data, err := prepareBusiness(b)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, b.ID, b.Title, string(b.Category), string(data), b.UpdatedAt); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert business %s", b.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return len(bs), nil
}

func (s *SQLiteStore) GetBusiness(ctx context.Context, id string) (*model.Business, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM businesses WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get business %s", id)
	}
	return decodeBusiness([]byte(data))
}

func (s *SQLiteStore) ListBusinesses(ctx context.Context, filter BusinessFilter) ([]model.Business, error) {
	query := `SELECT snapshot FROM businesses WHERE 1=1`
	var args []any
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(filter.Category))
	}
	query += ` ORDER BY id LIMIT ?`
	args = append(args, limitOrDefault(filter.Limit))
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list businesses")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Business
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan business")
		}
		b, err := decodeBusiness([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list businesses iterate")
}

const metricColumns = `id, business_id, calculated_at, overall_score, financial_score, growth_score,
	operational_score, sale_readiness_score, confidence_score, trajectory, breakdown, confidence,
	algorithm_version, data_version, config_hash`

func (s *SQLiteStore) SaveMetric(ctx context.Context, rec health.MetricRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO health_metrics (`+metricColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.BusinessID, rec.CalculatedAt.UTC(), rec.OverallScore, rec.FinancialScore,
		rec.GrowthScore, rec.OperationalScore, rec.SaleReadiness, rec.ConfidenceScore,
		string(rec.Trajectory), string(rec.Breakdown), string(rec.Confidence),
		rec.AlgorithmVersion, rec.DataVersion, rec.ConfigHash,
	)
	return eris.Wrapf(err, "sqlite: insert metric for %s", rec.BusinessID)
}

func (s *SQLiteStore) LatestMetric(ctx context.Context, businessID string) (*health.MetricRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+metricColumns+` FROM health_metrics WHERE business_id = ? ORDER BY calculated_at DESC LIMIT 1`,
		businessID,
	)
	rec, err := scanMetric(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: latest metric for %s", businessID)
	}
	return rec, nil
}

func (s *SQLiteStore) ListMetrics(ctx context.Context, businessID string, limit int) ([]health.MetricRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+metricColumns+` FROM health_metrics WHERE business_id = ? ORDER BY calculated_at DESC LIMIT ?`,
		businessID, limitOrDefault(limit),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list metrics for %s", businessID)
	}
	defer rows.Close() //nolint:errcheck

	var out []health.MetricRecord
	for rows.Next() {
		rec, err := scanMetric(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan metric")
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list metrics iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

// scanMetric reads one health_metrics row. It works for both drivers since
// JSON columns are scanned as bytes.
func scanMetric(row scannable) (*health.MetricRecord, error) {
	var rec health.MetricRecord
	var trajectory string
	var breakdown, confidence []byte
	err := row.Scan(&rec.ID, &rec.BusinessID, &rec.CalculatedAt, &rec.OverallScore,
		&rec.FinancialScore, &rec.GrowthScore, &rec.OperationalScore, &rec.SaleReadiness,
		&rec.ConfidenceScore, &trajectory, &breakdown, &confidence,
		&rec.AlgorithmVersion, &rec.DataVersion, &rec.ConfigHash)
	if err != nil {
		return nil, err
	}
	rec.Trajectory = health.Trajectory(trajectory)
	rec.Breakdown = breakdown
	rec.Confidence = confidence
	return &rec, nil
}
