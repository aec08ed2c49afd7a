package db

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.Background(), nil, UpsertConfig{Table: "businesses"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  UpsertConfig
		want string
	}{
		{"no table", UpsertConfig{Columns: []string{"id"}, ConflictKeys: []string{"id"}}, "no table specified"},
		{"no columns", UpsertConfig{Table: "businesses", ConflictKeys: []string{"id"}}, "no columns specified"},
		{"no conflict keys", UpsertConfig{Table: "businesses", Columns: []string{"id"}}, "no conflict keys specified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BulkUpsert(context.Background(), nil, tt.cfg, [][]any{{"a"}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBulkUpsert_BeginFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(assert.AnError)

	_, err = BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "businesses",
		Columns:      []string{"id", "title"},
		ConflictKeys: []string{"id"},
	}, [][]any{{"a", "Acme"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSQL(t *testing.T) {
	cfg := UpsertConfig{
		Table:        "public.businesses",
		Columns:      []string{"id", "title", "snapshot"},
		ConflictKeys: []string{"id"},
	}
	got := upsertSQL(cfg, tempTableName(cfg.Table))
	assert.Equal(t,
		`INSERT INTO "public"."businesses" ("id", "title", "snapshot") SELECT "id", "title", "snapshot" FROM "_tmp_upsert_public_businesses" ON CONFLICT ("id") DO UPDATE SET "title" = EXCLUDED."title", "snapshot" = EXCLUDED."snapshot"`,
		got)

	cfg.UpdateCols = []string{}
	assert.Contains(t, upsertSQL(cfg, "tmp"), `ON CONFLICT ("id") DO NOTHING`)
}

func TestSanitizeTable(t *testing.T) {
	assert.Equal(t, `"simple"`, sanitizeTable("simple"))
	assert.Equal(t, `"public"."businesses"`, sanitizeTable("public.businesses"))
}

func TestQuoteAndJoin(t *testing.T) {
	assert.Equal(t, `"id", "name", "value"`, quoteAndJoin([]string{"id", "name", "value"}))
}
