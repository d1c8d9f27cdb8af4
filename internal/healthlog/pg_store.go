package healthlog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jianyou-wu/medical-app/internal/vitals"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGStore keeps the log in the health_log table.
type PGStore struct {
	db queryable
}

// NewPGStore returns a store using pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{db: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS health_log (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	log_date    TEXT NOT NULL,
	bp          TEXT NOT NULL,
	hr          TEXT NOT NULL,
	temp        TEXT NOT NULL,
	alerts      TEXT[] NOT NULL DEFAULT '{}',
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS health_log_name_idx ON health_log (name, recorded_at DESC);`

// EnsureSchema creates the table if it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create health_log: %w", err)
	}
	return nil
}

func (s *PGStore) Append(ctx context.Context, e Entry) error {
	alerts := make([]string, len(e.Alerts))
	for i, a := range e.Alerts {
		alerts[i] = string(a)
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO health_log (id, name, log_date, bp, hr, temp, alerts, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Name, e.Date, e.BP, e.HR, e.Temp, alerts, e.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert health_log: %w", err)
	}
	return nil
}

func (s *PGStore) List(ctx context.Context, name string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, name, log_date, bp, hr, temp, alerts, recorded_at
		FROM health_log
		WHERE $1 = '' OR name = $1
		ORDER BY recorded_at DESC
		LIMIT $2`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("query health_log: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var (
			e      Entry
			alerts []string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Date, &e.BP, &e.HR, &e.Temp, &alerts, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan health_log: %w", err)
		}
		e.Alerts = make([]vitals.Label, len(alerts))
		for i, a := range alerts {
			e.Alerts[i] = vitals.Label(a)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate health_log: %w", err)
	}
	return out, nil
}
