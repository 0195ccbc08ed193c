package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
	id          BIGSERIAL PRIMARY KEY,
	film_id     INTEGER NOT NULL,
	rating      SMALLINT,
	comment     TEXT,
	appended_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS reviews_film_id_idx ON reviews (film_id);

CREATE TABLE IF NOT EXISTS failed_pages (
	id               BIGSERIAL PRIMARY KEY,
	film_id          INTEGER NOT NULL,
	page             INTEGER NOT NULL,
	url              TEXT NOT NULL,
	failure_reason   TEXT NOT NULL,
	http_status_code INTEGER NOT NULL DEFAULT 0,
	attempted_at     TIMESTAMPTZ NOT NULL,
	attempt_count    INTEGER NOT NULL DEFAULT 1,
	UNIQUE (film_id, page)
);
`

// EnsureSchema creates the tables used by the Postgres adapters if they are missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
