package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the bot's tables when they do not exist yet. The
// schema is owned by this process; there is no separate migration step.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const historyTable = `
CREATE TABLE IF NOT EXISTS search_history (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	film_id BIGINT NOT NULL,
	film_title TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	const statsTable = `
CREATE TABLE IF NOT EXISTS film_stats (
	user_id BIGINT NOT NULL,
	film_id BIGINT NOT NULL,
	film_title TEXT NOT NULL,
	count INT NOT NULL DEFAULT 1,
	PRIMARY KEY (user_id, film_id)
)`
	if _, err := pool.Exec(ctx, historyTable); err != nil {
		return fmt.Errorf("create search_history: %w", err)
	}
	if _, err := pool.Exec(ctx, statsTable); err != nil {
		return fmt.Errorf("create film_stats: %w", err)
	}
	return nil
}
