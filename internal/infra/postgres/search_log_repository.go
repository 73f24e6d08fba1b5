package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"filmbot/internal/domain/film"
	"filmbot/internal/domain/repository"
)

var _ repository.SearchLogRepository = (*SearchLogRepository)(nil)

// SearchLogRepository writes the history entry and the stat counter for one
// successful search inside a single transaction, so readers never observe a
// history row without its counter increment or vice versa.
type SearchLogRepository struct {
	pool *pgxpool.Pool
}

// NewSearchLogRepository creates a new SearchLogRepository.
func NewSearchLogRepository(pool *pgxpool.Pool) *SearchLogRepository {
	return &SearchLogRepository{pool: pool}
}

// Record appends a history entry and increments the (user, film) counter.
// The upsert is a single conditional statement, so two concurrent searches
// for the same film both land: no lost updates.
func (r *SearchLogRepository) Record(ctx context.Context, userID int64, f film.Summary) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin record search: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const insertHistory = `
INSERT INTO search_history (user_id, film_id, film_title)
VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, insertHistory, userID, f.ID, f.Title); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	const upsertStat = `
INSERT INTO film_stats (user_id, film_id, film_title, count)
VALUES ($1, $2, $3, 1)
ON CONFLICT (user_id, film_id) DO UPDATE
SET count = film_stats.count + 1`
	if _, err := tx.Exec(ctx, upsertStat, userID, f.ID, f.Title); err != nil {
		return fmt.Errorf("upsert stat: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit record search: %w", err)
	}
	return nil
}
