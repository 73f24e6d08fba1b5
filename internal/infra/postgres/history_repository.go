package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"filmbot/internal/domain/history"
	"filmbot/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepository)(nil)

// HistoryRepository reads search_history rows backed by PostgreSQL.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// ListPage returns one page of a user's history, newest first.
func (r *HistoryRepository) ListPage(ctx context.Context, userID int64, limit, offset int) ([]history.Entry, error) {
	if limit <= 0 {
		limit = history.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT user_id, film_id, film_title, timestamp
FROM search_history
WHERE user_id = $1
ORDER BY timestamp DESC
LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var e history.Entry
		if err := rows.Scan(&e.UserID, &e.FilmID, &e.FilmTitle, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the total number of history rows for a user.
func (r *HistoryRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM search_history WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return total, nil
}
