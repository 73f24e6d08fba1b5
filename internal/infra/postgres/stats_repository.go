package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"filmbot/internal/domain/history"
	"filmbot/internal/domain/repository"
)

var _ repository.StatRepository = (*StatRepository)(nil)

// StatRepository reads film_stats rows backed by PostgreSQL.
type StatRepository struct {
	pool *pgxpool.Pool
}

// NewStatRepository creates a new StatRepository.
func NewStatRepository(pool *pgxpool.Pool) *StatRepository {
	return &StatRepository{pool: pool}
}

// ListPage returns one page of a user's counters, most searched first.
func (r *StatRepository) ListPage(ctx context.Context, userID int64, limit, offset int) ([]history.Stat, error) {
	if limit <= 0 {
		limit = history.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT user_id, film_id, film_title, count
FROM film_stats
WHERE user_id = $1
ORDER BY count DESC
LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stats: %w", err)
	}
	defer rows.Close()

	var stats []history.Stat
	for rows.Next() {
		var s history.Stat
		if err := rows.Scan(&s.UserID, &s.FilmID, &s.FilmTitle, &s.Count); err != nil {
			return nil, fmt.Errorf("scan stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Count returns the number of distinct films the user has searched.
func (r *StatRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM film_stats WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count stats: %w", err)
	}
	return total, nil
}
