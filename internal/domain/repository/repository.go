package repository

import (
	"context"

	"filmbot/internal/domain/film"
	"filmbot/internal/domain/history"
)

// HistoryRepository reads a user's search history.
type HistoryRepository interface {
	ListPage(ctx context.Context, userID int64, limit, offset int) ([]history.Entry, error)
	Count(ctx context.Context, userID int64) (int64, error)
}

// StatRepository reads a user's per-film search counters.
type StatRepository interface {
	ListPage(ctx context.Context, userID int64, limit, offset int) ([]history.Stat, error)
	Count(ctx context.Context, userID int64) (int64, error)
}

// SearchLogRepository durably records one successful search: it appends a
// history entry and increments the matching stat counter as a single unit.
type SearchLogRepository interface {
	Record(ctx context.Context, userID int64, f film.Summary) error
}
