package listing

import (
	"context"
	"fmt"
	"strings"

	"filmbot/internal/domain/history"
)

// Source identifies which list a page was rendered from.
type Source string

const (
	SourceHistory Source = "history"
	SourceStats   Source = "stats"
)

const (
	emptyHistoryText = "История пуста."
	emptyStatsText   = "Нет статистики."
	timestampLayout  = "02.01.2006 15:04"
)

// HistoryRepository reads history rows for page rendering.
type HistoryRepository interface {
	ListPage(ctx context.Context, userID int64, limit, offset int) ([]history.Entry, error)
	Count(ctx context.Context, userID int64) (int64, error)
}

// StatRepository reads stat counters for page rendering.
type StatRepository interface {
	ListPage(ctx context.Context, userID int64, limit, offset int) ([]history.Stat, error)
	Count(ctx context.Context, userID int64) (int64, error)
}

// Page is one rendered list page with its navigation state. Rendering is
// read-only: requesting the same page twice yields the same result.
type Page struct {
	Source  Source
	Index   int
	Text    string
	Empty   bool
	HasPrev bool
	HasNext bool
}

// PrevPage returns the target index for the "previous" action.
func (p Page) PrevPage() int { return p.Index - 1 }

// NextPage returns the target index for the "next" action.
func (p Page) NextPage() int { return p.Index + 1 }

// Service renders paginated history and stats views.
type Service struct {
	history  HistoryRepository
	stats    StatRepository
	pageSize int
}

// NewService builds a listing service with the default page size.
func NewService(historyRepo HistoryRepository, statRepo StatRepository) *Service {
	return &Service{
		history:  historyRepo,
		stats:    statRepo,
		pageSize: history.DefaultPageSize,
	}
}

// HistoryPage renders one page of the user's search history, newest first.
// A past-the-end page renders as the empty state, not an error.
func (s *Service) HistoryPage(ctx context.Context, userID int64, page int) (Page, error) {
	page = clampPage(page)
	offset := page * s.pageSize

	entries, err := s.history.ListPage(ctx, userID, s.pageSize, offset)
	if err != nil {
		return Page{}, fmt.Errorf("fetch history page: %w", err)
	}
	if len(entries) == 0 {
		return emptyPage(SourceHistory, page, emptyHistoryText), nil
	}
	total, err := s.history.Count(ctx, userID)
	if err != nil {
		return Page{}, fmt.Errorf("count history: %w", err)
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("• %s (%s)", e.FilmTitle, e.Timestamp.Format(timestampLayout)))
	}
	header := fmt.Sprintf("🕓 История (стр. %d):", page+1)
	return s.buildPage(SourceHistory, page, header, lines, total), nil
}

// StatsPage renders one page of the user's per-film counters, most
// searched first.
func (s *Service) StatsPage(ctx context.Context, userID int64, page int) (Page, error) {
	page = clampPage(page)
	offset := page * s.pageSize

	stats, err := s.stats.ListPage(ctx, userID, s.pageSize, offset)
	if err != nil {
		return Page{}, fmt.Errorf("fetch stats page: %w", err)
	}
	if len(stats) == 0 {
		return emptyPage(SourceStats, page, emptyStatsText), nil
	}
	total, err := s.stats.Count(ctx, userID)
	if err != nil {
		return Page{}, fmt.Errorf("count stats: %w", err)
	}

	lines := make([]string, 0, len(stats))
	for _, st := range stats {
		lines = append(lines, fmt.Sprintf("• %s — %d раз(а)", st.FilmTitle, st.Count))
	}
	header := fmt.Sprintf("📊 Статистика (стр. %d):", page+1)
	return s.buildPage(SourceStats, page, header, lines, total), nil
}

func (s *Service) buildPage(source Source, page int, header string, lines []string, total int64) Page {
	offset := page * s.pageSize
	return Page{
		Source:  source,
		Index:   page,
		Text:    header + "\n" + strings.Join(lines, "\n"),
		HasPrev: page > 0,
		HasNext: int64(offset+s.pageSize) < total,
	}
}

func emptyPage(source Source, page int, text string) Page {
	return Page{
		Source: source,
		Index:  page,
		Text:   text,
		Empty:  true,
	}
}

func clampPage(page int) int {
	if page < 0 {
		return 0
	}
	return page
}
