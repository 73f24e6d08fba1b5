package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"filmbot/internal/domain/film"
)

// DescriptionPlaceholder is used when the detail call fails or the field
// is absent; description problems never fail the whole search.
const DescriptionPlaceholder = "Описание недоступно."

// Provider resolves keyword queries against the external film API.
type Provider interface {
	Search(ctx context.Context, keyword string) ([]film.Summary, error)
	Description(ctx context.Context, filmID int64) (string, error)
}

// Recorder durably records one successful search.
type Recorder interface {
	Record(ctx context.Context, userID int64, f film.Summary) error
}

// Result is the outcome of one lookup. Found=false covers both a genuine
// zero-match answer and a provider failure; callers render the same
// user-visible message for both.
type Result struct {
	Found       bool
	Film        film.Summary
	Description string
}

// Service performs the lookup-and-record operation.
type Service struct {
	provider Provider
	recorder Recorder
	logger   *slog.Logger
}

// NewService builds a search service.
func NewService(provider Provider, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		recorder: recorder,
		logger:   logger,
	}
}

// Search resolves a free-text query to the first provider match and records
// it. Provider faults degrade to a not-found result; only store faults
// return an error, and then nothing has been written.
func (s *Service) Search(ctx context.Context, userID int64, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, nil
	}

	matches, err := s.provider.Search(ctx, query)
	if err != nil {
		s.logWarn("provider search failed", query, err)
		return Result{}, nil
	}
	if len(matches) == 0 {
		return Result{}, nil
	}
	// First match wins, no re-ranking.
	match := matches[0]

	description, err := s.provider.Description(ctx, match.ID)
	if err != nil {
		s.logWarn("provider description failed", query, err)
		description = ""
	}
	if strings.TrimSpace(description) == "" {
		description = DescriptionPlaceholder
	}

	if err := s.recorder.Record(ctx, userID, match); err != nil {
		return Result{}, fmt.Errorf("record search: %w", err)
	}

	return Result{
		Found:       true,
		Film:        match,
		Description: description,
	}, nil
}

func (s *Service) logWarn(msg, query string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "query", query, "error", err)
	}
}
