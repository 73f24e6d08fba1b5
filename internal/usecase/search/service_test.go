package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"filmbot/internal/domain/film"
)

type stubProvider struct {
	matches     []film.Summary
	searchErr   error
	searchCalls int

	description    string
	descriptionErr error
}

func (p *stubProvider) Search(ctx context.Context, keyword string) ([]film.Summary, error) {
	p.searchCalls++
	return p.matches, p.searchErr
}

func (p *stubProvider) Description(ctx context.Context, filmID int64) (string, error) {
	return p.description, p.descriptionErr
}

type stubRecorder struct {
	recorded []film.Summary
	err      error
}

func (r *stubRecorder) Record(ctx context.Context, userID int64, f film.Summary) error {
	if r.err != nil {
		return r.err
	}
	r.recorded = append(r.recorded, f)
	return nil
}

func TestSearchReturnsFirstMatchAndRecords(t *testing.T) {
	matrix := film.NewSummary(301, "Матрица", "The Matrix", "1999", "")
	provider := &stubProvider{
		matches:     []film.Summary{matrix, film.NewSummary(302, "Матрица 2", "", "2003", "")},
		description: "Хакер Нео узнаёт правду.",
	}
	recorder := &stubRecorder{}
	svc := NewService(provider, recorder, nil)

	result, err := svc.Search(context.Background(), 42, "Matrix")
	require.NoError(t, err)
	require.True(t, result.Found)
	require.Equal(t, matrix, result.Film)
	require.Equal(t, "Хакер Нео узнаёт правду.", result.Description)
	require.Equal(t, []film.Summary{matrix}, recorder.recorded)
}

func TestSearchEmptyQuerySkipsProviderAndStore(t *testing.T) {
	provider := &stubProvider{}
	recorder := &stubRecorder{}
	svc := NewService(provider, recorder, nil)

	result, err := svc.Search(context.Background(), 42, "   \t ")
	require.NoError(t, err)
	require.False(t, result.Found)
	require.Zero(t, provider.searchCalls)
	require.Empty(t, recorder.recorded)
}

func TestSearchZeroMatchesRecordsNothing(t *testing.T) {
	recorder := &stubRecorder{}
	svc := NewService(&stubProvider{}, recorder, nil)

	result, err := svc.Search(context.Background(), 42, "нет такого фильма")
	require.NoError(t, err)
	require.False(t, result.Found)
	require.Empty(t, recorder.recorded)
}

func TestSearchProviderFailureDegradesToNotFound(t *testing.T) {
	recorder := &stubRecorder{}
	svc := NewService(&stubProvider{searchErr: errors.New("timeout")}, recorder, nil)

	result, err := svc.Search(context.Background(), 42, "Matrix")
	require.NoError(t, err)
	require.False(t, result.Found)
	require.Empty(t, recorder.recorded)
}

func TestSearchDescriptionFailureUsesPlaceholder(t *testing.T) {
	provider := &stubProvider{
		matches:        []film.Summary{film.NewSummary(301, "Матрица", "", "1999", "")},
		descriptionErr: errors.New("status 500"),
	}
	recorder := &stubRecorder{}
	svc := NewService(provider, recorder, nil)

	result, err := svc.Search(context.Background(), 42, "Matrix")
	require.NoError(t, err)
	require.True(t, result.Found)
	require.Equal(t, DescriptionPlaceholder, result.Description)
	require.Len(t, recorder.recorded, 1)
}

func TestSearchBlankDescriptionUsesPlaceholder(t *testing.T) {
	provider := &stubProvider{
		matches:     []film.Summary{film.NewSummary(301, "Матрица", "", "1999", "")},
		description: "  ",
	}
	svc := NewService(provider, &stubRecorder{}, nil)

	result, err := svc.Search(context.Background(), 42, "Matrix")
	require.NoError(t, err)
	require.Equal(t, DescriptionPlaceholder, result.Description)
}

func TestSearchStoreFailurePropagates(t *testing.T) {
	provider := &stubProvider{
		matches: []film.Summary{film.NewSummary(301, "Матрица", "", "1999", "")},
	}
	svc := NewService(provider, &stubRecorder{err: errors.New("pool closed")}, nil)

	_, err := svc.Search(context.Background(), 42, "Matrix")
	require.Error(t, err)
	require.Contains(t, err.Error(), "record search")
}
