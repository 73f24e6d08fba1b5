package kinopoisk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"filmbot/internal/domain/film"
)

func TestSearchNormalizesFirstMatch(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "secret-key", r.Header.Get("X-API-KEY"))
		require.Equal(t, "Matrix", r.URL.Query().Get("keyword"))
		_, _ = w.Write([]byte(`{"films":[
			{"filmId":301,"nameRu":"Матрица","nameEn":"The Matrix","year":1999,"posterUrlPreview":"https://img.example/301.jpg"},
			{"filmId":302,"nameRu":"","nameEn":"The Matrix Reloaded","year":"2003"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		APIKey:     "secret-key",
	})

	films, err := client.Search(context.Background(), "  Matrix ")
	require.NoError(t, err)
	require.Len(t, films, 2)
	require.Equal(t, film.Summary{
		ID:        301,
		Title:     "Матрица",
		Year:      "1999",
		PosterURL: "https://img.example/301.jpg",
	}, films[0])
	// string year and English fallback
	require.Equal(t, "The Matrix Reloaded", films[1].Title)
	require.Equal(t, "2003", films[1].Year)
	require.False(t, films[1].HasPoster())
}

func TestSearchAppliesPlaceholders(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"films":[{"filmId":7,"year":null}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{HTTPClient: server.Client(), BaseURL: server.URL, APIKey: "k"})

	films, err := client.Search(context.Background(), "whatever")
	require.NoError(t, err)
	require.Len(t, films, 1)
	require.Equal(t, film.UntitledPlaceholder, films[0].Title)
	require.Equal(t, film.UnknownYearPlaceholder, films[0].Year)
}

func TestSearchEmptyKeywordSkipsRequest(t *testing.T) {
	t.Parallel()
	client := NewClient(ClientConfig{
		HTTPClient: &http.Client{Timeout: time.Millisecond},
		BaseURL:    "http://127.0.0.1:0",
		APIKey:     "k",
	})

	films, err := client.Search(context.Background(), "   ")
	require.NoError(t, err)
	require.Nil(t, films)
}

func TestSearchHTTPError(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{HTTPClient: server.Client(), BaseURL: server.URL, APIKey: "k"})

	_, err := client.Search(context.Background(), "Matrix")
	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusPaymentRequired, statusErr.StatusCode)
}

func TestSearchMalformedJSON(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{HTTPClient: server.Client(), BaseURL: server.URL, APIKey: "k"})

	_, err := client.Search(context.Background(), "Matrix")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to decode")
}

func TestDescription(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2.2/films/301", r.URL.Path)
		_, _ = w.Write([]byte(`{"description":"  Хакер Нео узнаёт правду.  "}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{HTTPClient: server.Client(), BaseURL: server.URL, APIKey: "k"})

	desc, err := client.Description(context.Background(), 301)
	require.NoError(t, err)
	require.Equal(t, "Хакер Нео узнаёт правду.", desc)
}

func TestDescriptionMissingField(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"kinopoiskId":301}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{HTTPClient: server.Client(), BaseURL: server.URL, APIKey: "k"})

	desc, err := client.Description(context.Background(), 301)
	require.NoError(t, err)
	require.Empty(t, desc)
}

type recordedRequest struct {
	endpoint string
	status   int
}

type stubObserver struct {
	requests []recordedRequest
}

func (o *stubObserver) ObserveProviderRequest(endpoint string, status int, elapsed time.Duration) {
	o.requests = append(o.requests, recordedRequest{endpoint: endpoint, status: status})
}

func TestObserverSeesEveryRequest(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"films":[]}`))
	}))
	defer server.Close()

	obs := &stubObserver{}
	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		APIKey:     "k",
		Observer:   obs,
	})

	_, err := client.Search(context.Background(), "Matrix")
	require.NoError(t, err)
	require.Equal(t, []recordedRequest{{endpoint: "search", status: http.StatusOK}}, obs.requests)
}
