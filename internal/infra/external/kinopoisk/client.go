package kinopoisk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"filmbot/internal/domain/film"
)

const (
	defaultBaseURL = "https://kinopoiskapiunofficial.tech"
	searchPath     = "/api/v2.1/films/search-by-keyword"
	detailsPath    = "/api/v2.2/films"
	userAgent      = "filmbot/1.0"
)

// RequestObserver receives timing for every provider request.
type RequestObserver interface {
	ObserveProviderRequest(endpoint string, status int, elapsed time.Duration)
}

// ClientConfig controls provider API access.
type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	UserAgent  string
	Observer   RequestObserver
}

// Client wraps the Kinopoisk unofficial API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	observer   RequestObserver
}

// NewClient creates a new provider client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = userAgent
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		userAgent:  ua,
		observer:   cfg.Observer,
	}
}

// Search returns normalized summaries for a keyword query, first match first.
// All optional provider fields are resolved before returning.
func (c *Client) Search(ctx context.Context, keyword string) ([]film.Summary, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}
	if c.apiKey == "" {
		return nil, errors.New("kinopoisk: api key is required")
	}

	endpoint := c.baseURL + searchPath + "?keyword=" + url.QueryEscape(keyword)
	var res searchResponse
	if err := c.getJSON(ctx, "search", endpoint, &res); err != nil {
		return nil, err
	}

	summaries := make([]film.Summary, 0, len(res.Films))
	for _, f := range res.Films {
		summaries = append(summaries, film.NewSummary(
			f.FilmID, f.NameRu, f.NameEn, string(f.Year), f.PosterURLPreview,
		))
	}
	return summaries, nil
}

// Description fetches the extended film description by provider identifier.
// An absent description field yields an empty string, not an error.
func (c *Client) Description(ctx context.Context, filmID int64) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("kinopoisk: api key is required")
	}
	endpoint := fmt.Sprintf("%s%s/%d", c.baseURL, detailsPath, filmID)
	var res detailsResponse
	if err := c.getJSON(ctx, "details", endpoint, &res); err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Description), nil
}

func (c *Client) getJSON(ctx context.Context, name, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(name, 0, time.Since(start))
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.observe(name, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Endpoint: name, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("kinopoisk: failed to decode %s response: %w", name, err)
	}
	return nil
}

func (c *Client) observe(endpoint string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveProviderRequest(endpoint, status, elapsed)
	}
}

type searchResponse struct {
	Films []searchFilm `json:"films"`
}

type searchFilm struct {
	FilmID           int64      `json:"filmId"`
	NameRu           string     `json:"nameRu"`
	NameEn           string     `json:"nameEn"`
	Year             flexString `json:"year"`
	PosterURLPreview string     `json:"posterUrlPreview"`
}

type detailsResponse struct {
	Description string `json:"description"`
}

// flexString accepts either a JSON string or a bare number; the provider is
// not consistent about the year field across API versions.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*s = ""
		return nil
	}
	if raw[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = flexString(num.String())
	return nil
}

// StatusError reports a non-2xx provider response.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e == nil {
		return "kinopoisk: status error"
	}
	return fmt.Sprintf("kinopoisk: %s request failed: status %d", e.Endpoint, e.StatusCode)
}
