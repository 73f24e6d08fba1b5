package film

import (
	"fmt"
	"strings"
)

const (
	// UntitledPlaceholder is shown when the provider returns no title at all.
	UntitledPlaceholder = "Без названия"

	// UnknownYearPlaceholder is shown when the provider returns no release year.
	UnknownYearPlaceholder = "Неизвестно"

	linkBase = "https://www.sspoisk.ru/film/"
)

// Summary is the normalized view of a single provider search match.
// All optional provider fields are resolved to display-ready values here;
// the rest of the system never sees absent fields.
type Summary struct {
	ID        int64
	Title     string
	Year      string
	PosterURL string
}

// NewSummary builds a Summary from raw provider fields, applying the
// localized-title fallback chain and the year placeholder.
func NewSummary(id int64, nameRu, nameEn, year, posterURL string) Summary {
	title := strings.TrimSpace(nameRu)
	if title == "" {
		title = strings.TrimSpace(nameEn)
	}
	if title == "" {
		title = UntitledPlaceholder
	}
	year = strings.TrimSpace(year)
	if year == "" {
		year = UnknownYearPlaceholder
	}
	return Summary{
		ID:        id,
		Title:     title,
		Year:      year,
		PosterURL: strings.TrimSpace(posterURL),
	}
}

// Link returns the outbound film page URL for this summary.
func (s Summary) Link() string {
	return fmt.Sprintf("%s%d/", linkBase, s.ID)
}

// HasPoster reports whether a poster image was obtained for this film.
func (s Summary) HasPoster() bool {
	return s.PosterURL != ""
}
