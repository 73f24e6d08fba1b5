package history

import "time"

// DefaultPageSize is the fixed number of rows rendered per list page.
const DefaultPageSize = 10

// Entry is one recorded search. Entries are append-only: they are written
// once on a successful search and never mutated or deleted.
type Entry struct {
	UserID    int64
	FilmID    int64
	FilmTitle string
	Timestamp time.Time
}

// Stat is the per-user per-film search counter. Count always equals the
// number of Entry rows with the same (UserID, FilmID).
type Stat struct {
	UserID    int64
	FilmID    int64
	FilmTitle string
	Count     int
}
