// Package models defines the data structures used throughout the application.
package models

// Image base URLs for rendering poster and backdrop paths
const (
	PosterBaseURL   = "https://image.tmdb.org/t/p/w500"
	BackdropBaseURL = "https://image.tmdb.org/t/p/w780"
)

// MovieRecord represents a movie as returned by the catalog API.
// Records are stored or discarded whole and never mutated.
type MovieRecord struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
}

// HasGenre reports whether the record carries the given genre id.
func (m MovieRecord) HasGenre(genreID int) bool {
	for _, id := range m.GenreIDs {
		if id == genreID {
			return true
		}
	}
	return false
}

// Genre represents a movie genre from the catalog
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MoviePage is one page of catalog list results
type MoviePage struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Results      []MovieRecord `json:"results"`
}

// CastMember is a single cast credit on a movie detail
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
}

// Credits contains cast information attached to a movie detail
type Credits struct {
	Cast []CastMember `json:"cast"`
}

// Video is a clip or trailer attached to a movie
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// VideoList wraps the videos endpoint response
type VideoList struct {
	Results []Video `json:"results"`
}

// MovieDetail is the full record returned by the detail endpoint
type MovieDetail struct {
	MovieRecord
	Runtime int       `json:"runtime,omitempty"`
	Tagline string    `json:"tagline,omitempty"`
	Genres  []Genre   `json:"genres,omitempty"`
	Credits Credits   `json:"credits,omitempty"`
	Videos  VideoList `json:"videos,omitempty"`
}

// Record returns the embedded list-level record for storage in a collection.
// Detail responses carry expanded genres instead of genre ids, so the ids are
// rebuilt before the record is persisted.
func (d MovieDetail) Record() MovieRecord {
	rec := d.MovieRecord
	if len(rec.GenreIDs) == 0 && len(d.Genres) > 0 {
		ids := make([]int, 0, len(d.Genres))
		for _, g := range d.Genres {
			ids = append(ids, g.ID)
		}
		rec.GenreIDs = ids
	}
	return rec
}

// WatchProviderEntry is a single provider offering a movie
type WatchProviderEntry struct {
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path,omitempty"`
}

// WatchProviderRegion groups providers by availability type for one region
type WatchProviderRegion struct {
	Link     string               `json:"link,omitempty"`
	Flatrate []WatchProviderEntry `json:"flatrate,omitempty"`
	Rent     []WatchProviderEntry `json:"rent,omitempty"`
	Buy      []WatchProviderEntry `json:"buy,omitempty"`
}

// WatchProviders is the watch-providers endpoint response
type WatchProviders struct {
	Results map[string]WatchProviderRegion `json:"results,omitempty"`
}

// Collection identifies one of the persisted movie lists
type Collection string

// Collection name constants; each doubles as its storage key
const (
	CollectionWatchlist Collection = "watchlist"
	CollectionWatched   Collection = "watched"
	CollectionFavorites Collection = "favorites"
)

// Collections lists every valid collection name
var Collections = []Collection{CollectionWatchlist, CollectionWatched, CollectionFavorites}

// Valid reports whether c names a known collection.
func (c Collection) Valid() bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

// Theme represents the persisted display theme preference
type Theme string

// Theme constants
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Membership holds the collection flags the renderer needs for button labeling
type Membership struct {
	InWatchlist bool `json:"in_watchlist"`
	InWatched   bool `json:"in_watched"`
	InFavorites bool `json:"in_favorites"`
}

// DisplayMovie pairs a record with its collection membership for rendering
type DisplayMovie struct {
	MovieRecord
	Membership
}
