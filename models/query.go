package models

// SortKey identifies a result ordering option
type SortKey string

// Sort key constants
const (
	SortPopularity  SortKey = "popularity.desc"
	SortReleaseDate SortKey = "release_date.desc"
	SortRating      SortKey = "vote_average.desc"
)

// QueryMode selects which catalog endpoint a query maps to
type QueryMode string

// Query mode constants
const (
	// ModeDiscover is used when no free-text term is active; the server
	// applies filters and sorting.
	ModeDiscover QueryMode = "discover"
	// ModeSearch is used with a free-text term; the server matches text only
	// and filters are applied client-side.
	ModeSearch QueryMode = "search"
)

// Pagination limits
const (
	// PageSize is the fixed number of records per page.
	PageSize = 20
	// MaxResults caps the server-reported total to bound the pagination UI.
	MaxResults = 500
	// MaxPages is the hard ceiling on derived total pages.
	MaxPages = 25
)

// QueryState holds the session-scoped search state: free text, filters, sort
// and current page. It is never persisted across sessions. Any change to the
// query text or a filter resets the current page to 1.
type QueryState struct {
	Query      string  `json:"query"`
	GenreID    int     `json:"genre_id,omitempty"` // 0 = no genre filter
	Year       string  `json:"year,omitempty"`     // "" = no year filter
	Sort       SortKey `json:"sort"`
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
}

// NewQueryState returns the startup defaults: discover mode, popularity
// descending, page 1.
func NewQueryState() *QueryState {
	return &QueryState{
		Sort: SortPopularity,
		Page: 1,
	}
}

// Mode reports whether the state maps to the discover or search endpoint.
func (q *QueryState) Mode() QueryMode {
	if q.Query == "" {
		return ModeDiscover
	}
	return ModeSearch
}

// SetQuery updates the free-text term and resets the page.
func (q *QueryState) SetQuery(text string) {
	if q.Query == text {
		return
	}
	q.Query = text
	q.Page = 1
}

// SetGenre updates the genre filter and resets the page. Zero clears it.
func (q *QueryState) SetGenre(genreID int) {
	if q.GenreID == genreID {
		return
	}
	q.GenreID = genreID
	q.Page = 1
}

// SetYear updates the year filter and resets the page. Empty clears it.
// Anything that is not a 4-digit year is ignored.
func (q *QueryState) SetYear(year string) {
	if year != "" && !validYear(year) {
		return
	}
	if q.Year == year {
		return
	}
	q.Year = year
	q.Page = 1
}

// SetSort updates the sort key and resets the page. Unknown keys fall back to
// the popularity default.
func (q *QueryState) SetSort(sort SortKey) {
	switch sort {
	case SortPopularity, SortReleaseDate, SortRating:
	default:
		sort = SortPopularity
	}
	if q.Sort == sort {
		return
	}
	q.Sort = sort
	q.Page = 1
}

// SetPage moves to the given page, clamped to at least 1.
func (q *QueryState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	q.Page = page
}

// ApplyTotal derives TotalPages from a server-reported result count:
// min(ceil(min(total, MaxResults)/PageSize), MaxPages).
func (q *QueryState) ApplyTotal(totalResults int) {
	if totalResults > MaxResults {
		totalResults = MaxResults
	}
	pages := (totalResults + PageSize - 1) / PageSize
	if pages > MaxPages {
		pages = MaxPages
	}
	q.TotalPages = pages
}

func validYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
