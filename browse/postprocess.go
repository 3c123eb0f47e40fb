// Package browse implements the client-side result pipeline: search-mode
// filtering and sorting, page slicing, and the pagination window calculation.
package browse

import (
	"sort"
	"time"

	"filmboard/models"
)

// ApplyFilters keeps the records matching the active year and genre filters.
// An empty year or zero genre id disables that filter. When a year filter is
// active, records without a release date are excluded; when a genre filter is
// active, records without genre ids are excluded. Used on the search path
// only, where the catalog cannot filter server-side.
func ApplyFilters(records []models.MovieRecord, year string, genreID int) []models.MovieRecord {
	filtered := make([]models.MovieRecord, 0, len(records))
	for _, rec := range records {
		if year != "" {
			if len(rec.ReleaseDate) < 4 || rec.ReleaseDate[:4] != year {
				continue
			}
		}
		if genreID > 0 && !rec.HasGenre(genreID) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

// SortRecords orders records by the given sort key. The sort is stable, so
// records that compare equal keep their server-reported relative order, and
// the popularity key leaves the server order untouched. Missing or
// unparseable release dates parse to the zero time and therefore sink to the
// end under date-descending order.
func SortRecords(records []models.MovieRecord, key models.SortKey) []models.MovieRecord {
	sorted := make([]models.MovieRecord, len(records))
	copy(sorted, records)

	switch key {
	case models.SortReleaseDate:
		sort.SliceStable(sorted, func(i, j int) bool {
			return parseReleaseDate(sorted[i].ReleaseDate).After(parseReleaseDate(sorted[j].ReleaseDate))
		})
	case models.SortRating:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].VoteAverage > sorted[j].VoteAverage
		})
	}
	return sorted
}

// Paginate slices records to the requested 1-based page of PageSize items and
// returns the slice plus the derived total page count. An out-of-range page
// yields an empty slice.
func Paginate(records []models.MovieRecord, page int) ([]models.MovieRecord, int) {
	totalPages := (len(records) + models.PageSize - 1) / models.PageSize
	if page < 1 || len(records) == 0 {
		return []models.MovieRecord{}, totalPages
	}

	start := (page - 1) * models.PageSize
	if start >= len(records) {
		return []models.MovieRecord{}, totalPages
	}
	end := start + models.PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], totalPages
}

func parseReleaseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
