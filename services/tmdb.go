// Package services provides external service integrations.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"filmboard/models"
)

// DefaultBaseURL is the production movie catalog API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// FetchError reports a failed catalog call: network failure, non-2xx status
// or undecodable payload. It carries the endpoint so callers can log a useful
// message before degrading to an empty result.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog fetch %s failed: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// TMDBService handles interactions with The Movie Database API
type TMDBService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewTMDBService creates a new TMDB service instance
func NewTMDBService(apiKey string) *TMDBService {
	return NewTMDBServiceWithBaseURL(apiKey, DefaultBaseURL)
}

// NewTMDBServiceWithBaseURL creates a TMDB service pointed at a custom API
// root, used by tests to substitute a local server.
func NewTMDBServiceWithBaseURL(apiKey, baseURL string) *TMDBService {
	return &TMDBService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Genres fetches the movie genre list.
func (t *TMDBService) Genres(ctx context.Context) ([]models.Genre, error) {
	var payload struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := t.get(ctx, "/genre/movie/list", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Genres, nil
}

// Popular fetches one page of the popular movies list.
func (t *TMDBService) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var result models.MoviePage
	if err := t.get(ctx, "/movie/popular", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search fetches one page of text-search results. The search endpoint only
// matches text; genre, year and sort are not supported server-side and must
// be applied by the caller.
func (t *TMDBService) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var result models.MoviePage
	if err := t.get(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Discover fetches one page of filtered results. The server applies the sort
// key and the optional genre and exact release year filters.
func (t *TMDBService) Discover(ctx context.Context, sort models.SortKey, genreID int, year string, page int) (*models.MoviePage, error) {
	params := url.Values{}
	params.Set("sort_by", string(sort))
	params.Set("page", strconv.Itoa(page))
	if genreID > 0 {
		params.Set("with_genres", strconv.Itoa(genreID))
	}
	if year != "" {
		params.Set("primary_release_year", year)
	}

	var result models.MoviePage
	if err := t.get(ctx, "/discover/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMovie fetches full movie details including credits and videos.
func (t *TMDBService) GetMovie(ctx context.Context, id int) (*models.MovieDetail, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,videos")

	var result models.MovieDetail
	if err := t.get(ctx, fmt.Sprintf("/movie/%d", id), params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Videos fetches the clips and trailers attached to a movie.
func (t *TMDBService) Videos(ctx context.Context, id int) ([]models.Video, error) {
	var payload models.VideoList
	if err := t.get(ctx, fmt.Sprintf("/movie/%d/videos", id), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// WatchProviders fetches regional streaming availability for a movie.
func (t *TMDBService) WatchProviders(ctx context.Context, id int) (*models.WatchProviders, error) {
	var result models.WatchProviders
	if err := t.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Trailer returns the first YouTube trailer for a movie, or an error when
// none is available.
func (t *TMDBService) Trailer(ctx context.Context, id int) (*models.Video, error) {
	videos, err := t.Videos(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, v := range videos {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("no trailer available for movie %d", id)
}

// get issues a GET against the catalog API and decodes the JSON response.
// Every failure is wrapped in a FetchError carrying the endpoint.
func (t *TMDBService) get(ctx context.Context, endpoint string, params url.Values, dest interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", t.apiKey)
	reqURL := t.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
