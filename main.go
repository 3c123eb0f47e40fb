// Package main provides the main entry point for the filmboard application.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"filmboard/browse"
	"filmboard/database"
	"filmboard/jobs"
	"filmboard/models"
	"filmboard/repository"
	"filmboard/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

// ActionType enumerates the user actions dispatched through the single
// action endpoint, decoupling the core from any rendering technology.
type ActionType string

// Action type constants
const (
	ActionToggleWatchlist ActionType = "toggle_watchlist"
	ActionToggleWatched   ActionType = "toggle_watched"
	ActionToggleFavorite  ActionType = "toggle_favorite"
	ActionOpenTrailer     ActionType = "open_trailer"
	ActionGoToPage        ActionType = "go_to_page"
	ActionSearchInput     ActionType = "search_input"
)

// App represents the application with its dependencies
type App struct {
	collectionRepo *repository.CollectionRepository
	themeRepo      *repository.ThemeRepository
	tmdbService    *services.TMDBService
	searcher       *jobs.SearchDebouncer

	mu         sync.Mutex
	query      *models.QueryState
	lastSearch *models.MoviePage
}

func newApp(collectionRepo *repository.CollectionRepository, themeRepo *repository.ThemeRepository, tmdbService *services.TMDBService) *App {
	app := &App{
		collectionRepo: collectionRepo,
		themeRepo:      themeRepo,
		tmdbService:    tmdbService,
		query:          models.NewQueryState(),
	}
	app.searcher = jobs.NewSearchDebouncer(jobs.DefaultSearchDelay, app.runSearch)
	return app
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	dbPath := os.Getenv("FILMBOARD_DB")
	if dbPath == "" {
		dbPath = "filmboard.db"
	}

	// Initialize database
	db, err := database.NewDB(dbPath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// Initialize schema
	if err := db.InitSchema(); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	// Initialize repositories
	collectionRepo := repository.NewCollectionRepository(db)
	themeRepo := repository.NewThemeRepository(db)

	// Initialize TMDB service
	tmdbAPIKey := os.Getenv("TMDB_API_KEY")
	if tmdbAPIKey == "" {
		log.Fatal("TMDB_API_KEY environment variable is required")
	}
	tmdbService := services.NewTMDBService(tmdbAPIKey)

	app := newApp(collectionRepo, themeRepo, tmdbService)
	defer app.searcher.Stop()

	addr := os.Getenv("FILMBOARD_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	r := app.newRouter()

	log.Println("Server starting on", addr)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Fatal(server.ListenAndServe())
}

func (app *App) newRouter() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint
	r.HandleFunc("/health", healthHandler).Methods("GET")

	// API routes
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/genres", app.getGenresHandler).Methods("GET")
	api.HandleFunc("/browse", app.browseHandler).Methods("GET")
	api.HandleFunc("/search/preview", app.getSearchPreviewHandler).Methods("GET")
	api.HandleFunc("/movies/{id}", app.getMovieHandler).Methods("GET")
	api.HandleFunc("/movies/{id}/trailer", app.getTrailerHandler).Methods("GET")
	api.HandleFunc("/actions", app.actionsHandler).Methods("POST")
	api.HandleFunc("/collections/{name}", app.getCollectionHandler).Methods("GET")
	api.HandleFunc("/theme", app.getThemeHandler).Methods("GET")
	api.HandleFunc("/theme", app.putThemeHandler).Methods("PUT")

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (app *App) getGenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := app.tmdbService.Genres(r.Context())
	if err != nil {
		// Genre lookup failures degrade to an empty list; the filter control
		// just renders without options.
		log.Printf("Error fetching genres: %v", err)
		genres = []models.Genre{}
	}

	writeJSON(w, genres)
}

// browseResponse is the payload for the main listing view
type browseResponse struct {
	Query      models.QueryState         `json:"query"`
	Mode       models.QueryMode          `json:"mode"`
	Movies     []models.DisplayMovie     `json:"movies"`
	Pagination []browse.Directive        `json:"pagination"`
	Counts     map[models.Collection]int `json:"counts"`
}

// browseHandler serves the listing view. Query parameters update the session
// query state; the endpoint mode follows from whether a free-text term is
// active. Fetch failures degrade to an empty listing.
func (app *App) browseHandler(w http.ResponseWriter, r *http.Request) {
	app.mu.Lock()
	app.applyBrowseParams(r)
	q := *app.query
	app.mu.Unlock()

	var records []models.MovieRecord
	totalFromServer := -1 // server-reported total_results, -1 when client-derived

	switch q.Mode() {
	case models.ModeDiscover:
		var (
			page *models.MoviePage
			err  error
		)
		// The plain popular list serves the unfiltered default view; any
		// filter or non-default sort switches to the discover endpoint.
		if q.GenreID == 0 && q.Year == "" && q.Sort == models.SortPopularity {
			page, err = app.tmdbService.Popular(r.Context(), q.Page)
		} else {
			page, err = app.tmdbService.Discover(r.Context(), q.Sort, q.GenreID, q.Year, q.Page)
		}
		if err != nil {
			log.Printf("Error fetching discover results: %v", err)
			page = &models.MoviePage{}
		}
		records = page.Results
		totalFromServer = page.TotalResults

	case models.ModeSearch:
		page, err := app.tmdbService.Search(r.Context(), q.Query, q.Page)
		if err != nil {
			log.Printf("Error fetching search results: %v", err)
			page = &models.MoviePage{}
		}

		// The search endpoint cannot filter or sort server-side, so both are
		// applied here over the single fetched page of raw results.
		filtered := browse.ApplyFilters(page.Results, q.Year, q.GenreID)
		sorted := browse.SortRecords(filtered, q.Sort)

		if q.Year == "" && q.GenreID == 0 {
			records = sorted
			totalFromServer = page.TotalResults
		} else {
			// With a filter active, counts and pagination cover only this
			// fetched page. Known precision limitation, preserved.
			var totalPages int
			records, totalPages = browse.Paginate(sorted, 1)
			app.mu.Lock()
			app.query.TotalPages = totalPages
			q.TotalPages = totalPages
			app.mu.Unlock()
		}
	}

	if totalFromServer >= 0 {
		app.mu.Lock()
		app.query.ApplyTotal(totalFromServer)
		q.TotalPages = app.query.TotalPages
		app.mu.Unlock()
	}

	windowSize := browse.WindowSizeDefault
	if r.URL.Query().Get("compact") == "1" {
		windowSize = browse.WindowSizeCompact
	}

	resp := browseResponse{
		Query:      q,
		Mode:       q.Mode(),
		Movies:     app.displayMovies(records),
		Pagination: browse.PaginationWindow(q.Page, q.TotalPages, windowSize),
		Counts:     app.collectionRepo.Counts(),
	}
	writeJSON(w, resp)
}

// applyBrowseParams folds request parameters into the query state. Callers
// hold app.mu.
func (app *App) applyBrowseParams(r *http.Request) {
	params := r.URL.Query()

	if params.Has("query") {
		app.query.SetQuery(params.Get("query"))
	}
	if params.Has("genre") {
		genreID, err := strconv.Atoi(params.Get("genre"))
		if err != nil {
			genreID = 0
		}
		app.query.SetGenre(genreID)
	}
	if params.Has("year") {
		app.query.SetYear(params.Get("year"))
	}
	if params.Has("sort") {
		app.query.SetSort(models.SortKey(params.Get("sort")))
	}
	if params.Has("page") {
		if page, err := strconv.Atoi(params.Get("page")); err == nil {
			app.query.SetPage(page)
		}
	}
}

func (app *App) displayMovies(records []models.MovieRecord) []models.DisplayMovie {
	movies := make([]models.DisplayMovie, 0, len(records))
	for _, rec := range records {
		movies = append(movies, models.DisplayMovie{
			MovieRecord: rec,
			Membership:  app.collectionRepo.Membership(rec.ID),
		})
	}
	return movies
}

// movieResponse is the payload for the detail view
type movieResponse struct {
	Movie      *models.MovieDetail    `json:"movie"`
	Providers  *models.WatchProviders `json:"providers"`
	Membership models.Membership      `json:"membership"`
}

// getMovieHandler serves the detail view. Detail and watch providers are
// fetched concurrently and joined before rendering; a provider failure
// degrades to an empty set.
func (app *App) getMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	var (
		wg        sync.WaitGroup
		detail    *models.MovieDetail
		detailErr error
		providers *models.WatchProviders
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		detail, detailErr = app.tmdbService.GetMovie(r.Context(), id)
	}()
	go func() {
		defer wg.Done()
		var err error
		providers, err = app.tmdbService.WatchProviders(r.Context(), id)
		if err != nil {
			log.Printf("Error fetching watch providers for movie %d: %v", id, err)
			providers = &models.WatchProviders{}
		}
	}()
	wg.Wait()

	if detailErr != nil {
		log.Printf("Error fetching movie %d: %v", id, detailErr)
		http.Error(w, "Movie not found", http.StatusNotFound)
		return
	}

	writeJSON(w, movieResponse{
		Movie:      detail,
		Providers:  providers,
		Membership: app.collectionRepo.Membership(id),
	})
}

// getTrailerHandler serves the trailer lookup. This is the one fetch failure
// surfaced to the user rather than silently degraded.
func (app *App) getTrailerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	video, err := app.tmdbService.Trailer(r.Context(), id)
	if err != nil {
		log.Printf("Trailer lookup failed for movie %d: %v", id, err)
		http.Error(w, "Trailer not available", http.StatusNotFound)
		return
	}

	writeJSON(w, video)
}

// actionRequest is the body of the action dispatch endpoint
type actionRequest struct {
	Type    ActionType `json:"type"`
	MovieID int        `json:"movie_id,omitempty"`
	Page    int        `json:"page,omitempty"`
	Query   string     `json:"query,omitempty"`
}

// actionsHandler dispatches every renderer-originated action through one
// handler.
func (app *App) actionsHandler(w http.ResponseWriter, r *http.Request) {
	var action actionRequest
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch action.Type {
	case ActionToggleWatchlist:
		app.handleToggle(w, models.CollectionWatchlist, action.MovieID)
	case ActionToggleWatched:
		app.handleToggle(w, models.CollectionWatched, action.MovieID)
	case ActionToggleFavorite:
		app.handleToggle(w, models.CollectionFavorites, action.MovieID)

	case ActionOpenTrailer:
		video, err := app.tmdbService.Trailer(r.Context(), action.MovieID)
		if err != nil {
			log.Printf("Trailer lookup failed for movie %d: %v", action.MovieID, err)
			http.Error(w, "Trailer not available", http.StatusNotFound)
			return
		}
		writeJSON(w, video)

	case ActionGoToPage:
		app.mu.Lock()
		app.query.SetPage(action.Page)
		q := *app.query
		app.mu.Unlock()
		writeJSON(w, q)

	case ActionSearchInput:
		gen := app.searcher.Trigger(action.Query)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(map[string]uint64{"generation": gen}); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}

	default:
		http.Error(w, "Unknown action type", http.StatusBadRequest)
	}
}

func (app *App) handleToggle(w http.ResponseWriter, name models.Collection, id int) {
	if id <= 0 {
		http.Error(w, "Invalid movie ID", http.StatusBadRequest)
		return
	}

	if err := app.collectionRepo.Toggle(name, id, app.fetchRecord); err != nil {
		log.Printf("Error toggling %s for movie %d: %v", name, id, err)
		http.Error(w, "Failed to update collection", http.StatusBadGateway)
		return
	}

	writeJSON(w, struct {
		Membership models.Membership         `json:"membership"`
		Counts     map[models.Collection]int `json:"counts"`
	}{
		Membership: app.collectionRepo.Membership(id),
		Counts:     app.collectionRepo.Counts(),
	})
}

// fetchRecord retrieves the full record for a toggle-add via the catalog.
func (app *App) fetchRecord(id int) (*models.MovieRecord, error) {
	detail, err := app.tmdbService.GetMovie(context.Background(), id)
	if err != nil {
		return nil, err
	}
	rec := detail.Record()
	return &rec, nil
}

// runSearch is the debounced search callback. Results for a superseded
// generation are discarded so a slow earlier response never overwrites a
// later one.
func (app *App) runSearch(generation uint64, query string) {
	page, err := app.tmdbService.Search(context.Background(), query, 1)
	if err != nil {
		log.Printf("Debounced search for %q failed: %v", query, err)
		return
	}

	if !app.searcher.Current(generation) {
		log.Printf("Discarding stale search results for %q (generation %d)", query, generation)
		return
	}

	app.mu.Lock()
	app.query.SetQuery(query)
	app.query.ApplyTotal(page.TotalResults)
	app.lastSearch = page
	app.mu.Unlock()
}

// getSearchPreviewHandler serves the results of the most recent debounced
// search, letting the renderer poll for the live-search panel after posting
// search_input actions.
func (app *App) getSearchPreviewHandler(w http.ResponseWriter, _ *http.Request) {
	app.mu.Lock()
	q := *app.query
	page := app.lastSearch
	app.mu.Unlock()

	var records []models.MovieRecord
	if page != nil {
		records = page.Results
	}

	writeJSON(w, struct {
		Query  models.QueryState     `json:"query"`
		Movies []models.DisplayMovie `json:"movies"`
	}{
		Query:  q,
		Movies: app.displayMovies(records),
	})
}

func (app *App) getCollectionHandler(w http.ResponseWriter, r *http.Request) {
	name := models.Collection(mux.Vars(r)["name"])
	if !name.Valid() {
		http.Error(w, "Unknown collection", http.StatusNotFound)
		return
	}

	writeJSON(w, struct {
		Collection models.Collection     `json:"collection"`
		Movies     []models.DisplayMovie `json:"movies"`
	}{
		Collection: name,
		Movies:     app.displayMovies(app.collectionRepo.List(name)),
	})
}

func (app *App) getThemeHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]models.Theme{"theme": app.themeRepo.Get()})
}

func (app *App) putThemeHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme models.Theme `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var (
		theme models.Theme
		err   error
	)
	if body.Theme == "" {
		// Empty body theme means toggle.
		theme, err = app.themeRepo.Toggle()
	} else {
		theme, err = body.Theme, app.themeRepo.Set(body.Theme)
	}
	if err != nil {
		log.Printf("Error updating theme: %v", err)
		http.Error(w, "Failed to update theme", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]models.Theme{"theme": theme})
}

func movieID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "Invalid movie ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
