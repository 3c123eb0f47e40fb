// Package repository provides data access layer for the movie collections.
package repository

import (
	"encoding/json"
	"fmt"
	"log"

	"filmboard/database"
	"filmboard/models"
)

// FetchRecordFunc retrieves the full movie record for an id when a toggle
// needs to add an entry that is not yet stored.
type FetchRecordFunc func(id int) (*models.MovieRecord, error)

// CollectionRepository handles storage operations for the three persisted
// movie collections. Each collection lives under its own key as a JSON array.
type CollectionRepository struct {
	db *database.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *database.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// List returns the stored records for a collection in insertion order.
// A missing key or malformed value degrades to an empty collection; a
// corrupted entry must never block the rest of the app.
func (r *CollectionRepository) List(name models.Collection) []models.MovieRecord {
	raw, ok, err := r.db.Get(string(name))
	if err != nil {
		log.Printf("Failed to read collection %q: %v", name, err)
		return []models.MovieRecord{}
	}
	if !ok || raw == "" {
		return []models.MovieRecord{}
	}

	var records []models.MovieRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("Malformed data under collection %q, treating as empty: %v", name, err)
		return []models.MovieRecord{}
	}
	if records == nil {
		records = []models.MovieRecord{}
	}
	return records
}

// Contains reports whether the collection holds a record with the given id.
func (r *CollectionRepository) Contains(name models.Collection, id int) bool {
	for _, rec := range r.List(name) {
		if rec.ID == id {
			return true
		}
	}
	return false
}

// Add appends the record to the collection and persists it. Adding an id that
// is already present is a no-op, so the call is idempotent. Adding to the
// watched collection removes the same id from the watchlist: watched implies
// not-pending.
func (r *CollectionRepository) Add(name models.Collection, record models.MovieRecord) error {
	records := r.List(name)
	for _, rec := range records {
		if rec.ID == record.ID {
			return nil
		}
	}

	records = append(records, record)
	if err := r.save(name, records); err != nil {
		return err
	}

	if name == models.CollectionWatched {
		if err := r.Remove(models.CollectionWatchlist, record.ID); err != nil {
			return fmt.Errorf("failed to evict watched movie %d from watchlist: %w", record.ID, err)
		}
	}
	return nil
}

// Remove deletes the record with the given id and persists the result.
// Removing an absent id is a no-op, not an error.
func (r *CollectionRepository) Remove(name models.Collection, id int) error {
	records := r.List(name)
	kept := records[:0]
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return r.save(name, kept)
}

// Toggle removes the id if present, otherwise fetches the full record and
// adds it. The fetch only happens on the add path.
func (r *CollectionRepository) Toggle(name models.Collection, id int, fetch FetchRecordFunc) error {
	if r.Contains(name, id) {
		return r.Remove(name, id)
	}

	record, err := fetch(id)
	if err != nil {
		return fmt.Errorf("failed to fetch movie %d for %s toggle: %w", id, name, err)
	}
	return r.Add(name, *record)
}

// Membership returns the collection flags for a movie id.
func (r *CollectionRepository) Membership(id int) models.Membership {
	return models.Membership{
		InWatchlist: r.Contains(models.CollectionWatchlist, id),
		InWatched:   r.Contains(models.CollectionWatched, id),
		InFavorites: r.Contains(models.CollectionFavorites, id),
	}
}

// Counts returns the number of stored records per collection for badge display.
func (r *CollectionRepository) Counts() map[models.Collection]int {
	counts := make(map[models.Collection]int, len(models.Collections))
	for _, name := range models.Collections {
		counts[name] = len(r.List(name))
	}
	return counts
}

func (r *CollectionRepository) save(name models.Collection, records []models.MovieRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", name, err)
	}
	if err := r.db.Set(string(name), string(data)); err != nil {
		return fmt.Errorf("failed to persist collection %q: %w", name, err)
	}
	return nil
}
