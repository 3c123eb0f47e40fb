package repository

import (
	"fmt"
	"log"

	"filmboard/database"
	"filmboard/models"
)

const themeKey = "theme"

// ThemeRepository persists the display theme preference as a plain string.
type ThemeRepository struct {
	db *database.DB
}

// NewThemeRepository creates a new theme repository
func NewThemeRepository(db *database.DB) *ThemeRepository {
	return &ThemeRepository{db: db}
}

// Get returns the stored theme. A missing or unrecognized value falls back to
// the dark default.
func (r *ThemeRepository) Get() models.Theme {
	raw, ok, err := r.db.Get(themeKey)
	if err != nil {
		log.Printf("Failed to read theme preference: %v", err)
		return models.ThemeDark
	}
	if !ok {
		return models.ThemeDark
	}
	switch models.Theme(raw) {
	case models.ThemeLight:
		return models.ThemeLight
	default:
		return models.ThemeDark
	}
}

// Set persists the theme preference.
func (r *ThemeRepository) Set(theme models.Theme) error {
	if theme != models.ThemeDark && theme != models.ThemeLight {
		return fmt.Errorf("unknown theme %q", theme)
	}
	if err := r.db.Set(themeKey, string(theme)); err != nil {
		return fmt.Errorf("failed to persist theme: %w", err)
	}
	return nil
}

// Toggle flips the stored theme and returns the new value.
func (r *ThemeRepository) Toggle() (models.Theme, error) {
	next := models.ThemeDark
	if r.Get() == models.ThemeDark {
		next = models.ThemeLight
	}
	if err := r.Set(next); err != nil {
		return "", err
	}
	return next, nil
}
