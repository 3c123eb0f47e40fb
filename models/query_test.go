package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQueryState_Defaults(t *testing.T) {
	q := NewQueryState()

	assert.Equal(t, ModeDiscover, q.Mode())
	assert.Equal(t, SortPopularity, q.Sort)
	assert.Equal(t, 1, q.Page)
	assert.Empty(t, q.Query)
	assert.Zero(t, q.GenreID)
	assert.Empty(t, q.Year)
}

func TestQueryState_ModeFollowsQueryText(t *testing.T) {
	q := NewQueryState()

	q.SetQuery("alien")
	assert.Equal(t, ModeSearch, q.Mode())

	q.SetQuery("")
	assert.Equal(t, ModeDiscover, q.Mode())
}

func TestQueryState_FilterChangesResetPage(t *testing.T) {
	q := NewQueryState()

	q.SetPage(7)
	q.SetQuery("alien")
	assert.Equal(t, 1, q.Page)

	q.SetPage(7)
	q.SetGenre(28)
	assert.Equal(t, 1, q.Page)

	q.SetPage(7)
	q.SetYear("1986")
	assert.Equal(t, 1, q.Page)

	q.SetPage(7)
	q.SetSort(SortRating)
	assert.Equal(t, 1, q.Page)
}

func TestQueryState_UnchangedValuesKeepPage(t *testing.T) {
	q := NewQueryState()
	q.SetQuery("alien")
	q.SetPage(3)

	// Re-applying the same value must not reset the page
	q.SetQuery("alien")
	assert.Equal(t, 3, q.Page)

	q.SetSort(SortPopularity)
	assert.Equal(t, 3, q.Page)
}

func TestQueryState_SetYearRejectsMalformedInput(t *testing.T) {
	q := NewQueryState()
	q.SetPage(3)

	q.SetYear("19x6")
	assert.Empty(t, q.Year)
	assert.Equal(t, 3, q.Page)

	q.SetYear("86")
	assert.Empty(t, q.Year)

	q.SetYear("1986")
	assert.Equal(t, "1986", q.Year)
	assert.Equal(t, 1, q.Page)

	// Empty clears the filter
	q.SetPage(3)
	q.SetYear("")
	assert.Empty(t, q.Year)
	assert.Equal(t, 1, q.Page)
}

func TestQueryState_SetSortFallsBackToPopularity(t *testing.T) {
	q := NewQueryState()
	q.SetSort(SortKey("bogus.asc"))
	assert.Equal(t, SortPopularity, q.Sort)
}

func TestQueryState_SetPageClampsToOne(t *testing.T) {
	q := NewQueryState()
	q.SetPage(0)
	assert.Equal(t, 1, q.Page)
	q.SetPage(-5)
	assert.Equal(t, 1, q.Page)
}

func TestQueryState_ApplyTotalCapsResults(t *testing.T) {
	q := NewQueryState()

	// Server-reported total of 10000 is capped at 500 results = 25 pages
	q.ApplyTotal(10000)
	assert.Equal(t, 25, q.TotalPages)

	q.ApplyTotal(45)
	assert.Equal(t, 3, q.TotalPages)

	q.ApplyTotal(0)
	assert.Equal(t, 0, q.TotalPages)

	q.ApplyTotal(1)
	assert.Equal(t, 1, q.TotalPages)
}
