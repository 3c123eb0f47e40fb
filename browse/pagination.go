package browse

// DirectiveType discriminates pagination render directives
type DirectiveType string

// Directive type constants
const (
	DirectivePrev     DirectiveType = "prev"
	DirectiveNext     DirectiveType = "next"
	DirectivePage     DirectiveType = "page"
	DirectiveEllipsis DirectiveType = "ellipsis"
)

// Directive is one element of the pagination control sequence. The directive
// sequence, not markup, is the contract consumed by the renderer.
type Directive struct {
	Type     DirectiveType `json:"type"`
	Number   int           `json:"number,omitempty"`
	Current  bool          `json:"current,omitempty"`
	Disabled bool          `json:"disabled,omitempty"`
}

// Window sizes offered to the renderer; the narrow variant is used on
// compact viewports.
const (
	WindowSizeDefault = 5
	WindowSizeCompact = 3
)

// PaginationWindow computes the bounded sequence of pagination directives for
// a 1-based current page. The visible window is centered on the current page
// and clamped to [1, totalPages]; page 1 and the last page are pinned outside
// the window with ellipsis markers when pages are skipped. A previous and
// next directive always bracket the sequence, disabled at the respective
// boundary. totalPages <= 0 yields no page directives at all.
func PaginationWindow(currentPage, totalPages, windowSize int) []Directive {
	if totalPages < 0 {
		totalPages = 0
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages && totalPages > 0 {
		currentPage = totalPages
	}

	directives := []Directive{{
		Type:     DirectivePrev,
		Disabled: currentPage <= 1,
	}}

	start, end := 1, totalPages
	if totalPages > windowSize {
		// Half-widths: floor(size/2) before the current page,
		// ceil(size/2)-1 after it.
		before := windowSize / 2
		after := (windowSize+1)/2 - 1

		start = currentPage - before
		end = currentPage + after
		if start < 1 {
			end += 1 - start
			start = 1
		}
		if end > totalPages {
			start -= end - totalPages
			end = totalPages
		}
	}

	if start > 1 {
		directives = append(directives, Directive{Type: DirectivePage, Number: 1})
		if start > 2 {
			directives = append(directives, Directive{Type: DirectiveEllipsis})
		}
	}

	for n := start; n <= end; n++ {
		directives = append(directives, Directive{
			Type:    DirectivePage,
			Number:  n,
			Current: n == currentPage,
		})
	}

	if end < totalPages {
		if end < totalPages-1 {
			directives = append(directives, Directive{Type: DirectiveEllipsis})
		}
		directives = append(directives, Directive{Type: DirectivePage, Number: totalPages})
	}

	directives = append(directives, Directive{
		Type:     DirectiveNext,
		Disabled: currentPage >= totalPages,
	})
	return directives
}
