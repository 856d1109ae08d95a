package pagination

import "strconv"

// DefaultPerPage is the number of posts shown on one list page.
const DefaultPerPage = 3

// Page is one window of a list.
type Page[T any] struct {
	Items    []T  `json:"items"`
	Number   int  `json:"page"`
	NumPages int  `json:"numPages"`
	Total    int  `json:"total"`
	HasNext  bool `json:"hasNext"`
	HasPrev  bool `json:"hasPrevious"`
	PerPage  int  `json:"perPage"`
}

// Paginate slices items into the requested page. raw is the untrusted page
// parameter: anything that is not an integer selects page 1, and a number
// past the end selects the last page.
func Paginate[T any](items []T, raw string, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	numPages := (len(items) + perPage - 1) / perPage
	if numPages == 0 {
		numPages = 1
	}

	n, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		n = 1
	case n > numPages:
		n = numPages
	case n < 1:
		n = numPages
	}

	start := (n - 1) * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		start = end
	}
	window := make([]T, end-start)
	copy(window, items[start:end])

	return Page[T]{
		Items:    window,
		Number:   n,
		NumPages: numPages,
		Total:    len(items),
		HasNext:  n < numPages,
		HasPrev:  n > 1,
		PerPage:  perPage,
	}
}
