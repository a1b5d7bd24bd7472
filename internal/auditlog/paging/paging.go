// Package paging implements the over-fetch-by-one pagination strategy.
// Fetching pageSize+1 units yields an O(1) has-more signal without a
// separate COUNT query.
package paging

// Page is the pagination envelope echoed back in responses.
type Page struct {
	Number  int  `json:"page"`
	Size    int  `json:"pageSize"`
	HasMore bool `json:"hasMore"`
}

// Limit returns the fetch limit for over-fetch-by-one at the given page size.
func Limit(pageSize int) int {
	return pageSize + 1
}

// TrimOverfetch trims a unit list fetched with Limit(pageSize) down to the
// page and reports whether more units exist beyond it.
func TrimOverfetch[T any](units []T, pageSize int) ([]T, bool) {
	if len(units) > pageSize {
		return units[:pageSize], true
	}
	return units, false
}

// SliceInMemory pages an already materialized unit list by array slicing.
// Used by the activity view, where units (sessions) only exist after the
// in-memory grouping pass. Requests beyond the last page return an empty
// list with hasMore false, not an error.
func SliceInMemory[T any](units []T, page, pageSize int) ([]T, bool) {
	start := (page - 1) * pageSize
	if start >= len(units) {
		return []T{}, false
	}
	end := start + pageSize
	if end >= len(units) {
		return units[start:], false
	}
	return units[start:end], true
}
