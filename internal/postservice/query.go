package postservice

import (
	"strconv"
	"strings"
)

type Sort string

const (
	SortNewest  Sort = "newest"
	SortOldest  Sort = "oldest"
	SortTitleAZ Sort = "a-z"
	SortTitleZA Sort = "z-a"
)

const (
	DefaultPageSize = 9
	MaxPageSize     = 50
)

// ListQuery describes one listing request. Search matches title or content
// case-insensitively, Category is an exact match, and the zero value of every
// field means "not set".
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Category string
	Sort     Sort
}

// Page is one bounded slice of the filtered result set plus its metadata.
type Page struct {
	Items      []Post `json:"items"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	TotalCount int    `json:"total_count"`
}

// normalize fills in defaults and clamps out-of-range values so that a listing
// request is always resolvable.
func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}

	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}

	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}

	if q.Sort == "" {
		q.Sort = SortNewest
	}
}

// orderClause returns the ORDER BY clause for the requested sort. Every sort
// carries an id tie-break so the result set is a total order and pagination
// slices it deterministically.
func (q *ListQuery) orderClause() string {
	switch q.Sort {
	case SortOldest:
		return "ORDER BY p.created_at ASC, p.id ASC"
	case SortTitleAZ:
		return "ORDER BY LOWER(p.title) ASC, p.id ASC"
	case SortTitleZA:
		return "ORDER BY LOWER(p.title) DESC, p.id ASC"
	default:
		return "ORDER BY p.created_at DESC, p.id DESC"
	}
}

// escapeSearch neutralizes the ILIKE pattern characters in a search term so
// it matches as a literal substring.
func escapeSearch(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// filterClause returns the WHERE clause and its arguments for the search and
// category filters. An empty clause means the whole collection qualifies.
func (q *ListQuery) filterClause() (string, []any) {
	var conditions []string
	var args []any

	if q.Search != "" {
		args = append(args, "%"+escapeSearch(q.Search)+"%")
		n := strconv.Itoa(len(args))
		conditions = append(conditions, "(p.title ILIKE $"+n+" OR p.content ILIKE $"+n+")")
	}

	if q.Category != "" {
		args = append(args, q.Category)
		conditions = append(conditions, "p.category = $"+strconv.Itoa(len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}

	clause := "WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		clause += " AND " + c
	}

	return clause, args
}

// pageWindow computes the page metadata for a filtered set of totalCount rows.
// The requested page is clamped into [1, max(1, totalPages)]; an empty set
// yields totalPages 0 with page pinned to 1.
func pageWindow(totalCount, page, pageSize int) (clampedPage, totalPages, offset int) {
	if totalCount > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	if page < 1 {
		page = 1
	}

	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	if totalPages == 0 {
		page = 1
	}

	return page, totalPages, (page - 1) * pageSize
}
