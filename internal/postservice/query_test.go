package postservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQueryNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   ListQuery
		want ListQuery
	}{
		{
			name: "zero value gets defaults",
			in:   ListQuery{},
			want: ListQuery{Page: 1, PageSize: DefaultPageSize, Sort: SortNewest},
		},
		{
			name: "negative page clamps to 1",
			in:   ListQuery{Page: -3, PageSize: 9, Sort: SortOldest},
			want: ListQuery{Page: 1, PageSize: 9, Sort: SortOldest},
		},
		{
			name: "oversized page size clamps to max",
			in:   ListQuery{Page: 2, PageSize: 500, Sort: SortTitleAZ},
			want: ListQuery{Page: 2, PageSize: MaxPageSize, Sort: SortTitleAZ},
		},
		{
			name: "filters are untouched",
			in:   ListQuery{Search: "apple", Category: "tech"},
			want: ListQuery{Page: 1, PageSize: DefaultPageSize, Search: "apple", Category: "tech", Sort: SortNewest},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.in
			q.normalize()
			assert.Equal(t, tc.want, q)
		})
	}
}

func TestPageWindow(t *testing.T) {
	testCases := []struct {
		name           string
		totalCount     int
		page           int
		pageSize       int
		wantPage       int
		wantTotalPages int
		wantOffset     int
	}{
		{name: "empty set", totalCount: 0, page: 1, pageSize: 9, wantPage: 1, wantTotalPages: 0, wantOffset: 0},
		{name: "empty set with high page", totalCount: 0, page: 7, pageSize: 9, wantPage: 1, wantTotalPages: 0, wantOffset: 0},
		{name: "exact single page", totalCount: 9, page: 1, pageSize: 9, wantPage: 1, wantTotalPages: 1, wantOffset: 0},
		{name: "twenty records make three pages", totalCount: 20, page: 1, pageSize: 9, wantPage: 1, wantTotalPages: 3, wantOffset: 0},
		{name: "last partial page", totalCount: 20, page: 3, pageSize: 9, wantPage: 3, wantTotalPages: 3, wantOffset: 18},
		{name: "page beyond range clamps to last", totalCount: 20, page: 99, pageSize: 9, wantPage: 3, wantTotalPages: 3, wantOffset: 18},
		{name: "page below range clamps to first", totalCount: 20, page: 0, pageSize: 9, wantPage: 1, wantTotalPages: 3, wantOffset: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, totalPages, offset := pageWindow(tc.totalCount, tc.page, tc.pageSize)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantTotalPages, totalPages)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestOrderClause(t *testing.T) {
	testCases := []struct {
		sort Sort
		want string
	}{
		{SortNewest, "ORDER BY p.created_at DESC, p.id DESC"},
		{SortOldest, "ORDER BY p.created_at ASC, p.id ASC"},
		{SortTitleAZ, "ORDER BY LOWER(p.title) ASC, p.id ASC"},
		{SortTitleZA, "ORDER BY LOWER(p.title) DESC, p.id ASC"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.sort), func(t *testing.T) {
			q := ListQuery{Sort: tc.sort}
			assert.Equal(t, tc.want, q.orderClause())
		})
	}
}

func TestFilterClause(t *testing.T) {
	testCases := []struct {
		name       string
		q          ListQuery
		wantClause string
		wantArgs   []any
	}{
		{
			name:       "no filters",
			q:          ListQuery{},
			wantClause: "",
			wantArgs:   nil,
		},
		{
			name:       "search only",
			q:          ListQuery{Search: "apple"},
			wantClause: "WHERE (p.title ILIKE $1 OR p.content ILIKE $1)",
			wantArgs:   []any{"%apple%"},
		},
		{
			name:       "category only",
			q:          ListQuery{Category: "tech"},
			wantClause: "WHERE p.category = $1",
			wantArgs:   []any{"tech"},
		},
		{
			name:       "search and category",
			q:          ListQuery{Search: "apple", Category: "tech"},
			wantClause: "WHERE (p.title ILIKE $1 OR p.content ILIKE $1) AND p.category = $2",
			wantArgs:   []any{"%apple%", "tech"},
		},
		{
			name:       "percent in search matches literally",
			q:          ListQuery{Search: "100%"},
			wantClause: "WHERE (p.title ILIKE $1 OR p.content ILIKE $1)",
			wantArgs:   []any{`%100\%%`},
		},
		{
			name:       "underscore in search matches literally",
			q:          ListQuery{Search: "snake_case"},
			wantClause: "WHERE (p.title ILIKE $1 OR p.content ILIKE $1)",
			wantArgs:   []any{`%snake\_case%`},
		},
		{
			name:       "backslash in search matches literally",
			q:          ListQuery{Search: `C:\temp`},
			wantClause: "WHERE (p.title ILIKE $1 OR p.content ILIKE $1)",
			wantArgs:   []any{`%C:\\temp%`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clause, args := tc.q.filterClause()
			assert.Equal(t, tc.wantClause, clause)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}
