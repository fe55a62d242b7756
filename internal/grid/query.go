package grid

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Query selects a sorted, filtered page of rows.
type Query struct {
	Page      int
	PageSize  int
	SortField string
	SortDesc  bool
	// Search matches any text column, case-insensitively.
	Search string
}

type Result struct {
	Rows       []Row
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Apply filters, sorts and pages rows. rows is not modified.
func Apply(rows []Row, q Query) Result {
	if !slices.Contains(PageSizes, q.PageSize) {
		q.PageSize = PageSizes[0]
	}

	filtered := make([]Row, 0, len(rows))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, row := range rows {
		if needle == "" || matches(row, needle) {
			filtered = append(filtered, row)
		}
	}

	if col, ok := ColumnByField(q.SortField); ok {
		slices.SortStableFunc(filtered, func(a, b Row) int {
			c := compareField(col, a, b)
			if q.SortDesc {
				return -c
			}
			return c
		})
	}

	total := len(filtered)
	pages := max(1, (total+q.PageSize-1)/q.PageSize)
	page := min(max(q.Page, 1), pages)
	start := min((page-1)*q.PageSize, total)
	end := min(start+q.PageSize, total)

	return Result{
		Rows:       filtered[start:end],
		Total:      total,
		Page:       page,
		PageSize:   q.PageSize,
		TotalPages: pages,
	}
}

func matches(row Row, needle string) bool {
	for _, col := range Columns() {
		if col.Filter != FilterText {
			continue
		}
		if strings.Contains(strings.ToLower(row.Value(col.Field)), needle) {
			return true
		}
	}
	return false
}

func compareField(col Column, a, b Row) int {
	av, bv := a.Value(col.Field), b.Value(col.Field)
	switch col.Filter {
	case FilterNumber:
		an, _ := strconv.ParseInt(av, 10, 64)
		bn, _ := strconv.ParseInt(bv, 10, 64)
		return cmp.Compare(an, bn)
	case FilterDate:
		at, aok := parseDate(av, time.UTC)
		bt, bok := parseDate(bv, time.UTC)
		if aok && bok {
			return at.Compare(bt)
		}
	}
	return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
}
