package domain

import "strings"

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
	DefaultSort      = "-createdAt"
)

// ListFilter contains paging and sorting parameters for record listings.
// AuthorID restricts results to records authored by that user.
type ListFilter struct {
	Limit    int
	Offset   int
	Sort     string
	AuthorID *int64
}

// Normalize clamps paging values and applies the default sort.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Sort = strings.TrimSpace(f.Sort)
	if f.Sort == "" || f.Sort == "-" {
		f.Sort = DefaultSort
	}
	return f
}

// ParseSort splits a sort expression such as "-createdAt" into its field
// and direction.
func ParseSort(sort string) (field string, desc bool) {
	sort = strings.TrimSpace(sort)
	if strings.HasPrefix(sort, "-") {
		return sort[1:], true
	}
	return strings.TrimPrefix(sort, "+"), false
}
