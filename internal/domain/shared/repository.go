package shared

// Filter is the paging, ordering and search input shared by list queries.
// Filters carries repository-specific predicates keyed by name, for
// example "min_price".
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// Offset is the number of rows skipped before Page. Unpaged filters
// start at zero.
func (f Filter) Offset() int {
	if f.Page > 0 && f.PageSize > 0 {
		return (f.Page - 1) * f.PageSize
	}
	return 0
}
