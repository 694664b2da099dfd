package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// sortColumns whitelists the columns a listing may be ordered by. User
// input never reaches the ORDER BY clause unless it names one of them.
type sortColumns struct {
	allowed  map[string]struct{}
	fallback string
}

func newSortColumns(fallback string, columns ...string) sortColumns {
	allowed := make(map[string]struct{}, len(columns)+1)
	allowed[fallback] = struct{}{}
	for _, c := range columns {
		allowed[c] = struct{}{}
	}
	return sortColumns{allowed: allowed, fallback: fallback}
}

var productSortColumns = newSortColumns("name", "id", "price", "created_at", "updated_at")

// orderBy resolves a requested column and direction. Unknown columns use
// the fallback; anything but "desc" sorts ascending.
func (s sortColumns) orderBy(column, dir string) clause.OrderByColumn {
	column = strings.ToLower(strings.TrimSpace(column))
	if _, ok := s.allowed[column]; !ok {
		column = s.fallback
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   strings.EqualFold(strings.TrimSpace(dir), "desc"),
	}
}
