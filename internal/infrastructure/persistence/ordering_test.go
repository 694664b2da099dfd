package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortColumns_OrderBy(t *testing.T) {
	tests := []struct {
		name     string
		column   string
		dir      string
		wantCol  string
		wantDesc bool
	}{
		{"empty uses fallback ascending", "", "", "name", false},
		{"whitelisted column", "price", "desc", "price", true},
		{"case and spaces are normalized", "  Created_At ", " DESC ", "created_at", true},
		{"unknown column falls back", "password_hash", "asc", "name", false},
		{"injection in column falls back", "name; DROP TABLE products;--", "asc", "name", false},
		{"injection in direction sorts ascending", "price", "DESC; DROP TABLE products", "price", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := productSortColumns.orderBy(tt.column, tt.dir)
			assert.Equal(t, tt.wantCol, got.Column.Name)
			assert.Equal(t, tt.wantDesc, got.Desc)
		})
	}
}
