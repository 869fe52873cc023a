package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Catalog filters are exact, case-sensitive matches. That only holds at the
// database if the filterable columns are created with a binary collation;
// the MySQL 8 default utf8mb4_0900_ai_ci would let 'daft punk' match
// 'Daft Punk'.
func TestFilterableColumnsUseBinaryCollation(t *testing.T) {
	songType := reflect.TypeOf(Song{})
	for _, name := range []string{"Artist", "Album", "Genre"} {
		field, ok := songType.FieldByName(name)
		require.True(t, ok, name)
		assert.Contains(t, field.Tag.Get("gorm"), "COLLATE utf8mb4_bin", name)
	}
}
