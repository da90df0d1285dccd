package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestJSONColumnsAreTextOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Setting{}, &SettingsHistory{}))

	for model, columns := range map[any][]string{
		&Setting{}:         {"value"},
		&SettingsHistory{}: {"old_value", "new_value"},
	} {
		types, err := db.Migrator().ColumnTypes(model)
		require.NoError(t, err)

		found := 0

		for _, ct := range types {
			for _, name := range columns {
				if ct.Name() == name {
					found++
					assert.Equal(t, "TEXT", strings.ToUpper(ct.DatabaseTypeName()), "column %s", name)
				}
			}
		}

		assert.Equal(t, len(columns), found)
	}

	require.NoError(t, db.Create(&Setting{Key: "free_shipping_min", Value: JSON(`250`)}).Error)

	var got Setting
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "250", got.Value.String())
}

func TestJSONScan(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"integer", int64(250), "250"},
		{"float", 1.5, "1.5"},
		{"text", "\"dark\"", "\"dark\""},
		{"bytes", []byte(`{"a":1}`), `{"a":1}`},
		{"null", nil, "null"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var j JSON
			require.NoError(t, j.Scan(tc.value))
			assert.Equal(t, tc.want, j.String())
		})
	}

	var j JSON
	assert.Error(t, j.Scan(struct{}{}))
}

func TestJSONMarshalKeepsDocument(t *testing.T) {
	out, err := json.Marshal(Setting{Key: "limit", Value: JSON(`250`), Category: CategoryBilling})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"value":250`)

	var s Setting
	require.NoError(t, json.Unmarshal([]byte(`{"key":"limit","value":{"a":[1,2]}}`), &s))
	assert.JSONEq(t, `{"a":[1,2]}`, s.Value.String())
}
