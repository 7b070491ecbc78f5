package classifier

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentFor(t *testing.T) {
	tests := []struct {
		category string
		intent   string
		ok       bool
	}{
		{"service_price", "query_price", true},
		{"price", "query_price", true},
		{"service_policy", "query_policy", true},
		{"pol", "query_policy", true},
		{"faq", "query_faq", true},
		{"service_details", "query_service_details", true},
		{"book", "booking", true},
		{"reschedule", "rescheduling", true},
		{"cancellation", "cancellation", true},
		{"xyz", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		intent, ok := IntentFor(tt.category)
		assert.Equal(t, tt.ok, ok, "category %q", tt.category)
		assert.Equal(t, tt.intent, intent, "category %q", tt.category)
	}
}

func TestLoadDataset_DropAccounting(t *testing.T) {
	ds, err := LoadDataset(filepath.Join("testdata", "variants.csv"))
	require.NoError(t, err)

	// 12 raw rows: 9 usable, 2 with a missing field, 1 unmapped category.
	assert.Len(t, ds.Texts, 9)
	assert.Equal(t, 2, ds.DroppedMissing)
	assert.Equal(t, 1, ds.DroppedUnmapped)

	assert.Equal(t, len(ds.Texts), len(ds.Intents))
	assert.Equal(t, len(ds.Texts), len(ds.Items))

	assert.Equal(t, []string{
		"booking", "cancellation", "query_faq", "query_policy",
		"query_price", "query_service_details", "rescheduling",
	}, ds.DistinctIntents())
}

func TestLoadDataset_UnmappedShrinksDataset(t *testing.T) {
	ds, err := LoadDataset(filepath.Join("testdata", "variants.csv"))
	require.NoError(t, err)

	for _, intent := range ds.Intents {
		_, ok := map[string]bool{
			"query_price": true, "query_policy": true, "query_faq": true,
			"query_service_details": true, "booking": true,
			"rescheduling": true, "cancellation": true,
		}[intent]
		assert.True(t, ok, "unexpected intent %q survived mapping", intent)
	}
}

func TestLoadDataset_MissingColumnFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	writeFile(t, path, "variant,category\nhello,booking\n")

	_, err := LoadDataset(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item")
}
