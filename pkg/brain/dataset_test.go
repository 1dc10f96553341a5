package brain_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/brainfeed/pkg/brain"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetSourcePath(t *testing.T) {
	sym := models.NewSymbol("aapl")
	date := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		key  string
		path string
	}{
		{"wikipedia", "data/alternative/brain/bwpv/aapl.csv"},
		{"earnings_calls", "data/alternative/brain/blmect/aapl.csv"},
		{"filing_10k", "data/alternative/brain/report_10k/202509/aapl.csv"},
		{"filing_universe_all", "data/alternative/brain/report_all/universe/20250910.csv"},
		{"sentiment_30", "data/alternative/brain/sentiment/30/202509/aapl.csv"},
		{"sentiment_universe", "data/alternative/brain/sentiment/universe/20250910.csv"},
		{"ranking_21", "data/alternative/brain/rankings/21/202509/aapl.csv"},
		{"ranking_universe", "data/alternative/brain/rankings/universe/20250910.csv"},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(tt *testing.T) {
			ds, ok := brain.Lookup(tc.key)
			require.True(tt, ok)
			assert.Equal(tt, tc.path, ds.SourcePath("data", sym, date))
			assert.Equal(tt, "daily", ds.Resolution)
			assert.Equal(tt, time.UTC, ds.TimeZone)
		})
	}
}

func TestDatasetRegistry(t *testing.T) {
	keys := brain.Keys()
	assert.Equal(t, 15, len(keys))
	assert.Contains(t, keys, "wikipedia")
	assert.Contains(t, keys, "ranking_10")

	_, ok := brain.Lookup("no_such_dataset")
	assert.False(t, ok)

	t.Run("universe datasets need no symbol mapping", func(tt *testing.T) {
		for _, key := range keys {
			ds, _ := brain.Lookup(key)
			if ds.IsUniverse() {
				assert.False(tt, ds.RequiresMapping, key)
				assert.False(tt, ds.Sparse, key)
				assert.True(tt, ds.Schema.Identity, key)
			} else {
				assert.True(tt, ds.RequiresMapping, key)
				assert.True(tt, ds.Sparse, key)
				assert.NotNil(tt, ds.Schema.RowDate, key)
			}
		}
	})

	t.Run("parse through dataset", func(tt *testing.T) {
		ds, _ := brain.Lookup("wikipedia")
		assert.Equal(tt, "BrainWikipediaPageViews", ds.Name())
		rec, err := ds.Parse("20250910,14220,4.2139,58460,0.5318,218379,-0.6219", testReq)
		require.NoError(tt, err)
		require.NotNil(tt, rec)
		assert.Equal(tt, "4.2139", rec.Decimal("buzz_1").Decimal.String())
	})
}
