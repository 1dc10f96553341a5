package brain_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/brainfeed/pkg/brain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockRanking(t *testing.T) {
	for _, days := range brain.RankingHorizons {
		sc, ok := brain.StockRankingSchemas[days]
		require.True(t, ok, days)
		assert.Equal(t, "BrainStockRanking"+days+"Day", sc.Name)
	}

	t.Run("rank row", func(tt *testing.T) {
		data, err := brain.ParseStockRanking(brain.StockRankingSchemas["5"], "20250910,-0.0123", testReq)
		require.NoError(tt, err)
		require.NotNil(tt, data)
		assert.Equal(tt, "-0.0123", data.Rank.String())
		assert.Equal(tt, testDay.Add(12*time.Hour), data.EndTime)
		assert.Equal(tt, testDay.Add(-12*time.Hour), data.Time)
	})

	t.Run("empty rank is an error", func(tt *testing.T) {
		_, err := brain.ParseStockRanking(brain.StockRankingSchemas["2"], "20250910,", testReq)
		require.Error(tt, err)
	})

	t.Run("missing rank yields no record", func(tt *testing.T) {
		data, err := brain.ParseStockRanking(brain.StockRankingSchemas["2"], "20250910", testReq)
		require.NoError(tt, err)
		assert.Nil(tt, data)
	})
}

func TestStockRankingUniverse(t *testing.T) {
	t.Run("partial ranks", func(tt *testing.T) {
		data, err := brain.ParseStockRankingUniverse("AAPL R735QTJ8XC9X,AAPL,1,2,,,20", testReq)
		require.NoError(tt, err)
		require.NotNil(tt, data)

		assert.Equal(tt, "AAPL", data.Symbol.Ticker)
		assert.Equal(tt, testDay.Add(-24*time.Hour), data.Time)
		assert.Equal(tt, testDay, data.EndTime)
		assert.Equal(tt, "1", data.Value.String())

		assertDecimal(tt, "1", data.Rank2Days)
		assertDecimal(tt, "2", data.Rank3Days)
		assertNull(tt, data.Rank5Days)
		assertNull(tt, data.Rank10Days)
		assertDecimal(tt, "20", data.Rank21Days)
	})

	t.Run("null first rank gives zero value", func(tt *testing.T) {
		data, err := brain.ParseStockRankingUniverse("AAPL R735QTJ8XC9X,AAPL,,2,3,4,5", testReq)
		require.NoError(tt, err)
		require.NotNil(tt, data)
		assert.True(tt, data.Value.IsZero())
	})

	t.Run("six columns yield no record", func(tt *testing.T) {
		data, err := brain.ParseStockRankingUniverse("AAPL R735QTJ8XC9X,AAPL,1,2,,", testReq)
		require.NoError(tt, err)
		assert.Nil(tt, data)
	})
}
