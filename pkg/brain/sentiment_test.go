package brain_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/brainfeed/pkg/brain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentimentIndicator(t *testing.T) {
	t.Run("full row", func(tt *testing.T) {
		data, err := brain.ParseSentimentIndicator(brain.SentimentIndicator7DaySchema,
			"20250910,12,7,0.2231,1.5,0.75", testReq)
		require.NoError(tt, err)
		require.NotNil(tt, data)

		assert.Equal(tt, testDay.Add(12*time.Hour), data.EndTime)
		assert.Equal(tt, testDay.Add(-12*time.Hour), data.Time)
		assertDecimal(tt, "12", data.TotalArticleMentions)
		assertDecimal(tt, "7", data.SentimentalArticleMentions)
		assertDecimal(tt, "0.2231", data.Sentiment)
		assertDecimal(tt, "1.5", data.TotalBuzzVolume)
		assertDecimal(tt, "0.75", data.SentimentalBuzzVolume)
	})

	t.Run("mentions written as decimals", func(tt *testing.T) {
		data, err := brain.ParseSentimentIndicator(brain.SentimentIndicator30DaySchema,
			"20250910,12.0,7.0,-0.1,,", testReq)
		require.NoError(tt, err)
		require.NotNil(tt, data)
		assertDecimal(tt, "12", data.TotalArticleMentions)
		assertNull(tt, data.TotalBuzzVolume)
		assertNull(tt, data.SentimentalBuzzVolume)
	})

	t.Run("empty required value is an error", func(tt *testing.T) {
		_, err := brain.ParseSentimentIndicator(brain.SentimentIndicator7DaySchema,
			"20250910,12,7,,1.5,0.75", testReq)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "sentiment")
	})

	t.Run("short row yields no record", func(tt *testing.T) {
		data, err := brain.ParseSentimentIndicator(brain.SentimentIndicator7DaySchema,
			"20250910,12,7,0.2231,1.5", testReq)
		require.NoError(tt, err)
		assert.Nil(tt, data)
	})
}

func TestSentimentUniverse(t *testing.T) {
	t.Run("identity and both windows", func(tt *testing.T) {
		data, err := brain.ParseSentimentUniverse(
			"AAPL R735QTJ8XC9X,AAPL,869,516,0.1196,,,5101,3176,0.0976,-0.169,0.0888", testReq)
		require.NoError(tt, err)
		require.NotNil(tt, data)

		assert.Equal(tt, "AAPL R735QTJ8XC9X", data.Symbol.SecurityID)
		assert.Equal(tt, "AAPL", data.Symbol.Ticker)
		assert.Equal(tt, testDay.Add(-24*time.Hour), data.Time)
		assert.Equal(tt, testDay, data.EndTime)
		assert.Equal(tt, "0.1196", data.Value.String())

		assertDecimal(tt, "869", data.Days7.TotalArticleMentions)
		assertDecimal(tt, "516", data.Days7.SentimentalArticleMentions)
		assertDecimal(tt, "0.1196", data.Days7.Sentiment)
		assertNull(tt, data.Days7.TotalBuzzVolume)
		assertNull(tt, data.Days7.SentimentalBuzzVolume)

		assertDecimal(tt, "5101", data.Days30.TotalArticleMentions)
		assertDecimal(tt, "3176", data.Days30.SentimentalArticleMentions)
		assertDecimal(tt, "0.0976", data.Days30.Sentiment)
		assertDecimal(tt, "-0.169", data.Days30.TotalBuzzVolume)
		assertDecimal(tt, "0.0888", data.Days30.SentimentalBuzzVolume)
	})

	t.Run("eleven columns yield no record", func(tt *testing.T) {
		data, err := brain.ParseSentimentUniverse(
			"AAPL R735QTJ8XC9X,AAPL,869,516,0.1196,,,5101,3176,0.0976,-0.169", testReq)
		require.NoError(tt, err)
		assert.Nil(tt, data)
	})

	t.Run("null sentiment gives zero value", func(tt *testing.T) {
		data, err := brain.ParseSentimentUniverse(
			"AAPL R735QTJ8XC9X,AAPL,869,516,,,,5101,3176,0.0976,-0.169,0.0888", testReq)
		require.NoError(tt, err)
		require.NotNil(tt, data)
		assert.True(tt, data.Value.IsZero())
		assertNull(tt, data.Days7.Sentiment)
	})

	t.Run("malformed value is an error", func(tt *testing.T) {
		_, err := brain.ParseSentimentUniverse(
			"AAPL R735QTJ8XC9X,AAPL,869,516,x,,,5101,3176,0.0976,-0.169,0.0888", testReq)
		require.Error(tt, err)
	})
}
