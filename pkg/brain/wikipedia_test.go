package brain_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/pkg/brain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikipediaPageViews(t *testing.T) {
	t.Run("full row", func(tt *testing.T) {
		data, err := brain.ParseWikipediaPageViews("20250910,14220,4.2139,58460,0.5318,218379,-0.6219", testReq)
		require.NoError(tt, err)
		require.NotNil(tt, data)

		assert.Equal(tt, testDay, data.Time)
		assert.Equal(tt, testDay.Add(12*time.Hour), data.EndTime)
		assert.Equal(tt, "AAPL", data.Symbol.Ticker)

		assertDecimal(tt, "14220", data.NumberViews1)
		assertDecimal(tt, "4.2139", data.Buzz1)
		assertDecimal(tt, "58460", data.NumberViews7)
		assertDecimal(tt, "0.5318", data.Buzz7)
		assertDecimal(tt, "218379", data.NumberViews30)
		assertDecimal(tt, "-0.6219", data.Buzz30)
	})

	t.Run("empty last cell is null", func(tt *testing.T) {
		data, err := brain.ParseWikipediaPageViews("20250910,14220,4.2139,58460,0.5318,218379,", testReq)
		require.NoError(tt, err)
		require.NotNil(tt, data)
		assert.Equal(tt, testDay, data.Time)
		assertDecimal(tt, "14220", data.NumberViews1)
		assertNull(tt, data.Buzz30)
	})

	t.Run("empty middle cell is null", func(tt *testing.T) {
		data, err := brain.ParseWikipediaPageViews("20250910,14220,4.2139,58460,,218379,-0.6219", testReq)
		require.NoError(tt, err)
		require.NotNil(tt, data)
		assertDecimal(tt, "58460", data.NumberViews7)
		assertNull(tt, data.Buzz7)
		assertDecimal(tt, "218379", data.NumberViews30)
		assertDecimal(tt, "-0.6219", data.Buzz30)
	})

	t.Run("whitespace line yields no record", func(tt *testing.T) {
		data, err := brain.ParseWikipediaPageViews("   ", testReq)
		require.NoError(tt, err)
		assert.Nil(tt, data)
	})

	t.Run("six columns yield no record", func(tt *testing.T) {
		data, err := brain.ParseWikipediaPageViews("20250910,14220,4.2139,58460,0.5318,218379", testReq)
		require.NoError(tt, err)
		assert.Nil(tt, data)
	})

	t.Run("malformed date is an error", func(tt *testing.T) {
		_, err := brain.ParseWikipediaPageViews("bad-date,14220,4.2139,58460,0.5318,218379,-0.6219", testReq)
		require.Error(tt, err)
		assert.Equal(tt, decode.ErrMalformed, errors.Cause(err))
	})

	t.Run("malformed number is an error", func(tt *testing.T) {
		_, err := brain.ParseWikipediaPageViews("20250910,14220,abc,58460,0.5318,218379,-0.6219", testReq)
		require.Error(tt, err)
		assert.Equal(tt, decode.ErrMalformed, errors.Cause(err))
		assert.Contains(tt, err.Error(), "buzz_1")
	})
}
