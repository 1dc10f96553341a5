package brain_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDay = time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	testReq = schema.Request{Symbol: models.NewSymbol("AAPL"), Date: testDay}
)

func assertDecimal(t *testing.T, expected string, actual decimal.NullDecimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.True(t, actual.Valid, msgAndArgs...)
	assert.True(t, decimal.RequireFromString(expected).Equal(actual.Decimal),
		"expected %s, got %s", expected, actual.Decimal.String())
}

func assertNull(t *testing.T, actual decimal.NullDecimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.False(t, actual.Valid, msgAndArgs...)
}
