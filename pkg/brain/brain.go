// Package brain defines the column layouts of Brain alternative data feeds
// and typed records built from them.
package brain

import (
	"time"

	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/shopspring/decimal"
)

// Stamp is the identity and timeline position shared by all typed records.
type Stamp struct {
	Symbol  models.Symbol `json:"symbol"`
	Time    time.Time     `json:"time"`
	EndTime time.Time     `json:"end_time"`
}

func stampOf(rec *schema.Record) Stamp {
	return Stamp{
		Symbol:  rec.Symbol(),
		Time:    rec.Time(),
		EndTime: rec.EndTime(),
	}
}

// rowDate is the leading date of a per-symbol row. A blank row date means no
// record, even in strict mode.
func rowDate(mode decode.Mode) *schema.Column {
	return &schema.Column{Name: "date", Kind: schema.KindDate, Mode: mode, Required: true}
}

func columns(kind schema.Kind, mode decode.Mode, names ...string) []schema.Column {
	cols := make([]schema.Column, len(names))
	for i, name := range names {
		cols[i] = schema.Column{Name: name, Kind: kind, Mode: mode}
	}
	return cols
}

func decimals(mode decode.Mode, names ...string) []schema.Column {
	return columns(schema.KindDecimal, mode, names...)
}

func prefixed(prefix string, names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = prefix + name
	}
	return out
}

// decimalAt returns the i-th named decimal or null when names is too short.
func decimalAt(rec *schema.Record, names []string, i int) decimal.NullDecimal {
	if i >= len(names) {
		return decimal.NullDecimal{}
	}
	return rec.Decimal(names[i])
}

func parseAs[T any](sc *schema.Schema, line string, req schema.Request, build func(*schema.Record) *T) (*T, error) {
	rec, err := sc.Parse(line, req)
	if err != nil || rec == nil {
		return nil, err
	}
	return build(rec), nil
}
