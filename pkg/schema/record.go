package schema

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/guregu/null/v6"
	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/shopspring/decimal"
)

// Value is a nullable cell. Only the member matching Kind is used.
type Value struct {
	Kind    Kind
	Decimal decimal.NullDecimal
	Int     null.Int
	Date    null.Time
	String  null.String
}

// Valid is false when the cell is null.
func (x Value) Valid() bool {
	switch x.Kind {
	case KindDecimal:
		return x.Decimal.Valid
	case KindInteger:
		return x.Int.Valid
	case KindDate:
		return x.Date.Valid
	case KindString:
		return x.String.Valid
	}
	return false
}

// Interface returns the plain Go value, or nil for null. Decimals are kept as
// strings to stay exact.
func (x Value) Interface() interface{} {
	if !x.Valid() {
		return nil
	}

	switch x.Kind {
	case KindDecimal:
		return x.Decimal.Decimal.String()
	case KindInteger:
		return x.Int.Int64
	case KindDate:
		return x.Date.Time.Format(decode.LayoutDashed)
	case KindString:
		return x.String.String
	}
	return nil
}

// Equal compares values numerically, so 0.10 equals 0.1.
func (x Value) Equal(y Value) bool {
	if x.Kind != y.Kind || x.Valid() != y.Valid() {
		return false
	}
	if !x.Valid() {
		return true
	}

	switch x.Kind {
	case KindDecimal:
		return x.Decimal.Decimal.Equal(y.Decimal.Decimal)
	case KindInteger:
		return x.Int.Int64 == y.Int.Int64
	case KindDate:
		return x.Date.Time.Equal(y.Date.Time)
	case KindString:
		return x.String.String == y.String.String
	}
	return false
}

func (x Value) format(col Column) string {
	if !x.Valid() {
		return ""
	}

	switch x.Kind {
	case KindDecimal:
		return x.Decimal.Decimal.String()
	case KindInteger:
		return strconv.FormatInt(x.Int.Int64, 10)
	case KindDate:
		return x.Date.Time.Format(col.layout())
	case KindString:
		return x.String.String
	}
	return ""
}

// Record is one parsed row. It has no setter and getters return copies, so a
// Record never changes after Parse returns it.
type Record struct {
	dataset   string
	symbol    models.Symbol
	intrinsic time.Time
	time      time.Time
	endTime   time.Time
	value     decimal.Decimal
	fields    []string
	values    map[string]Value
}

// Dataset is the name of the schema that produced the record.
func (x *Record) Dataset() string { return x.dataset }

// Symbol of the record.
func (x *Record) Symbol() models.Symbol { return x.symbol }

// IntrinsicDate is the date in the row, or the requested date of a universe file.
func (x *Record) IntrinsicDate() time.Time { return x.intrinsic }

// Time is the start of the period the record covers.
func (x *Record) Time() time.Time { return x.time }

// EndTime is when the record becomes available.
func (x *Record) EndTime() time.Time { return x.endTime }

// Value is the published value, zero when the source column is null.
func (x *Record) Value() decimal.Decimal { return x.value }

// Fields returns column names in file order.
func (x *Record) Fields() []string {
	out := make([]string, len(x.fields))
	copy(out, x.fields)
	return out
}

// Get returns the value of a column.
func (x *Record) Get(name string) (Value, bool) {
	v, ok := x.values[name]
	return v, ok
}

// IsNull is true for a null or unknown column.
func (x *Record) IsNull(name string) bool {
	return !x.values[name].Valid()
}

// Decimal returns a decimal column.
func (x *Record) Decimal(name string) decimal.NullDecimal { return x.values[name].Decimal }

// Int returns an integer column.
func (x *Record) Int(name string) null.Int { return x.values[name].Int }

// Date returns a date column.
func (x *Record) Date(name string) null.Time { return x.values[name].Date }

// String returns a text column.
func (x *Record) String(name string) null.String { return x.values[name].String }

// Equal compares two records field by field.
func (x *Record) Equal(y *Record) bool {
	if x == nil || y == nil {
		return x == y
	}
	if x.dataset != y.dataset || x.symbol != y.symbol ||
		!x.intrinsic.Equal(y.intrinsic) || !x.time.Equal(y.time) || !x.endTime.Equal(y.endTime) ||
		!x.value.Equal(y.value) || len(x.values) != len(y.values) {
		return false
	}

	for name, v := range x.values {
		if !v.Equal(y.values[name]) {
			return false
		}
	}
	return true
}

// Map flattens the record into plain values for encoders.
func (x *Record) Map() map[string]interface{} {
	m := map[string]interface{}{
		"dataset":  x.dataset,
		"ticker":   x.symbol.Ticker,
		"time":     x.time.Format(time.RFC3339),
		"end_time": x.endTime.Format(time.RFC3339),
		"value":    x.value.String(),
	}
	if x.symbol.SecurityID != "" {
		m["security_id"] = x.symbol.SecurityID
	}

	for _, name := range x.fields {
		m[name] = x.values[name].Interface()
	}
	return m
}

// MarshalJSON encodes the record as a flat object.
func (x *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.Map())
}
