package decode

import (
	"fmt"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Mode selects how a malformed non-empty cell is treated.
type Mode int

const (
	// Strict returns an error for a malformed cell.
	Strict Mode = iota
	// Lenient turns a malformed cell into null.
	Lenient
)

func (x Mode) String() string {
	switch x {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return fmt.Sprintf("mode(%d)", int(x))
	}
}

const (
	// LayoutCompact is the primary date layout of all feeds (yyyyMMdd).
	LayoutCompact = "20060102"
	// LayoutDashed is the secondary date layout (yyyy-MM-dd).
	LayoutDashed = "2006-01-02"
)

// generalLayouts are tried after the compact and dashed layouts in lenient mode.
var generalLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// ErrMalformed is the cause of every strict decoding failure.
var ErrMalformed = errors.New("malformed field")

// FieldError describes a cell that could not be decoded in strict mode.
type FieldError struct {
	Kind  string
	Value string
}

func (x *FieldError) Error() string {
	return fmt.Sprintf("malformed field: can not parse %q as %s", x.Value, x.Kind)
}

// Cause makes errors.Cause return ErrMalformed.
func (x *FieldError) Cause() error { return ErrMalformed }

// Unwrap supports errors.Is of the standard library.
func (x *FieldError) Unwrap() error { return ErrMalformed }

func malformed(kind, raw string, mode Mode) error {
	if mode == Lenient {
		return nil
	}
	return &FieldError{Kind: kind, Value: raw}
}

// IsBlank returns true if s has no visible character.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Decimal decodes a cell as an exact decimal number. Thousands separators are
// accepted as the invariant number style does.
func Decimal(raw string, mode Mode) (decimal.NullDecimal, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return decimal.NullDecimal{}, nil
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}, malformed("decimal", raw, mode)
	}

	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// Int decodes a cell as a decimal and truncates it toward zero.
func Int(raw string, mode Mode) (null.Int, error) {
	d, err := Decimal(raw, mode)
	if err != nil {
		return null.Int{}, &FieldError{Kind: "integer", Value: raw}
	}
	if !d.Valid {
		return null.Int{}, nil
	}

	whole := d.Decimal.Truncate(0)
	i := whole.IntPart()
	if !decimal.NewFromInt(i).Equal(whole) {
		if err := malformed("integer", raw, mode); err != nil {
			return null.Int{}, err
		}
		return null.Int{}, nil
	}

	return null.IntFrom(i), nil
}

// Date decodes a cell as a calendar date in UTC. In strict mode only layouts
// are accepted (LayoutCompact when none is given). In lenient mode
// LayoutCompact, LayoutDashed and a list of general layouts are tried in order.
func Date(raw string, mode Mode, layouts ...string) (null.Time, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return null.Time{}, nil
	}

	var candidates []string
	switch {
	case mode == Lenient:
		candidates = append([]string{LayoutCompact, LayoutDashed}, generalLayouts...)
	case len(layouts) > 0:
		candidates = layouts
	default:
		candidates = []string{LayoutCompact}
	}

	if t, ok := parseDate(v, candidates); ok {
		return null.TimeFrom(t), nil
	}

	return null.Time{}, malformed("date", raw, mode)
}

// ParseDate is a lenient date parser returning ok=false on failure.
func ParseDate(raw string) (time.Time, bool) {
	d, _ := Date(raw, Lenient)
	return d.Time, d.Valid
}

func parseDate(v string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// String decodes a cell as text. Blank text is null.
func String(raw string) null.String {
	v := strings.TrimSpace(raw)
	if v == "" {
		return null.String{}
	}
	return null.StringFrom(v)
}
