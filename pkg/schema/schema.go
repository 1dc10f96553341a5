// Package schema describes fixed column layouts of Brain feeds and parses a
// CSV line into an immutable Record according to the layout.
package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/pkg/errors"
)

// Kind is the type of a column.
type Kind int

const (
	// KindDecimal is an exact decimal number.
	KindDecimal Kind = iota
	// KindInteger is a whole number, written as a decimal in some feeds.
	KindInteger
	// KindDate is a calendar date.
	KindDate
	// KindString is free text.
	KindString
)

func (x Kind) String() string {
	switch x {
	case KindDecimal:
		return "decimal"
	case KindInteger:
		return "integer"
	case KindDate:
		return "date"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(x))
	}
}

// Column is one cell of a row.
type Column struct {
	Name     string
	Kind     Kind
	Mode     decode.Mode
	Required bool
	// Layouts of a date column accepted in strict mode.
	Layouts []string
}

func (x Column) decode(raw string) (Value, error) {
	v := Value{Kind: x.Kind}
	var err error

	switch x.Kind {
	case KindDecimal:
		v.Decimal, err = decode.Decimal(raw, x.Mode)
	case KindInteger:
		v.Int, err = decode.Int(raw, x.Mode)
	case KindDate:
		v.Date, err = decode.Date(raw, x.Mode, x.Layouts...)
	case KindString:
		v.String = decode.String(raw)
	default:
		return v, fmt.Errorf("Unsupported column kind: %v", x.Kind)
	}

	return v, err
}

func (x Column) layout() string {
	if len(x.Layouts) > 0 {
		return x.Layouts[0]
	}
	return decode.LayoutCompact
}

// Block is a run of adjacent columns populated together. A block is filled
// only when the row carries all of its cells, except that a block with
// MinWidth fills its first MinWidth columns when the row carries at least
// MinWidth of them. Columns of an unfilled block are null.
type Block struct {
	Name     string
	Offset   int
	Columns  []Column
	MinWidth int
}

// End is the offset right after the last column.
func (x Block) End() int { return x.Offset + len(x.Columns) }

func (x Block) populated(available int) int {
	n := len(x.Columns)
	switch {
	case available >= n:
		return n
	case x.MinWidth > 0 && available >= x.MinWidth:
		return x.MinWidth
	default:
		return 0
	}
}

// Schema is the layout of one feed.
type Schema struct {
	Name string
	// Base is added to every block offset.
	Base int
	// Rows with fewer cells than MinColumns yield no record.
	MinColumns int
	// RowDate is the date in cell 0 of per-symbol feeds.
	RowDate *Column
	// Identity means cells 0 and 1 hold the security identifier and ticker.
	Identity   bool
	Blocks     []Block
	Convention AvailabilityConvention
	// ValueField names the column published as the record value.
	ValueField string
}

// Request carries what the host knows when it hands a line to Parse.
type Request struct {
	Symbol    models.Symbol
	Date      time.Time
	Delimiter rune
}

// Width is the number of cells of a fully populated row.
func (x *Schema) Width() int {
	w := x.MinColumns
	if x.Identity && w < 2 {
		w = 2
	}
	if x.RowDate != nil && w < 1 {
		w = 1
	}
	for _, blk := range x.Blocks {
		if end := x.Base + blk.End(); end > w {
			w = end
		}
	}
	return w
}

// Columns returns all value columns in file order.
func (x *Schema) Columns() []Column {
	var cols []Column
	for _, blk := range x.Blocks {
		cols = append(cols, blk.Columns...)
	}
	return cols
}

// Block looks up a block by name.
func (x *Schema) Block(name string) (Block, bool) {
	for _, blk := range x.Blocks {
		if blk.Name == name {
			return blk, true
		}
	}
	return Block{}, false
}

func (x *Schema) fieldError(err error, idx int, name string) error {
	return errors.Wrapf(err, "Fail to parse %s: cell %d (%s)", x.Name, idx, name)
}

// Parse converts one line into a Record. A blank line, a row with fewer than
// MinColumns cells and a row missing a required value in lenient mode yield
// (nil, nil). An error is returned only for a strict column.
func (x *Schema) Parse(line string, req Request) (*Record, error) {
	if decode.IsBlank(line) {
		return nil, nil
	}

	cells := decode.Split(line, req.Delimiter)
	if len(cells) < x.MinColumns {
		return nil, nil
	}

	rec := &Record{
		dataset: x.Name,
		symbol:  req.Symbol,
		values:  make(map[string]Value),
	}

	intrinsic := req.Date
	if x.RowDate != nil {
		v, err := x.RowDate.decode(cells[0])
		if err != nil {
			return nil, x.fieldError(err, 0, x.RowDate.Name)
		}
		// A blank row date is a row without data, not a malformed row.
		if !v.Date.Valid {
			return nil, nil
		}
		intrinsic = v.Date.Time
	}

	if x.Identity {
		rec.symbol = models.Symbol{
			SecurityID: strings.TrimSpace(cells[0]),
			Ticker:     strings.TrimSpace(cells[1]),
		}
	}

	for _, blk := range x.Blocks {
		start := x.Base + blk.Offset
		width := blk.populated(len(cells) - start)

		for i, col := range blk.Columns {
			if i >= width {
				if col.Required {
					return nil, nil
				}
				rec.values[col.Name] = Value{Kind: col.Kind}
				continue
			}

			v, err := col.decode(cells[start+i])
			if err != nil {
				return nil, x.fieldError(err, start+i, col.Name)
			}

			if col.Required && !v.Valid() {
				if col.Mode == decode.Strict {
					return nil, x.fieldError(&decode.FieldError{Kind: col.Kind.String(), Value: cells[start+i]}, start+i, col.Name)
				}
				return nil, nil
			}

			rec.values[col.Name] = v
		}
	}

	rec.fields = x.fieldNames()
	rec.intrinsic = intrinsic
	rec.time, rec.endTime = x.Convention.Stamp(intrinsic, req.Date)
	if x.ValueField != "" {
		rec.value = rec.Decimal(x.ValueField).Decimal
	}

	return rec, nil
}

func (x *Schema) fieldNames() []string {
	cols := x.Columns()
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	return names
}

// Format writes rec back in the layout of the schema. Parsing the output with
// the same Request gives a record equal to rec.
func (x *Schema) Format(rec *Record) string {
	cells := make([]string, x.Width())

	if x.RowDate != nil {
		cells[0] = rec.intrinsic.Format(x.RowDate.layout())
	}
	if x.Identity {
		cells[0] = rec.symbol.SecurityID
		cells[1] = rec.symbol.Ticker
	}

	for _, blk := range x.Blocks {
		start := x.Base + blk.Offset
		for i, col := range blk.Columns {
			cells[start+i] = rec.values[col.Name].format(col)
		}
	}

	return strings.Join(cells, string(decode.Comma))
}
