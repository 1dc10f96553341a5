package brain

import (
	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/shopspring/decimal"
)

var wikipediaFields = []string{
	"number_views_1", "buzz_1",
	"number_views_7", "buzz_7",
	"number_views_30", "buzz_30",
}

// WikipediaPageViewsSchema is strict throughout: a malformed cell is an error.
var WikipediaPageViewsSchema = &schema.Schema{
	Name:       "BrainWikipediaPageViews",
	MinColumns: 7,
	RowDate:    rowDate(decode.Strict),
	Blocks: []schema.Block{
		{Name: "page_views", Offset: 1, Columns: decimals(decode.Strict, wikipediaFields...)},
	},
	Convention: schema.StampedAtRowDate,
}

// WikipediaPageViews is page view counts and buzz of a company's Wikipedia
// page over 1, 7 and 30 days.
type WikipediaPageViews struct {
	Stamp
	NumberViews1  decimal.NullDecimal `json:"number_views_1"`
	Buzz1         decimal.NullDecimal `json:"buzz_1"`
	NumberViews7  decimal.NullDecimal `json:"number_views_7"`
	Buzz7         decimal.NullDecimal `json:"buzz_7"`
	NumberViews30 decimal.NullDecimal `json:"number_views_30"`
	Buzz30        decimal.NullDecimal `json:"buzz_30"`
}

// NewWikipediaPageViews builds WikipediaPageViews from a parsed record.
func NewWikipediaPageViews(rec *schema.Record) *WikipediaPageViews {
	return &WikipediaPageViews{
		Stamp:         stampOf(rec),
		NumberViews1:  rec.Decimal("number_views_1"),
		Buzz1:         rec.Decimal("buzz_1"),
		NumberViews7:  rec.Decimal("number_views_7"),
		Buzz7:         rec.Decimal("buzz_7"),
		NumberViews30: rec.Decimal("number_views_30"),
		Buzz30:        rec.Decimal("buzz_30"),
	}
}

// ParseWikipediaPageViews parses one line of a bwpv file.
func ParseWikipediaPageViews(line string, req schema.Request) (*WikipediaPageViews, error) {
	return parseAs(WikipediaPageViewsSchema, line, req, NewWikipediaPageViews)
}
