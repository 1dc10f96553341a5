package brain

import (
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/m-mizutani/brainfeed/pkg/schema"
)

// Layout is how a dataset names its source files.
type Layout int

const (
	// LayoutSymbol is one file per symbol: {dir}/{symbol}.csv
	LayoutSymbol Layout = iota
	// LayoutMonthlySymbol is one file per month and symbol: {dir}/{yyyyMM}/{symbol}.csv
	LayoutMonthlySymbol
	// LayoutDailyUniverse is one file per day for all symbols: {dir}/universe/{yyyyMMdd}.csv
	LayoutDailyUniverse
)

// Resolution of every Brain dataset.
const Resolution = "daily"

// Dataset tells the host where a feed lives and how to place it on the timeline.
type Dataset struct {
	Key             string
	Schema          *schema.Schema
	Dir             []string
	Layout          Layout
	RequiresMapping bool
	Sparse          bool
	Resolution      string
	TimeZone        *time.Location
}

// Name is the name of the record type.
func (x *Dataset) Name() string { return x.Schema.Name }

// IsUniverse is true for cross-sectional datasets.
func (x *Dataset) IsUniverse() bool { return x.Layout == LayoutDailyUniverse }

// SourcePath returns the file holding records of symbol for date under root.
func (x *Dataset) SourcePath(root string, symbol models.Symbol, date time.Time) string {
	elems := append([]string{root}, x.Dir...)

	switch x.Layout {
	case LayoutSymbol:
		elems = append(elems, symbol.Value()+".csv")
	case LayoutMonthlySymbol:
		elems = append(elems, date.Format("200601"), symbol.Value()+".csv")
	case LayoutDailyUniverse:
		elems = append(elems, "universe", date.Format("20060102")+".csv")
	}

	return path.Join(elems...)
}

// Parse parses one line of the dataset's source file.
func (x *Dataset) Parse(line string, req schema.Request) (*schema.Record, error) {
	return x.Schema.Parse(line, req)
}

func perSymbol(key string, sc *schema.Schema, layout Layout, dir ...string) *Dataset {
	return &Dataset{
		Key:             key,
		Schema:          sc,
		Dir:             append([]string{"alternative", "brain"}, dir...),
		Layout:          layout,
		RequiresMapping: true,
		Sparse:          true,
		Resolution:      Resolution,
		TimeZone:        time.UTC,
	}
}

func universe(key string, sc *schema.Schema, dir ...string) *Dataset {
	return &Dataset{
		Key:        key,
		Schema:     sc,
		Dir:        append([]string{"alternative", "brain"}, dir...),
		Layout:     LayoutDailyUniverse,
		Resolution: Resolution,
		TimeZone:   time.UTC,
	}
}

var registry = map[string]*Dataset{}

func register(ds *Dataset) {
	if _, ok := registry[ds.Key]; ok {
		panic(fmt.Sprintf("dataset %s is registered twice", ds.Key))
	}
	registry[ds.Key] = ds
}

func init() {
	register(perSymbol("wikipedia", WikipediaPageViewsSchema, LayoutSymbol, "bwpv"))
	register(perSymbol("earnings_calls", EarningsCallsSchema, LayoutSymbol, "blmect"))

	register(perSymbol("filing_10k", Filing10KSchema, LayoutMonthlySymbol, "report_10k"))
	register(perSymbol("filing_all", FilingAllSchema, LayoutMonthlySymbol, "report_all"))
	register(universe("filing_universe_10k", FilingUniverse10KSchema, "report_10k"))
	register(universe("filing_universe_all", FilingUniverseAllSchema, "report_all"))

	register(perSymbol("sentiment_7", SentimentIndicator7DaySchema, LayoutMonthlySymbol, "sentiment", "7"))
	register(perSymbol("sentiment_30", SentimentIndicator30DaySchema, LayoutMonthlySymbol, "sentiment", "30"))
	register(universe("sentiment_universe", SentimentUniverseSchema, "sentiment"))

	for _, days := range RankingHorizons {
		register(perSymbol("ranking_"+days, StockRankingSchemas[days], LayoutMonthlySymbol, "rankings", days))
	}
	register(universe("ranking_universe", StockRankingUniverseSchema, "rankings"))
}

// Lookup finds a dataset by key.
func Lookup(key string) (*Dataset, bool) {
	ds, ok := registry[key]
	return ds, ok
}

// Keys returns all dataset keys in order.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for key := range registry {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
