package brain

import (
	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/shopspring/decimal"
)

// RankingHorizons are the prediction horizons in days, in file order.
var RankingHorizons = []string{"2", "3", "5", "10", "21"}

func newStockRankingSchema(days string) *schema.Schema {
	return &schema.Schema{
		Name:       "BrainStockRanking" + days + "Day",
		MinColumns: 2,
		RowDate:    rowDate(decode.Strict),
		Blocks: []schema.Block{
			{
				Name:    "rank",
				Offset:  1,
				Columns: []schema.Column{{Name: "rank", Kind: schema.KindDecimal, Mode: decode.Strict, Required: true}},
			},
		},
		Convention: schema.EndOfRowDate,
		ValueField: "rank",
	}
}

// StockRankingSchemas has a per-symbol ranking layout for each horizon.
var StockRankingSchemas = func() map[string]*schema.Schema {
	m := make(map[string]*schema.Schema, len(RankingHorizons))
	for _, days := range RankingHorizons {
		m[days] = newStockRankingSchema(days)
	}
	return m
}()

// StockRanking is the predicted rank of a security's return over a horizon.
type StockRanking struct {
	Stamp
	Rank decimal.Decimal `json:"rank"`
}

// NewStockRanking builds StockRanking from a parsed record.
func NewStockRanking(rec *schema.Record) *StockRanking {
	return &StockRanking{
		Stamp: stampOf(rec),
		Rank:  rec.Decimal("rank").Decimal,
	}
}

// ParseStockRanking parses one line of a per-symbol ranking file of sc.
func ParseStockRanking(sc *schema.Schema, line string, req schema.Request) (*StockRanking, error) {
	return parseAs(sc, line, req, NewStockRanking)
}

// StockRankingUniverseSchema holds ranks of every security for all horizons.
var StockRankingUniverseSchema = &schema.Schema{
	Name:       "BrainStockRankingUniverse",
	MinColumns: 7,
	Identity:   true,
	Blocks: []schema.Block{
		{Name: "ranks", Offset: 2, Columns: decimals(decode.Strict, prefixed("rank_", RankingHorizons)...)},
	},
	Convention: schema.UniversePreviousDay,
	ValueField: "rank_2",
}

// StockRankingUniverse is the ranks of one security in a universe file.
type StockRankingUniverse struct {
	Stamp
	Value      decimal.Decimal     `json:"value"`
	Rank2Days  decimal.NullDecimal `json:"rank_2_days"`
	Rank3Days  decimal.NullDecimal `json:"rank_3_days"`
	Rank5Days  decimal.NullDecimal `json:"rank_5_days"`
	Rank10Days decimal.NullDecimal `json:"rank_10_days"`
	Rank21Days decimal.NullDecimal `json:"rank_21_days"`
}

// NewStockRankingUniverse builds StockRankingUniverse from a parsed record.
func NewStockRankingUniverse(rec *schema.Record) *StockRankingUniverse {
	return &StockRankingUniverse{
		Stamp:      stampOf(rec),
		Value:      rec.Value(),
		Rank2Days:  rec.Decimal("rank_2"),
		Rank3Days:  rec.Decimal("rank_3"),
		Rank5Days:  rec.Decimal("rank_5"),
		Rank10Days: rec.Decimal("rank_10"),
		Rank21Days: rec.Decimal("rank_21"),
	}
}

// ParseStockRankingUniverse parses one line of a ranking universe file.
func ParseStockRankingUniverse(line string, req schema.Request) (*StockRankingUniverse, error) {
	return parseAs(StockRankingUniverseSchema, line, req, NewStockRankingUniverse)
}
