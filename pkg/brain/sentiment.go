package brain

import (
	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/shopspring/decimal"
)

var sentimentWindowNames = []string{
	"total_article_mentions",
	"sentimental_article_mentions",
	"sentiment",
	"total_buzz_volume",
	"sentimental_buzz_volume",
}

func newSentimentIndicatorSchema(days string) *schema.Schema {
	return &schema.Schema{
		Name:       "BrainSentimentIndicator" + days + "Day",
		MinColumns: 6,
		RowDate:    rowDate(decode.Strict),
		Blocks: []schema.Block{
			{
				Name:   "sentiment",
				Offset: 1,
				Columns: []schema.Column{
					{Name: "total_article_mentions", Kind: schema.KindInteger, Mode: decode.Strict, Required: true},
					{Name: "sentimental_article_mentions", Kind: schema.KindInteger, Mode: decode.Strict, Required: true},
					{Name: "sentiment", Kind: schema.KindDecimal, Mode: decode.Strict, Required: true},
					{Name: "total_buzz_volume", Kind: schema.KindDecimal, Mode: decode.Strict},
					{Name: "sentimental_buzz_volume", Kind: schema.KindDecimal, Mode: decode.Strict},
				},
			},
		},
		Convention: schema.EndOfRowDate,
		ValueField: "sentiment",
	}
}

var (
	// SentimentIndicator7DaySchema is news sentiment over the last 7 days.
	SentimentIndicator7DaySchema = newSentimentIndicatorSchema("7")
	// SentimentIndicator30DaySchema is news sentiment over the last 30 days.
	SentimentIndicator30DaySchema = newSentimentIndicatorSchema("30")
)

// SentimentWindow is news sentiment of a security over a lookback window.
// Mentions are integers written in a decimal column.
type SentimentWindow struct {
	TotalArticleMentions       decimal.NullDecimal `json:"total_article_mentions"`
	SentimentalArticleMentions decimal.NullDecimal `json:"sentimental_article_mentions"`
	Sentiment                  decimal.NullDecimal `json:"sentiment"`
	TotalBuzzVolume            decimal.NullDecimal `json:"total_buzz_volume"`
	SentimentalBuzzVolume      decimal.NullDecimal `json:"sentimental_buzz_volume"`
}

// SentimentIndicator is one day of news sentiment of a security.
type SentimentIndicator struct {
	Stamp
	SentimentWindow
}

func intAsDecimal(rec *schema.Record, name string) decimal.NullDecimal {
	v := rec.Int(name)
	if !v.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v.Int64), Valid: true}
}

// NewSentimentIndicator builds SentimentIndicator from a parsed record.
func NewSentimentIndicator(rec *schema.Record) *SentimentIndicator {
	return &SentimentIndicator{
		Stamp: stampOf(rec),
		SentimentWindow: SentimentWindow{
			TotalArticleMentions:       intAsDecimal(rec, "total_article_mentions"),
			SentimentalArticleMentions: intAsDecimal(rec, "sentimental_article_mentions"),
			Sentiment:                  rec.Decimal("sentiment"),
			TotalBuzzVolume:            rec.Decimal("total_buzz_volume"),
			SentimentalBuzzVolume:      rec.Decimal("sentimental_buzz_volume"),
		},
	}
}

// ParseSentimentIndicator parses one line of a sentiment file of sc.
func ParseSentimentIndicator(sc *schema.Schema, line string, req schema.Request) (*SentimentIndicator, error) {
	return parseAs(sc, line, req, NewSentimentIndicator)
}

// SentimentUniverseSchema holds 7 and 30 day windows of every security.
var SentimentUniverseSchema = &schema.Schema{
	Name:       "BrainSentimentIndicatorUniverse",
	MinColumns: 12,
	Identity:   true,
	Blocks: []schema.Block{
		{Name: "7days", Offset: 2, Columns: sentimentUniverseWindow("_7_days")},
		{Name: "30days", Offset: 7, Columns: sentimentUniverseWindow("_30_days")},
	},
	Convention: schema.UniversePreviousDay,
	ValueField: "sentiment_7_days",
}

func sentimentUniverseWindow(suffix string) []schema.Column {
	cols := make([]schema.Column, len(sentimentWindowNames))
	for i, name := range sentimentWindowNames {
		kind := schema.KindDecimal
		if i == 0 {
			kind = schema.KindInteger
		}
		cols[i] = schema.Column{Name: name + suffix, Kind: kind, Mode: decode.Strict}
	}
	return cols
}

// SentimentUniverse is the sentiment of one security in a universe file.
type SentimentUniverse struct {
	Stamp
	Value  decimal.Decimal `json:"value"`
	Days7  SentimentWindow `json:"7_days"`
	Days30 SentimentWindow `json:"30_days"`
}

func sentimentUniverseWindowOf(rec *schema.Record, suffix string) SentimentWindow {
	return SentimentWindow{
		TotalArticleMentions:       intAsDecimal(rec, "total_article_mentions"+suffix),
		SentimentalArticleMentions: rec.Decimal("sentimental_article_mentions" + suffix),
		Sentiment:                  rec.Decimal("sentiment" + suffix),
		TotalBuzzVolume:            rec.Decimal("total_buzz_volume" + suffix),
		SentimentalBuzzVolume:      rec.Decimal("sentimental_buzz_volume" + suffix),
	}
}

// NewSentimentUniverse builds SentimentUniverse from a parsed record.
func NewSentimentUniverse(rec *schema.Record) *SentimentUniverse {
	return &SentimentUniverse{
		Stamp:  stampOf(rec),
		Value:  rec.Value(),
		Days7:  sentimentUniverseWindowOf(rec, "_7_days"),
		Days30: sentimentUniverseWindowOf(rec, "_30_days"),
	}
}

// ParseSentimentUniverse parses one line of a sentiment universe file.
func ParseSentimentUniverse(line string, req schema.Request) (*SentimentUniverse, error) {
	return parseAs(SentimentUniverseSchema, line, req, NewSentimentUniverse)
}
