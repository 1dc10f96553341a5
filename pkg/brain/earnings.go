package brain

import (
	"github.com/guregu/null/v6"
	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/shopspring/decimal"
)

// Cell layout of an earnings call row:
//
//	0      row date (yyyyMMdd)
//	1-3    last transcript date, quarter, year
//	4-12   management discussion (MD) metrics
//	13-17  analyst questions (AQ) metrics
//	18-26  management answers (MA) metrics
//	27-29  previous transcript date, quarter, year
//	30-38  MD deltas, 39-44 MD similarities
//	45-49  AQ deltas, 50-52 AQ similarities
//	53-61  MA deltas, 62-67 MA similarities
//
// Each group after the row date is filled only when the row carries all of it.

var (
	earningsMetricNames = []string{
		"n_characters", "sentiment", "score_uncertainty", "score_litigious", "score_constraining",
		"readability", "lexical_richness", "lexical_density", "specific_density",
	}
	earningsDeltaNames = []string{
		"delta_perc_n_characters", "delta_sentiment", "delta_score_uncertainty", "delta_score_litigious", "delta_score_constraining",
		"delta_readability", "delta_lexical_richness", "delta_lexical_density", "delta_specific_density",
	}
	earningsSimilarityNames = []string{
		"similarity_all", "similarity_positive", "similarity_negative",
		"similarity_uncertainty", "similarity_litigious", "similarity_constraining",
	}
)

// EarningsCallMode is the error mode of every earnings call column except the
// row date, which is always strict.
const EarningsCallMode = decode.Lenient

// EarningsCallsSchema is the earnings call layout in EarningsCallMode.
var EarningsCallsSchema = NewEarningsCallsSchema(EarningsCallMode)

// NewEarningsCallsSchema builds the earnings call layout. mode applies to all
// columns but the row date.
func NewEarningsCallsSchema(mode decode.Mode) *schema.Schema {
	transcript := func(prefix string) []schema.Column {
		return []schema.Column{
			{Name: prefix + "transcript_date", Kind: schema.KindDate, Mode: mode},
			{Name: prefix + "transcript_quarter", Kind: schema.KindInteger, Mode: mode},
			{Name: prefix + "transcript_year", Kind: schema.KindInteger, Mode: mode},
		}
	}

	return &schema.Schema{
		Name:       "BrainLanguageMetricsEarningsCalls",
		MinColumns: 4,
		RowDate:    rowDate(decode.Strict),
		Blocks: []schema.Block{
			{Name: "last_transcript", Offset: 1, Columns: transcript("last_")},
			{Name: "md", Offset: 4, Columns: decimals(mode, prefixed("md_", earningsMetricNames)...)},
			{Name: "aq", Offset: 13, Columns: decimals(mode, prefixed("aq_", earningsMetricNames[:5])...)},
			{Name: "ma", Offset: 18, Columns: decimals(mode, prefixed("ma_", earningsMetricNames)...)},
			{Name: "prev_transcript", Offset: 27, Columns: transcript("prev_")},
			{Name: "md_delta", Offset: 30, Columns: decimals(mode, prefixed("md_", earningsDeltaNames)...)},
			{Name: "md_similarity", Offset: 39, Columns: decimals(mode, prefixed("md_", earningsSimilarityNames)...)},
			{Name: "aq_delta", Offset: 45, Columns: decimals(mode, prefixed("aq_", earningsDeltaNames[:5])...)},
			{Name: "aq_similarity", Offset: 50, Columns: decimals(mode, prefixed("aq_", earningsSimilarityNames[:3])...)},
			{Name: "ma_delta", Offset: 53, Columns: decimals(mode, prefixed("ma_", earningsDeltaNames)...)},
			{Name: "ma_similarity", Offset: 62, Columns: decimals(mode, prefixed("ma_", earningsSimilarityNames)...)},
		},
		Convention: schema.StampedAtRowDate,
	}
}

// EarningsCallTranscript identifies a transcript.
type EarningsCallTranscript struct {
	Date    null.Time `json:"date"`
	Quarter null.Int  `json:"quarter"`
	Year    null.Int  `json:"year"`
}

// EarningsCallSection is the language metrics of one section of a call, or
// their change since the previous call. AQ carries only the first five.
type EarningsCallSection struct {
	NCharacters       decimal.NullDecimal `json:"n_characters"`
	Sentiment         decimal.NullDecimal `json:"sentiment"`
	ScoreUncertainty  decimal.NullDecimal `json:"score_uncertainty"`
	ScoreLitigious    decimal.NullDecimal `json:"score_litigious"`
	ScoreConstraining decimal.NullDecimal `json:"score_constraining"`
	Readability       decimal.NullDecimal `json:"readability"`
	LexicalRichness   decimal.NullDecimal `json:"lexical_richness"`
	LexicalDensity    decimal.NullDecimal `json:"lexical_density"`
	SpecificDensity   decimal.NullDecimal `json:"specific_density"`
}

// EarningsCallSimilarity compares a section with the previous call. AQ
// carries only All, Positive and Negative.
type EarningsCallSimilarity struct {
	All          decimal.NullDecimal `json:"all"`
	Positive     decimal.NullDecimal `json:"positive"`
	Negative     decimal.NullDecimal `json:"negative"`
	Uncertainty  decimal.NullDecimal `json:"uncertainty"`
	Litigious    decimal.NullDecimal `json:"litigious"`
	Constraining decimal.NullDecimal `json:"constraining"`
}

// EarningsCall is the language metrics of a company's latest earnings call.
type EarningsCall struct {
	Stamp
	LastTranscript EarningsCallTranscript `json:"last_transcript"`
	PrevTranscript EarningsCallTranscript `json:"prev_transcript"`

	ManagementDiscussion EarningsCallSection `json:"md"`
	AnalystQuestions     EarningsCallSection `json:"aq"`
	ManagementAnswers    EarningsCallSection `json:"ma"`

	ManagementDiscussionDelta EarningsCallSection `json:"md_delta"`
	AnalystQuestionsDelta     EarningsCallSection `json:"aq_delta"`
	ManagementAnswersDelta    EarningsCallSection `json:"ma_delta"`

	ManagementDiscussionSimilarity EarningsCallSimilarity `json:"md_similarity"`
	AnalystQuestionsSimilarity     EarningsCallSimilarity `json:"aq_similarity"`
	ManagementAnswersSimilarity    EarningsCallSimilarity `json:"ma_similarity"`
}

func earningsTranscript(rec *schema.Record, prefix string) EarningsCallTranscript {
	return EarningsCallTranscript{
		Date:    rec.Date(prefix + "transcript_date"),
		Quarter: rec.Int(prefix + "transcript_quarter"),
		Year:    rec.Int(prefix + "transcript_year"),
	}
}

func earningsSection(rec *schema.Record, names []string) EarningsCallSection {
	return EarningsCallSection{
		NCharacters:       decimalAt(rec, names, 0),
		Sentiment:         decimalAt(rec, names, 1),
		ScoreUncertainty:  decimalAt(rec, names, 2),
		ScoreLitigious:    decimalAt(rec, names, 3),
		ScoreConstraining: decimalAt(rec, names, 4),
		Readability:       decimalAt(rec, names, 5),
		LexicalRichness:   decimalAt(rec, names, 6),
		LexicalDensity:    decimalAt(rec, names, 7),
		SpecificDensity:   decimalAt(rec, names, 8),
	}
}

func earningsSimilarity(rec *schema.Record, names []string) EarningsCallSimilarity {
	return EarningsCallSimilarity{
		All:          decimalAt(rec, names, 0),
		Positive:     decimalAt(rec, names, 1),
		Negative:     decimalAt(rec, names, 2),
		Uncertainty:  decimalAt(rec, names, 3),
		Litigious:    decimalAt(rec, names, 4),
		Constraining: decimalAt(rec, names, 5),
	}
}

// NewEarningsCall builds EarningsCall from a parsed record.
func NewEarningsCall(rec *schema.Record) *EarningsCall {
	return &EarningsCall{
		Stamp:          stampOf(rec),
		LastTranscript: earningsTranscript(rec, "last_"),
		PrevTranscript: earningsTranscript(rec, "prev_"),

		ManagementDiscussion: earningsSection(rec, prefixed("md_", earningsMetricNames)),
		AnalystQuestions:     earningsSection(rec, prefixed("aq_", earningsMetricNames[:5])),
		ManagementAnswers:    earningsSection(rec, prefixed("ma_", earningsMetricNames)),

		ManagementDiscussionDelta: earningsSection(rec, prefixed("md_", earningsDeltaNames)),
		AnalystQuestionsDelta:     earningsSection(rec, prefixed("aq_", earningsDeltaNames[:5])),
		ManagementAnswersDelta:    earningsSection(rec, prefixed("ma_", earningsDeltaNames)),

		ManagementDiscussionSimilarity: earningsSimilarity(rec, prefixed("md_", earningsSimilarityNames)),
		AnalystQuestionsSimilarity:     earningsSimilarity(rec, prefixed("aq_", earningsSimilarityNames[:3])),
		ManagementAnswersSimilarity:    earningsSimilarity(rec, prefixed("ma_", earningsSimilarityNames)),
	}
}

// ParseEarningsCall parses one line of a blmect file.
func ParseEarningsCall(line string, req schema.Request) (*EarningsCall, error) {
	return parseAs(EarningsCallsSchema, line, req, NewEarningsCall)
}
