package brain

import (
	"github.com/guregu/null/v6"
	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/shopspring/decimal"
)

// FilingType is a group of SEC filings Brain computes language metrics for.
type FilingType string

const (
	// Filing10K is annual reports only.
	Filing10K FilingType = "10k"
	// FilingAll is all report types.
	FilingAll FilingType = "all"
)

func (x FilingType) name() string {
	if x == Filing10K {
		return "10K"
	}
	return "All"
}

var (
	filingMetricNames = []string{
		"sentence_count", "mean_sentence_length", "sentiment", "uncertainty", "litigious",
		"constraining", "interesting", "readability", "lexical_richness", "lexical_density", "specific_density",
	}
	filingSimilarityNames = []string{
		"all", "positive", "negative", "uncertainty", "litigious", "constraining", "interesting",
	}
)

func filingMetrics(prefix string, mode decode.Mode) []schema.Column {
	cols := decimals(mode, prefixed(prefix, filingMetricNames)...)
	cols[0].Kind = schema.KindInteger
	return cols
}

func filingMetricBlocks(offset int, mode decode.Mode) []schema.Block {
	return []schema.Block{
		{Name: "report", Offset: offset, Columns: filingMetrics("report_", mode)},
		{Name: "risk_factors", Offset: offset + 11, Columns: filingMetrics("risk_factors_", mode)},
		{Name: "md", Offset: offset + 22, Columns: filingMetrics("md_", mode)},
	}
}

// Cells of a per-symbol filing row after the leading row date:
//
//	0-1    report date (yyyy-MM-dd), category
//	2-34   report, risk factors and MD&A metrics, 11 cells each
//	35     report period
//	36-38  previous report date, category, period
//	39-45  report similarity
//	46-48  risk factors similarity (all, positive, negative)
//	49-    MD&A similarity, 3 or 7 cells

// FilingMode is the error mode of filing columns except the row date and
// report date, which are always strict.
const FilingMode = decode.Strict

// NewFilingSchema builds the per-symbol filing layout. mode applies to all
// columns but the row date and report date.
func NewFilingSchema(typ FilingType, mode decode.Mode) *schema.Schema {
	blocks := []schema.Block{
		{
			Name:   "base",
			Offset: 0,
			Columns: []schema.Column{
				{Name: "report_date", Kind: schema.KindDate, Mode: decode.Strict, Required: true, Layouts: []string{decode.LayoutDashed}},
				{Name: "report_category", Kind: schema.KindString, Mode: mode},
			},
		},
	}
	blocks = append(blocks, filingMetricBlocks(2, mode)...)
	blocks = append(blocks,
		schema.Block{
			Name:    "period",
			Offset:  35,
			Columns: []schema.Column{{Name: "report_period", Kind: schema.KindInteger, Mode: mode}},
		},
		schema.Block{
			Name:   "previous",
			Offset: 36,
			Columns: []schema.Column{
				{Name: "previous_report_date", Kind: schema.KindDate, Mode: mode, Layouts: []string{decode.LayoutDashed}},
				{Name: "previous_report_category", Kind: schema.KindString, Mode: mode},
				{Name: "previous_report_period", Kind: schema.KindInteger, Mode: mode},
			},
		},
		schema.Block{Name: "report_similarity", Offset: 39, Columns: decimals(mode, prefixed("report_similarity_", filingSimilarityNames)...), MinWidth: 3},
		schema.Block{Name: "risk_factors_similarity", Offset: 46, Columns: decimals(mode, prefixed("risk_factors_similarity_", filingSimilarityNames[:3])...)},
		schema.Block{Name: "md_similarity", Offset: 49, Columns: decimals(mode, prefixed("md_similarity_", filingSimilarityNames)...), MinWidth: 3},
	)

	return &schema.Schema{
		Name:       "BrainCompanyFilingLanguageMetrics" + typ.name(),
		Base:       1,
		MinColumns: 37,
		RowDate:    rowDate(decode.Strict),
		Blocks:     blocks,
		Convention: schema.EndOfRowDate,
	}
}

// NewFilingUniverseSchema builds the filing universe layout.
func NewFilingUniverseSchema(typ FilingType, mode decode.Mode) *schema.Schema {
	return &schema.Schema{
		Name:       "BrainCompanyFilingLanguageMetricsUniverse" + typ.name(),
		MinColumns: 35,
		Identity:   true,
		Blocks:     filingMetricBlocks(2, mode),
		Convention: schema.UniverseHalfDay,
		ValueField: "report_sentiment",
	}
}

var (
	// Filing10KSchema is the per-symbol layout of 10-K metrics.
	Filing10KSchema = NewFilingSchema(Filing10K, FilingMode)
	// FilingAllSchema is the per-symbol layout of metrics of all reports.
	FilingAllSchema = NewFilingSchema(FilingAll, FilingMode)
	// FilingUniverse10KSchema is the universe layout of 10-K metrics.
	FilingUniverse10KSchema = NewFilingUniverseSchema(Filing10K, FilingMode)
	// FilingUniverseAllSchema is the universe layout of metrics of all reports.
	FilingUniverseAllSchema = NewFilingUniverseSchema(FilingAll, FilingMode)
)

// FilingSimilarity compares a section with the previous report. Blocks with
// only three cells carry All, Positive and Negative.
type FilingSimilarity struct {
	All          decimal.NullDecimal `json:"all"`
	Positive     decimal.NullDecimal `json:"positive"`
	Negative     decimal.NullDecimal `json:"negative"`
	Uncertainty  decimal.NullDecimal `json:"uncertainty"`
	Litigious    decimal.NullDecimal `json:"litigious"`
	Constraining decimal.NullDecimal `json:"constraining"`
	Interesting  decimal.NullDecimal `json:"interesting"`
}

// FilingMetrics is the language metrics of one section of a report.
type FilingMetrics struct {
	SentenceCount      null.Int            `json:"sentence_count"`
	MeanSentenceLength decimal.NullDecimal `json:"mean_sentence_length"`
	Sentiment          decimal.NullDecimal `json:"sentiment"`
	Uncertainty        decimal.NullDecimal `json:"uncertainty"`
	Litigious          decimal.NullDecimal `json:"litigious"`
	Constraining       decimal.NullDecimal `json:"constraining"`
	Interesting        decimal.NullDecimal `json:"interesting"`
	Readability        decimal.NullDecimal `json:"readability"`
	LexicalRichness    decimal.NullDecimal `json:"lexical_richness"`
	LexicalDensity     decimal.NullDecimal `json:"lexical_density"`
	SpecificDensity    decimal.NullDecimal `json:"specific_density"`
	Similarity         FilingSimilarity    `json:"similarity"`
}

// FilingLanguageMetrics is the language metrics of a company's latest report.
type FilingLanguageMetrics struct {
	Stamp
	ReportDate             null.Time     `json:"report_date"`
	ReportCategory         null.String   `json:"report_category"`
	ReportPeriod           null.Int      `json:"report_period"`
	PreviousReportDate     null.Time     `json:"previous_report_date"`
	PreviousReportCategory null.String   `json:"previous_report_category"`
	PreviousReportPeriod   null.Int      `json:"previous_report_period"`
	ReportSentiment        FilingMetrics `json:"report_sentiment"`
	RiskFactors            FilingMetrics `json:"risk_factors_statement_sentiment"`
	ManagementDiscussion   FilingMetrics `json:"management_discussion_analysis"`
}

func filingMetricsOf(rec *schema.Record, prefix string, similarity []string) FilingMetrics {
	return FilingMetrics{
		SentenceCount:      rec.Int(prefix + "sentence_count"),
		MeanSentenceLength: rec.Decimal(prefix + "mean_sentence_length"),
		Sentiment:          rec.Decimal(prefix + "sentiment"),
		Uncertainty:        rec.Decimal(prefix + "uncertainty"),
		Litigious:          rec.Decimal(prefix + "litigious"),
		Constraining:       rec.Decimal(prefix + "constraining"),
		Interesting:        rec.Decimal(prefix + "interesting"),
		Readability:        rec.Decimal(prefix + "readability"),
		LexicalRichness:    rec.Decimal(prefix + "lexical_richness"),
		LexicalDensity:     rec.Decimal(prefix + "lexical_density"),
		SpecificDensity:    rec.Decimal(prefix + "specific_density"),
		Similarity: FilingSimilarity{
			All:          decimalAt(rec, similarity, 0),
			Positive:     decimalAt(rec, similarity, 1),
			Negative:     decimalAt(rec, similarity, 2),
			Uncertainty:  decimalAt(rec, similarity, 3),
			Litigious:    decimalAt(rec, similarity, 4),
			Constraining: decimalAt(rec, similarity, 5),
			Interesting:  decimalAt(rec, similarity, 6),
		},
	}
}

// NewFilingLanguageMetrics builds FilingLanguageMetrics from a parsed record.
func NewFilingLanguageMetrics(rec *schema.Record) *FilingLanguageMetrics {
	return &FilingLanguageMetrics{
		Stamp:                  stampOf(rec),
		ReportDate:             rec.Date("report_date"),
		ReportCategory:         rec.String("report_category"),
		ReportPeriod:           rec.Int("report_period"),
		PreviousReportDate:     rec.Date("previous_report_date"),
		PreviousReportCategory: rec.String("previous_report_category"),
		PreviousReportPeriod:   rec.Int("previous_report_period"),
		ReportSentiment:        filingMetricsOf(rec, "report_", prefixed("report_similarity_", filingSimilarityNames)),
		RiskFactors:            filingMetricsOf(rec, "risk_factors_", prefixed("risk_factors_similarity_", filingSimilarityNames[:3])),
		ManagementDiscussion:   filingMetricsOf(rec, "md_", prefixed("md_similarity_", filingSimilarityNames)),
	}
}

// ParseFilingLanguageMetrics parses one line of a per-symbol filing file of sc.
func ParseFilingLanguageMetrics(sc *schema.Schema, line string, req schema.Request) (*FilingLanguageMetrics, error) {
	return parseAs(sc, line, req, NewFilingLanguageMetrics)
}

// FilingLanguageMetricsUniverse is the metrics of one security in a filing
// universe file. Similarity is always null.
type FilingLanguageMetricsUniverse struct {
	Stamp
	Value                decimal.Decimal `json:"value"`
	ReportSentiment      FilingMetrics   `json:"report_sentiment"`
	RiskFactors          FilingMetrics   `json:"risk_factors_statement_sentiment"`
	ManagementDiscussion FilingMetrics   `json:"management_discussion_analysis"`
}

// NewFilingLanguageMetricsUniverse builds FilingLanguageMetricsUniverse from a parsed record.
func NewFilingLanguageMetricsUniverse(rec *schema.Record) *FilingLanguageMetricsUniverse {
	return &FilingLanguageMetricsUniverse{
		Stamp:                stampOf(rec),
		Value:                rec.Value(),
		ReportSentiment:      filingMetricsOf(rec, "report_", nil),
		RiskFactors:          filingMetricsOf(rec, "risk_factors_", nil),
		ManagementDiscussion: filingMetricsOf(rec, "md_", nil),
	}
}

// ParseFilingLanguageMetricsUniverse parses one line of a filing universe file of sc.
func ParseFilingLanguageMetricsUniverse(sc *schema.Schema, line string, req schema.Request) (*FilingLanguageMetricsUniverse, error) {
	return parseAs(sc, line, req, NewFilingLanguageMetricsUniverse)
}
