package converter

import (
	"strings"

	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/sirupsen/logrus"
)

const (
	earningsCallPrefix      = "BLMECT"
	earningsCallDiffKey     = earningsCallPrefix + "/differences_earnings_call_"
	earningsCallMetricsKey  = earningsCallPrefix + "/metrics_earnings_call_"
	earningsCallMetricCells = 29
	earningsCallDiffCells   = 47
)

// earningsCallDiffWidth is number of output cells taken from a differences row.
const earningsCallDiffWidth = earningsCallDiffCells - 6

type earningsCallFeed struct{}

func (x *earningsCallFeed) prefix() string     { return earningsCallPrefix }
func (x *earningsCallFeed) datasetKey() string { return "earnings_calls" }

func (x *earningsCallFeed) dateOf(key string) (string, bool) {
	if date, ok := dateAfter(key, earningsCallDiffKey); ok {
		return date, true
	}
	return dateAfter(key, earningsCallMetricsKey)
}

// loadDiffs reads the optional differences file. Any failure means no diffs.
func (x *earningsCallFeed) loadDiffs(c *Converter, date string) map[string][]string {
	diffs := map[string][]string{}

	file, err := c.download(earningsCallDiffKey + date + ".csv")
	if err != nil {
		logger.WithError(err).WithField("date", date).Info("No differences file")
		return diffs
	}

	for _, parts := range file.rows {
		if len(parts) < earningsCallDiffCells {
			logger.WithField("cells", len(parts)).Trace("Skip short differences row")
			continue
		}
		if ticker := parts[1]; !decode.IsBlank(ticker) {
			diffs[ticker] = parts
		}
	}

	return diffs
}

func (x *earningsCallFeed) convert(c *Converter, date string) (map[string][]string, error) {
	diffs := x.loadDiffs(c, date)

	file, err := c.download(earningsCallMetricsKey + date + ".csv")
	if err != nil {
		return nil, err
	}

	rows := map[string][]string{}
	for _, parts := range file.rows {
		if len(parts) < earningsCallMetricCells {
			logger.WithField("cells", len(parts)).Trace("Skip short metrics row")
			continue
		}

		ticker := parts[1]
		if decode.IsBlank(ticker) {
			continue
		}

		rows[ticker] = append(rows[ticker], earningsCallRow(date, parts, diffs[ticker]))
	}

	logger.WithFields(logrus.Fields{
		"date":    date,
		"diffs":   len(diffs),
		"symbols": len(rows),
	}).Debug("Converted earnings call metrics")

	return rows, nil
}

// earningsCallRow joins a metrics row and its optional differences row.
func earningsCallRow(date string, metrics, diff []string) string {
	cells := []string{date, reformatDate(metrics[3]), metrics[4], metrics[5]}
	cells = append(cells, metrics[6:earningsCallMetricCells]...)

	if diff != nil {
		cells = append(cells, reformatDate(diff[6]), diff[7], diff[8])
		cells = append(cells, diff[9:earningsCallDiffCells]...)
	} else {
		cells = append(cells, make([]string, earningsCallDiffWidth)...)
	}

	return strings.Join(cells, ",")
}
