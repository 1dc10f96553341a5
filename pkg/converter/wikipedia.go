package converter

import (
	"strings"

	"github.com/m-mizutani/brainfeed/internal/decode"
)

const (
	wikipediaPrefix     = "BWPV"
	wikipediaMetricsKey = wikipediaPrefix + "/metrics_"
	wikipediaCells      = 9
)

type wikipediaFeed struct{}

func (x *wikipediaFeed) prefix() string     { return wikipediaPrefix }
func (x *wikipediaFeed) datasetKey() string { return "wikipedia" }

func (x *wikipediaFeed) dateOf(key string) (string, bool) {
	return dateAfter(key, wikipediaMetricsKey)
}

func (x *wikipediaFeed) convert(c *Converter, date string) (map[string][]string, error) {
	file, err := c.download(wikipediaMetricsKey + date + ".csv")
	if err != nil {
		return nil, err
	}

	rows := map[string][]string{}
	for _, parts := range file.rows {
		if len(parts) < wikipediaCells {
			continue
		}

		ticker := parts[1]
		if decode.IsBlank(ticker) {
			continue
		}

		rowDate := reformatDate(parts[2])
		if rowDate == "" {
			continue
		}

		cells := append([]string{rowDate}, parts[3:wikipediaCells]...)
		rows[ticker] = append(rows[ticker], strings.Join(cells, ","))
	}

	return rows, nil
}
