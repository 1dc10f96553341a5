package converter

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/pkg/brain"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SecurityResolver maps a ticker on a date to a security identifier.
type SecurityResolver interface {
	Resolve(ticker string, date time.Time) (string, bool)
}

// CSVSecurityResolver resolves tickers from "ticker,sid" lines. The date is
// not used.
type CSVSecurityResolver struct {
	ids map[string]string
}

// NewCSVSecurityResolver reads "ticker,sid" lines from r. Blank lines and
// lines without an identifier are ignored, so a header line is harmless.
func NewCSVSecurityResolver(r io.Reader) (*CSVSecurityResolver, error) {
	resolver := &CSVSecurityResolver{ids: map[string]string{}}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cells := decode.Split(scanner.Text(), decode.Comma)
		if len(cells) < 2 || decode.IsBlank(cells[0]) || decode.IsBlank(cells[1]) {
			continue
		}
		resolver.ids[strings.ToUpper(strings.TrimSpace(cells[0]))] = strings.TrimSpace(cells[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "Fail to read security identifiers")
	}

	return resolver, nil
}

// LoadCSVSecurityResolver reads a "ticker,sid" file.
func LoadCSVSecurityResolver(path string) (*CSVSecurityResolver, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to open security identifier file: %s", path)
	}
	defer fd.Close()

	return NewCSVSecurityResolver(fd)
}

// Resolve implements SecurityResolver
func (x *CSVSecurityResolver) Resolve(ticker string, date time.Time) (string, bool) {
	sid, ok := x.ids[strings.ToUpper(ticker)]
	return sid, ok
}

type universeGroup struct {
	dir        string
	datasetKey string
	// horizons in output order. Empty for reports.
	horizons []string
	// cells per horizon
	width int
}

var universeGroups = map[string]universeGroup{
	"rankings":   {dir: "rankings", datasetKey: "ranking_universe", horizons: brain.RankingHorizons, width: 1},
	"sentiment":  {dir: "sentiment", datasetKey: "sentiment_universe", horizons: []string{"7", "30"}, width: 5},
	"report_10k": {dir: "report_10k", datasetKey: "filing_universe_10k", width: 33},
	"report_all": {dir: "report_all", datasetKey: "filing_universe_all", width: 33},
}

// UniverseGroups returns names accepted by UniverseBuilder.Build.
func UniverseGroups() []string {
	var names []string
	for name := range universeGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UniverseBuilder writes daily universe files from per-ticker files under root.
type UniverseBuilder struct {
	root     string
	resolver SecurityResolver
}

// NewUniverseBuilder is constructor of UniverseBuilder
func NewUniverseBuilder(root string, resolver SecurityResolver) *UniverseBuilder {
	return &UniverseBuilder{
		root:     root,
		resolver: resolver,
	}
}

// universeData is cells by date, ticker and horizon.
type universeData map[string]map[string]map[string]string

func (x universeData) put(date, ticker, horizon, cells string) {
	if _, ok := x[date]; !ok {
		x[date] = map[string]map[string]string{}
	}
	if _, ok := x[date][ticker]; !ok {
		x[date][ticker] = map[string]string{}
	}
	x[date][ticker][horizon] = cells
}

// Build writes universe files of group and returns their paths.
func (x *UniverseBuilder) Build(group string) ([]string, error) {
	g, ok := universeGroups[group]
	if !ok {
		return nil, errors.Errorf("Unknown universe group: %s (%s)", group, strings.Join(UniverseGroups(), ", "))
	}
	ds, _ := brain.Lookup(g.datasetKey)

	data, err := x.collect(g)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(data))
	for date := range data {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var written []string
	for _, date := range dates {
		d, _ := time.Parse(DateLayout, date)
		lines := x.universeLines(ds, g, d, data[date])
		if len(lines) == 0 {
			continue
		}

		path := ds.SourcePath(x.root, models.Symbol{}, d)
		if err := writeLines(path, lines); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	logger.WithFields(logrus.Fields{
		"group": group,
		"files": len(written),
	}).Info("Built universe files")

	return written, nil
}

func (x *UniverseBuilder) universeLines(ds *brain.Dataset, g universeGroup, date time.Time, byTicker map[string]map[string]string) []string {
	tickers := make([]string, 0, len(byTicker))
	for ticker := range byTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	blank := strings.Repeat(",", g.width-1)

	var lines []string
	for _, ticker := range tickers {
		sid, ok := x.resolver.Resolve(ticker, date)
		if !ok {
			logger.WithFields(logrus.Fields{"ticker": ticker, "date": date}).Warn("Unknown security")
			continue
		}

		cells := []string{sid, strings.ToUpper(ticker)}
		if len(g.horizons) == 0 {
			cells = append(cells, byTicker[ticker][""])
		}
		for _, h := range g.horizons {
			v, ok := byTicker[ticker][h]
			if !ok {
				v = blank
			}
			cells = append(cells, v)
		}
		line := strings.Join(cells, ",")

		rec, err := ds.Parse(line, schema.Request{Date: date})
		if err != nil || rec == nil {
			logger.WithError(err).WithFields(logrus.Fields{"ticker": ticker, "date": date}).Warn("Skip invalid universe row")
			continue
		}
		lines = append(lines, line)
	}

	return lines
}

// collect reads per-ticker files of g. Files are {dir}/{horizon}/{yyyyMM}/{ticker}.csv
// or {dir}/{yyyyMM}/{ticker}.csv for reports.
func (x *UniverseBuilder) collect(g universeGroup) (universeData, error) {
	base := filepath.Join(x.root, "alternative", "brain", g.dir)
	data := universeData{}

	err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "universe" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".csv" {
			return nil
		}

		ticker := strings.TrimSuffix(info.Name(), ".csv")
		horizon := ""
		if len(g.horizons) > 0 {
			horizon = filepath.Base(filepath.Dir(filepath.Dir(path)))
		}

		lines, err := readLines(path)
		if err != nil {
			return err
		}

		for _, line := range lines {
			datum := decode.Split(line, decode.Comma)
			date := datum[0]
			if _, err := time.Parse(DateLayout, date); err != nil {
				continue
			}

			var cells []string
			if len(g.horizons) == 0 {
				end := 3 + g.width
				if len(datum) < end {
					end = len(datum)
				}
				if end <= 3 {
					continue
				}
				cells = datum[3:end]
			} else {
				cells = datum[1:]
			}
			data.put(date, ticker, horizon, strings.Join(cells, ","))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to walk %s", base)
	}

	return data, nil
}
