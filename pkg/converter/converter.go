// Package converter turns vendor drops in the Brain S3 bucket into per-ticker
// CSV files and builds daily universe files from them.
package converter

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/brainfeed/internal"
	"github.com/m-mizutani/brainfeed/internal/adaptor"
	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/internal/repository"
	"github.com/m-mizutani/brainfeed/internal/service"
	"github.com/m-mizutani/brainfeed/internal/util"
	"github.com/m-mizutani/brainfeed/pkg/brain"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

// DefaultRegion is region of the vendor bucket
const DefaultRegion = "us-east-1"

// downloadAttempts is a number of tries to get a vendor file
const downloadAttempts = 3

// DateLayout is layout of deployment dates in vendor keys and output rows.
const DateLayout = "20060102"

// Config is settings of a Converter.
type Config struct {
	Region string
	// Bucket is the vendor bucket.
	Bucket string
	// DataFolder has files converted by earlier runs. Optional.
	DataFolder string
	// OutputRoot receives converted files.
	OutputRoot string

	NewS3         adaptor.S3ClientFactory
	NewRetryTimer util.RetryTimerFactory
	Checkpoint    repository.CheckpointRepository
}

func (x Config) region() string {
	if x.Region != "" {
		return x.Region
	}
	return DefaultRegion
}

func (x Config) newRetryTimer() util.RetryTimerFactory {
	if x.NewRetryTimer != nil {
		return x.NewRetryTimer
	}
	return util.NewExpRetryTimer
}

func (x Config) newS3() adaptor.S3ClientFactory {
	if x.NewS3 != nil {
		return x.NewS3
	}
	return adaptor.NewS3Client
}

// feed is vendor specific part of a Converter.
type feed interface {
	// prefix is the vendor key prefix such as "BLMECT".
	prefix() string
	datasetKey() string
	dateOf(key string) (string, bool)
	// convert returns output rows by ticker for a deployment date.
	convert(x *Converter, date string) (map[string][]string, error)
}

// Converter converts vendor files of one feed.
type Converter struct {
	cfg     Config
	feed    feed
	dataset *brain.Dataset
	s3      *service.S3Service
}

func newConverter(cfg Config, f feed) *Converter {
	ds, ok := brain.Lookup(f.datasetKey())
	if !ok {
		panic("dataset is not registered: " + f.datasetKey())
	}

	return &Converter{
		cfg:     cfg,
		feed:    f,
		dataset: ds,
		s3:      service.NewS3Service(cfg.newS3()),
	}
}

// NewEarningsCallConverter is constructor of BLMECT converter
func NewEarningsCallConverter(cfg Config) *Converter {
	return newConverter(cfg, &earningsCallFeed{})
}

// NewWikipediaConverter is constructor of BWPV converter
func NewWikipediaConverter(cfg Config) *Converter {
	return newConverter(cfg, &wikipediaFeed{})
}

// New returns a converter by vendor prefix (BLMECT, BWPV) or dataset key.
func New(name string, cfg Config) (*Converter, error) {
	switch strings.ToLower(name) {
	case "blmect", "earnings_calls":
		return NewEarningsCallConverter(cfg), nil
	case "bwpv", "wikipedia":
		return NewWikipediaConverter(cfg), nil
	default:
		return nil, fmt.Errorf("Unknown converter: %s", name)
	}
}

// ForKey returns a converter handling the vendor key.
func ForKey(key string, cfg Config) (*Converter, string, bool) {
	for _, c := range []*Converter{NewEarningsCallConverter(cfg), NewWikipediaConverter(cfg)} {
		if date, ok := c.DateOf(key); ok {
			return c, date, true
		}
	}
	return nil, "", false
}

// Name is the vendor prefix of the converter.
func (x *Converter) Name() string { return x.feed.prefix() }

// Dataset is the dataset the converter writes.
func (x *Converter) Dataset() *brain.Dataset { return x.dataset }

// DateOf extracts deployment date (yyyyMMdd) from a vendor key.
func (x *Converter) DateOf(key string) (string, bool) {
	return x.feed.dateOf(key)
}

// dateAfter returns 8 characters following prefix in key if they are a date.
func dateAfter(key, prefix string) (string, bool) {
	if !strings.HasPrefix(key, prefix) || len(key) < len(prefix)+8 {
		return "", false
	}

	date := key[len(prefix) : len(prefix)+8]
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", false
	}
	return date, true
}

// ProcessDate converts vendor files of date (yyyyMMdd) and returns paths of
// written files.
func (x *Converter) ProcessDate(date string) ([]string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, errors.Wrapf(err, "Invalid deployment date: %s", date)
	}

	rows, err := x.feed.convert(x, date)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(rows))
	for ticker := range rows {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var written []string
	for _, ticker := range tickers {
		path, err := x.saveContent(ticker, rows[ticker])
		if err != nil {
			return written, errors.Wrapf(err, "Fail to write output files of %s", date)
		}
		written = append(written, path)
	}

	if x.cfg.Checkpoint != nil {
		if err := x.cfg.Checkpoint.PutProcessed(x.Name(), date); err != nil {
			return written, err
		}
	}

	logger.WithFields(logrus.Fields{
		"converter": x.Name(),
		"date":      date,
		"symbols":   len(written),
	}).Info("Completed deployment date")

	return written, nil
}

// ListDates returns distinct deployment dates found in the vendor bucket in
// ascending order.
func (x *Converter) ListDates() ([]string, error) {
	keys, err := x.s3.ListKeys(x.cfg.region(), x.cfg.Bucket, x.Name()+"/")
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var dates []string
	for _, key := range keys {
		if date, ok := x.DateOf(key); ok && !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	logger.WithFields(logrus.Fields{
		"converter": x.Name(),
		"dates":     len(dates),
	}).Info("Found deployment dates")

	return dates, nil
}

// ProcessHistory converts every deployment date in order and stops at the
// first failure. Dates in the checkpoint repository are skipped.
func (x *Converter) ProcessHistory() ([]string, error) {
	dates, err := x.ListDates()
	if err != nil {
		return nil, err
	}

	var written []string
	for _, date := range dates {
		if x.cfg.Checkpoint != nil {
			done, err := x.cfg.Checkpoint.HasProcessed(x.Name(), date)
			if err != nil {
				return written, err
			}
			if done {
				logger.WithField("date", date).Debug("Skip processed date")
				continue
			}
		}

		paths, err := x.ProcessDate(date)
		written = append(written, paths...)
		if err != nil {
			return written, errors.Wrapf(err, "Stopped history of %s at %s", x.Name(), date)
		}
	}

	return written, nil
}

// vendorFile is a vendor CSV drop split into cells. Blank lines are dropped.
type vendorFile struct {
	key    string
	header string
	delim  rune
	rows   [][]string
}

func (x *Converter) download(key string) (*vendorFile, error) {
	src := models.NewS3Object(x.cfg.region(), x.cfg.Bucket, key)
	logger.WithField("src", src.URL()).Debug("Downloading vendor file")

	var body io.ReadCloser
	err := x.cfg.newRetryTimer()(downloadAttempts).Run(func(seq int) (bool, error) {
		b, err := x.s3.AsyncDownload(src)
		if err == nil {
			body = b
			return true, nil
		}
		if service.IsNotFound(err) || seq+1 == downloadAttempts {
			return false, err
		}

		logger.WithError(err).WithFields(logrus.Fields{
			"src": src.URL(),
			"seq": seq,
		}).Warn("Retry downloading vendor file")
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	file := &vendorFile{key: key}
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if file.delim == 0 {
			if decode.IsBlank(line) {
				return nil, fmt.Errorf("Empty header line: %s", src.URL())
			}
			file.header = line
			file.delim = decode.DetectDelimiter(line)
			continue
		}

		if decode.IsBlank(line) {
			continue
		}
		file.rows = append(file.rows, decode.Split(line, file.delim))
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "Fail to read vendor file: %s", src.URL())
	}
	if file.delim == 0 {
		return nil, fmt.Errorf("Empty header line: %s", src.URL())
	}

	return file, nil
}

// reformatDate converts a leniently parsed date to yyyyMMdd, or blank.
func reformatDate(raw string) string {
	t, ok := decode.ParseDate(raw)
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}
