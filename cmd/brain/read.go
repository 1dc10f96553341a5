package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/itchyny/gojq"
	"github.com/k0kubun/pp"
	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/internal/service"
	"github.com/m-mizutani/brainfeed/pkg/brain"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
)

type sourceArguments struct {
	Dataset   string
	Source    string
	Symbol    string
	Date      string
	Header    bool
	Delimiter string
}

func sourceFlags(src *sourceArguments) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Aliases:     []string{"d"},
			Usage:       "Dataset key (" + strings.Join(brain.Keys(), ", ") + ")",
			Required:    true,
			Destination: &src.Dataset,
		},
		&cli.StringFlag{
			Name:        "source",
			Aliases:     []string{"s"},
			Usage:       "Local path or s3://bucket/key of a source file",
			Required:    true,
			Destination: &src.Source,
		},
		&cli.StringFlag{
			Name:        "symbol",
			Usage:       "Ticker of a per-symbol source",
			Destination: &src.Symbol,
		},
		&cli.StringFlag{
			Name:        "date",
			Usage:       "Reference date (yyyyMMdd), required for universe sources",
			Destination: &src.Date,
		},
		&cli.BoolFlag{
			Name:        "header",
			Usage:       "First line is a header",
			Destination: &src.Header,
		},
		&cli.StringFlag{
			Name:        "delimiter",
			Usage:       "comma or tab",
			Value:       "comma",
			Destination: &src.Delimiter,
		},
	}
}

func (x sourceArguments) dataset() (*brain.Dataset, error) {
	ds, ok := brain.Lookup(x.Dataset)
	if !ok {
		return nil, fmt.Errorf("Unknown dataset: %s", x.Dataset)
	}
	return ds, nil
}

func (x sourceArguments) request(ds *brain.Dataset) (service.ReadRequest, error) {
	req := service.ReadRequest{
		Symbol: models.NewSymbol(x.Symbol),
		Header: x.Header,
	}

	switch strings.ToLower(x.Delimiter) {
	case "", "comma":
		req.Delimiter = decode.Comma
	case "tab":
		req.Delimiter = decode.Tab
	default:
		return req, fmt.Errorf("Invalid delimiter: %s", x.Delimiter)
	}

	if x.Date != "" {
		d, err := time.Parse("20060102", x.Date)
		if err != nil {
			return req, errors.Wrapf(err, "Invalid date: %s", x.Date)
		}
		req.Date = d
	} else if ds.IsUniverse() {
		return req, fmt.Errorf("--date is required for universe dataset %s", ds.Key)
	}

	if ds.RequiresMapping && req.Symbol.IsZero() {
		return req, fmt.Errorf("--symbol is required for dataset %s", ds.Key)
	}

	return req, nil
}

func loadSource(args arguments, src sourceArguments) (*brain.Dataset, *service.ReadResult, error) {
	ds, err := src.dataset()
	if err != nil {
		return nil, nil, err
	}
	req, err := src.request(ds)
	if err != nil {
		return nil, nil, err
	}

	reader := service.NewReaderService(args.newS3, args.Region)
	result, err := reader.Read(ds, src.Source, req)
	if err != nil {
		return nil, nil, err
	}

	for _, lineErr := range result.Errors {
		logger.WithFields(logrus.Fields{
			"line": lineErr.Line,
			"text": lineErr.Text,
		}).WithError(lineErr.Err).Warn("Fail to parse line")
	}
	logger.WithFields(logrus.Fields{
		"records":  len(result.Records),
		"rejected": result.Rejected,
		"errors":   len(result.Errors),
	}).Info("Read source")

	return ds, result, nil
}

type readArguments struct {
	Query  string
	Pretty bool
}

// toJSONValue converts v into values gojq handles.
func toJSONValue(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "Fail to marshal record")
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "Fail to unmarshal record")
	}
	return out, nil
}

func printRecords(w io.Writer, values []interface{}, query *gojq.Query, pretty bool) error {
	emit := func(v interface{}) error {
		if pretty {
			_, err := pp.Fprintln(w, v)
			return err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "Fail to marshal output")
		}
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}

	for _, v := range values {
		if query == nil {
			if err := emit(v); err != nil {
				return err
			}
			continue
		}

		iter := query.Run(v)
		for {
			out, ok := iter.Next()
			if !ok {
				break
			}
			if err, ok := out.(error); ok {
				return errors.Wrap(err, "Fail to run query")
			}
			if err := emit(out); err != nil {
				return err
			}
		}
	}

	return nil
}

func readAction(args arguments, src sourceArguments, readArgs readArguments) error {
	var query *gojq.Query
	if readArgs.Query != "" {
		q, err := gojq.Parse(readArgs.Query)
		if err != nil {
			return errors.Wrapf(err, "Invalid query: %s", readArgs.Query)
		}
		query = q
	}

	_, result, err := loadSource(args, src)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(result.Records))
	for i, rec := range result.Records {
		if values[i], err = toJSONValue(rec); err != nil {
			return err
		}
	}

	return printRecords(os.Stdout, values, query, readArgs.Pretty)
}

func readCommand(args *arguments) *cli.Command {
	var src sourceArguments
	var readArgs readArguments

	flags := sourceFlags(&src)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "jq filter applied to each record",
			Destination: &readArgs.Query,
		},
		&cli.BoolFlag{
			Name:        "pretty",
			Usage:       "Pretty print records",
			Destination: &readArgs.Pretty,
		},
	)

	return &cli.Command{
		Name:  "read",
		Usage: "Parse a source file and print records as JSON",
		Action: func(c *cli.Context) error {
			return readAction(*args, src, readArgs)
		},
		Flags: flags,
	}
}
