package api

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/internal/service"
	"github.com/m-mizutani/brainfeed/pkg/brain"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type datasetSummary struct {
	Key             string   `json:"key"`
	Name            string   `json:"name"`
	Universe        bool     `json:"universe"`
	RequiresMapping bool     `json:"requires_mapping"`
	Sparse          bool     `json:"sparse"`
	Resolution      string   `json:"resolution"`
	Fields          []string `json:"fields,omitempty"`
}

func summarize(ds *brain.Dataset, withFields bool) datasetSummary {
	s := datasetSummary{
		Key:             ds.Key,
		Name:            ds.Name(),
		Universe:        ds.IsUniverse(),
		RequiresMapping: ds.RequiresMapping,
		Sparse:          ds.Sparse,
		Resolution:      ds.Resolution,
	}
	if withFields {
		for _, col := range ds.Schema.Columns() {
			s.Fields = append(s.Fields, col.Name)
		}
	}
	return s
}

func lookupDataset(c *gin.Context) (*brain.Dataset, apiError) {
	key := c.Param("key")
	ds, ok := brain.Lookup(key)
	if !ok {
		return nil, newUserErrorf(http.StatusNotFound, "Unknown dataset: %s", key)
	}
	return ds, nil
}

func queryDate(c *gin.Context) (time.Time, apiError) {
	v := c.Query("date")
	if v == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse("20060102", v)
	if err != nil {
		return time.Time{}, wrapUserError(err, http.StatusBadRequest, "Invalid date: "+v)
	}
	return d, nil
}

func listDatasets(args Arguments, c *gin.Context) (*apiResponse, apiError) {
	var datasets []datasetSummary
	for _, key := range brain.Keys() {
		ds, _ := brain.Lookup(key)
		datasets = append(datasets, summarize(ds, false))
	}

	return &apiResponse{
		Code:    http.StatusOK,
		Message: gin.H{"datasets": datasets},
	}, nil
}

func getDataset(args Arguments, c *gin.Context) (*apiResponse, apiError) {
	ds, apiErr := lookupDataset(c)
	if apiErr != nil {
		return nil, apiErr
	}

	return &apiResponse{
		Code:    http.StatusOK,
		Message: summarize(ds, true),
	}, nil
}

func getSourcePath(args Arguments, c *gin.Context) (*apiResponse, apiError) {
	ds, apiErr := lookupDataset(c)
	if apiErr != nil {
		return nil, apiErr
	}

	date, apiErr := queryDate(c)
	if apiErr != nil {
		return nil, apiErr
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	symbol := models.NewSymbol(c.Query("symbol"))
	if ds.RequiresMapping && symbol.IsZero() {
		return nil, newUserErrorf(http.StatusBadRequest, "symbol is required for dataset %s", ds.Key)
	}

	root := c.DefaultQuery("root", args.DataFolder)
	return &apiResponse{
		Code:    http.StatusOK,
		Message: gin.H{"path": ds.SourcePath(root, symbol, date)},
	}, nil
}

type lineError struct {
	Line    int    `json:"line"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

type parseResponse struct {
	Dataset  string           `json:"dataset"`
	Records  []*schema.Record `json:"records"`
	Rejected int              `json:"rejected"`
	Errors   []lineError      `json:"errors,omitempty"`
}

func parseRecords(args Arguments, c *gin.Context) (*apiResponse, apiError) {
	ds, apiErr := lookupDataset(c)
	if apiErr != nil {
		return nil, apiErr
	}

	date, apiErr := queryDate(c)
	if apiErr != nil {
		return nil, apiErr
	}
	if ds.IsUniverse() && date.IsZero() {
		return nil, newUserErrorf(http.StatusBadRequest, "date is required for universe dataset %s", ds.Key)
	}

	req := service.ReadRequest{
		Symbol: models.NewSymbol(c.Query("symbol")),
		Date:   date,
		Header: c.Query("header") == "true",
	}
	if ds.RequiresMapping && req.Symbol.IsZero() {
		return nil, newUserErrorf(http.StatusBadRequest, "symbol is required for dataset %s", ds.Key)
	}

	switch strings.ToLower(c.DefaultQuery("delimiter", "comma")) {
	case "comma":
		req.Delimiter = decode.Comma
	case "tab":
		req.Delimiter = decode.Tab
	default:
		return nil, newUserErrorf(http.StatusBadRequest, "Invalid delimiter: %s", c.Query("delimiter"))
	}

	var body io.Reader = c.Request.Body
	if args.MaxBodySize > 0 {
		body = http.MaxBytesReader(c.Writer, c.Request.Body, args.MaxBodySize)
	}

	result, err := service.ReadFrom(ds, body, req)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, wrapUserError(err, http.StatusRequestEntityTooLarge, "Source is too large")
		}
		return nil, wrapSystemError(errors.Wrap(err, ds.Key), http.StatusInternalServerError, "Fail to read source")
	}

	resp := parseResponse{
		Dataset:  ds.Name(),
		Records:  result.Records,
		Rejected: result.Rejected,
	}
	if resp.Records == nil {
		resp.Records = []*schema.Record{}
	}
	for _, lineErr := range result.Errors {
		resp.Errors = append(resp.Errors, lineError{
			Line:    lineErr.Line,
			Text:    lineErr.Text,
			Message: lineErr.Err.Error(),
		})
	}

	logger.WithFields(logrus.Fields{
		"dataset":  ds.Key,
		"records":  len(result.Records),
		"rejected": result.Rejected,
		"errors":   len(result.Errors),
	}).Info("Parsed posted source")

	return &apiResponse{Code: http.StatusOK, Message: resp}, nil
}
