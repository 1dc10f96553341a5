package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/m-mizutani/brainfeed/internal/adaptor"
	"github.com/m-mizutani/brainfeed/internal/decode"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const maxLineSize = 1024 * 1024 // 1MB

// Parser converts one line into a record. Both schema.Schema and
// brain.Dataset implement it.
type Parser interface {
	Parse(line string, req schema.Request) (*schema.Record, error)
}

// ReadRequest tells ReaderService what the host knows about a source.
type ReadRequest struct {
	Symbol models.Symbol
	Date   time.Time
	// Header means the first line is a header. The delimiter is detected from it.
	Header    bool
	Delimiter rune
}

// LineError is a failure of one line. Other lines are not affected.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (x *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", x.Line, x.Err)
}

// ReadResult has records of all lines parsed successfully.
type ReadResult struct {
	Records []*schema.Record
	// Rejected is a number of non-blank lines yielding no record without error
	Rejected int
	Errors   []*LineError
}

// ReaderService reads records from a local file or an S3 object.
type ReaderService struct {
	s3     *S3Service
	region string
}

// NewReaderService is constructor of ReaderService. region is used for s3:// sources.
func NewReaderService(newS3 adaptor.S3ClientFactory, region string) *ReaderService {
	return &ReaderService{
		s3:     NewS3Service(newS3),
		region: region,
	}
}

// Open returns a stream of src, which is a local path or "s3://bucket/key".
func (x *ReaderService) Open(src string) (io.ReadCloser, error) {
	if models.IsS3URL(src) {
		obj, err := models.ParseS3URL(src, x.region)
		if err != nil {
			return nil, err
		}
		return x.s3.AsyncDownload(*obj)
	}

	fd, err := os.Open(src)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to open source file: %s", src)
	}
	return fd, nil
}

// Read parses every line of src with p.
func (x *ReaderService) Read(p Parser, src string, req ReadRequest) (*ReadResult, error) {
	rc, err := x.Open(src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	result, err := ReadFrom(p, rc, req)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to read %s", src)
	}

	logger.WithFields(logrus.Fields{
		"src":      src,
		"records":  len(result.Records),
		"rejected": result.Rejected,
		"errors":   len(result.Errors),
	}).Debug("Read source")

	return result, nil
}

// ReadFrom parses every line of r with p.
func ReadFrom(p Parser, r io.Reader, req ReadRequest) (*ReadResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	parseReq := schema.Request{
		Symbol:    req.Symbol,
		Date:      req.Date,
		Delimiter: req.Delimiter,
	}

	var result ReadResult
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if req.Header && lineNo == 1 {
			if parseReq.Delimiter == 0 {
				parseReq.Delimiter = decode.DetectDelimiter(line)
			}
			continue
		}

		if decode.IsBlank(line) {
			continue
		}

		rec, err := p.Parse(line, parseReq)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, &LineError{Line: lineNo, Text: line, Err: err})
		case rec == nil:
			result.Rejected++
		default:
			result.Records = append(result.Records, rec)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "Fail to scan line %d", lineNo+1)
	}

	return &result, nil
}
