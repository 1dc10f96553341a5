package service

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/m-mizutani/brainfeed/internal/adaptor"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// ExportFormat is file format of exported records
type ExportFormat string

const (
	// FormatJSON is one JSON object per line
	FormatJSON ExportFormat = "json"
	// FormatMsgpack is gzip compressed msgpack stream
	FormatMsgpack ExportFormat = "msgpack"
	// FormatParquet is a parquet file with one column per field
	FormatParquet ExportFormat = "parquet"
)

// ParseExportFormat converts a format name
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(s)); f {
	case FormatJSON, FormatMsgpack, FormatParquet:
		return f, nil
	default:
		return "", fmt.Errorf("Unsupported export format: %s", s)
	}
}

// ExportService writes parsed records to a local file or S3.
type ExportService struct {
	s3     *S3Service
	region string
}

// NewExportService is constructor of ExportService. region is used for s3:// destinations.
func NewExportService(newS3 adaptor.S3ClientFactory, region string) *ExportService {
	return &ExportService{
		s3:     NewS3Service(newS3),
		region: region,
	}
}

// Export writes records of sc to dst, a local path or "s3://bucket/key".
func (x *ExportService) Export(sc *schema.Schema, records []*schema.Record, format ExportFormat, dst string) error {
	filePath := dst
	var s3dst *models.S3Object

	if models.IsS3URL(dst) {
		obj, err := models.ParseS3URL(dst, x.region)
		if err != nil {
			return err
		}
		s3dst = obj

		fd, err := ioutil.TempFile("", "*."+string(format))
		if err != nil {
			return errors.Wrap(err, "Fail to create a temp export file")
		}
		fd.Close()
		filePath = fd.Name()
		defer os.Remove(filePath)
	}

	var encoding string
	switch format {
	case FormatParquet:
		if err := WriteParquet(filePath, sc, records); err != nil {
			return err
		}

	case FormatJSON, FormatMsgpack:
		fd, err := os.Create(filePath)
		if err != nil {
			return errors.Wrapf(err, "Fail to create export file: %s", filePath)
		}

		enc := newEncoder(format, fd)
		encoding = enc.ContentEncoding()
		if err := WriteRecords(enc, records); err != nil {
			fd.Close()
			return err
		}
		if err := fd.Close(); err != nil {
			return errors.Wrapf(err, "Fail to close export file: %s", filePath)
		}

	default:
		return fmt.Errorf("Unsupported export format: %s", format)
	}

	logger.WithFields(logrus.Fields{
		"format":  format,
		"records": len(records),
		"path":    filePath,
	}).Debug("Exported records")

	if s3dst == nil {
		return nil
	}

	if format == FormatParquet {
		return x.s3.UploadFileToS3(filePath, *s3dst)
	}

	fd, err := os.Open(filePath)
	if err != nil {
		return errors.Wrapf(err, "Fail to open export file: %s", filePath)
	}
	defer fd.Close()

	return x.s3.AsyncUpload(fd, *s3dst, encoding)
}

func newEncoder(format ExportFormat, w io.Writer) adaptor.Encoder {
	if format == FormatMsgpack {
		return adaptor.NewMsgpackEncoder(w)
	}
	return adaptor.NewJSONLinesEncoder(w)
}

// WriteRecords encodes flattened records with enc and closes it.
func WriteRecords(enc adaptor.Encoder, records []*schema.Record) error {
	for _, rec := range records {
		if err := enc.Encode(rec.Map()); err != nil {
			return errors.Wrapf(err, "Fail to encode a record of %s", rec.Dataset())
		}
	}

	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "Fail to close encoder")
	}

	return nil
}

type parquetField struct {
	Tag string `json:"Tag"`
}

type parquetSchema struct {
	Tag    string         `json:"Tag"`
	Fields []parquetField `json:"Fields"`
}

type parquetColumn struct {
	name   string
	inName string
	tag    string
}

var parquetHeaderColumns = []parquetColumn{
	{name: "dataset", tag: "type=UTF8, encoding=PLAIN_DICTIONARY, repetitiontype=REQUIRED"},
	{name: "ticker", tag: "type=UTF8, encoding=PLAIN_DICTIONARY, repetitiontype=REQUIRED"},
	{name: "security_id", tag: "type=UTF8, encoding=PLAIN_DICTIONARY, repetitiontype=OPTIONAL"},
	{name: "time", tag: "type=INT64, repetitiontype=REQUIRED"},
	{name: "end_time", tag: "type=INT64, repetitiontype=REQUIRED"},
	{name: "value", tag: "type=UTF8, repetitiontype=REQUIRED"},
}

func parquetColumnTag(kind schema.Kind) string {
	switch kind {
	case schema.KindInteger:
		return "type=INT64, repetitiontype=OPTIONAL"
	case schema.KindString:
		return "type=UTF8, encoding=PLAIN_DICTIONARY, repetitiontype=OPTIONAL"
	default:
		// Decimals and dates are kept as text to stay exact.
		return "type=UTF8, repetitiontype=OPTIONAL"
	}
}

// parquetColumns has header columns followed by columns of sc. inName is a
// Go style identifier the JSON writer matches record keys with.
func parquetColumns(sc *schema.Schema) []parquetColumn {
	cols := append([]parquetColumn{}, parquetHeaderColumns...)
	for _, c := range sc.Columns() {
		cols = append(cols, parquetColumn{name: c.Name, tag: parquetColumnTag(c.Kind)})
	}

	for i := range cols {
		cols[i].inName = fmt.Sprintf("Col%d", i)
	}
	return cols
}

func parquetSchemaJSON(cols []parquetColumn) (string, error) {
	s := parquetSchema{Tag: "name=parquet_go_root, repetitiontype=REQUIRED"}
	for _, c := range cols {
		s.Fields = append(s.Fields, parquetField{
			Tag: fmt.Sprintf("name=%s, inname=%s, %s", c.name, c.inName, c.tag),
		})
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrap(err, "Fail to marshal parquet schema")
	}
	return string(raw), nil
}

func parquetRow(cols []parquetColumn, rec *schema.Record) (string, error) {
	m := rec.Map()
	m["time"] = rec.Time().UnixNano() / 1e6
	m["end_time"] = rec.EndTime().UnixNano() / 1e6

	row := make(map[string]interface{}, len(cols))
	for _, c := range cols {
		row[c.inName] = m[c.name]
	}

	raw, err := json.Marshal(row)
	if err != nil {
		return "", errors.Wrap(err, "Fail to marshal parquet row")
	}
	return string(raw), nil
}

// WriteParquet writes records of sc to a SNAPPY compressed parquet file.
// Times are unix milliseconds.
func WriteParquet(filePath string, sc *schema.Schema, records []*schema.Record) error {
	cols := parquetColumns(sc)
	jsonSchema, err := parquetSchemaJSON(cols)
	if err != nil {
		return err
	}

	fw, err := local.NewLocalFileWriter(filePath)
	if err != nil {
		return errors.Wrap(err, "Fail to create a parquet file")
	}
	defer func() {
		if err := fw.Close(); err != nil {
			logger.WithError(err).Error("Fail to close parquet file")
		}
	}()

	pw, err := writer.NewJSONWriter(jsonSchema, fw, 1)
	if err != nil {
		return errors.Wrap(err, "Fail to create parquet writer")
	}

	pw.RowGroupSize = 128 * 1024 * 1024
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range records {
		row, err := parquetRow(cols, rec)
		if err != nil {
			return err
		}
		if err := pw.Write(row); err != nil {
			return errors.Wrapf(err, "Fail to write record as parquet: %s", row)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return errors.Wrap(err, "Fail to stop writing parquet file")
	}

	return nil
}
