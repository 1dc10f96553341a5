package service_test

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/brainfeed/internal/adaptor"
	"github.com/m-mizutani/brainfeed/internal/mock"
	"github.com/m-mizutani/brainfeed/internal/service"
	"github.com/m-mizutani/brainfeed/pkg/brain"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/m-mizutani/brainfeed/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportRecords(t *testing.T) (*schema.Schema, []*schema.Record) {
	ds, ok := brain.Lookup("wikipedia")
	require.True(t, ok)

	result, err := service.ReadFrom(ds, strings.NewReader(wikipediaSource), readReq)
	require.NoError(t, err)
	require.Equal(t, 3, len(result.Records))
	return ds.Schema, result.Records
}

func TestParseExportFormat(t *testing.T) {
	f, err := service.ParseExportFormat("MsgPack")
	require.NoError(t, err)
	assert.Equal(t, service.FormatMsgpack, f)

	_, err = service.ParseExportFormat("csv")
	assert.Error(t, err)
}

func TestWriteRecords(t *testing.T) {
	_, records := exportRecords(t)

	t.Run("msgpack", func(tt *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(tt, service.WriteRecords(adaptor.NewMsgpackEncoder(buf), records))

		dec, err := adaptor.NewMsgpackDecoder(buf)
		require.NoError(tt, err)

		var rows []map[string]interface{}
		for {
			var row map[string]interface{}
			if err := dec.Decode(&row); err == io.EOF {
				break
			} else {
				require.NoError(tt, err)
			}
			rows = append(rows, row)
		}

		require.Equal(tt, 3, len(rows))
		assert.Equal(tt, "BrainWikipediaPageViews", rows[0]["dataset"])
		assert.Equal(tt, "4.2139", rows[1]["buzz_1"])
		assert.Nil(tt, rows[1]["buzz_30"])
	})

	t.Run("json lines", func(tt *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(tt, service.WriteRecords(adaptor.NewJSONLinesEncoder(buf), records))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Equal(tt, 3, len(lines))
		assert.Contains(tt, lines[0], `"ticker":"AAPL"`)
		assert.Contains(tt, lines[0], `"time":"2025-09-08T00:00:00Z"`)
	})
}

func TestWriteParquet(t *testing.T) {
	sc, records := exportRecords(t)

	dir, err := ioutil.TempDir("", "brainfeed")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "out.parquet")
	require.NoError(t, service.WriteParquet(path, sc, records))

	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(raw) > 8)
	assert.Equal(t, "PAR1", string(raw[:4]))
	assert.Equal(t, "PAR1", string(raw[len(raw)-4:]))
}

func TestExportService(t *testing.T) {
	sc, records := exportRecords(t)

	t.Run("local json file", func(tt *testing.T) {
		dir, err := ioutil.TempDir("", "brainfeed")
		require.NoError(tt, err)
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, "out.jsonl")
		svc := service.NewExportService(mock.NewS3Client, "us-east-1")
		require.NoError(tt, svc.Export(sc, records, service.FormatJSON, path))

		fd, err := os.Open(path)
		require.NoError(tt, err)
		defer fd.Close()

		dec, err := adaptor.NewJSONLinesDecoder(fd)
		require.NoError(tt, err)
		var rows []map[string]interface{}
		for {
			var row map[string]interface{}
			if err := dec.Decode(&row); err == io.EOF {
				break
			} else {
				require.NoError(tt, err)
			}
			rows = append(rows, row)
		}
		require.Equal(tt, 3, len(rows))
		assert.Equal(tt, "AAPL", rows[2]["ticker"])
	})

	t.Run("msgpack to s3", func(tt *testing.T) {
		key := "export/" + uuid.New().String() + ".msg.gz"
		svc := service.NewExportService(mock.NewS3Client, "us-east-1")
		require.NoError(tt, svc.Export(sc, records, service.FormatMsgpack, "s3://test-bucket/"+key))

		s3svc := service.NewS3Service(mock.NewS3Client)
		body, err := s3svc.AsyncDownload(models.NewS3Object("us-east-1", "test-bucket", key))
		require.NoError(tt, err)
		defer body.Close()

		dec, err := adaptor.NewMsgpackDecoder(body)
		require.NoError(tt, err)
		var row map[string]interface{}
		require.NoError(tt, dec.Decode(&row))
		assert.Equal(tt, "AAPL", row["ticker"])
	})

	t.Run("parquet to s3", func(tt *testing.T) {
		key := "export/" + uuid.New().String() + ".parquet"
		svc := service.NewExportService(mock.NewS3Client, "us-east-1")
		require.NoError(tt, svc.Export(sc, records, service.FormatParquet, "s3://test-bucket/"+key))

		s3svc := service.NewS3Service(mock.NewS3Client)
		body, err := s3svc.AsyncDownload(models.NewS3Object("us-east-1", "test-bucket", key))
		require.NoError(tt, err)
		defer body.Close()

		raw, err := ioutil.ReadAll(body)
		require.NoError(tt, err)
		assert.Equal(tt, "PAR1", string(raw[:4]))
	})
}
