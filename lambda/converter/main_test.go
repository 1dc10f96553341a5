package main_test

import (
	"io/ioutil"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/m-mizutani/brainfeed/internal/mock"
	"github.com/m-mizutani/brainfeed/internal/testutil"
	"github.com/m-mizutani/brainfeed/pkg/handler"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	converterlambda "github.com/m-mizutani/brainfeed/lambda/converter"
)

const region = "us-east-1"

func putObject(t *testing.T, bucket, key, body string) {
	_, err := mock.NewS3Client(region).PutObject(&s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   strings.NewReader(body),
	})
	require.NoError(t, err)
}

func getObject(t *testing.T, bucket, key string) string {
	output, err := mock.NewS3Client(region).GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	require.NoError(t, err)
	raw, err := ioutil.ReadAll(output.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestConverterHandler(t *testing.T) {
	vendor := "vendor-" + uuid.New().String()
	output := "output-" + uuid.New().String()
	checkpoint := mock.NewCheckpointRepository()

	args := func(event interface{}) handler.Arguments {
		return handler.Arguments{
			EnvVars: handler.EnvVars{
				BrainS3Bucket:  vendor,
				OutputS3Bucket: output,
				OutputS3Prefix: "lean",
				AwsRegion:      region,
			},
			Event:          event,
			NewS3:          mock.NewS3Client,
			CheckpointRepo: checkpoint,
		}
	}
	dstKey := "lean/alternative/brain/bwpv/aapl.csv"

	t.Run("convert object created by S3 event", func(tt *testing.T) {
		key := "BWPV/metrics_20250910.csv"
		putObject(tt, vendor, key, "h\n1,AAPL,2025-09-10,2,2,2,2,2,2\n")

		require.NoError(tt, converterlambda.Handler(args(testutil.EncapByS3Event(region, vendor, key))))
		assert.Equal(tt, "20250910,2,2,2,2,2,2\n", getObject(tt, output, dstKey))

		has, err := checkpoint.HasProcessed("BWPV", "20250910")
		require.NoError(tt, err)
		assert.True(tt, has)
	})

	t.Run("merged with uploaded file", func(tt *testing.T) {
		key := "BWPV/metrics_20250909.csv"
		putObject(tt, vendor, key, "h\n1,AAPL,2025-09-09,1,1,1,1,1,1\n")

		event := testutil.EncapBySQS(testutil.EncapByS3Event(region, vendor, key))
		require.NoError(tt, converterlambda.Handler(args(event)))
		assert.Equal(tt, "20250909,1,1,1,1,1,1\n20250910,2,2,2,2,2,2\n", getObject(tt, output, dstKey))
	})

	t.Run("unknown key is skipped", func(tt *testing.T) {
		key := "BSI/sentimentDays7_20250909.csv"
		putObject(tt, vendor, key, "h\n")
		require.NoError(tt, converterlambda.Handler(args(testutil.EncapByS3Event(region, vendor, key))))
	})

	t.Run("other bucket is ignored", func(tt *testing.T) {
		other := "other-" + uuid.New().String()
		key := "BWPV/metrics_20250911.csv"
		putObject(tt, other, key, "h\n1,AAPL,2025-09-11,3,3,3,3,3,3\n")
		require.NoError(tt, converterlambda.Handler(args(testutil.EncapByS3Event(region, other, key))))

		_, err := mock.NewS3Client(region).GetObject(&s3.GetObjectInput{
			Bucket: aws.String(output),
			Key:    aws.String("lean/alternative/brain/bwpv/aapl.csv"),
		})
		require.NoError(tt, err)
		assert.NotContains(tt, getObject(tt, output, dstKey), "20250911")
	})

	t.Run("missing vendor file fails", func(tt *testing.T) {
		key := "BLMECT/metrics_earnings_call_20250912.csv"
		err := converterlambda.Handler(args(testutil.EncapByS3Event(region, vendor, key)))
		assert.Error(tt, err)
	})

	t.Run("output bucket is required", func(tt *testing.T) {
		a := args(testutil.EncapByS3Event(region, vendor, "BWPV/metrics_20250910.csv"))
		a.OutputS3Bucket = ""
		assert.Error(tt, converterlambda.Handler(a))
	})
}

func TestS3ObjectOfEvent(t *testing.T) {
	ev := testutil.EncapByS3Event(region, "b", "BWPV/metrics_20250910.csv")
	obj := models.NewS3ObjectFromRecord(ev.Records[0])
	assert.Equal(t, "s3://b/BWPV/metrics_20250910.csv", obj.URL())
}
