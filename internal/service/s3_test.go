package service_test

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/m-mizutani/brainfeed/internal/mock"
	"github.com/m-mizutani/brainfeed/internal/service"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3PutObject(t *testing.T) {
	bucket := uuid.New().String()
	svc := service.NewS3Service(mock.NewS3Client)

	fd, err := ioutil.TempFile("", "*.csv")
	require.NoError(t, err)
	defer os.Remove(fd.Name())
	fd.Write([]byte("20250910,14220,4.2139,58460,0.5318,218379,-0.6219\n"))
	fd.Close()

	dst := models.NewS3Object("dokoka", bucket, "alternative/brain/bwpv/aapl.csv")
	require.NoError(t, svc.UploadFileToS3(fd.Name(), dst))

	client := mock.NewS3Client("dokoka")
	out, err := client.GetObject(&s3.GetObjectInput{
		Bucket: &bucket,
		Key:    aws.String("alternative/brain/bwpv/aapl.csv"),
	})
	require.NoError(t, err)
	raw, err := ioutil.ReadAll(out.Body)
	require.NoError(t, err)
	assert.Equal(t, "20250910,14220,4.2139,58460,0.5318,218379,-0.6219\n", string(raw))
}

func TestS3AsyncUploadAndDownload(t *testing.T) {
	bucket := uuid.New().String()
	svc := service.NewS3Service(mock.NewS3Client)
	obj := models.NewS3Object("dokoka", bucket, "out/records.jsonl")

	require.NoError(t, svc.AsyncUpload(strings.NewReader("five timeless words"), obj, ""))

	rc, err := svc.AsyncDownload(obj)
	require.NoError(t, err)
	defer rc.Close()
	raw, err := ioutil.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "five timeless words", string(raw))

	t.Run("missing object", func(tt *testing.T) {
		_, err := svc.AsyncDownload(models.NewS3Object("dokoka", bucket, "no/such/key"))
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "no/such/key")
		assert.True(tt, service.IsNotFound(err))
		assert.False(tt, service.IsNotFound(errors.New("connection reset")))
	})
}

func TestS3ListKeys(t *testing.T) {
	bucket := uuid.New().String()
	svc := service.NewS3Service(mock.NewS3Client)
	client := mock.NewS3Client("dokoka")

	for i := 0; i < 1203; i++ {
		_, err := client.PutObject(&s3.PutObjectInput{
			Bucket: &bucket,
			Key:    aws.String(fmt.Sprintf("BWPV/metrics_%08d.csv", i)),
			Body:   strings.NewReader("a"),
		})
		require.NoError(t, err)
	}
	_, err := client.PutObject(&s3.PutObjectInput{
		Bucket: &bucket,
		Key:    aws.String("BLMECT/metrics_earnings_call_20250910.csv"),
		Body:   strings.NewReader("a"),
	})
	require.NoError(t, err)

	keys, err := svc.ListKeys("dokoka", bucket, "BWPV/")
	require.NoError(t, err)
	assert.Equal(t, 1203, len(keys))
	assert.Equal(t, "BWPV/metrics_00000000.csv", keys[0])
	assert.Equal(t, "BWPV/metrics_00001202.csv", keys[1202])
}
