package service

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/m-mizutani/brainfeed/internal/adaptor"
	"github.com/m-mizutani/brainfeed/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// S3Service is accessor to S3
type S3Service struct {
	newS3 adaptor.S3ClientFactory
}

// NewS3Service is constructor of S3Service
func NewS3Service(newS3 adaptor.S3ClientFactory) *S3Service {
	return &S3Service{
		newS3: newS3,
	}
}

func wrapS3Error(err error, msg string, obj models.S3Object) error {
	if aerr, ok := err.(awserr.Error); ok {
		return errors.Wrapf(aerr, "%s in AWS (%s): %s", msg, aerr.Code(), obj.URL())
	}
	return errors.Wrapf(err, "%s: %s", msg, obj.URL())
}

// IsNotFound is true if err means the object does not exist.
func IsNotFound(err error) bool {
	cause := errors.Cause(err)
	if aerr, ok := cause.(awserr.Error); ok {
		return aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == s3.ErrCodeNoSuchBucket
	}
	return cause.Error() == s3.ErrCodeNoSuchKey || cause.Error() == s3.ErrCodeNoSuchBucket
}

// AsyncUpload uploads data read from body. encoding is set to Content-Encoding
// if not empty.
func (x *S3Service) AsyncUpload(body io.Reader, dst models.S3Object, encoding string) error {
	raw, err := ioutil.ReadAll(body)
	if err != nil {
		return errors.Wrapf(err, "Fail to read upload data for %s", dst.URL())
	}

	input := &s3.PutObjectInput{
		Body:   bytes.NewReader(raw),
		Bucket: aws.String(dst.Bucket),
		Key:    aws.String(dst.Key),
	}
	if encoding != "" {
		input.ContentEncoding = aws.String(encoding)
	}

	if _, err := x.newS3(dst.Region).PutObject(input); err != nil {
		return wrapS3Error(err, "Fail to upload an object", dst)
	}

	logger.WithFields(logrus.Fields{
		"dst":  dst.URL(),
		"size": len(raw),
	}).Debug("Uploaded an object")

	return nil
}

// AsyncDownload is for downloading data via io.ReadCloser
func (x *S3Service) AsyncDownload(src models.S3Object) (io.ReadCloser, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(src.Bucket),
		Key:    aws.String(src.Key),
	}

	output, err := x.newS3(src.Region).GetObject(input)
	if err != nil {
		return nil, wrapS3Error(err, "Fail to download an object", src)
	}

	return output.Body, nil
}

// UploadFileToS3 upload a specified local file to S3
func (x *S3Service) UploadFileToS3(filePath string, dst models.S3Object) error {
	fd, err := os.Open(filePath)
	if err != nil {
		return errors.Wrapf(err, "Fail to open a file: %s", filePath)
	}
	defer fd.Close()

	input := &s3.PutObjectInput{
		Body:   fd,
		Bucket: aws.String(dst.Bucket),
		Key:    aws.String(dst.Key),
	}

	resp, err := x.newS3(dst.Region).PutObject(input)
	if err != nil {
		return wrapS3Error(err, "Fail to upload a file", dst)
	}

	logger.WithFields(logrus.Fields{
		"resp": resp,
		"src":  filePath,
		"dst":  dst.URL(),
	}).Debug("Uploaded a file")

	return nil
}

// ListKeys returns all keys having prefix in bucket, following continuation
// tokens until the listing is complete.
func (x *S3Service) ListKeys(region, bucket, prefix string) ([]string, error) {
	client := x.newS3(region)
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}

	var keys []string
	for {
		output, err := client.ListObjectsV2(input)
		if err != nil {
			return nil, wrapS3Error(err, "Fail to list objects", models.NewS3Object(region, bucket, prefix))
		}

		for _, obj := range output.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}

		if !aws.BoolValue(output.IsTruncated) {
			break
		}
		input.ContinuationToken = output.NextContinuationToken
	}

	logger.WithFields(logrus.Fields{
		"bucket": bucket,
		"prefix": prefix,
		"count":  len(keys),
	}).Debug("Listed objects")

	return keys, nil
}
