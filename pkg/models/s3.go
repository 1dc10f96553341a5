package models

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// S3Scheme is URL scheme of S3 object location
const S3Scheme = "s3://"

// S3Object is location of an object on S3
type S3Object struct {
	Region string `json:"region"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// NewS3Object is constructor of S3Object
func NewS3Object(region, bucket, key string) S3Object {
	return S3Object{
		Region: region,
		Bucket: bucket,
		Key:    key,
	}
}

// NewS3ObjectFromRecord extracts location of created object from S3 event.
// Key in the event is URL encoded.
func NewS3ObjectFromRecord(record events.S3EventRecord) S3Object {
	key := record.S3.Object.Key
	if decoded, err := url.QueryUnescape(key); err == nil {
		key = decoded
	}

	return S3Object{
		Region: record.AWSRegion,
		Bucket: record.S3.Bucket.Name,
		Key:    key,
	}
}

// IsS3URL is true if raw starts with "s3://"
func IsS3URL(raw string) bool {
	return strings.HasPrefix(raw, S3Scheme)
}

// ParseS3URL converts "s3://bucket/key" to S3Object in region.
func ParseS3URL(raw, region string) (*S3Object, error) {
	if !IsS3URL(raw) {
		return nil, fmt.Errorf("Invalid S3 URL (s3:// is required): %s", raw)
	}

	p := strings.SplitN(strings.TrimPrefix(raw, S3Scheme), "/", 2)
	if len(p) != 2 || p[0] == "" || p[1] == "" {
		return nil, errors.Wrapf(ErrInvalidS3URL, "bucket and key are required: %s", raw)
	}

	obj := NewS3Object(region, p[0], p[1])
	return &obj, nil
}

// ErrInvalidS3URL means S3 URL does not have bucket or key
var ErrInvalidS3URL = fmt.Errorf("Invalid S3 URL")

// Join returns a new S3Object whose key has elems appended as path elements
func (x S3Object) Join(elems ...string) S3Object {
	key := path.Join(append([]string{x.Key}, elems...)...)
	key = strings.TrimPrefix(key, "/")
	return NewS3Object(x.Region, x.Bucket, key)
}

// URL returns "s3://bucket/key"
func (x S3Object) URL() string {
	return S3Scheme + x.Bucket + "/" + x.Key
}

// FileName is the last element of the key
func (x S3Object) FileName() string {
	return path.Base(x.Key)
}
