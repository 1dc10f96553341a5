package mock

import (
	"bytes"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/m-mizutani/brainfeed/internal/adaptor"
)

// NewS3Client is constructor of S3 Mock. All clients share one store, so an
// object put by one client can be read by another.
func NewS3Client(region string) adaptor.S3Client {
	return &S3Client{
		data: mockS3ClientDataStore,
	}
}

// S3Client is on memory S3Client mock
type S3Client struct {
	data map[string]map[string][]byte
}

var mockS3ClientDataStore = map[string]map[string][]byte{}

// defaultMaxKeys is the page size of ListObjectsV2 when MaxKeys is not set
const defaultMaxKeys = 1000

// GetObject of S3Client loads []bytes from memory
func (x *S3Client) GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	bucket, ok := x.data[*input.Bucket]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}
	obj, ok := bucket[*input.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}

	return &s3.GetObjectOutput{
		Body:          ioutil.NopCloser(bytes.NewReader(obj)),
		ContentLength: aws.Int64(int64(len(obj))),
	}, nil
}

// PutObject of S3Client saves []bytes to memory
func (x *S3Client) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	raw, err := ioutil.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}

	bucket, ok := x.data[*input.Bucket]
	if !ok {
		bucket = map[string][]byte{}
		x.data[*input.Bucket] = bucket
	}

	bucket[*input.Key] = raw

	return &s3.PutObjectOutput{}, nil
}

// ListObjectsV2 of S3Client returns keys having the prefix in lexical order.
// ContinuationToken is the last key of the previous page.
func (x *S3Client) ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
	bucket, ok := x.data[*input.Bucket]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchBucket, "The specified bucket does not exist", nil)
	}

	prefix := aws.StringValue(input.Prefix)
	after := aws.StringValue(input.ContinuationToken)
	maxKeys := int(aws.Int64Value(input.MaxKeys))
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}

	var keys []string
	for key := range bucket {
		if strings.HasPrefix(key, prefix) && key > after {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	output := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if len(keys) > maxKeys {
		keys = keys[:maxKeys]
		output.IsTruncated = aws.Bool(true)
		output.NextContinuationToken = aws.String(keys[len(keys)-1])
	}

	for _, key := range keys {
		output.Contents = append(output.Contents, &s3.Object{
			Key:  aws.String(key),
			Size: aws.Int64(int64(len(bucket[key]))),
		})
	}
	output.KeyCount = aws.Int64(int64(len(keys)))

	return output, nil
}
