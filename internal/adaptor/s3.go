package adaptor

import (
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3ClientFactory is interface S3Client constructor
type S3ClientFactory func(region string) S3Client

// S3Client is interface of AWS S3 SDK
type S3Client interface {
	GetObject(input *s3.GetObjectInput) (*s3.GetObjectOutput, error)
	PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error)
	ListObjectsV2(input *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error)
}

var (
	awsS3ClientCache = map[string]*s3.S3{}
	awsS3ClientMutex sync.Mutex
)

// NewS3Client creates actual AWS S3 SDK client. A client is shared per region.
func NewS3Client(region string) S3Client {
	awsS3ClientMutex.Lock()
	defer awsS3ClientMutex.Unlock()

	if client, ok := awsS3ClientCache[region]; ok {
		return client
	}

	ssn := session.Must(session.NewSession(&aws.Config{Region: aws.String(region)}))
	client := s3.New(ssn)
	awsS3ClientCache[region] = client
	return client
}
