package testutil

import (
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/events"
)

// EncapBySQS encapslates data by events.SQSEvent and returns it.
func EncapBySQS(data interface{}) *events.SQSEvent {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Fatalf("Can not marshal: %+v: %v", err, data)
	}

	return &events.SQSEvent{
		Records: []events.SQSMessage{
			{Body: string(raw)},
		},
	}
}

// EncapByS3Event builds an object created event of keys in bucket.
func EncapByS3Event(region, bucket string, keys ...string) *events.S3Event {
	ev := &events.S3Event{}
	for _, key := range keys {
		ev.Records = append(ev.Records, events.S3EventRecord{
			EventSource: "aws:s3",
			EventName:   "ObjectCreated:Put",
			AWSRegion:   region,
			S3: events.S3Entity{
				Bucket: events.S3Bucket{Name: bucket},
				Object: events.S3Object{Key: key},
			},
		})
	}
	return ev
}
