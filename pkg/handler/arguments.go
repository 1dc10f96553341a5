package handler

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/m-mizutani/brainfeed/internal/adaptor"
	"github.com/m-mizutani/brainfeed/internal/repository"
	"github.com/m-mizutani/brainfeed/internal/service"
	"github.com/m-mizutani/brainfeed/pkg/converter"
	"github.com/pkg/errors"
)

// Arguments has environment variables, Event record and adaptor
type Arguments struct {
	EnvVars
	Event interface{}

	NewS3          adaptor.S3ClientFactory         `json:"-"`
	CheckpointRepo repository.CheckpointRepository `json:"-"`
}

// EventRecord is decapslated event data (e.g. Body of SQS event)
type EventRecord []byte

// Bind unmarshal event record to object
func (x EventRecord) Bind(ev interface{}) error {
	if err := json.Unmarshal(x, ev); err != nil {
		Logger.WithField("raw", string(x)).Error("json.Unmarshal")
		return errors.Wrap(err, "Failed json.Unmarshal in DecodeEvent")
	}
	return nil
}

// DecapSQSEvent decapslates wrapped body data in SQSEvent
func (x *Arguments) DecapSQSEvent() ([]EventRecord, error) {
	var sqsEvent events.SQSEvent
	if err := x.BindEvent(&sqsEvent); err != nil {
		return nil, err
	}

	var output []EventRecord
	for _, record := range sqsEvent.Records {
		output = append(output, EventRecord(record.Body))
	}

	return output, nil
}

// DecapS3Event returns S3 event records of the event. Both a direct S3 event
// and S3 events delivered as SQS message bodies are accepted.
func (x *Arguments) DecapS3Event() ([]events.S3EventRecord, error) {
	var s3Event events.S3Event
	if err := x.BindEvent(&s3Event); err != nil {
		return nil, err
	}
	if len(s3Event.Records) > 0 && s3Event.Records[0].EventSource == "aws:s3" {
		return s3Event.Records, nil
	}

	bodies, err := x.DecapSQSEvent()
	if err != nil {
		return nil, err
	}

	var output []events.S3EventRecord
	for _, body := range bodies {
		var ev events.S3Event
		if err := body.Bind(&ev); err != nil {
			return nil, err
		}
		output = append(output, ev.Records...)
	}

	return output, nil
}

// BindEvent directly decode event data and unmarshal to ev object.
func (x *Arguments) BindEvent(ev interface{}) error {
	raw, err := json.Marshal(x.Event)
	if err != nil {
		Logger.WithField("event", x.Event).Error("json.Marshal")
		return errors.Wrap(err, "Failed to marshal lambda event in BindEvent")
	}

	if err := json.Unmarshal(raw, ev); err != nil {
		Logger.WithField("raw", string(raw)).Error("json.Unmarshal")
		return errors.Wrap(err, "Failed json.Unmarshal in BindEvent")
	}

	return nil
}

// CheckpointRepository provides CheckpointRepository implementation
// (DynamoDB). It is nil if no table is configured.
func (x *Arguments) CheckpointRepository() repository.CheckpointRepository {
	if x.CheckpointRepo != nil {
		return x.CheckpointRepo
	}
	if x.CheckpointTableName == "" {
		return nil
	}
	return repository.NewCheckpointDynamoDB(x.AwsRegion, x.CheckpointTableName)
}

// S3Service provides service.S3Service with S3 adaptor
func (x *Arguments) S3Service() *service.S3Service {
	return service.NewS3Service(x.newS3())
}

// ConverterConfig builds converter settings writing to outputRoot.
func (x *Arguments) ConverterConfig(region, bucket, outputRoot string) converter.Config {
	return converter.Config{
		Region:     region,
		Bucket:     bucket,
		DataFolder: x.DataFolder,
		OutputRoot: outputRoot,
		NewS3:      x.newS3(),
		Checkpoint: x.CheckpointRepository(),
	}
}

func (x *Arguments) newS3() adaptor.S3ClientFactory {
	if x.NewS3 != nil {
		return x.NewS3
	}
	return adaptor.NewS3Client
}
