package repository

import (
	"sort"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/guregu/dynamo"
	"github.com/pkg/errors"
)

// CheckpointRepository remembers which source dates were already converted.
type CheckpointRepository interface {
	HasProcessed(source, date string) (bool, error)
	PutProcessed(source, date string) error
	ListProcessed(source string) ([]string, error)
}

// CheckpointDynamoDB is implementation of CheckpointRepository
type CheckpointDynamoDB struct {
	table dynamo.Table
}

type checkpointItem struct {
	ExpiresAt   int64  `dynamo:"expires_at"`
	PKey        string `dynamo:"pk"`
	SKey        string `dynamo:"sk"`
	ProcessedAt int64  `dynamo:"processed_at"`
}

// CheckpointTTL is lifetime of a checkpoint item.
const CheckpointTTL = time.Hour * 24 * 365

// NewCheckpointDynamoDB is a constructor of CheckpointDynamoDB
func NewCheckpointDynamoDB(region, tableName string) CheckpointRepository {
	db := dynamo.New(session.New(), &aws.Config{Region: aws.String(region)})
	return &CheckpointDynamoDB{
		table: db.Table(tableName),
	}
}

func toCheckpointKey(source string) string {
	return "checkpoint:" + source
}

// HasProcessed returns true if PutProcessed was called for source and date.
func (x *CheckpointDynamoDB) HasProcessed(source, date string) (bool, error) {
	var result checkpointItem
	pkey := toCheckpointKey(source)
	if err := x.table.Get("pk", pkey).Range("sk", dynamo.Equal, date).One(&result); err != nil {
		if err == dynamo.ErrNotFound {
			return false, nil
		}
		if isResourceNotFoundErr(err) {
			return false, errors.Wrap(err, "Checkpoint table is not found")
		}

		return false, errors.Wrapf(err, "Fail to get checkpoint: %s %s", pkey, date)
	}

	return true, nil
}

// PutProcessed records date of source. Putting the same date twice is not an error.
func (x *CheckpointDynamoDB) PutProcessed(source, date string) error {
	now := time.Now().UTC()
	item := checkpointItem{
		ExpiresAt:   now.Add(CheckpointTTL).Unix(),
		PKey:        toCheckpointKey(source),
		SKey:        date,
		ProcessedAt: now.Unix(),
	}

	if err := x.table.Put(item).If("attribute_not_exists(pk)").Run(); err != nil {
		if isConditionalCheckErr(err) {
			return nil
		}
		return errors.Wrapf(err, "Fail to put checkpoint: %v", item)
	}

	return nil
}

// ListProcessed returns processed dates of source in ascending order.
func (x *CheckpointDynamoDB) ListProcessed(source string) ([]string, error) {
	var items []checkpointItem
	pkey := toCheckpointKey(source)
	if err := x.table.Get("pk", pkey).All(&items); err != nil {
		if err == dynamo.ErrNotFound {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "Fail to query checkpoints: %s", pkey)
	}

	dates := make([]string, len(items))
	for i, item := range items {
		dates[i] = item.SKey
	}
	sort.Strings(dates)
	return dates, nil
}
