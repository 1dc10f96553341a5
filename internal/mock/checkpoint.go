package mock

import (
	"sort"
	"sync"

	"github.com/m-mizutani/brainfeed/internal/repository"
)

// CheckpointRepository is in-memory implementation of repository.CheckpointRepository
type CheckpointRepository struct {
	mutex sync.Mutex
	data  map[string]map[string]bool
}

// NewCheckpointRepository is constructor of CheckpointRepository
func NewCheckpointRepository() repository.CheckpointRepository {
	return &CheckpointRepository{
		data: make(map[string]map[string]bool),
	}
}

func (x *CheckpointRepository) HasProcessed(source, date string) (bool, error) {
	x.mutex.Lock()
	defer x.mutex.Unlock()
	return x.data[source][date], nil
}

func (x *CheckpointRepository) PutProcessed(source, date string) error {
	x.mutex.Lock()
	defer x.mutex.Unlock()

	if _, ok := x.data[source]; !ok {
		x.data[source] = make(map[string]bool)
	}
	x.data[source][date] = true
	return nil
}

func (x *CheckpointRepository) ListProcessed(source string) ([]string, error) {
	x.mutex.Lock()
	defer x.mutex.Unlock()

	var dates []string
	for date := range x.data[source] {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}
