package persistence

import (
	"fmt"

	"github.com/lvnexus/nexus/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

// FeedStateDao persists the singleton live feed blob. Load returns nil
// when no snapshot has been saved yet.
type FeedStateDao interface {
	Load() (*model.FeedState, error)

	Save(state *model.FeedState) error
}

// WorkflowDao persists imported workflow records keyed by id.
type WorkflowDao interface {
	Save(wf model.WorkflowEntityState) error

	Get(id string) (*model.WorkflowEntityState, error)

	List() ([]model.WorkflowEntityState, error)
}
