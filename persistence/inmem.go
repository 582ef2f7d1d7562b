package persistence

import (
	"sort"
	"sync"

	"github.com/lvnexus/nexus/model"
	"github.com/lvnexus/nexus/util"
)

var _ FeedStateDao = new(InMemFeedStateDao)

// InMemFeedStateDao keeps the feed snapshot as an encoded blob, mirroring
// what an external store would hold.
type InMemFeedStateDao struct {
	mu     sync.Mutex
	blob   []byte
	encDec util.EncoderDecoder[model.FeedState]
}

func NewInMemFeedStateDao() *InMemFeedStateDao {
	return &InMemFeedStateDao{
		encDec: util.NewJsonEncoderDecoder[model.FeedState](),
	}
}

func (d *InMemFeedStateDao) Load() (*model.FeedState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.blob == nil {
		return nil, nil
	}
	state, err := d.encDec.Decode(d.blob)
	if err != nil {
		return nil, StorageLayerError{Message: err.Error()}
	}
	return state, nil
}

func (d *InMemFeedStateDao) Save(state *model.FeedState) error {
	data, err := d.encDec.Encode(*state)
	if err != nil {
		return StorageLayerError{Message: err.Error()}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blob = data
	return nil
}

var _ WorkflowDao = new(InMemWorkflowDao)

type InMemWorkflowDao struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	encDec util.EncoderDecoder[model.WorkflowEntityState]
}

func NewInMemWorkflowDao() *InMemWorkflowDao {
	return &InMemWorkflowDao{
		blobs:  make(map[string][]byte),
		encDec: util.NewJsonEncoderDecoder[model.WorkflowEntityState](),
	}
}

func (d *InMemWorkflowDao) Save(wf model.WorkflowEntityState) error {
	data, err := d.encDec.Encode(wf)
	if err != nil {
		return StorageLayerError{Message: err.Error()}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blobs[wf.Id] = data
	return nil
}

func (d *InMemWorkflowDao) Get(id string) (*model.WorkflowEntityState, error) {
	d.mu.Lock()
	data, ok := d.blobs[id]
	d.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return d.encDec.Decode(data)
}

func (d *InMemWorkflowDao) List() ([]model.WorkflowEntityState, error) {
	d.mu.Lock()
	blobs := make([][]byte, 0, len(d.blobs))
	for _, data := range d.blobs {
		blobs = append(blobs, data)
	}
	d.mu.Unlock()
	workflows := make([]model.WorkflowEntityState, 0, len(blobs))
	for _, data := range blobs {
		wf, err := d.encDec.Decode(data)
		if err != nil {
			return nil, StorageLayerError{Message: err.Error()}
		}
		workflows = append(workflows, *wf)
	}
	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].CreatedAt < workflows[j].CreatedAt
	})
	return workflows, nil
}
