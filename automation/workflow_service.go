package automation

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lvnexus/nexus/analytics"
	"github.com/lvnexus/nexus/feed"
	"github.com/lvnexus/nexus/generator"
	"github.com/lvnexus/nexus/logger"
	"github.com/lvnexus/nexus/model"
	"github.com/lvnexus/nexus/persistence"
	c "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const DEFAULT_SCHEDULE_INTERVAL_MS int64 = 3600000

// Service owns the imported workflow collection, the dry run simulator
// and the poll driven scheduler. Mutations on a workflow record are
// serialized on one mutex; the DAO stays the source of truth with a
// short lived read cache in front of it.
type Service struct {
	mu        sync.Mutex
	dao       persistence.WorkflowDao
	cache     *c.Cache
	feed      *feed.Service
	gen       *generator.Generator
	rnd       *rand.Rand
	rndMu     sync.Mutex
	now       func() time.Time
	collector analytics.Collector
}

func NewService(dao persistence.WorkflowDao, feedService *feed.Service, gen *generator.Generator, rnd *rand.Rand, collector analytics.Collector) *Service {
	return &Service{
		dao:       dao,
		cache:     c.New(5*time.Minute, 10*time.Minute),
		feed:      feedService,
		gen:       gen,
		rnd:       rnd,
		now:       time.Now,
		collector: collector,
	}
}

// Create imports a workflow definition and assigns scheduling defaults.
func (s *Service) Create(def model.Workflow) (*model.WorkflowEntityState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := model.WorkflowEntityState{
		Id:                 uuid.New().String(),
		Workflow:           def,
		CreatedAt:          s.now().UnixMilli(),
		ScheduleIntervalMs: DEFAULT_SCHEDULE_INTERVAL_MS,
		Enabled:            false,
		LastRun:            0,
	}
	if err := s.dao.Save(state); err != nil {
		return nil, err
	}
	s.cache.Set(state.Id, state, c.DefaultExpiration)
	return &state, nil
}

func (s *Service) List() ([]model.WorkflowEntityState, error) {
	return s.dao.List()
}

func (s *Service) FindById(id string) (*model.WorkflowEntityState, error) {
	if cached, found := s.cache.Get(id); found {
		state := cached.(model.WorkflowEntityState)
		return &state, nil
	}
	state, err := s.dao.Get(id)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, WorkflowNotFoundError{Id: id}
	}
	s.cache.Set(id, *state, c.DefaultExpiration)
	return state, nil
}

// UpdateSchedule merges the provided schedule fields into the stored
// record.
func (s *Service) UpdateSchedule(id string, patch model.SchedulePatch) error {
	return s.patch(id, func(state *model.WorkflowEntityState) {
		if patch.ScheduleIntervalMs != nil {
			state.ScheduleIntervalMs = *patch.ScheduleIntervalMs
		}
		if patch.Enabled != nil {
			state.Enabled = *patch.Enabled
		}
	})
}

func (s *Service) patchLastRun(id string, lastRun int64) error {
	return s.patch(id, func(state *model.WorkflowEntityState) {
		state.LastRun = lastRun
	})
}

func (s *Service) patch(id string, apply func(*model.WorkflowEntityState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.dao.Get(id)
	if err != nil {
		return err
	}
	if state == nil {
		return WorkflowNotFoundError{Id: id}
	}
	apply(state)
	if err := s.dao.Save(*state); err != nil {
		return err
	}
	s.cache.Set(id, *state, c.DefaultExpiration)
	return nil
}

// MaybeRun triggers a scheduled dry run when the jittered interval has
// elapsed. The scheduler only ever runs from here, on list reads; there
// is no background timer, so an overdue workflow fires on the next poll
// rather than exactly on schedule.
func (s *Service) MaybeRun(wf model.WorkflowEntityState) bool {
	if !wf.Enabled || wf.ScheduleIntervalMs == 0 {
		return false
	}
	now := s.now().UnixMilli()
	// jitter in [0.8, 1.2) spreads many workflows sharing one interval
	s.rndMu.Lock()
	jitter := 0.8 + s.rnd.Float64()*0.4
	s.rndMu.Unlock()
	effectiveInterval := float64(wf.ScheduleIntervalMs) * jitter
	if float64(now-wf.LastRun) <= effectiveInterval {
		return false
	}
	if _, err := s.DryRun(wf.Id, true); err != nil {
		logger.Error("scheduled dry run failed", zap.String("workflow", wf.Id), zap.Error(err))
	}
	if err := s.patchLastRun(wf.Id, now); err != nil {
		logger.Error("error updating lastRun", zap.String("workflow", wf.Id), zap.Error(err))
	}
	return true
}

// RunDue polls every stored workflow once.
func (s *Service) RunDue() {
	workflows, err := s.dao.List()
	if err != nil {
		logger.Error("error listing workflows for scheduling", zap.Error(err))
		return
	}
	for _, wf := range workflows {
		s.MaybeRun(wf)
	}
}
