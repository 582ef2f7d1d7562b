package feed

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/lvnexus/nexus/generator"
	"github.com/lvnexus/nexus/logger"
	"github.com/lvnexus/nexus/model"
	"github.com/lvnexus/nexus/persistence"
	"github.com/lvnexus/nexus/util"
	"go.uber.org/zap"
)

const MAX_FEED_ITEMS int = 50

const DEFAULT_FREQUENCY int = 2

// Service owns the singleton live feed aggregate. Every mutation is a
// read-modify-write on one record, so all public operations serialize on
// one mutex. Persistence is fire and forget through a bounded worker
// queue; a failed or dropped save degrades to in-memory state only.
type Service struct {
	mu         sync.Mutex
	state      *model.FeedState
	dao        persistence.FeedStateDao
	gen        *generator.Generator
	rnd        *rand.Rand
	now        func() time.Time
	saveWorker *util.Worker
}

func NewService(dao persistence.FeedStateDao, gen *generator.Generator, rnd *rand.Rand, wg *sync.WaitGroup, saveCapacity int) *Service {
	if saveCapacity <= 0 {
		saveCapacity = 1
	}
	s := &Service{
		state: initialState(),
		dao:   dao,
		gen:   gen,
		rnd:   rnd,
		now:   time.Now,
	}
	s.saveWorker = util.NewWorker("feed-save", wg, func(task util.Task) error {
		return dao.Save(task.(*model.FeedState))
	}, saveCapacity)
	s.saveWorker.Start()
	s.restore()
	return s
}

func initialState() *model.FeedState {
	return &model.FeedState{
		Items: make([]model.FeedItem, 0),
		Stats: model.NewFeedStats(),
		Config: model.FeedConfig{
			Frequency: DEFAULT_FREQUENCY,
			Chaos:     false,
		},
	}
}

func (s *Service) restore() {
	saved, err := s.dao.Load()
	if err != nil {
		logger.Error("error loading feed state, starting empty", zap.Error(err))
		return
	}
	if saved == nil {
		return
	}
	if len(saved.Stats.EventsLastHour) != model.EVENTS_LAST_HOUR_SLOTS {
		saved.Stats.EventsLastHour = make([]int, model.EVENTS_LAST_HOUR_SLOTS)
	}
	if saved.Items == nil {
		saved.Items = make([]model.FeedItem, 0)
	}
	s.state = saved
}

func (s *Service) Stop() error {
	s.saveWorker.Stop()
	return nil
}

// GetLatest generates new events per the current config, folds them into
// the aggregate and returns a snapshot of the result.
func (s *Service) GetLatest() *model.FeedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	eventsToGenerate := s.state.Config.Frequency
	if s.state.Config.Chaos {
		eventsToGenerate += s.rnd.Intn(3)
	}
	for i := 0; i < eventsToGenerate; i++ {
		item := s.gen.Generate()
		if s.state.Config.Chaos && s.rnd.Intn(2) == 0 {
			item.Severity = item.Severity.Escalate()
		}
		s.appendLocked(item)
	}
	s.trimAndSortLocked()
	s.persistLocked()
	return s.snapshotLocked()
}

// UpdateConfig merges the provided fields into the stored config.
func (s *Service) UpdateConfig(patch model.FeedConfigPatch) model.FeedConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Frequency != nil {
		s.state.Config.Frequency = *patch.Frequency
	}
	if patch.Chaos != nil {
		s.state.Config.Chaos = *patch.Chaos
	}
	s.persistLocked()
	return s.state.Config
}

func (s *Service) GetConfig() model.FeedConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Config
}

// ResetFeed clears items and stats. The configured frequency and chaos
// flags survive the reset.
func (s *Service) ResetFeed() *model.FeedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	config := s.state.Config
	s.state = initialState()
	s.state.Config = config
	s.persistLocked()
	return s.snapshotLocked()
}

// AddAutomationEvents folds fully formed items produced by a workflow dry
// run into the aggregate.
func (s *Service) AddAutomationEvents(items []model.FeedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.appendLocked(item)
	}
	s.trimAndSortLocked()
	s.persistLocked()
}

func (s *Service) GetStats() model.FeedStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.state.Stats
	stats.EventsLastHour = append([]int(nil), s.state.Stats.EventsLastHour...)
	return stats
}

func (s *Service) appendLocked(item model.FeedItem) {
	s.state.Items = append([]model.FeedItem{item}, s.state.Items...)
	s.updateStatsLocked(item)
}

func (s *Service) updateStatsLocked(item model.FeedItem) {
	stats := &s.state.Stats
	stats.Total++
	switch item.Severity {
	case model.SEVERITY_CRITICAL:
		stats.Critical++
	case model.SEVERITY_HIGH:
		stats.High++
	case model.SEVERITY_MEDIUM:
		stats.Medium++
	case model.SEVERITY_LOW:
		stats.Low++
	case model.SEVERITY_INFO:
		stats.Info++
	}
	// The ring is indexed by wall-clock minute. Zeroing the slot ahead of
	// the current one expires counts from ~59 minutes ago on every write.
	// That is an accepted approximation of a sliding hour, not a bug.
	currentMinute := s.now().Minute()
	stats.EventsLastHour[currentMinute]++
	stats.EventsLastHour[(currentMinute+1)%model.EVENTS_LAST_HOUR_SLOTS] = 0
}

func (s *Service) trimAndSortLocked() {
	if len(s.state.Items) > MAX_FEED_ITEMS {
		s.state.Items = s.state.Items[:MAX_FEED_ITEMS]
	}
	// Generated timestamps carry a random backdate, so insertion order and
	// timestamp order can diverge. The served list is timestamp ordered.
	sort.SliceStable(s.state.Items, func(i, j int) bool {
		return s.state.Items[i].Timestamp > s.state.Items[j].Timestamp
	})
}

func (s *Service) persistLocked() {
	snapshot := s.snapshotLocked()
	if !s.saveWorker.TrySend(snapshot) {
		logger.Error("feed save queue full, dropping snapshot")
	}
}

func (s *Service) snapshotLocked() *model.FeedState {
	state := *s.state
	state.Items = append([]model.FeedItem(nil), s.state.Items...)
	state.Stats.EventsLastHour = append([]int(nil), s.state.Stats.EventsLastHour...)
	if state.Items == nil {
		state.Items = make([]model.FeedItem, 0)
	}
	return &state
}
