package feed

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/lvnexus/nexus/generator"
	"github.com/lvnexus/nexus/model"
	"github.com/lvnexus/nexus/persistence"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	rnd := rand.New(rand.NewSource(7))
	var wg sync.WaitGroup
	s := NewService(persistence.NewInMemFeedStateDao(), generator.New(rnd), rnd, &wg, 64)
	t.Cleanup(func() {
		s.Stop()
		wg.Wait()
	})
	return s
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestFeedService(t *testing.T) {
	for scenario, fn := range map[string]func(
		t *testing.T, s *Service,
	){
		"test frequency controls generation": testFrequency,
		"test items capped at max":           testItemCap,
		"test items sorted by timestamp":     testSortOrder,
		"test stats count all appends":       testStatsTotal,
		"test reset preserves config":        testResetPreservesConfig,
		"test hour ring zeroes next slot":    testHourRing,
		"test chaos bounds":                  testChaosBounds,
		"test automation events":             testAutomationEvents,
		"test concurrent reads":              testConcurrentReads,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, newTestService(t))
		})
	}
}

func testFrequency(t *testing.T, s *Service) {
	for frequency := 0; frequency <= 5; frequency++ {
		s.ResetFeed()
		s.UpdateConfig(model.FeedConfigPatch{Frequency: intPtr(frequency), Chaos: boolPtr(false)})
		state := s.GetLatest()
		require.Len(t, state.Items, frequency)
		require.Equal(t, frequency, state.Stats.Total)
	}
}

func testItemCap(t *testing.T, s *Service) {
	s.UpdateConfig(model.FeedConfigPatch{Frequency: intPtr(5), Chaos: boolPtr(false)})
	var state *model.FeedState
	for i := 0; i < 20; i++ {
		state = s.GetLatest()
		require.LessOrEqual(t, len(state.Items), MAX_FEED_ITEMS)
	}
	require.Len(t, state.Items, MAX_FEED_ITEMS)
}

func testSortOrder(t *testing.T, s *Service) {
	s.UpdateConfig(model.FeedConfigPatch{Frequency: intPtr(5), Chaos: boolPtr(false)})
	for i := 0; i < 5; i++ {
		state := s.GetLatest()
		for j := 1; j < len(state.Items); j++ {
			require.GreaterOrEqual(t, state.Items[j-1].Timestamp, state.Items[j].Timestamp)
		}
	}
}

func testStatsTotal(t *testing.T, s *Service) {
	s.UpdateConfig(model.FeedConfigPatch{Frequency: intPtr(5), Chaos: boolPtr(false)})
	// 20 reads generate 100 items, far beyond the 50 item cap
	var state *model.FeedState
	for i := 0; i < 20; i++ {
		state = s.GetLatest()
	}
	require.Equal(t, 100, state.Stats.Total)
	require.Len(t, state.Items, MAX_FEED_ITEMS)
	bySeverity := state.Stats.Critical + state.Stats.High + state.Stats.Medium + state.Stats.Low + state.Stats.Info
	require.Equal(t, state.Stats.Total, bySeverity)
}

func testResetPreservesConfig(t *testing.T, s *Service) {
	s.UpdateConfig(model.FeedConfigPatch{Frequency: intPtr(4), Chaos: boolPtr(true)})
	s.GetLatest()
	state := s.ResetFeed()
	require.Empty(t, state.Items)
	require.Equal(t, 0, state.Stats.Total)
	require.Equal(t, make([]int, model.EVENTS_LAST_HOUR_SLOTS), state.Stats.EventsLastHour)
	require.Equal(t, model.FeedConfig{Frequency: 4, Chaos: true}, state.Config)
}

func testHourRing(t *testing.T, s *Service) {
	fixed := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	minute := fixed.Minute()
	// stale data from the previous hour window must be expired on write
	s.state.Stats.EventsLastHour[(minute+1)%model.EVENTS_LAST_HOUR_SLOTS] = 7
	s.UpdateConfig(model.FeedConfigPatch{Frequency: intPtr(3), Chaos: boolPtr(false)})
	state := s.GetLatest()
	require.Equal(t, 3, state.Stats.EventsLastHour[minute])
	require.Equal(t, 0, state.Stats.EventsLastHour[(minute+1)%model.EVENTS_LAST_HOUR_SLOTS])
}

func testChaosBounds(t *testing.T, s *Service) {
	frequency := 2
	s.UpdateConfig(model.FeedConfigPatch{Frequency: intPtr(frequency), Chaos: boolPtr(true)})
	previous := 0
	for i := 0; i < 50; i++ {
		state := s.GetLatest()
		added := state.Stats.Total - previous
		previous = state.Stats.Total
		require.GreaterOrEqual(t, added, frequency)
		require.LessOrEqual(t, added, frequency+2)
	}
}

func testAutomationEvents(t *testing.T, s *Service) {
	s.UpdateConfig(model.FeedConfigPatch{Frequency: intPtr(0), Chaos: boolPtr(false)})
	now := time.Now().UnixMilli()
	items := []model.FeedItem{
		{Id: "a", Type: model.ITEM_TYPE_AUTOMATION, Severity: model.SEVERITY_HIGH, Title: "Automation: New PDF Found", Timestamp: now},
		{Id: "b", Type: model.ITEM_TYPE_AUTOMATION, Severity: model.SEVERITY_HIGH, Title: "Automation: New PDF Found", Timestamp: now + 1},
	}
	s.AddAutomationEvents(items)
	state := s.GetLatest()
	require.Len(t, state.Items, 2)
	require.Equal(t, 2, state.Stats.Total)
	require.Equal(t, 2, state.Stats.High)
	require.Equal(t, "b", state.Items[0].Id)
	require.Equal(t, "a", state.Items[1].Id)
}

func testConcurrentReads(t *testing.T, s *Service) {
	s.UpdateConfig(model.FeedConfigPatch{Frequency: intPtr(5), Chaos: boolPtr(false)})
	var wg sync.WaitGroup
	readers := 20
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.GetLatest()
		}()
	}
	wg.Wait()
	require.Equal(t, readers*5, s.GetStats().Total)
}
