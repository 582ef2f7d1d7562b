package automation

import (
	"testing"
	"time"

	"github.com/lvnexus/nexus/model"
	"github.com/stretchr/testify/require"
)

func TestMaybeRun(t *testing.T) {
	for scenario, fn := range map[string]func(
		t *testing.T, s *Service,
	){
		"test overdue workflow runs":      testOverdueRuns,
		"test disabled never runs":        testDisabledNeverRuns,
		"test zero interval never runs":   testZeroIntervalNeverRuns,
		"test fresh workflow waits":       testFreshWorkflowWaits,
		"test run due covers collection":  testRunDue,
	} {
		t.Run(scenario, func(t *testing.T) {
			s, _ := newTestService(t)
			fn(t, s)
		})
	}
}

func scheduledWorkflow(t *testing.T, s *Service, intervalMs int64, enabled bool, lastRun int64) model.WorkflowEntityState {
	t.Helper()
	state, err := s.Create(sampleWorkflow())
	require.NoError(t, err)
	require.NoError(t, s.UpdateSchedule(state.Id, model.SchedulePatch{ScheduleIntervalMs: &intervalMs, Enabled: &enabled}))
	require.NoError(t, s.patchLastRun(state.Id, lastRun))
	updated, err := s.FindById(state.Id)
	require.NoError(t, err)
	return *updated
}

func testOverdueRuns(t *testing.T, s *Service) {
	callTime := time.Now().UnixMilli()
	// elapsed is 2000ms against a 1000ms interval, beyond even the 1.2x
	// jitter ceiling, so the decision is deterministic
	wf := scheduledWorkflow(t, s, 1000, true, callTime-2000)
	require.True(t, s.MaybeRun(wf))
	updated, err := s.FindById(wf.Id)
	require.NoError(t, err)
	require.GreaterOrEqual(t, updated.LastRun, callTime)
	require.Equal(t, 2, s.feed.GetStats().Total)
}

func testDisabledNeverRuns(t *testing.T, s *Service) {
	wf := scheduledWorkflow(t, s, 1000, true, time.Now().UnixMilli()-100000)
	disabled := false
	require.NoError(t, s.UpdateSchedule(wf.Id, model.SchedulePatch{Enabled: &disabled}))
	updated, err := s.FindById(wf.Id)
	require.NoError(t, err)
	require.False(t, s.MaybeRun(*updated))
	require.Equal(t, 0, s.feed.GetStats().Total)
}

func testZeroIntervalNeverRuns(t *testing.T, s *Service) {
	wf := scheduledWorkflow(t, s, 1000, true, 0)
	wf.ScheduleIntervalMs = 0
	require.False(t, s.MaybeRun(wf))
}

func testFreshWorkflowWaits(t *testing.T, s *Service) {
	// elapsed is well under the 0.8x jitter floor of a one hour interval
	wf := scheduledWorkflow(t, s, DEFAULT_SCHEDULE_INTERVAL_MS, true, time.Now().UnixMilli())
	require.False(t, s.MaybeRun(wf))
}

func testRunDue(t *testing.T, s *Service) {
	now := time.Now().UnixMilli()
	scheduledWorkflow(t, s, 1000, true, now-5000)
	scheduledWorkflow(t, s, 1000, false, now-5000)
	s.RunDue()
	// only the enabled workflow fired, producing its two PDF items
	require.Equal(t, 2, s.feed.GetStats().Total)
}
