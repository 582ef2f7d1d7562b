package automation

import (
	"testing"

	"github.com/lvnexus/nexus/model"
	"github.com/stretchr/testify/require"
)

func TestWorkflowService(t *testing.T) {
	for scenario, fn := range map[string]func(
		t *testing.T, s *Service,
	){
		"test create defaults":        testCreateDefaults,
		"test list":                   testList,
		"test find unknown id":        testFindUnknownId,
		"test update schedule":        testUpdateSchedule,
		"test partial schedule patch": testPartialSchedulePatch,
	} {
		t.Run(scenario, func(t *testing.T) {
			s, _ := newTestService(t)
			fn(t, s)
		})
	}
}

func testCreateDefaults(t *testing.T, s *Service) {
	state, err := s.Create(sampleWorkflow())
	require.NoError(t, err)
	require.NotEmpty(t, state.Id)
	require.Greater(t, state.CreatedAt, int64(0))
	require.Equal(t, DEFAULT_SCHEDULE_INTERVAL_MS, state.ScheduleIntervalMs)
	require.False(t, state.Enabled)
	require.Equal(t, int64(0), state.LastRun)
	require.Equal(t, "pdf-watch", state.Workflow.Name)
}

func testList(t *testing.T, s *Service) {
	first, err := s.Create(sampleWorkflow())
	require.NoError(t, err)
	second, err := s.Create(sampleWorkflow())
	require.NoError(t, err)
	workflows, err := s.List()
	require.NoError(t, err)
	require.Len(t, workflows, 2)
	ids := []string{workflows[0].Id, workflows[1].Id}
	require.Contains(t, ids, first.Id)
	require.Contains(t, ids, second.Id)
}

func testFindUnknownId(t *testing.T, s *Service) {
	_, err := s.FindById("missing")
	require.Error(t, err)
	require.IsType(t, WorkflowNotFoundError{}, err)
}

func testUpdateSchedule(t *testing.T, s *Service) {
	state, err := s.Create(sampleWorkflow())
	require.NoError(t, err)
	interval := int64(60000)
	enabled := true
	require.NoError(t, s.UpdateSchedule(state.Id, model.SchedulePatch{ScheduleIntervalMs: &interval, Enabled: &enabled}))
	updated, err := s.FindById(state.Id)
	require.NoError(t, err)
	require.Equal(t, int64(60000), updated.ScheduleIntervalMs)
	require.True(t, updated.Enabled)

	err = s.UpdateSchedule("missing", model.SchedulePatch{ScheduleIntervalMs: &interval, Enabled: &enabled})
	require.IsType(t, WorkflowNotFoundError{}, err)
}

func testPartialSchedulePatch(t *testing.T, s *Service) {
	state, err := s.Create(sampleWorkflow())
	require.NoError(t, err)
	enabled := true
	require.NoError(t, s.UpdateSchedule(state.Id, model.SchedulePatch{Enabled: &enabled}))
	updated, err := s.FindById(state.Id)
	require.NoError(t, err)
	require.True(t, updated.Enabled)
	require.Equal(t, DEFAULT_SCHEDULE_INTERVAL_MS, updated.ScheduleIntervalMs)
}
