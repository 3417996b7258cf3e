package service

import (
	"context"
	"testing"
	"time"

	"slotpoll/core/errors"
	"slotpoll/modules/poll/dto"
	"slotpoll/modules/poll/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) PollServiceInterface {
	t.Helper()
	return NewPollService(repository.NewMemoryEventRepository(), time.UTC, 0)
}

func createTestPoll(t *testing.T, svc PollServiceInterface, req *dto.CreatePollRequest) *dto.PollResponse {
	t.Helper()
	resp, appErr := svc.CreatePoll(context.Background(), req)
	require.Nil(t, appErr)
	require.NotEmpty(t, resp.ID)
	return resp
}

func defaultCreateRequest() *dto.CreatePollRequest {
	return &dto.CreatePollRequest{
		Title:       "Team Sync",
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-03",
		StartTime:   "09:00",
		EndTime:     "10:00",
		SlotMinutes: 30,
	}
}

func TestCreatePoll_Success(t *testing.T) {
	svc := newTestService(t)

	resp := createTestPoll(t, svc, defaultCreateRequest())

	assert.Equal(t, "Team Sync", resp.Title)
	assert.Equal(t, []string{"2026-03-02", "2026-03-03"}, resp.Dates)
	assert.Equal(t, []string{"09:00", "09:30"}, resp.Times)
	assert.Equal(t, 2, resp.Grid.SlotsPerDay)
	assert.Equal(t, 30, resp.SlotMinutes)
	assert.Equal(t, 9*60, resp.StartTimeMinutes)
	assert.Equal(t, 10*60, resp.EndTimeMinutes)
	assert.Empty(t, resp.Participants)
	assert.NotEmpty(t, resp.Slug)
}

func TestCreatePoll_AcceptsMidnightEnd(t *testing.T) {
	svc := newTestService(t)
	req := defaultCreateRequest()
	req.StartTime = "22:00"
	req.EndTime = "24:00"
	req.SlotMinutes = 60

	resp := createTestPoll(t, svc, req)

	assert.Equal(t, 24*60, resp.EndTimeMinutes)
	assert.Equal(t, []string{"22:00", "23:00"}, resp.Times)
}

func TestCreatePoll_ValidationErrors(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name   string
		mutate func(*dto.CreatePollRequest)
	}{
		{"blank title", func(r *dto.CreatePollRequest) { r.Title = "   " }},
		{"bad start date", func(r *dto.CreatePollRequest) { r.StartDate = "03/02/2026" }},
		{"bad end date", func(r *dto.CreatePollRequest) { r.EndDate = "not-a-date" }},
		{"end date before start date", func(r *dto.CreatePollRequest) { r.StartDate = "2026-03-05"; r.EndDate = "2026-03-02" }},
		{"bad start time", func(r *dto.CreatePollRequest) { r.StartTime = "9am" }},
		{"bad end time", func(r *dto.CreatePollRequest) { r.EndTime = "25:00" }},
		{"start time not before end time", func(r *dto.CreatePollRequest) { r.StartTime = "10:00"; r.EndTime = "10:00" }},
		{"zero slot minutes", func(r *dto.CreatePollRequest) { r.SlotMinutes = 0 }},
		{"window shorter than one slot", func(r *dto.CreatePollRequest) { r.StartTime = "09:00"; r.EndTime = "09:20"; r.SlotMinutes = 30 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := defaultCreateRequest()
			tc.mutate(req)

			_, appErr := svc.CreatePoll(context.Background(), req)

			require.NotNil(t, appErr)
			assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
		})
	}
}

func TestGetPoll_NotFound(t *testing.T) {
	svc := newTestService(t)

	_, appErr := svc.GetPoll(context.Background(), "missing")

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestSaveAvailability_Success(t *testing.T) {
	svc := newTestService(t)
	poll := createTestPoll(t, svc, defaultCreateRequest())

	resp, appErr := svc.SaveAvailability(context.Background(), poll.ID, &dto.SaveAvailabilityRequest{
		ParticipantName: "Alice",
		Slots:           []float64{0, 2},
	})

	require.Nil(t, appErr)
	require.Len(t, resp.Participants, 1)
	assert.Equal(t, "Alice", resp.Participants[0].Name)
	assert.Equal(t, [][]int{{1, 1}, {0, 0}}, resp.Grid.Aggregate)
	assert.Equal(t, 1, resp.Grid.MaxCount)
	assert.Equal(t, []string{"Alice"}, resp.Grid.Who[0][0])
	assert.Equal(t, []string{}, resp.Grid.Who[1][0])
}

func TestSaveAvailability_RequiresName(t *testing.T) {
	svc := newTestService(t)
	poll := createTestPoll(t, svc, defaultCreateRequest())

	_, appErr := svc.SaveAvailability(context.Background(), poll.ID, &dto.SaveAvailabilityRequest{
		ParticipantName: "   ",
		Slots:           []float64{0},
	})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestSaveAvailability_PollNotFound(t *testing.T) {
	svc := newTestService(t)

	_, appErr := svc.SaveAvailability(context.Background(), "missing", &dto.SaveAvailabilityRequest{
		ParticipantName: "Alice",
		Slots:           []float64{0},
	})

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestSaveAvailability_ReplacesPriorSelection(t *testing.T) {
	svc := newTestService(t)
	poll := createTestPoll(t, svc, defaultCreateRequest())

	_, appErr := svc.SaveAvailability(context.Background(), poll.ID, &dto.SaveAvailabilityRequest{
		ParticipantName: "Alice",
		Slots:           []float64{0, 1, 2},
	})
	require.Nil(t, appErr)

	resp, appErr := svc.SaveAvailability(context.Background(), poll.ID, &dto.SaveAvailabilityRequest{
		ParticipantName: "Alice",
		Slots:           []float64{3},
	})
	require.Nil(t, appErr)

	// Full replacement: the earlier selection is gone, not merged.
	assert.Equal(t, [][]int{{0, 0}, {0, 1}}, resp.Grid.Aggregate)
	assert.Len(t, resp.Participants, 1)
}

func TestSaveAvailability_NameNormalization(t *testing.T) {
	svc := newTestService(t)
	poll := createTestPoll(t, svc, defaultCreateRequest())

	_, appErr := svc.SaveAvailability(context.Background(), poll.ID, &dto.SaveAvailabilityRequest{
		ParticipantName: "Alice",
		Slots:           []float64{0},
	})
	require.Nil(t, appErr)

	// Same person, different casing and whitespace: one participant, last
	// write wins, display name follows the latest save.
	resp, appErr := svc.SaveAvailability(context.Background(), poll.ID, &dto.SaveAvailabilityRequest{
		ParticipantName: "  alice ",
		Slots:           []float64{1},
	})
	require.Nil(t, appErr)

	require.Len(t, resp.Participants, 1)
	assert.Equal(t, "alice", resp.Participants[0].Name)
	assert.Equal(t, [][]int{{0, 0}, {1, 0}}, resp.Grid.Aggregate)
}

func TestSaveAvailability_DropsInvalidSlots(t *testing.T) {
	svc := newTestService(t)
	poll := createTestPoll(t, svc, defaultCreateRequest()) // 4 slots total

	resp, appErr := svc.SaveAvailability(context.Background(), poll.ID, &dto.SaveAvailabilityRequest{
		ParticipantName: "Alice",
		Slots:           []float64{2, 99, -1, 1.5, 2},
	})
	require.Nil(t, appErr)

	// Only the in-range integral index survives; duplicates collapse.
	assert.Equal(t, [][]int{{0, 1}, {0, 0}}, resp.Grid.Aggregate)
	assert.Equal(t, 1, resp.Grid.MaxCount)
}

func TestSaveAvailability_EmptySelectionKeepsParticipant(t *testing.T) {
	svc := newTestService(t)
	poll := createTestPoll(t, svc, defaultCreateRequest())

	resp, appErr := svc.SaveAvailability(context.Background(), poll.ID, &dto.SaveAvailabilityRequest{
		ParticipantName: "Alice",
		Slots:           nil,
	})
	require.Nil(t, appErr)

	require.Len(t, resp.Participants, 1)
	assert.Equal(t, 0, resp.Grid.MaxCount)
}

func TestBestSlots_RankedOutput(t *testing.T) {
	svc := newTestService(t)
	poll := createTestPoll(t, svc, defaultCreateRequest())

	_, appErr := svc.SaveAvailability(context.Background(), poll.ID, &dto.SaveAvailabilityRequest{
		ParticipantName: "Alice",
		Slots:           []float64{0, 2},
	})
	require.Nil(t, appErr)
	_, appErr = svc.SaveAvailability(context.Background(), poll.ID, &dto.SaveAvailabilityRequest{
		ParticipantName: "Bob",
		Slots:           []float64{2},
	})
	require.Nil(t, appErr)

	resp, appErr := svc.BestSlots(context.Background(), poll.ID, 0)
	require.Nil(t, appErr)

	require.Len(t, resp.Slots, 2)
	top := resp.Slots[0]
	assert.Equal(t, 1, top.DayIndex)
	assert.Equal(t, 0, top.RowIndex)
	assert.Equal(t, 2, top.Count)
	assert.Equal(t, []string{"Alice", "Bob"}, top.Names)
	assert.Equal(t, "2026-03-03", top.Date)
	assert.Equal(t, "09:00", top.StartTime)
	assert.Equal(t, "09:30", top.EndTime)
}

func TestBestSlots_NoResponses(t *testing.T) {
	svc := newTestService(t)
	poll := createTestPoll(t, svc, defaultCreateRequest())

	resp, appErr := svc.BestSlots(context.Background(), poll.ID, 0)
	require.Nil(t, appErr)

	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestBestSlots_LimitHonored(t *testing.T) {
	svc := newTestService(t)
	poll := createTestPoll(t, svc, defaultCreateRequest())

	_, appErr := svc.SaveAvailability(context.Background(), poll.ID, &dto.SaveAvailabilityRequest{
		ParticipantName: "Alice",
		Slots:           []float64{0, 1, 2, 3},
	})
	require.Nil(t, appErr)

	resp, appErr := svc.BestSlots(context.Background(), poll.ID, 2)
	require.Nil(t, appErr)
	assert.Len(t, resp.Slots, 2)
}

func TestPurgeEndedBefore(t *testing.T) {
	svc := newTestService(t)

	old := defaultCreateRequest()
	old.StartDate = "2025-01-05"
	old.EndDate = "2025-01-06"
	createTestPoll(t, svc, old)

	current := createTestPoll(t, svc, defaultCreateRequest())

	deleted, appErr := svc.PurgeEndedBefore(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Nil(t, appErr)
	assert.Equal(t, 1, deleted)

	_, appErr = svc.GetPoll(context.Background(), current.ID)
	assert.Nil(t, appErr)
}
