package service

import (
	"testing"
	"time"

	"slotpoll/modules/poll/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGridEvent(t *testing.T, startDate, endDate string, startMin, endMin, slotMin int) *entity.Event {
	t.Helper()
	sd, err := time.ParseInLocation("2006-01-02", startDate, time.UTC)
	require.NoError(t, err)
	ed, err := time.ParseInLocation("2006-01-02", endDate, time.UTC)
	require.NoError(t, err)
	return &entity.Event{
		ID:           "ev1",
		Title:        "Standup",
		StartDate:    sd,
		EndDate:      ed,
		StartMinutes: startMin,
		EndMinutes:   endMin,
		SlotMinutes:  slotMin,
	}
}

func TestSlotsPerDay(t *testing.T) {
	e := newGridEvent(t, "2026-03-02", "2026-03-04", 9*60, 17*60, 30)
	assert.Equal(t, 16, SlotsPerDay(e))
	assert.Equal(t, 48, TotalSlots(e))
}

func TestSlotsPerDay_TruncatesPartialTrailingSlot(t *testing.T) {
	// 09:00-10:10 with 30-minute slots: the trailing 10 minutes are dropped.
	e := newGridEvent(t, "2026-03-02", "2026-03-02", 9*60, 10*60+10, 30)
	assert.Equal(t, 2, SlotsPerDay(e))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	e := newGridEvent(t, "2026-03-02", "2026-03-04", 9*60, 12*60, 30)
	rows := SlotsPerDay(e)
	days := e.Days()
	require.Equal(t, 6, rows)
	require.Equal(t, 3, days)

	for day := 0; day < days; day++ {
		for row := 0; row < rows; row++ {
			idx := Encode(day, row, rows)
			gotDay, gotRow, ok := Decode(idx, rows, days)
			require.True(t, ok)
			assert.Equal(t, day, gotDay)
			assert.Equal(t, row, gotRow)
		}
	}
}

func TestDecode_RejectsOutOfRange(t *testing.T) {
	_, _, ok := Decode(-1, 4, 2)
	assert.False(t, ok)

	_, _, ok = Decode(8, 4, 2) // first index past the grid
	assert.False(t, ok)

	_, _, ok = Decode(0, 0, 2)
	assert.False(t, ok)

	_, _, ok = Decode(7, 4, 2) // last valid index
	assert.True(t, ok)
}

func TestRowForMinutes_ClampsToWindow(t *testing.T) {
	e := newGridEvent(t, "2026-03-02", "2026-03-02", 9*60, 17*60, 30)

	assert.Equal(t, 0, RowForMinutes(e, 8*60))       // before the window
	assert.Equal(t, 0, RowForMinutes(e, 9*60))       // window start
	assert.Equal(t, 1, RowForMinutes(e, 9*60+30))    // second row
	assert.Equal(t, 15, RowForMinutes(e, 16*60+45))  // inside the last row
	assert.Equal(t, 15, RowForMinutes(e, 22*60))     // past the window
}

func TestSlotTimeRange(t *testing.T) {
	e := newGridEvent(t, "2026-03-02", "2026-03-04", 9*60, 17*60, 30)

	start, end := SlotTimeRange(e, 1, 2, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC), end)
}

func TestSlotTimeRange_EndOfDayWindow(t *testing.T) {
	// 23:00-24:00: the last slot's end rolls over to the next day's midnight.
	e := newGridEvent(t, "2026-03-02", "2026-03-02", 23*60, 24*60, 30)

	start, end := SlotTimeRange(e, 0, 1, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), end)
}

func TestTimeLabels(t *testing.T) {
	e := newGridEvent(t, "2026-03-02", "2026-03-02", 9*60, 11*60, 30)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, TimeLabels(e))
}
