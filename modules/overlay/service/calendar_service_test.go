package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timedItem(start, end string) googleCalendarItem {
	var item googleCalendarItem
	item.Status = "confirmed"
	item.Start.DateTime = start
	item.End.DateTime = end
	return item
}

func allDayItem(start, end string) googleCalendarItem {
	var item googleCalendarItem
	item.Status = "confirmed"
	item.Start.Date = start
	item.End.Date = end
	return item
}

func TestNormalizeCalendarItems_TimedEvent(t *testing.T) {
	items := []googleCalendarItem{
		timedItem("2026-03-02T09:00:00Z", "2026-03-02T10:30:00Z"),
	}

	intervals := normalizeCalendarItems(items, time.UTC)

	require.Len(t, intervals, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), intervals[0].Start)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC), intervals[0].End)
}

func TestNormalizeCalendarItems_SkipsCancelledAndTransparent(t *testing.T) {
	cancelled := timedItem("2026-03-02T09:00:00Z", "2026-03-02T10:00:00Z")
	cancelled.Status = "cancelled"

	free := timedItem("2026-03-02T11:00:00Z", "2026-03-02T12:00:00Z")
	free.Transparency = "transparent"

	intervals := normalizeCalendarItems([]googleCalendarItem{cancelled, free}, time.UTC)

	assert.Empty(t, intervals)
}

func TestNormalizeCalendarItems_AllDaySingleDay(t *testing.T) {
	// One-day all-day entry: Calendar's end.date is exclusive, so the busy
	// span covers only the start date.
	items := []googleCalendarItem{
		allDayItem("2026-03-02", "2026-03-03"),
	}

	intervals := normalizeCalendarItems(items, time.UTC)

	require.Len(t, intervals, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), intervals[0].Start)
	assert.Equal(t, time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC), intervals[0].End)
}

func TestNormalizeCalendarItems_AllDayMultiDay(t *testing.T) {
	items := []googleCalendarItem{
		allDayItem("2026-03-02", "2026-03-05"),
	}

	intervals := normalizeCalendarItems(items, time.UTC)

	require.Len(t, intervals, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), intervals[0].Start)
	assert.Equal(t, time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC), intervals[0].End)
}

func TestNormalizeCalendarItems_SkipsMalformed(t *testing.T) {
	items := []googleCalendarItem{
		timedItem("not-a-timestamp", "2026-03-02T10:00:00Z"),
		allDayItem("2026-03-02", "garbage"),
		{}, // no start or end at all
	}

	intervals := normalizeCalendarItems(items, time.UTC)

	assert.Empty(t, intervals)
}
