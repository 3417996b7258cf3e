package service

import (
	"fmt"
	"time"

	"slotpoll/modules/poll/entity"
)

// Slot grid geometry. Every component that touches slot indices (store,
// aggregator, overlay matcher, HTTP layer) must go through Encode/Decode;
// the day-major encoding index = day*slotsPerDay + row is defined here and
// nowhere else.

// SlotsPerDay returns the number of slots in one day's window. Window length
// not divisible by the slot length is truncated, not rejected. Assumes the
// event passed creation-time validation (result > 0).
func SlotsPerDay(e *entity.Event) int {
	return (e.EndMinutes - e.StartMinutes) / e.SlotMinutes
}

// TotalSlots returns the size of the flat slot-index space.
func TotalSlots(e *entity.Event) int {
	return e.Days() * SlotsPerDay(e)
}

// Encode maps a (day, row) cell to its flat slot index.
func Encode(dayIndex, rowIndex, slotsPerDay int) int {
	return dayIndex*slotsPerDay + rowIndex
}

// Decode maps a flat slot index back to its (day, row) cell. Indices outside
// [0, days*slotsPerDay) are rejected, not clamped.
func Decode(index, slotsPerDay, days int) (dayIndex, rowIndex int, ok bool) {
	if slotsPerDay <= 0 || index < 0 || index >= days*slotsPerDay {
		return 0, 0, false
	}
	return index / slotsPerDay, index % slotsPerDay, true
}

// RowStartMinutes returns a row's start as minutes since midnight.
func RowStartMinutes(e *entity.Event, row int) int {
	return e.StartMinutes + row*e.SlotMinutes
}

// RowForMinutes returns the row containing the given minutes-since-midnight,
// clamped to the window. A requested range partially outside the window
// truncates to the window edges rather than erroring.
func RowForMinutes(e *entity.Event, minutes int) int {
	row := (minutes - e.StartMinutes) / e.SlotMinutes
	if row < 0 {
		return 0
	}
	if max := SlotsPerDay(e) - 1; row > max {
		return max
	}
	return row
}

// SlotTimeRange combines the cell's date with its row window to produce the
// slot's wall-clock instants in loc. No timezone conversion happens beyond
// materializing the naive date+time in that single location.
func SlotTimeRange(e *entity.Event, dayIndex, rowIndex int, loc *time.Location) (start, end time.Time) {
	date := e.StartDate.AddDate(0, 0, dayIndex)
	startMin := RowStartMinutes(e, rowIndex)
	// time.Date normalizes minute overflow past the hour.
	start = time.Date(date.Year(), date.Month(), date.Day(), 0, startMin, 0, 0, loc)
	end = time.Date(date.Year(), date.Month(), date.Day(), 0, startMin+e.SlotMinutes, 0, 0, loc)
	return start, end
}

// TimeLabels returns the human-readable per-row labels, e.g. "09:00".
func TimeLabels(e *entity.Event) []string {
	rows := SlotsPerDay(e)
	labels := make([]string, rows)
	for row := 0; row < rows; row++ {
		m := RowStartMinutes(e, row)
		labels[row] = fmt.Sprintf("%02d:%02d", m/60, m%60)
	}
	return labels
}
