package service

import (
	"time"

	"slotpoll/modules/overlay/entity"
	pollentity "slotpoll/modules/poll/entity"
	pollservice "slotpoll/modules/poll/service"
)

// BusySlots computes the slot indices of e that overlap any busy interval.
// Overlap is strict half-open: a slot counts as busy when
// slot.start < interval.end AND slot.end > interval.start, so intervals that
// merely touch a slot boundary do not mark it busy.
//
// The scan is O(slots * intervals), which is fine at polling scale (a few
// hundred slots against a few dozen calendar entries).
func BusySlots(e *pollentity.Event, intervals []entity.BusyInterval, loc *time.Location) []int {
	if len(intervals) == 0 {
		return nil
	}

	rows := pollservice.SlotsPerDay(e)
	days := e.Days()

	var busy []int
	for day := 0; day < days; day++ {
		for row := 0; row < rows; row++ {
			start, end := pollservice.SlotTimeRange(e, day, row, loc)
			for _, iv := range intervals {
				if start.Before(iv.End) && end.After(iv.Start) {
					busy = append(busy, pollservice.Encode(day, row, rows))
					break
				}
			}
		}
	}
	return busy
}
