package entity

import "time"

// BusyInterval is one busy block from an external calendar, already resolved
// to absolute instants. All-day entries are normalized to 00:00-23:59:59 of
// their date before they reach the overlap matcher.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
