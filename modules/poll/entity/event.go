package entity

import (
	"strings"
	"time"
)

// Event is an availability poll: a contiguous date range, a daily time window
// in minutes since midnight, and a fixed slot length. The window fields are
// immutable after creation; all grid geometry is re-derived from them.
type Event struct {
	ID           string    `db:"id" json:"id"`
	Slug         string    `db:"slug" json:"slug"`
	Title        string    `db:"title" json:"title"`
	StartDate    time.Time `db:"start_date" json:"start_date"`
	EndDate      time.Time `db:"end_date" json:"end_date"`
	StartMinutes int       `db:"start_minutes" json:"start_minutes"`
	EndMinutes   int       `db:"end_minutes" json:"end_minutes"`
	SlotMinutes  int       `db:"slot_minutes" json:"slot_minutes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Days returns the number of polled dates, start and end inclusive.
func (e *Event) Days() int {
	days := 0
	for d := e.StartDate; !d.After(e.EndDate); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// Dates returns the chronological, contiguous sequence of polled dates.
func (e *Event) Dates() []time.Time {
	var dates []time.Time
	for d := e.StartDate; !d.After(e.EndDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Participant is one named respondent with their selected slot-index set.
// Slots is kept sorted ascending and holds only indices valid for the event's
// current geometry.
type Participant struct {
	Name      string    `db:"display_name" json:"name"`
	Slots     []int     `json:"slots"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NormalizeName derives the participant identity key. Names differing only by
// case or surrounding whitespace collapse to one participant; the name is the
// identity key.
func NormalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
