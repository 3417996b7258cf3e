package dto

import (
	"time"

	"slotpoll/modules/poll/entity"
)

// ===================== Request DTOs =====================

// CreatePollRequest for creating a new availability poll
type CreatePollRequest struct {
	Title       string `json:"title" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"` // YYYY-MM-DD
	EndDate     string `json:"end_date" validate:"required"`   // YYYY-MM-DD
	StartTime   string `json:"start_time" validate:"required"` // HH:MM, 24-hour
	EndTime     string `json:"end_time" validate:"required"`   // HH:MM; "24:00" means end of day
	SlotMinutes int    `json:"slot_minutes" validate:"required,min=1"`
}

// SaveAvailabilityRequest replaces a participant's whole slot selection.
// Slots is float64 on purpose: clients have been seen sending fractional or
// stale indices, and the save boundary drops those silently instead of
// rejecting the request.
type SaveAvailabilityRequest struct {
	ParticipantName string    `json:"participant_name"`
	Slots           []float64 `json:"slots"`
}

// ===================== Response DTOs =====================

// GridDTO is the aggregate read model; all three matrices are [row][day].
type GridDTO struct {
	Aggregate   [][]int      `json:"aggregate"`
	Who         [][][]string `json:"who"`
	Levels      [][]int      `json:"levels"`
	MaxCount    int          `json:"max_count"`
	SlotsPerDay int          `json:"slots_per_day"`
}

// ParticipantDTO for the respondent list
type ParticipantDTO struct {
	Name string `json:"name"`
}

// PollResponse is the full read-event output
type PollResponse struct {
	ID               string           `json:"id"`
	Slug             string           `json:"slug"`
	Title            string           `json:"title"`
	ShareURL         string           `json:"share_url,omitempty"`
	Dates            []string         `json:"dates"`
	Times            []string         `json:"times"`
	Grid             GridDTO          `json:"grid"`
	Participants     []ParticipantDTO `json:"participants"`
	SlotMinutes      int              `json:"slot_minutes"`
	StartTimeMinutes int              `json:"start_time_minutes"`
	EndTimeMinutes   int              `json:"end_time_minutes"`
	SuggestedName    string           `json:"suggested_name,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// BestSlotDTO is one ranked best-time entry
type BestSlotDTO struct {
	DayIndex  int      `json:"day_index"`
	RowIndex  int      `json:"row_index"`
	Count     int      `json:"count"`
	Names     []string `json:"names"`
	Date      string   `json:"date"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// BestSlotsResponse for the ranked best-times list. Slots is empty (never
// null) when nobody has responded yet; callers render a distinct
// "no availability yet" state for that case.
type BestSlotsResponse struct {
	PollID string        `json:"poll_id"`
	Slots  []BestSlotDTO `json:"slots"`
}

// ===================== Mapper Functions =====================

// ToPollResponse maps the event and its freshly computed aggregate to the
// read-event output. times and shareURL are computed by the service layer.
func ToPollResponse(e *entity.Event, participants []entity.Participant, grid *entity.AggregateGrid, levels [][]int, times []string, shareURL string) *PollResponse {
	dates := make([]string, 0, e.Days())
	for _, d := range e.Dates() {
		dates = append(dates, d.Format("2006-01-02"))
	}

	// The who-grid is exposed with empty lists, not nulls.
	who := make([][][]string, len(grid.Names))
	for r := range grid.Names {
		who[r] = make([][]string, len(grid.Names[r]))
		for d := range grid.Names[r] {
			if grid.Names[r][d] == nil {
				who[r][d] = []string{}
			} else {
				who[r][d] = grid.Names[r][d]
			}
		}
	}

	resp := &PollResponse{
		ID:       e.ID,
		Slug:     e.Slug,
		Title:    e.Title,
		ShareURL: shareURL,
		Dates:    dates,
		Times:    times,
		Grid: GridDTO{
			Aggregate:   grid.Counts,
			Who:         who,
			Levels:      levels,
			MaxCount:    grid.MaxCount,
			SlotsPerDay: grid.SlotsPerDay,
		},
		Participants:     make([]ParticipantDTO, 0, len(participants)),
		SlotMinutes:      e.SlotMinutes,
		StartTimeMinutes: e.StartMinutes,
		EndTimeMinutes:   e.EndMinutes,
		CreatedAt:        e.CreatedAt,
	}

	for _, p := range participants {
		resp.Participants = append(resp.Participants, ParticipantDTO{Name: p.Name})
	}

	return resp
}
