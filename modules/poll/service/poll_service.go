package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"slotpoll/core/config"
	"slotpoll/core/constants"
	"slotpoll/core/errors"
	"slotpoll/core/logger"
	"slotpoll/core/utils"
	"slotpoll/modules/poll/dto"
	"slotpoll/modules/poll/entity"
	"slotpoll/modules/poll/repository"
)

// PollService handles availability-poll business logic
type PollService struct {
	repo      repository.EventRepositoryInterface
	loc       *time.Location
	bestLimit int
}

// PollServiceInterface defines the service contract
type PollServiceInterface interface {
	CreatePoll(ctx context.Context, req *dto.CreatePollRequest) (*dto.PollResponse, *errors.AppError)
	GetPoll(ctx context.Context, id string) (*dto.PollResponse, *errors.AppError)
	GetEvent(ctx context.Context, id string) (*entity.Event, *errors.AppError)
	SaveAvailability(ctx context.Context, id string, req *dto.SaveAvailabilityRequest) (*dto.PollResponse, *errors.AppError)
	BestSlots(ctx context.Context, id string, limit int) (*dto.BestSlotsResponse, *errors.AppError)
	PurgeEndedBefore(ctx context.Context, cutoff time.Time) (int, *errors.AppError)
	Location() *time.Location
}

// NewPollService creates a new poll service
func NewPollService(repo repository.EventRepositoryInterface, loc *time.Location, bestLimit int) PollServiceInterface {
	if loc == nil {
		loc = time.Local
	}
	if bestLimit <= 0 {
		bestLimit = constants.DefaultBestSlotsLimit
	}
	return &PollService{
		repo:      repo,
		loc:       loc,
		bestLimit: bestLimit,
	}
}

// Location returns the wall-clock location all poll grids live in.
func (s *PollService) Location() *time.Location {
	return s.loc
}

// CreatePoll validates the create-event input, derives the grid geometry
// inputs and stores the new poll. Geometry itself is never persisted, only
// the window fields it is re-derived from.
func (s *PollService) CreatePoll(ctx context.Context, req *dto.CreatePollRequest) (*dto.PollResponse, *errors.AppError) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}

	startDate, err := time.ParseInLocation(constants.DateLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_date must be YYYY-MM-DD", err)
	}
	endDate, err := time.ParseInLocation(constants.DateLayout, req.EndDate, time.UTC)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_date must be YYYY-MM-DD", err)
	}
	if endDate.Before(startDate) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_date must not be before start_date", nil)
	}

	startMinutes, appErr := parseClock(req.StartTime, "start_time")
	if appErr != nil {
		return nil, appErr
	}
	endMinutes, appErr := parseClock(req.EndTime, "end_time")
	if appErr != nil {
		return nil, appErr
	}
	if startMinutes >= endMinutes {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start_time must be before end_time", nil)
	}

	if req.SlotMinutes <= 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "slot_minutes must be positive", nil)
	}
	if (endMinutes-startMinutes)/req.SlotMinutes == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "time window is shorter than one slot", nil)
	}

	event := &entity.Event{
		ID:           utils.GenerateID(),
		Slug:         utils.ShareSlug(title),
		Title:        title,
		StartDate:    startDate,
		EndDate:      endDate,
		StartMinutes: startMinutes,
		EndMinutes:   endMinutes,
		SlotMinutes:  req.SlotMinutes,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		logger.Error("PollService:CreatePoll:CreateEvent", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create poll", err)
	}

	logger.Info("PollService:CreatePoll:Created",
		"poll_id", event.ID,
		"days", event.Days(),
		"slots_per_day", SlotsPerDay(event),
	)

	return s.buildPollResponse(ctx, event)
}

// GetPoll returns the read-event output. The aggregate grid is recomputed on
// every read; there is no cached aggregate to invalidate.
func (s *PollService) GetPoll(ctx context.Context, id string) (*dto.PollResponse, *errors.AppError) {
	event, appErr := s.GetEvent(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	return s.buildPollResponse(ctx, event)
}

// GetEvent fetches the raw event, for this service and for collaborators
// that need the grid geometry (the calendar overlay).
func (s *PollService) GetEvent(ctx context.Context, id string) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get poll", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "poll not found", nil)
	}
	return event, nil
}

// SaveAvailability fully replaces the caller's slot selection, keyed by the
// normalized name. Out-of-range and non-integer slot values are dropped
// silently: a client holding stale geometry loses those selections instead
// of failing the whole save.
func (s *PollService) SaveAvailability(ctx context.Context, id string, req *dto.SaveAvailabilityRequest) (*dto.PollResponse, *errors.AppError) {
	event, appErr := s.GetEvent(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	displayName := strings.TrimSpace(req.ParticipantName)
	if displayName == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "participant name is required", nil)
	}

	participant := entity.Participant{
		Name:      displayName,
		Slots:     filterSlots(req.Slots, TotalSlots(event)),
		UpdatedAt: time.Now(),
	}

	key := entity.NormalizeName(req.ParticipantName)
	if err := s.repo.UpsertParticipant(ctx, event.ID, key, participant); err != nil {
		logger.Error("PollService:SaveAvailability:Upsert", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save availability", err)
	}

	logger.Info("PollService:SaveAvailability:Saved",
		"poll_id", event.ID,
		"participant", key,
		"slots", len(participant.Slots),
	)

	return s.buildPollResponse(ctx, event)
}

// BestSlots returns the ranked best-times list for a poll.
func (s *PollService) BestSlots(ctx context.Context, id string, limit int) (*dto.BestSlotsResponse, *errors.AppError) {
	event, appErr := s.GetEvent(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	participants, err := s.repo.ListParticipants(ctx, event.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list participants", err)
	}

	if limit <= 0 {
		limit = s.bestLimit
	}

	grid := BuildAggregate(event, participants)
	ranked := RankBestSlots(grid, limit)

	resp := &dto.BestSlotsResponse{
		PollID: event.ID,
		Slots:  make([]dto.BestSlotDTO, 0, len(ranked)),
	}
	for _, r := range ranked {
		start, end := SlotTimeRange(event, r.DayIndex, r.RowIndex, s.loc)
		resp.Slots = append(resp.Slots, dto.BestSlotDTO{
			DayIndex:  r.DayIndex,
			RowIndex:  r.RowIndex,
			Count:     r.Count,
			Names:     r.Names,
			Date:      start.Format(constants.DateLayout),
			StartTime: start.Format(constants.TimeLayout),
			EndTime:   end.Format(constants.TimeLayout),
		})
	}
	return resp, nil
}

// PurgeEndedBefore deletes polls whose last date is older than cutoff. Used
// by the optional retention sweeper; never called when retention is off.
func (s *PollService) PurgeEndedBefore(ctx context.Context, cutoff time.Time) (int, *errors.AppError) {
	deleted, err := s.repo.DeleteEventsEndingBefore(ctx, cutoff)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "failed to purge polls", err)
	}
	if deleted > 0 {
		logger.Info("PollService:PurgeEndedBefore:Purged", "count", deleted, "cutoff", cutoff.Format(constants.DateLayout))
	}
	return deleted, nil
}

func (s *PollService) buildPollResponse(ctx context.Context, event *entity.Event) (*dto.PollResponse, *errors.AppError) {
	participants, err := s.repo.ListParticipants(ctx, event.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list participants", err)
	}

	grid := BuildAggregate(event, participants)
	levels := HeatLevels(grid)

	return dto.ToPollResponse(event, participants, grid, levels, TimeLabels(event), s.shareURL(event)), nil
}

// shareURL builds the public poll URL from the server config; empty when the
// config is not initialized (tests).
func (s *PollService) shareURL(event *entity.Event) string {
	cfg, ok := config.GetSafe()
	if !ok {
		return ""
	}

	host := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	if cfg.Server.Host != "" && cfg.Server.Host != "0.0.0.0" {
		host = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	return fmt.Sprintf("%s/p/%s/%s", host, event.ID, event.Slug)
}

// parseClock turns an "HH:MM" string into minutes since midnight. "24:00" is
// accepted as the end-of-day bound.
func parseClock(value, field string) (int, *errors.AppError) {
	if value == "24:00" {
		return constants.MinutesPerDay, nil
	}
	t, err := time.Parse(constants.TimeLayout, value)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInvalidInput, field+" must be HH:MM", err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// filterSlots applies the lenient save boundary: keep integral values inside
// [0, total), drop everything else, dedupe, sort.
func filterSlots(raw []float64, total int) []int {
	seen := make(map[int]struct{}, len(raw))
	kept := make([]int, 0, len(raw))
	for _, v := range raw {
		if v != math.Trunc(v) {
			continue
		}
		idx := int(v)
		if idx < 0 || idx >= total {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		kept = append(kept, idx)
	}
	sort.Ints(kept)
	return kept
}
