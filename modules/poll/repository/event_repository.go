package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"slotpoll/modules/poll/entity"
)

// EventRepositoryInterface defines the poll store contract. GetEventByID
// returns (nil, nil) for unknown ids; the service layer maps that to its
// not-found error. ListParticipants returns participants in ascending
// normalized-key order so aggregation output is reproducible.
type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, e *entity.Event) error
	GetEventByID(ctx context.Context, id string) (*entity.Event, error)
	UpsertParticipant(ctx context.Context, eventID, nameKey string, p entity.Participant) error
	ListParticipants(ctx context.Context, eventID string) ([]entity.Participant, error)
	DeleteEventsEndingBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// MemoryEventRepository is the default backend: one process-wide map, no
// persistence. One RWMutex guards all
// events; reads hand out deep copies so aggregation always observes a
// consistent snapshot while upserts proceed.
type MemoryEventRepository struct {
	mu     sync.RWMutex
	events map[string]*memoryEvent
}

type memoryEvent struct {
	event        entity.Event
	participants map[string]entity.Participant
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{events: make(map[string]*memoryEvent)}
}

func (r *MemoryEventRepository) CreateEvent(_ context.Context, e *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.events[e.ID]; exists {
		return fmt.Errorf("event %s already exists", e.ID)
	}
	r.events[e.ID] = &memoryEvent{
		event:        *e,
		participants: make(map[string]entity.Participant),
	}
	return nil
}

func (r *MemoryEventRepository) GetEventByID(_ context.Context, id string) (*entity.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	e := stored.event
	return &e, nil
}

// UpsertParticipant fully replaces any prior entry under the same key:
// last write wins, no merging, no versioning.
func (r *MemoryEventRepository) UpsertParticipant(_ context.Context, eventID, nameKey string, p entity.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.events[eventID]
	if !ok {
		return fmt.Errorf("event %s not found", eventID)
	}

	p.Slots = append([]int(nil), p.Slots...)
	stored.participants[nameKey] = p
	return nil
}

func (r *MemoryEventRepository) ListParticipants(_ context.Context, eventID string) ([]entity.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s not found", eventID)
	}

	keys := make([]string, 0, len(stored.participants))
	for k := range stored.participants {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	participants := make([]entity.Participant, 0, len(keys))
	for _, k := range keys {
		p := stored.participants[k]
		p.Slots = append([]int(nil), p.Slots...)
		participants = append(participants, p)
	}
	return participants, nil
}

func (r *MemoryEventRepository) DeleteEventsEndingBefore(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, stored := range r.events {
		if stored.event.EndDate.Before(cutoff) {
			delete(r.events, id)
			deleted++
		}
	}
	return deleted, nil
}
