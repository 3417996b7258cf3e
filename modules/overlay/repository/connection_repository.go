package repository

import (
	"context"
	"sync"

	"slotpoll/modules/overlay/entity"

	"github.com/google/uuid"
)

// ConnectionRepositoryInterface defines the calendar connection store.
// GetConnection returns (nil, nil) for unknown ids.
type ConnectionRepositoryInterface interface {
	SaveConnection(ctx context.Context, conn *entity.CalendarConnection) error
	GetConnection(ctx context.Context, id uuid.UUID) (*entity.CalendarConnection, error)
	UpdateConnection(ctx context.Context, conn *entity.CalendarConnection) error
	DeleteConnection(ctx context.Context, id uuid.UUID) error
}

// MemoryConnectionRepository keeps connections in process memory. Tokens are
// as ephemeral as the polls themselves; a restart just means reconnecting.
type MemoryConnectionRepository struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]entity.CalendarConnection
}

func NewMemoryConnectionRepository() *MemoryConnectionRepository {
	return &MemoryConnectionRepository{
		connections: make(map[uuid.UUID]entity.CalendarConnection),
	}
}

func (r *MemoryConnectionRepository) SaveConnection(_ context.Context, conn *entity.CalendarConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[conn.ID] = *conn
	return nil
}

func (r *MemoryConnectionRepository) GetConnection(_ context.Context, id uuid.UUID) (*entity.CalendarConnection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.connections[id]
	if !ok {
		return nil, nil
	}
	return &conn, nil
}

func (r *MemoryConnectionRepository) UpdateConnection(_ context.Context, conn *entity.CalendarConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[conn.ID] = *conn
	return nil
}

func (r *MemoryConnectionRepository) DeleteConnection(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.connections, id)
	return nil
}
