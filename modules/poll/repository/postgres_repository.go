package repository

import (
	"context"
	"database/sql"
	"time"

	"slotpoll/core/database"
	"slotpoll/core/logger"
	"slotpoll/modules/poll/entity"

	"github.com/lib/pq"
)

// PostgresEventRepository backs the poll store with Postgres via sqlx. The
// same inputs are persisted as in the memory backend: window fields only,
// never derived geometry or aggregates.
type PostgresEventRepository struct {
	DB database.IDatabase
}

func NewPostgresEventRepository(db database.IDatabase) *PostgresEventRepository {
	return &PostgresEventRepository{DB: db}
}

// EnsureSchema creates the two poll tables when missing. The schema is small
// enough that inline DDL beats carrying a migration tool.
func (r *PostgresEventRepository) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS poll_events (
			id            TEXT PRIMARY KEY,
			slug          TEXT NOT NULL,
			title         TEXT NOT NULL,
			start_date    DATE NOT NULL,
			end_date      DATE NOT NULL,
			start_minutes INTEGER NOT NULL,
			end_minutes   INTEGER NOT NULL,
			slot_minutes  INTEGER NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS poll_participants (
			event_id     TEXT NOT NULL REFERENCES poll_events(id) ON DELETE CASCADE,
			name_key     TEXT NOT NULL,
			display_name TEXT NOT NULL,
			slots        INTEGER[] NOT NULL DEFAULT '{}',
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (event_id, name_key)
		)`,
	}

	for _, stmt := range ddl {
		if err := r.DB.ExecContext(ctx, stmt); err != nil {
			logger.Error("PollRepository:EnsureSchema", err)
			return err
		}
	}
	return nil
}

func (r *PostgresEventRepository) CreateEvent(ctx context.Context, e *entity.Event) error {
	query := `
		INSERT INTO poll_events (id, slug, title, start_date, end_date, start_minutes, end_minutes, slot_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`
	err := r.DB.ExecContext(ctx, query,
		e.ID, e.Slug, e.Title, e.StartDate, e.EndDate,
		e.StartMinutes, e.EndMinutes, e.SlotMinutes)
	if err != nil {
		logger.Error("PollRepository:CreateEvent", err)
		return err
	}
	return nil
}

func (r *PostgresEventRepository) GetEventByID(ctx context.Context, id string) (*entity.Event, error) {
	query := `
		SELECT id, slug, title, start_date, end_date, start_minutes, end_minutes, slot_minutes, created_at
		FROM poll_events WHERE id = $1
	`

	var e entity.Event
	err := r.DB.GetContext(ctx, &e, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PollRepository:GetEventByID", err)
		return nil, err
	}
	return &e, nil
}

type participantRow struct {
	EventID     string        `db:"event_id"`
	NameKey     string        `db:"name_key"`
	DisplayName string        `db:"display_name"`
	Slots       pq.Int64Array `db:"slots"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

func (r *PostgresEventRepository) UpsertParticipant(ctx context.Context, eventID, nameKey string, p entity.Participant) error {
	query := `
		INSERT INTO poll_participants (event_id, name_key, display_name, slots, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (event_id, name_key)
		DO UPDATE SET display_name = $3, slots = $4, updated_at = NOW()
	`

	slots := make(pq.Int64Array, len(p.Slots))
	for i, s := range p.Slots {
		slots[i] = int64(s)
	}

	err := r.DB.ExecContext(ctx, query, eventID, nameKey, p.Name, slots)
	if err != nil {
		logger.Error("PollRepository:UpsertParticipant", err)
		return err
	}
	return nil
}

func (r *PostgresEventRepository) ListParticipants(ctx context.Context, eventID string) ([]entity.Participant, error) {
	query := `
		SELECT event_id, name_key, display_name, slots, updated_at
		FROM poll_participants
		WHERE event_id = $1
		ORDER BY name_key
	`

	var rows []participantRow
	err := r.DB.SelectContext(ctx, &rows, query, eventID)
	if err != nil {
		logger.Error("PollRepository:ListParticipants", err)
		return nil, err
	}

	participants := make([]entity.Participant, 0, len(rows))
	for _, row := range rows {
		slots := make([]int, len(row.Slots))
		for i, s := range row.Slots {
			slots[i] = int(s)
		}
		participants = append(participants, entity.Participant{
			Name:      row.DisplayName,
			Slots:     slots,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return participants, nil
}

func (r *PostgresEventRepository) DeleteEventsEndingBefore(ctx context.Context, cutoff time.Time) (int, error) {
	query := `DELETE FROM poll_events WHERE end_date < $1`

	result, err := r.DB.SQLx().ExecContext(ctx, query, cutoff)
	if err != nil {
		logger.Error("PollRepository:DeleteEventsEndingBefore", err)
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
