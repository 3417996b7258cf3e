package entity

import (
	"time"

	"slotpoll/core/entity"
)

// CalendarConnection stores a participant's calendar provider tokens. The
// connection is an annotation source only; nothing from the calendar is ever
// written into a poll.
type CalendarConnection struct {
	entity.BaseEntity
	Provider       string    `db:"provider" json:"provider"` // "google"
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	CalendarEmail  string    `db:"calendar_email" json:"calendar_email"`
}
