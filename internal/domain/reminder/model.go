package reminder

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is a scheduled notice for one client, created by office staff.
type Reminder struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	RemindAt  time.Time `db:"remind_at" json:"remind_at"`
	Sent      bool      `db:"sent" json:"sent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
