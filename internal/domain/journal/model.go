package journal

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one journal entry. Entries are private to their owner unless
// IsShared is set, which opens the entry to the owner's therapist.
type Entry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	IsShared  bool      `db:"is_shared" json:"is_shared"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
