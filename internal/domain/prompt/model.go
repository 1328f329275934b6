package prompt

import (
	"time"

	"github.com/google/uuid"
)

// Prompt is a therapeutic writing prompt. A nil ClientID means the prompt is
// global; otherwise it is scoped to one client.
type Prompt struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ClientID  *uuid.UUID `db:"client_id" json:"client_id,omitempty"`
	Text      string     `db:"text" json:"text"`
	Category  string     `db:"category" json:"category,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
