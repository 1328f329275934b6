package homework

import (
	"time"

	"github.com/google/uuid"
)

// Assignment statuses. Transitions move forward only: assigned → in_progress
// → completed.
const (
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Assignment is a homework task given to one client.
type Assignment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description,omitempty"`
	Status      string     `db:"status" json:"status"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
