package treatment

import (
	"time"

	"github.com/google/uuid"
)

// Goal statuses.
const (
	GoalInProgress   = "in_progress"
	GoalAchieved     = "achieved"
	GoalDiscontinued = "discontinued"
)

// Objective statuses.
const (
	ObjectiveNotStarted = "not_started"
	ObjectiveInProgress = "in_progress"
	ObjectiveCompleted  = "completed"
)

// Plan is the single treatment plan a client may have. ClientID is unique
// across plans.
type Plan struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ClientID  uuid.UUID `db:"client_id" json:"client_id"`
	Title     string    `db:"title" json:"title,omitempty"`
	Summary   string    `db:"summary" json:"summary,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Goal belongs to one plan.
type Goal struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PlanID      uuid.UUID `db:"plan_id" json:"plan_id"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Objective belongs to one goal.
type Objective struct {
	ID          uuid.UUID `db:"id" json:"id"`
	GoalID      uuid.UUID `db:"goal_id" json:"goal_id"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Progress is one clinician-recorded progress note against an objective.
// ProgressLevel is bounded to [0,100].
type Progress struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ObjectiveID   uuid.UUID `db:"objective_id" json:"objective_id"`
	ProgressLevel int       `db:"progress_level" json:"progress_level"`
	Note          string    `db:"note" json:"note,omitempty"`
	RecordedBy    uuid.UUID `db:"recorded_by" json:"recorded_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
