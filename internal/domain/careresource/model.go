package careresource

import (
	"time"

	"github.com/google/uuid"
)

// Resource is a psychoeducation or support resource shared with clients. A
// nil ClientID means the resource is available to everyone.
type Resource struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ClientID    *uuid.UUID `db:"client_id" json:"client_id,omitempty"`
	Title       string     `db:"title" json:"title"`
	URL         string     `db:"url" json:"url,omitempty"`
	Description string     `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
