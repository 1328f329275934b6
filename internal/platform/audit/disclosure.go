package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Disclosure records PHI being shared outside the practice. Accounting of
// disclosures must be retained; rows are never updated or deleted.
type Disclosure struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ClientID    uuid.UUID `db:"client_id" json:"client_id"`
	DisclosedBy uuid.UUID `db:"disclosed_by" json:"disclosed_by"`
	DisclosedTo string    `db:"disclosed_to" json:"disclosed_to"`
	Purpose     string    `db:"purpose" json:"purpose"`
	DataTypes   []string  `db:"data_types" json:"data_types"`
	Description string    `db:"description" json:"description,omitempty"`
	DisclosedAt time.Time `db:"disclosed_at" json:"disclosed_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Valid disclosure purposes, covering sharing scenarios outside of treatment.
const (
	PurposeTreatment        = "treatment"
	PurposeLegal            = "legal"
	PurposeEmergency        = "emergency"
	PurposeClientRequest    = "client-request"
	PurposeCareCoordination = "care-coordination"
	PurposeOther            = "other"
)

func ValidDisclosurePurposes() []string {
	return []string{
		PurposeTreatment,
		PurposeLegal,
		PurposeEmergency,
		PurposeClientRequest,
		PurposeCareCoordination,
		PurposeOther,
	}
}

// IsValidDisclosurePurpose checks whether a purpose string is a recognized value.
func IsValidDisclosurePurpose(purpose string) bool {
	for _, p := range ValidDisclosurePurposes() {
		if p == purpose {
			return true
		}
	}
	return false
}

// ValidateDisclosure enforces the required fields before a record is written.
func ValidateDisclosure(d *Disclosure) error {
	if d.ClientID == uuid.Nil {
		return fmt.Errorf("disclosure: client_id is required")
	}
	if d.DisclosedBy == uuid.Nil {
		return fmt.Errorf("disclosure: disclosed_by is required")
	}
	if d.DisclosedTo == "" {
		return fmt.Errorf("disclosure: disclosed_to is required")
	}
	if !IsValidDisclosurePurpose(d.Purpose) {
		return fmt.Errorf("disclosure: invalid purpose: %s", d.Purpose)
	}
	return nil
}

type DisclosureRepoPG struct {
	pool *pgxpool.Pool
}

func NewDisclosureRepoPG(pool *pgxpool.Pool) *DisclosureRepoPG {
	return &DisclosureRepoPG{pool: pool}
}

func (r *DisclosureRepoPG) Record(ctx context.Context, d *Disclosure) error {
	if err := ValidateDisclosure(d); err != nil {
		return err
	}
	if d.DisclosedAt.IsZero() {
		d.DisclosedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO data_disclosure (client_id, disclosed_by, disclosed_to, purpose, data_types, description, disclosed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q,
		d.ClientID, d.DisclosedBy, d.DisclosedTo, d.Purpose, d.DataTypes, d.Description, d.DisclosedAt,
	).Scan(&d.ID, &d.CreatedAt)
}

const disclosureCols = `id, client_id, disclosed_by, disclosed_to, purpose, data_types, description, disclosed_at, created_at`

func (r *DisclosureRepoPG) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Disclosure, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM data_disclosure WHERE client_id = $1", clientID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM data_disclosure WHERE client_id = $1 ORDER BY disclosed_at DESC, id LIMIT $2 OFFSET $3",
		disclosureCols), clientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return scanDisclosures(rows, total)
}

func (r *DisclosureRepoPG) ListAll(ctx context.Context, limit, offset int) ([]*Disclosure, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM data_disclosure").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM data_disclosure ORDER BY disclosed_at DESC, id LIMIT $1 OFFSET $2",
		disclosureCols), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return scanDisclosures(rows, total)
}

func scanDisclosures(rows pgx.Rows, total int) ([]*Disclosure, int, error) {
	var items []*Disclosure
	for rows.Next() {
		var d Disclosure
		if err := rows.Scan(&d.ID, &d.ClientID, &d.DisclosedBy, &d.DisclosedTo, &d.Purpose, &d.DataTypes, &d.Description, &d.DisclosedAt, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &d)
	}
	return items, total, rows.Err()
}
