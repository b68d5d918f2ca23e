// Package donationlog records the audit trail of a registration's movement
// through the donation workflow. One entry per status change, written inside
// the same transaction as the change itself.
package donationlog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hemo/hemo/internal/platform/db"
)

// Entry is one audit record: who moved which registration to what status.
type Entry struct {
	ID             uuid.UUID `db:"id" json:"id"`
	RegistrationID uuid.UUID `db:"registration_id" json:"registration_id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	ChangedBy      uuid.UUID `db:"changed_by" json:"changed_by"`
	Status         string    `db:"status" json:"status"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Recorder appends audit entries.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*Entry, error)
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Recorder {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) Record(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO process_donation_logs (id, registration_id, user_id, changed_by, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.RegistrationID, e.UserID, e.ChangedBy, e.Status, e.Notes,
	)
	return err
}

func (r *repoPG) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*Entry, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, registration_id, user_id, changed_by, status, notes, created_at
		FROM process_donation_logs
		WHERE registration_id = $1 ORDER BY created_at`, registrationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RegistrationID, &e.UserID, &e.ChangedBy, &e.Status, &e.Notes, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, nil
}
