package registration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hemo/hemo/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
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

const regCols = `id, user_id, facility_id, status, blood_group, expected_date, check_in_at, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, reg *Registration) error {
	reg.ID = uuid.New()
	if reg.Status == "" {
		reg.Status = StatusPendingApproval
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO blood_donation_registrations (id, user_id, facility_id, status, blood_group, expected_date)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		reg.ID, reg.UserID, reg.FacilityID, reg.Status, reg.BloodGroup, reg.ExpectedDate,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Registration, error) {
	return scanReg(r.conn(ctx).QueryRow(ctx,
		`SELECT `+regCols+` FROM blood_donation_registrations WHERE id = $1`, id))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, checkInAt *time.Time) error {
	if checkInAt != nil {
		_, err := r.conn(ctx).Exec(ctx, `
			UPDATE blood_donation_registrations
			SET status = $2, check_in_at = $3, updated_at = NOW()
			WHERE id = $1`, id, status, checkInAt)
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE blood_donation_registrations
		SET status = $2, updated_at = NOW()
		WHERE id = $1`, id, status)
	return err
}

func (r *repoPG) ListByFacility(ctx context.Context, facilityID uuid.UUID, limit, offset int) ([]*Registration, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM blood_donation_registrations WHERE facility_id = $1`,
		facilityID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+regCols+` FROM blood_donation_registrations
		 WHERE facility_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		facilityID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Registration
	for rows.Next() {
		var reg Registration
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.FacilityID, &reg.Status, &reg.BloodGroup,
			&reg.ExpectedDate, &reg.CheckInAt, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &reg)
	}
	return out, total, nil
}

func scanReg(row pgx.Row) (*Registration, error) {
	var reg Registration
	err := row.Scan(&reg.ID, &reg.UserID, &reg.FacilityID, &reg.Status, &reg.BloodGroup,
		&reg.ExpectedDate, &reg.CheckInAt, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
