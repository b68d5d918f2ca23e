package healthcheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hemo/hemo/internal/platform/db"
	"github.com/hemo/hemo/pkg/pagination"
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

const hcCols = `hc.id, hc.registration_id, hc.user_id, hc.staff_id, hc.doctor_id, hc.facility_id,
	hc.check_date, hc.is_eligible, hc.blood_pressure, hc.hemoglobin, hc.weight, hc.pulse,
	hc.temperature, hc.general_condition, hc.deferral_reason, hc.notes, hc.created_at, hc.updated_at`

const viewCols = hcCols + `,
	u.full_name, u.email, ns.position, ds.position, f.name, f.address`

const viewJoins = `
	FROM health_checks hc
	JOIN users u ON u.id = hc.user_id
	JOIN facility_staff ns ON ns.id = hc.staff_id
	JOIN facility_staff ds ON ds.id = hc.doctor_id
	JOIN facilities f ON f.id = hc.facility_id`

func (r *repoPG) Create(ctx context.Context, hc *HealthCheck) error {
	hc.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO health_checks (
			id, registration_id, user_id, staff_id, doctor_id, facility_id,
			check_date, is_eligible, blood_pressure, hemoglobin, weight, pulse,
			temperature, general_condition, deferral_reason, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		hc.ID, hc.RegistrationID, hc.UserID, hc.StaffID, hc.DoctorID, hc.FacilityID,
		hc.CheckDate, hc.IsEligible, hc.BloodPressure, hc.Hemoglobin, hc.Weight, hc.Pulse,
		hc.Temperature, hc.GeneralCondition, hc.DeferralReason, hc.Notes,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*HealthCheck, error) {
	return scanHC(r.conn(ctx).QueryRow(ctx,
		`SELECT `+hcCols+` FROM health_checks hc WHERE hc.id = $1`, id))
}

func (r *repoPG) GetView(ctx context.Context, id uuid.UUID) (*View, error) {
	return scanView(r.conn(ctx).QueryRow(ctx,
		`SELECT `+viewCols+viewJoins+` WHERE hc.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, hc *HealthCheck) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE health_checks SET
			check_date=$2, is_eligible=$3, blood_pressure=$4, hemoglobin=$5,
			weight=$6, pulse=$7, temperature=$8, general_condition=$9,
			deferral_reason=$10, notes=$11, updated_at=NOW()
		WHERE id = $1`,
		hc.ID, hc.CheckDate, hc.IsEligible, hc.BloodPressure, hc.Hemoglobin,
		hc.Weight, hc.Pulse, hc.Temperature, hc.GeneralCondition,
		hc.DeferralReason, hc.Notes,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, p pagination.Params) ([]*View, int, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.FacilityID != nil {
		add("hc.facility_id = $%d", *filter.FacilityID)
	}
	if filter.DoctorID != nil {
		add("hc.doctor_id = $%d", *filter.DoctorID)
	}
	if filter.StaffID != nil {
		add("hc.staff_id = $%d", *filter.StaffID)
	}
	if filter.UserID != nil {
		add("hc.user_id = $%d", *filter.UserID)
	}
	if filter.IsEligible != nil {
		add("hc.is_eligible = $%d", *filter.IsEligible)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(hc.general_condition ILIKE $%d OR hc.notes ILIKE $%d OR hc.deferral_reason ILIKE $%d)",
			n, n, n))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*)`+viewJoins+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := filter.SortColumn
	if order == "" {
		order = "hc.created_at"
	}
	args = append(args, p.Limit, p.Offset())
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s%s%s ORDER BY %s DESC LIMIT $%d OFFSET $%d`,
			viewCols, viewJoins, cond, order, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var views []*View
	for rows.Next() {
		v, err := scanViewRow(rows)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, v)
	}
	return views, total, nil
}

func scanHC(row pgx.Row) (*HealthCheck, error) {
	var hc HealthCheck
	err := row.Scan(
		&hc.ID, &hc.RegistrationID, &hc.UserID, &hc.StaffID, &hc.DoctorID, &hc.FacilityID,
		&hc.CheckDate, &hc.IsEligible, &hc.BloodPressure, &hc.Hemoglobin, &hc.Weight, &hc.Pulse,
		&hc.Temperature, &hc.GeneralCondition, &hc.DeferralReason, &hc.Notes, &hc.CreatedAt, &hc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &hc, nil
}

func scanView(row pgx.Row) (*View, error) {
	var v View
	err := row.Scan(
		&v.ID, &v.RegistrationID, &v.UserID, &v.StaffID, &v.DoctorID, &v.FacilityID,
		&v.CheckDate, &v.IsEligible, &v.BloodPressure, &v.Hemoglobin, &v.Weight, &v.Pulse,
		&v.Temperature, &v.GeneralCondition, &v.DeferralReason, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
		&v.UserFullName, &v.UserEmail, &v.StaffPosition, &v.DoctorPosition, &v.FacilityName, &v.FacilityAddress,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanViewRow(rows pgx.Rows) (*View, error) {
	var v View
	err := rows.Scan(
		&v.ID, &v.RegistrationID, &v.UserID, &v.StaffID, &v.DoctorID, &v.FacilityID,
		&v.CheckDate, &v.IsEligible, &v.BloodPressure, &v.Hemoglobin, &v.Weight, &v.Pulse,
		&v.Temperature, &v.GeneralCondition, &v.DeferralReason, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
		&v.UserFullName, &v.UserEmail, &v.StaffPosition, &v.DoctorPosition, &v.FacilityName, &v.FacilityAddress,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
