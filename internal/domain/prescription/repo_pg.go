package prescription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepoPG returns a PostgreSQL-backed prescription repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const prescriptionCols = "id, status, created_at"

func scanPrescription(row pgx.Row) (*Prescription, error) {
	var p Prescription
	if err := row.Scan(&p.ID, &p.Status, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO prescription (id, status, created_at) VALUES ($1, $2, $3)`,
		p.ID, p.Status, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+prescriptionCols+` FROM prescription WHERE id = $1`, id)
	return scanPrescription(row)
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM prescription`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count prescriptions: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+prescriptionCols+` FROM prescription ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()

	var out []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

type draftRepoPG struct {
	pool *pgxpool.Pool
}

// NewDraftRepoPG returns a PostgreSQL-backed draft plan repository.
func NewDraftRepoPG(pool *pgxpool.Pool) DraftRepository {
	return &draftRepoPG{pool: pool}
}

const draftCols = "id, prescription_id, medicine_name, amount, dosage, dosage_meals, dosage_times, remark, status, created_at, updated_at"

func scanDraft(row pgx.Row) (*DraftMedicinePlan, error) {
	var d DraftMedicinePlan
	err := row.Scan(&d.ID, &d.PrescriptionID, &d.MedicineName, &d.Amount,
		&d.Dosage, &d.DosageMeals, &d.DosageTimes, &d.Remark,
		&d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *draftRepoPG) CreateMany(ctx context.Context, drafts []*DraftMedicinePlan) error {
	for _, d := range drafts {
		d.ID = uuid.New()
		now := time.Now()
		d.CreatedAt = now
		d.UpdatedAt = now
		_, err := r.pool.Exec(ctx,
			`INSERT INTO draft_medicine_plan (`+draftCols+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			d.ID, d.PrescriptionID, d.MedicineName, d.Amount,
			d.Dosage, d.DosageMeals, d.DosageTimes, d.Remark,
			d.Status, d.CreatedAt, d.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert draft medicine plan: %w", err)
		}
	}
	return nil
}

func (r *draftRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*DraftMedicinePlan, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+draftCols+` FROM draft_medicine_plan WHERE id = $1`, id)
	return scanDraft(row)
}

func (r *draftRepoPG) Update(ctx context.Context, d *DraftMedicinePlan) error {
	d.UpdatedAt = time.Now()
	tag, err := r.pool.Exec(ctx,
		`UPDATE draft_medicine_plan
		 SET prescription_id = $2, medicine_name = $3, amount = $4, dosage = $5,
		     dosage_meals = $6, dosage_times = $7, remark = $8, status = $9, updated_at = $10
		 WHERE id = $1`,
		d.ID, d.PrescriptionID, d.MedicineName, d.Amount, d.Dosage,
		d.DosageMeals, d.DosageTimes, d.Remark, d.Status, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update draft medicine plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func (r *draftRepoPG) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*DraftMedicinePlan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+draftCols+` FROM draft_medicine_plan WHERE prescription_id = $1 ORDER BY created_at`,
		prescriptionID)
	if err != nil {
		return nil, fmt.Errorf("list draft medicine plans: %w", err)
	}
	defer rows.Close()

	var out []*DraftMedicinePlan
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *draftRepoPG) UpdateStatusByPrescription(ctx context.Context, prescriptionID uuid.UUID, status string) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE draft_medicine_plan SET status = $2, updated_at = $3 WHERE prescription_id = $1`,
		prescriptionID, status, time.Now())
	if err != nil {
		return 0, fmt.Errorf("update draft medicine plan statuses: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

type planRepoPG struct {
	pool *pgxpool.Pool
}

// NewPlanRepoPG returns a PostgreSQL-backed confirmed plan repository.
func NewPlanRepoPG(pool *pgxpool.Pool) PlanRepository {
	return &planRepoPG{pool: pool}
}

const planCols = "id, prescription_id, medicine_name, amount, dosage, dosage_meals, dosage_times, remark, status, created_at"

func scanPlan(row pgx.Row) (*MedicinePlan, error) {
	var p MedicinePlan
	err := row.Scan(&p.ID, &p.PrescriptionID, &p.MedicineName, &p.Amount,
		&p.Dosage, &p.DosageMeals, &p.DosageTimes, &p.Remark,
		&p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *planRepoPG) CreateMany(ctx context.Context, plans []*MedicinePlan) error {
	for _, p := range plans {
		p.ID = uuid.New()
		p.CreatedAt = time.Now()
		_, err := r.pool.Exec(ctx,
			`INSERT INTO medicine_plan (`+planCols+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			p.ID, p.PrescriptionID, p.MedicineName, p.Amount,
			p.Dosage, p.DosageMeals, p.DosageTimes, p.Remark,
			p.Status, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert medicine plan: %w", err)
		}
	}
	return nil
}

func (r *planRepoPG) ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*MedicinePlan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+planCols+` FROM medicine_plan WHERE prescription_id = $1 ORDER BY created_at`,
		prescriptionID)
	if err != nil {
		return nil, fmt.Errorf("list medicine plans: %w", err)
	}
	defer rows.Close()

	var out []*MedicinePlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
