package prescription

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists prescriptions.
type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	List(ctx context.Context, limit, offset int) ([]*Prescription, int, error)
}

// DraftRepository persists draft medicine plans.
type DraftRepository interface {
	CreateMany(ctx context.Context, drafts []*DraftMedicinePlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*DraftMedicinePlan, error)
	Update(ctx context.Context, d *DraftMedicinePlan) error
	ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*DraftMedicinePlan, error)
	// UpdateStatusByPrescription sets the status of every draft attached to
	// a prescription and returns the number of rows touched.
	UpdateStatusByPrescription(ctx context.Context, prescriptionID uuid.UUID, status string) (int, error)
}

// PlanRepository persists confirmed medicine plans.
type PlanRepository interface {
	CreateMany(ctx context.Context, plans []*MedicinePlan) error
	ListByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*MedicinePlan, error)
}
