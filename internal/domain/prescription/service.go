package prescription

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service implements prescription business rules.
type Service struct {
	prescriptions Repository
	drafts        DraftRepository
	plans         PlanRepository
}

// NewService returns a prescription service backed by the given repositories.
func NewService(prescriptions Repository, drafts DraftRepository, plans PlanRepository) *Service {
	return &Service{prescriptions: prescriptions, drafts: drafts, plans: plans}
}

// CreatePrescription creates a new prescription in CREATED status.
func (s *Service) CreatePrescription(ctx context.Context) (*Prescription, error) {
	p := &Prescription{Status: StatusCreated}
	if err := s.prescriptions.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPrescription returns one prescription by id.
func (s *Service) GetPrescription(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.prescriptions.GetByID(ctx, id)
}

// ListPrescriptions returns a page of prescriptions, newest first, with the
// total count.
func (s *Service) ListPrescriptions(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.List(ctx, limit, offset)
}

// CreateDrafts stores new draft medicine plans in CREATED status.
func (s *Service) CreateDrafts(ctx context.Context, drafts []*DraftMedicinePlan) ([]*DraftMedicinePlan, error) {
	for _, d := range drafts {
		if d.MedicineName == "" {
			return nil, fmt.Errorf("draft medicine plan: medicine name is required")
		}
		if d.Amount <= 0 {
			return nil, fmt.Errorf("draft medicine plan %q: amount must be positive", d.MedicineName)
		}
		d.Status = StatusCreated
	}
	if err := s.drafts.CreateMany(ctx, drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// EditDrafts applies edits to existing drafts and marks them EDITED. Every
// draft must carry the id of the row it replaces.
func (s *Service) EditDrafts(ctx context.Context, drafts []*DraftMedicinePlan) ([]*DraftMedicinePlan, error) {
	for _, d := range drafts {
		if d.ID == uuid.Nil {
			return nil, fmt.Errorf("draft medicine plan %q: id is required for edit", d.MedicineName)
		}
		d.Status = StatusEdited
		if err := s.drafts.Update(ctx, d); err != nil {
			return nil, err
		}
	}
	return drafts, nil
}

// CancelDrafts marks the given drafts CANCELED. A canceled draft stays on
// the order and is confirmed with the rest.
func (s *Service) CancelDrafts(ctx context.Context, ids []uuid.UUID) ([]*DraftMedicinePlan, error) {
	out := make([]*DraftMedicinePlan, 0, len(ids))
	for _, id := range ids {
		d, err := s.drafts.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		d.Status = StatusCanceled
		if err := s.drafts.Update(ctx, d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// AttachDrafts binds stored drafts to a prescription at confirmation time.
// Each draft must carry the id of the row it was created with.
func (s *Service) AttachDrafts(ctx context.Context, prescriptionID uuid.UUID, drafts []*DraftMedicinePlan) error {
	for _, d := range drafts {
		if d.ID == uuid.Nil {
			return fmt.Errorf("draft medicine plan %q: id is required to attach", d.MedicineName)
		}
		id := prescriptionID
		d.PrescriptionID = &id
		if err := s.drafts.Update(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// GetDraft returns one draft medicine plan by id.
func (s *Service) GetDraft(ctx context.Context, id uuid.UUID) (*DraftMedicinePlan, error) {
	return s.drafts.GetByID(ctx, id)
}

// ListDraftsByPrescription returns the drafts attached to a prescription,
// oldest first.
func (s *Service) ListDraftsByPrescription(ctx context.Context, prescriptionID uuid.UUID) ([]*DraftMedicinePlan, error) {
	return s.drafts.ListByPrescription(ctx, prescriptionID)
}

// UpdateDraftStatusByPrescription bulk-updates the status of every draft
// attached to a prescription.
func (s *Service) UpdateDraftStatusByPrescription(ctx context.Context, prescriptionID uuid.UUID, status string) (int, error) {
	if !ValidStatus(status) {
		return 0, fmt.Errorf("invalid draft status %q", status)
	}
	return s.drafts.UpdateStatusByPrescription(ctx, prescriptionID, status)
}

// CreatePlans writes confirmed medicine plans for a prescription. Each plan
// is stamped CREATED and bound to the prescription.
func (s *Service) CreatePlans(ctx context.Context, prescriptionID uuid.UUID, plans []*MedicinePlan) ([]*MedicinePlan, error) {
	for _, p := range plans {
		p.PrescriptionID = prescriptionID
		p.Status = StatusCreated
	}
	if err := s.plans.CreateMany(ctx, plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// ListPlans returns the confirmed plans of a prescription, oldest first.
func (s *Service) ListPlans(ctx context.Context, prescriptionID uuid.UUID) ([]*MedicinePlan, error) {
	return s.plans.ListByPrescription(ctx, prescriptionID)
}
