// Package orders drives the outpatient prescription workflow: the doctor
// builds and edits draft medicine plans during the visit, then confirms the
// order, which freezes the plans, prices the invoice, and asks the patient
// to pay.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/opd/opd/internal/domain/billing"
	"github.com/opd/opd/internal/domain/medicine"
	"github.com/opd/opd/internal/domain/prescription"
	"github.com/opd/opd/internal/platform/notification"
)

// Service orchestrates prescriptions, the medicine catalog, billing, and
// patient notification.
type Service struct {
	prescriptions *prescription.Service
	medicines     *medicine.Service
	billing       *billing.Service
	notifier      *notification.Dispatcher
}

// NewService wires the order workflow over the domain services.
func NewService(prescriptions *prescription.Service, medicines *medicine.Service, billing *billing.Service, notifier *notification.Dispatcher) *Service {
	return &Service{
		prescriptions: prescriptions,
		medicines:     medicines,
		billing:       billing,
		notifier:      notifier,
	}
}

// CreateDrafts records a new set of draft medicine plans.
func (s *Service) CreateDrafts(ctx context.Context, drafts []*prescription.DraftMedicinePlan) ([]*prescription.DraftMedicinePlan, error) {
	return s.prescriptions.CreateDrafts(ctx, drafts)
}

// EditDrafts updates existing draft medicine plans.
func (s *Service) EditDrafts(ctx context.Context, drafts []*prescription.DraftMedicinePlan) ([]*prescription.DraftMedicinePlan, error) {
	return s.prescriptions.EditDrafts(ctx, drafts)
}

// ErrEmptyOrder is returned when an order carries no draft medicine plans.
var ErrEmptyOrder = errors.New("order has no draft medicine plans")

// CancelDrafts marks the given draft medicine plans canceled.
func (s *Service) CancelDrafts(ctx context.Context, drafts []*prescription.DraftMedicinePlan) ([]*prescription.DraftMedicinePlan, error) {
	ids := make([]uuid.UUID, 0, len(drafts))
	for _, d := range drafts {
		ids = append(ids, d.ID)
	}
	return s.prescriptions.CancelDrafts(ctx, ids)
}

// ConfirmResult is what a confirmed order produced.
type ConfirmResult struct {
	Prescription *prescription.Prescription   `json:"prescription"`
	Plans        []*prescription.MedicinePlan `json:"medicinePlans"`
	Invoice      *billing.Invoice             `json:"invoice"`
}

// Confirm finalizes an order. It creates the prescription, attaches the
// submitted drafts to it, freezes every draft into a medicine plan (canceled
// drafts included), prices each plan from the catalog, creates an UNPAID
// invoice, and notifies the patient with the invoice reference. The
// notification is awaited: confirmation fails if the patient cannot be
// reached.
func (s *Service) Confirm(ctx context.Context, drafts []*prescription.DraftMedicinePlan) (*ConfirmResult, error) {
	if len(drafts) == 0 {
		return nil, ErrEmptyOrder
	}

	p, err := s.prescriptions.CreatePrescription(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.prescriptions.AttachDrafts(ctx, p.ID, drafts); err != nil {
		return nil, err
	}

	plans := make([]*prescription.MedicinePlan, 0, len(drafts))
	fees := make([]*billing.MedicineFee, 0, len(drafts))
	for _, d := range drafts {
		price, err := s.medicines.PriceFor(ctx, d.MedicineName)
		if err != nil {
			return nil, err
		}
		plans = append(plans, prescription.PlanFromDraft(d))
		fees = append(fees, &billing.MedicineFee{
			MedicineName: d.MedicineName,
			Amount:       d.Amount,
			UnitPrice:    price,
		})
	}

	plans, err = s.prescriptions.CreatePlans(ctx, p.ID, plans)
	if err != nil {
		return nil, err
	}

	inv, err := s.billing.CreateInvoice(ctx, p.ID, fees)
	if err != nil {
		return nil, err
	}

	if _, err := s.notifier.Notify(ctx, notification.UserPatient, notification.InvoiceIssuedMessage(inv.RefID)); err != nil {
		return nil, fmt.Errorf("notify patient: %w", err)
	}

	return &ConfirmResult{Prescription: p, Plans: plans, Invoice: inv}, nil
}
