// Package payments handles invoice payment: opening a gateway checkout
// session and recording the completed payment with a receipt.
package payments

import (
	"context"
	"fmt"

	"github.com/opd/opd/internal/domain/billing"
	"github.com/opd/opd/internal/platform/notification"
	"github.com/opd/opd/internal/platform/payment"
)

// Service orchestrates billing, the payment gateway, and notification.
type Service struct {
	billing  *billing.Service
	gateway  payment.Gateway
	notifier *notification.Dispatcher
}

// NewService wires the payment workflow.
func NewService(billingSvc *billing.Service, gateway payment.Gateway, notifier *notification.Dispatcher) *Service {
	return &Service{billing: billingSvc, gateway: gateway, notifier: notifier}
}

// CreatePayment opens a gateway checkout session for the invoice with the
// given INVOICE# reference and returns the URL the patient is redirected to.
func (s *Service) CreatePayment(ctx context.Context, refID string) (*payment.Session, error) {
	if _, err := s.billing.GetInvoiceByRefID(ctx, refID); err != nil {
		return nil, err
	}
	session, err := s.gateway.CreatePayment(ctx)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return session, nil
}

// MakePayment records a completed payment: the invoice is marked PAID, a
// receipt is issued, and the patient, doctor, and pharmacist are notified.
// The notifications are fired asynchronously so a slow provider cannot hold
// up the payment response.
func (s *Service) MakePayment(ctx context.Context, refID, bank string) (*billing.Receipt, error) {
	inv, err := s.billing.UpdateInvoiceStatusByRefID(ctx, refID, billing.StatusPaid)
	if err != nil {
		return nil, err
	}

	rc, err := s.billing.CreateReceipt(ctx, inv.ID, bank)
	if err != nil {
		return nil, err
	}

	for _, userID := range []string{
		notification.UserPatient,
		notification.UserDoctor,
		notification.UserPharmacist,
	} {
		s.notifier.NotifyAsync(userID, notification.MsgPaymentCompleted)
	}

	return rc, nil
}
