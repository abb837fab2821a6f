package payments

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/opd/opd/internal/domain/billing"
	"github.com/opd/opd/internal/platform/notification"
	"github.com/opd/opd/internal/platform/payment"
)

type mockInvoiceRepo struct {
	invoices map[uuid.UUID]*billing.Invoice
	fees     map[uuid.UUID][]*billing.MedicineFee
}

func (m *mockInvoiceRepo) Create(_ context.Context, inv *billing.Invoice) error {
	inv.ID = uuid.New()
	m.invoices[inv.ID] = inv
	return nil
}

func (m *mockInvoiceRepo) AddFee(_ context.Context, fee *billing.MedicineFee) error {
	fee.ID = uuid.New()
	m.fees[fee.InvoiceID] = append(m.fees[fee.InvoiceID], fee)
	return nil
}

func (m *mockInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*billing.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, billing.ErrInvoiceNotFound
	}
	return inv, nil
}

func (m *mockInvoiceRepo) GetByRefID(_ context.Context, refID string) (*billing.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.RefID == refID {
			return inv, nil
		}
	}
	return nil, billing.ErrInvoiceNotFound
}

func (m *mockInvoiceRepo) GetFees(_ context.Context, invoiceID uuid.UUID) ([]*billing.MedicineFee, error) {
	return m.fees[invoiceID], nil
}

func (m *mockInvoiceRepo) UpdateStatusByRefID(_ context.Context, refID, status string) (*billing.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.RefID == refID {
			inv.Status = status
			return inv, nil
		}
	}
	return nil, billing.ErrInvoiceNotFound
}

func (m *mockInvoiceRepo) List(_ context.Context, _, _ int) ([]*billing.Invoice, int, error) {
	return nil, 0, nil
}

type mockReceiptRepo struct {
	receipts map[uuid.UUID]*billing.Receipt
}

func (m *mockReceiptRepo) Create(_ context.Context, r *billing.Receipt) error {
	r.ID = uuid.New()
	m.receipts[r.ID] = r
	return nil
}

func (m *mockReceiptRepo) GetByID(_ context.Context, id uuid.UUID) (*billing.Receipt, error) {
	r, ok := m.receipts[id]
	if !ok {
		return nil, billing.ErrReceiptNotFound
	}
	return r, nil
}

func (m *mockReceiptRepo) ListByInvoice(_ context.Context, invoiceID uuid.UUID) ([]*billing.Receipt, error) {
	var out []*billing.Receipt
	for _, r := range m.receipts {
		if r.InvoiceID == invoiceID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fixture struct {
	svc      *Service
	billing  *billing.Service
	gateway  *payment.MockGateway
	sender   *notification.MockSender
	notifier *notification.Dispatcher
}

func newFixture() *fixture {
	billingSvc := billing.NewService(
		&mockInvoiceRepo{
			invoices: make(map[uuid.UUID]*billing.Invoice),
			fees:     make(map[uuid.UUID][]*billing.MedicineFee),
		},
		&mockReceiptRepo{receipts: make(map[uuid.UUID]*billing.Receipt)},
	)
	gateway := &payment.MockGateway{}
	sender := &notification.MockSender{}
	notifier := notification.NewDispatcher(sender)

	return &fixture{
		svc:      NewService(billingSvc, gateway, notifier),
		billing:  billingSvc,
		gateway:  gateway,
		sender:   sender,
		notifier: notifier,
	}
}

func (f *fixture) seedInvoice(t *testing.T) *billing.Invoice {
	t.Helper()
	inv, err := f.billing.CreateInvoice(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	return inv
}

func TestCreatePayment(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t)

	session, err := f.svc.CreatePayment(context.Background(), inv.RefID)
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if session.RedirectURL != payment.DefaultRedirectURL {
		t.Errorf("redirectUrl = %q, want %q", session.RedirectURL, payment.DefaultRedirectURL)
	}
	if f.gateway.Calls() != 1 {
		t.Errorf("gateway sessions = %d, want 1", f.gateway.Calls())
	}
}

func TestCreatePayment_InvoiceNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreatePayment(context.Background(), "INVOICE#0000")
	if !errors.Is(err, billing.ErrInvoiceNotFound) {
		t.Errorf("err = %v, want ErrInvoiceNotFound", err)
	}
	if f.gateway.Calls() != 0 {
		t.Error("gateway must not be called for an unknown invoice")
	}
}

func TestCreatePayment_GatewayFailure(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t)
	f.gateway.ShouldFail = true
	f.gateway.FailError = "gateway timeout"

	if _, err := f.svc.CreatePayment(context.Background(), inv.RefID); err == nil {
		t.Error("expected error when the gateway is down")
	}
}

func TestMakePayment(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t)

	rc, err := f.svc.MakePayment(context.Background(), inv.RefID, "kbank")
	if err != nil {
		t.Fatalf("MakePayment: %v", err)
	}

	if !strings.HasPrefix(rc.RefID, "RECEIPT#") {
		t.Errorf("receipt refId = %q, want RECEIPT# prefix", rc.RefID)
	}
	if rc.Bank != "kbank" {
		t.Errorf("bank = %q, want kbank", rc.Bank)
	}
	if rc.InvoiceID != inv.ID {
		t.Error("receipt not bound to the invoice")
	}

	paid, err := f.billing.GetInvoiceByRefID(context.Background(), inv.RefID)
	if err != nil {
		t.Fatalf("GetInvoiceByRefID: %v", err)
	}
	if paid.Status != billing.StatusPaid {
		t.Errorf("invoice status = %q, want %q", paid.Status, billing.StatusPaid)
	}

	// Patient, doctor, and pharmacist each get the paid broadcast.
	f.notifier.Flush()
	calls := f.sender.Calls()
	if len(calls) != 3 {
		t.Fatalf("got %d notifications, want 3", len(calls))
	}
	seen := make(map[string]bool)
	for _, call := range calls {
		if call.Message != notification.MsgPaymentCompleted {
			t.Errorf("message = %q, want %q", call.Message, notification.MsgPaymentCompleted)
		}
		seen[call.UserID] = true
	}
	for _, userID := range []string{notification.UserPatient, notification.UserDoctor, notification.UserPharmacist} {
		if !seen[userID] {
			t.Errorf("user %q was not notified", userID)
		}
	}
}

func TestMakePayment_InvoiceNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.MakePayment(context.Background(), "INVOICE#0000", "kbank")
	if !errors.Is(err, billing.ErrInvoiceNotFound) {
		t.Errorf("err = %v, want ErrInvoiceNotFound", err)
	}
	f.notifier.Flush()
	if len(f.sender.Calls()) != 0 {
		t.Error("no notification should be sent for an unknown invoice")
	}
}

func TestMakePayment_DoesNotWaitForNotifications(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t)
	f.sender.ShouldFail = true
	f.sender.FailError = "provider unavailable"

	// Delivery failures never fail the payment itself.
	if _, err := f.svc.MakePayment(context.Background(), inv.RefID, "scb"); err != nil {
		t.Fatalf("MakePayment: %v", err)
	}

	f.notifier.Flush()
	stats := f.notifier.Stats()
	if stats["failed"] != 3 {
		t.Errorf("failed notifications = %d, want 3", stats["failed"])
	}
}
