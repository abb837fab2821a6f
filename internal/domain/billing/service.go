package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opd/opd/pkg/refid"
)

// Service implements billing business rules.
type Service struct {
	invoices InvoiceRepository
	receipts ReceiptRepository
}

// NewService returns a billing service backed by the given repositories.
func NewService(invoices InvoiceRepository, receipts ReceiptRepository) *Service {
	return &Service{invoices: invoices, receipts: receipts}
}

// CreateInvoice stores a new UNPAID invoice for a prescription, with one fee
// line per medicine. The total is the flat service fee plus the sum of the
// fee lines; a fresh INVOICE# reference is assigned.
func (s *Service) CreateInvoice(ctx context.Context, prescriptionID uuid.UUID, fees []*MedicineFee) (*Invoice, error) {
	inv := &Invoice{
		RefID:          refid.NewInvoice(),
		PrescriptionID: prescriptionID,
		Status:         StatusUnpaid,
		ServiceFee:     ServiceFee,
	}

	total := float64(ServiceFee)
	for _, f := range fees {
		f.Price = float64(f.Amount) * f.UnitPrice
		total += f.Price
	}
	inv.TotalPrice = total

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	for _, f := range fees {
		f.InvoiceID = inv.ID
		if err := s.invoices.AddFee(ctx, f); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// GetInvoice returns one invoice by id.
func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

// GetInvoiceByRefID returns the invoice carrying the given INVOICE#
// reference.
func (s *Service) GetInvoiceByRefID(ctx context.Context, refID string) (*Invoice, error) {
	return s.invoices.GetByRefID(ctx, refID)
}

// GetInvoiceFees returns the medicine fee lines of an invoice.
func (s *Service) GetInvoiceFees(ctx context.Context, invoiceID uuid.UUID) ([]*MedicineFee, error) {
	return s.invoices.GetFees(ctx, invoiceID)
}

// ListInvoices returns a page of invoices, newest first, with the total count.
func (s *Service) ListInvoices(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.List(ctx, limit, offset)
}

// UpdateInvoiceStatusByRefID sets the status of the invoice with the given
// reference and returns the updated invoice.
func (s *Service) UpdateInvoiceStatusByRefID(ctx context.Context, refID, status string) (*Invoice, error) {
	if !ValidInvoiceStatus(status) {
		return nil, fmt.Errorf("invalid invoice status %q", status)
	}
	return s.invoices.UpdateStatusByRefID(ctx, refID, status)
}

// CreateReceipt stores a receipt for a paid invoice, assigning a fresh
// RECEIPT# reference.
func (s *Service) CreateReceipt(ctx context.Context, invoiceID uuid.UUID, bank string) (*Receipt, error) {
	if bank == "" {
		return nil, fmt.Errorf("bank is required")
	}
	rc := &Receipt{
		RefID:     refid.NewReceipt(),
		InvoiceID: invoiceID,
		Bank:      bank,
	}
	if err := s.receipts.Create(ctx, rc); err != nil {
		return nil, err
	}
	return rc, nil
}

// GetReceipt returns one receipt by id.
func (s *Service) GetReceipt(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	return s.receipts.GetByID(ctx, id)
}

// ListReceiptsByInvoice returns the receipts issued against an invoice.
func (s *Service) ListReceiptsByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Receipt, error) {
	return s.receipts.ListByInvoice(ctx, invoiceID)
}
