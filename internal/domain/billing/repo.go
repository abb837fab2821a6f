package billing

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository persists invoices and their medicine fee lines.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	AddFee(ctx context.Context, fee *MedicineFee) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetByRefID(ctx context.Context, refID string) (*Invoice, error)
	GetFees(ctx context.Context, invoiceID uuid.UUID) ([]*MedicineFee, error)
	// UpdateStatusByRefID sets the status of the invoice with the given
	// reference and returns the updated row.
	UpdateStatusByRefID(ctx context.Context, refID, status string) (*Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*Invoice, int, error)
}

// ReceiptRepository persists receipts.
type ReceiptRepository interface {
	Create(ctx context.Context, r *Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Receipt, error)
}
