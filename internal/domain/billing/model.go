// Package billing manages invoices, per-medicine fees, and receipts.
package billing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Invoice statuses.
const (
	StatusUnpaid = "UNPAID"
	StatusPaid   = "PAID"
)

// ServiceFee is the flat clinic service charge added to every invoice,
// in Thai baht.
const ServiceFee = 500

var (
	// ErrInvoiceNotFound is returned when an invoice does not exist.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrReceiptNotFound is returned when a receipt does not exist.
	ErrReceiptNotFound = errors.New("receipt not found")
)

// Invoice maps to the invoice table. RefID is the human-facing reference
// the patient pays against, e.g. INVOICE#4821.
type Invoice struct {
	ID             uuid.UUID `db:"id" json:"id"`
	RefID          string    `db:"ref_id" json:"refId"`
	PrescriptionID uuid.UUID `db:"prescription_id" json:"prescriptionId"`
	Status         string    `db:"status" json:"status"`
	ServiceFee     float64   `db:"service_fee" json:"serviceFee"`
	TotalPrice     float64   `db:"total_price" json:"totalPrice"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// MedicineFee maps to the invoice_medicine_fee table: one priced medicine
// line on an invoice.
type MedicineFee struct {
	ID           uuid.UUID `db:"id" json:"id"`
	InvoiceID    uuid.UUID `db:"invoice_id" json:"invoiceId"`
	MedicineName string    `db:"medicine_name" json:"medicineName"`
	Amount       int       `db:"amount" json:"amount"`
	UnitPrice    float64   `db:"unit_price" json:"unitPrice"`
	Price        float64   `db:"price" json:"price"`
}

// Receipt maps to the receipt table. RefID carries the RECEIPT# reference
// handed to the patient after payment.
type Receipt struct {
	ID        uuid.UUID `db:"id" json:"id"`
	RefID     string    `db:"ref_id" json:"refId"`
	InvoiceID uuid.UUID `db:"invoice_id" json:"invoiceId"`
	Bank      string    `db:"bank" json:"bank"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

var validInvoiceStatuses = map[string]bool{
	StatusUnpaid: true,
	StatusPaid:   true,
}

// ValidInvoiceStatus reports whether s is a known invoice status.
func ValidInvoiceStatus(s string) bool {
	return validInvoiceStatuses[s]
}
