package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type invoiceRepoPG struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepoPG returns a PostgreSQL-backed invoice repository.
func NewInvoiceRepoPG(pool *pgxpool.Pool) InvoiceRepository {
	return &invoiceRepoPG{pool: pool}
}

const invoiceCols = "id, ref_id, prescription_id, status, service_fee, total_price, created_at, updated_at"

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.RefID, &inv.PrescriptionID, &inv.Status,
		&inv.ServiceFee, &inv.TotalPrice, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invoice (`+invoiceCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inv.ID, inv.RefID, inv.PrescriptionID, inv.Status,
		inv.ServiceFee, inv.TotalPrice, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepoPG) AddFee(ctx context.Context, fee *MedicineFee) error {
	fee.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invoice_medicine_fee (id, invoice_id, medicine_name, amount, unit_price, price)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		fee.ID, fee.InvoiceID, fee.MedicineName, fee.Amount, fee.UnitPrice, fee.Price)
	if err != nil {
		return fmt.Errorf("insert invoice medicine fee: %w", err)
	}
	return nil
}

func (r *invoiceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+invoiceCols+` FROM invoice WHERE id = $1`, id)
	return scanInvoice(row)
}

// Ref ids are not unique; the oldest match wins.
func (r *invoiceRepoPG) GetByRefID(ctx context.Context, refID string) (*Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+invoiceCols+` FROM invoice WHERE ref_id = $1 ORDER BY created_at LIMIT 1`,
		refID)
	return scanInvoice(row)
}

func (r *invoiceRepoPG) GetFees(ctx context.Context, invoiceID uuid.UUID) ([]*MedicineFee, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, medicine_name, amount, unit_price, price
		 FROM invoice_medicine_fee WHERE invoice_id = $1 ORDER BY medicine_name`,
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice medicine fees: %w", err)
	}
	defer rows.Close()

	var out []*MedicineFee
	for rows.Next() {
		var f MedicineFee
		if err := rows.Scan(&f.ID, &f.InvoiceID, &f.MedicineName, &f.Amount, &f.UnitPrice, &f.Price); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (r *invoiceRepoPG) UpdateStatusByRefID(ctx context.Context, refID, status string) (*Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE invoice SET status = $2, updated_at = $3
		 WHERE id = (SELECT id FROM invoice WHERE ref_id = $1 ORDER BY created_at LIMIT 1)
		 RETURNING `+invoiceCols,
		refID, status, time.Now())
	return scanInvoice(row)
}

func (r *invoiceRepoPG) List(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM invoice`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceCols+` FROM invoice ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, inv)
	}
	return out, total, rows.Err()
}

type receiptRepoPG struct {
	pool *pgxpool.Pool
}

// NewReceiptRepoPG returns a PostgreSQL-backed receipt repository.
func NewReceiptRepoPG(pool *pgxpool.Pool) ReceiptRepository {
	return &receiptRepoPG{pool: pool}
}

const receiptCols = "id, ref_id, invoice_id, bank, created_at"

func scanReceipt(row pgx.Row) (*Receipt, error) {
	var rc Receipt
	if err := row.Scan(&rc.ID, &rc.RefID, &rc.InvoiceID, &rc.Bank, &rc.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}
	return &rc, nil
}

func (r *receiptRepoPG) Create(ctx context.Context, rc *Receipt) error {
	rc.ID = uuid.New()
	rc.CreatedAt = time.Now()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO receipt (`+receiptCols+`) VALUES ($1, $2, $3, $4, $5)`,
		rc.ID, rc.RefID, rc.InvoiceID, rc.Bank, rc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

func (r *receiptRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+receiptCols+` FROM receipt WHERE id = $1`, id)
	return scanReceipt(row)
}

func (r *receiptRepoPG) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Receipt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+receiptCols+` FROM receipt WHERE invoice_id = $1 ORDER BY created_at`,
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var out []*Receipt
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
