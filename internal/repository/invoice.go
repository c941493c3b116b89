package repository

import (
	"context"

	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/jackc/pgx/v5/pgtype"
)

type InvoiceRepository struct {
	db DBTX
}

func NewInvoiceRepository(db DBTX) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// invoiceFilter matches $1 (an ILIKE pattern) against every searchable
// column of the joined invoice/customer view.
const invoiceFilter = `
  WHERE customers.name ILIKE $1
     OR customers.email ILIKE $1
     OR invoices.amount::text ILIKE $1
     OR invoices.date::text ILIKE $1
     OR invoices.status ILIKE $1`

const listLatestInvoicesSQL = `
SELECT invoices.id, customers.name, customers.image_url, customers.email, invoices.amount
  FROM invoices
  JOIN customers ON invoices.customer_id = customers.id
 ORDER BY invoices.date DESC, invoices.id DESC
 LIMIT $1`

const listFilteredInvoicesSQL = `
SELECT invoices.id, invoices.customer_id, customers.name, customers.email, customers.image_url,
       invoices.date, invoices.amount, invoices.status
  FROM invoices
  JOIN customers ON invoices.customer_id = customers.id` + invoiceFilter + `
 ORDER BY invoices.date DESC, invoices.id DESC
 LIMIT $2 OFFSET $3`

const countFilteredInvoicesSQL = `
SELECT COUNT(*)
  FROM invoices
  JOIN customers ON invoices.customer_id = customers.id` + invoiceFilter

const getInvoiceByIDSQL = `
SELECT invoices.id, invoices.customer_id, invoices.amount, invoices.status
  FROM invoices
 WHERE invoices.id = $1`

const countInvoicesSQL = `SELECT COUNT(*) FROM invoices`

const invoiceStatusTotalsSQL = `
SELECT SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END) AS paid,
       SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END) AS pending
  FROM invoices`

// ListLatest returns the most recent invoices joined with their customer.
func (r *InvoiceRepository) ListLatest(ctx context.Context, limit int) ([]model.LatestInvoiceRaw, error) {
	rows, err := r.db.Query(ctx, listLatestInvoicesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.LatestInvoiceRaw{}
	for rows.Next() {
		var inv model.LatestInvoiceRaw
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.ImageURL, &inv.Email, &inv.Amount); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// ListFiltered returns one page of invoices matching pattern, newest
// first. Invoice id breaks ties on equal dates so pages never overlap.
func (r *InvoiceRepository) ListFiltered(ctx context.Context, pattern string, limit, offset int) ([]model.InvoiceRow, error) {
	rows, err := r.db.Query(ctx, listFilteredInvoicesSQL, pattern, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.InvoiceRow{}
	for rows.Next() {
		var inv model.InvoiceRow
		if err := rows.Scan(
			&inv.ID, &inv.CustomerID, &inv.Name, &inv.Email, &inv.ImageURL,
			&inv.Date, &inv.Amount, &inv.Status,
		); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// CountFiltered counts the invoices matching pattern.
func (r *InvoiceRepository) CountFiltered(ctx context.Context, pattern string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, countFilteredInvoicesSQL, pattern).Scan(&count)
	return count, err
}

// GetByID returns the invoice with the given id, or pgx.ErrNoRows.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (model.InvoiceRecord, error) {
	var inv model.InvoiceRecord
	err := r.db.QueryRow(ctx, getInvoiceByIDSQL, id).
		Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &inv.Status)
	return inv, err
}

// CountAll counts every invoice.
func (r *InvoiceRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, countInvoicesSQL).Scan(&count)
	return count, err
}

// StatusTotals sums invoice amounts per status. Both sums are NULL when
// the invoices table is empty.
func (r *InvoiceRepository) StatusTotals(ctx context.Context) (paid, pending pgtype.Int8, err error) {
	err = r.db.QueryRow(ctx, invoiceStatusTotalsSQL).Scan(&paid, &pending)
	return paid, pending, err
}
