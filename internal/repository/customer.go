package repository

import (
	"context"

	"github.com/deppfellow/invoice-dashboard/internal/model"
)

type CustomerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const listCustomersSQL = `
SELECT id, name
  FROM customers
 ORDER BY name ASC`

// The LEFT JOIN keeps customers without invoices: their single joined
// row has NULL invoice columns, which COUNT skips and the CASE turns
// into 0.
const listFilteredCustomersSQL = `
SELECT customers.id, customers.name, customers.email, customers.image_url,
       COUNT(invoices.id) AS total_invoices,
       COALESCE(SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END), 0) AS total_pending,
       COALESCE(SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END), 0) AS total_paid
  FROM customers
  LEFT JOIN invoices ON customers.id = invoices.customer_id
 WHERE customers.name ILIKE $1
    OR customers.email ILIKE $1
 GROUP BY customers.id, customers.name, customers.email, customers.image_url
 ORDER BY customers.name ASC, customers.id ASC`

const countCustomersSQL = `SELECT COUNT(*) FROM customers`

// ListAll returns every customer ordered by name.
func (r *CustomerRepository) ListAll(ctx context.Context) ([]model.CustomerField, error) {
	rows, err := r.db.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CustomerField{}
	for rows.Next() {
		var c model.CustomerField
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListFiltered returns customers whose name or email matches pattern,
// with their invoice count and pending/paid sums in minor units.
func (r *CustomerRepository) ListFiltered(ctx context.Context, pattern string) ([]model.CustomerAggregate, error) {
	rows, err := r.db.Query(ctx, listFilteredCustomersSQL, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CustomerAggregate{}
	for rows.Next() {
		var c model.CustomerAggregate
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.ImageURL,
			&c.TotalInvoices, &c.TotalPending, &c.TotalPaid,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountAll counts every customer.
func (r *CustomerRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, countCustomersSQL).Scan(&count)
	return count, err
}
