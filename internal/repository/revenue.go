package repository

import (
	"context"

	"github.com/deppfellow/invoice-dashboard/internal/model"
)

type RevenueRepository struct {
	db DBTX
}

func NewRevenueRepository(db DBTX) *RevenueRepository {
	return &RevenueRepository{db: db}
}

const listRevenueSQL = `SELECT month, revenue FROM revenue`

// List returns every revenue row in the store's natural order.
func (r *RevenueRepository) List(ctx context.Context) ([]model.Revenue, error) {
	rows, err := r.db.Query(ctx, listRevenueSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Revenue{}
	for rows.Next() {
		var rev model.Revenue
		if err := rows.Scan(&rev.Month, &rev.Revenue); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}
