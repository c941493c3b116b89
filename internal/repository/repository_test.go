package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%%", ContainsPattern(""))
	assert.Equal(t, "%lee%", ContainsPattern("lee"))
	assert.Equal(t, `%50\%%`, ContainsPattern("50%"))
	assert.Equal(t, `%image\_url%`, ContainsPattern("image_url"))
	assert.Equal(t, `%a\\b%`, ContainsPattern(`a\b`))
}

func TestInvoiceListFiltered(t *testing.T) {
	mock := newMock(t)
	repo := NewInvoiceRepository(mock)
	date := time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"id", "customer_id", "name", "email", "image_url", "date", "amount", "status"}).
		AddRow("inv-1", "cus-1", "Lee Robinson", "lee@robinson.com", "/customers/lee.png", date, int64(15795), model.InvoiceStatusPending)

	mock.ExpectQuery(`ILIKE \$1`).
		WithArgs("%lee%", 6, 12).
		WillReturnRows(rows)

	got, err := repo.ListFiltered(context.Background(), "%lee%", 6, 12)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.InvoiceRow{
		ID: "inv-1", CustomerID: "cus-1", Name: "Lee Robinson", Email: "lee@robinson.com",
		ImageURL: "/customers/lee.png", Date: date, Amount: 15795, Status: model.InvoiceStatusPending,
	}, got[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceListFilteredEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewInvoiceRepository(mock)

	mock.ExpectQuery(`ORDER BY invoices.date DESC, invoices.id DESC`).
		WithArgs("%zzz%", 6, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_id", "name", "email", "image_url", "date", "amount", "status"}))

	got, err := repo.ListFiltered(context.Background(), "%zzz%", 6, 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestInvoiceGetByIDNoRows(t *testing.T) {
	mock := newMock(t)
	repo := NewInvoiceRepository(mock)

	mock.ExpectQuery(`WHERE invoices.id = \$1`).
		WithArgs("d6e15727-9fe1-4961-8c5b-ea44a9bd81aa").
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_id", "amount", "status"}))

	_, err := repo.GetByID(context.Background(), "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa")
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}

func TestInvoiceStatusTotalsNull(t *testing.T) {
	mock := newMock(t)
	repo := NewInvoiceRepository(mock)

	mock.ExpectQuery(`AS paid`).
		WillReturnRows(pgxmock.NewRows([]string{"paid", "pending"}).AddRow(nil, int64(5000)))

	paid, pending, err := repo.StatusTotals(context.Background())
	require.NoError(t, err)
	assert.False(t, paid.Valid)
	assert.True(t, pending.Valid)
	assert.Equal(t, int64(5000), pending.Int64)
}

func TestCustomerListFilteredPropagatesError(t *testing.T) {
	mock := newMock(t)
	repo := NewCustomerRepository(mock)
	storeErr := errors.New("relation \"customers\" does not exist")

	mock.ExpectQuery(`LEFT JOIN invoices`).WithArgs("%%").WillReturnError(storeErr)

	_, err := repo.ListFiltered(context.Background(), "%%")
	assert.ErrorIs(t, err, storeErr)
}

func TestRevenueList(t *testing.T) {
	mock := newMock(t)
	repo := NewRevenueRepository(mock)

	mock.ExpectQuery(`SELECT month, revenue FROM revenue`).
		WillReturnRows(pgxmock.NewRows([]string{"month", "revenue"}).
			AddRow("Jan", int64(2000)).
			AddRow("Feb", int64(1800)))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Revenue{{Month: "Jan", Revenue: 2000}, {Month: "Feb", Revenue: 1800}}, got)
}
