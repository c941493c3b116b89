package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/deppfellow/invoice-dashboard/internal/errs"
	"github.com/deppfellow/invoice-dashboard/internal/lib/currency"
	"github.com/deppfellow/invoice-dashboard/internal/metrics"
	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/deppfellow/invoice-dashboard/internal/repository"
	"github.com/deppfellow/invoice-dashboard/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// ItemsPerPage is the page size of the filtered invoices table.
	ItemsPerPage = 6

	// LatestInvoicesLimit is how many invoices the "latest invoices" card shows.
	LatestInvoicesLimit = 5

	// MaxPage is the highest page whose offset fits in an int. Pages past
	// it are empty.
	MaxPage = math.MaxInt / ItemsPerPage
)

// operation names a dashboard read and the generic message returned when
// the store fails underneath it.
type operation struct {
	name    string
	message string
}

var (
	opFetchRevenue           = operation{"fetch_revenue", "Failed to fetch revenue data."}
	opFetchLatestInvoices    = operation{"fetch_latest_invoices", "Failed to fetch the latest invoices."}
	opFetchCardData          = operation{"fetch_card_data", "Failed to fetch card data."}
	opFetchFilteredInvoices  = operation{"fetch_filtered_invoices", "Failed to fetch invoices."}
	opFetchInvoicesPages     = operation{"fetch_invoices_pages", "Failed to fetch total number of invoices."}
	opFetchInvoiceByID       = operation{"fetch_invoice_by_id", "Failed to fetch invoice."}
	opFetchCustomers         = operation{"fetch_customers", "Failed to fetch all customers."}
	opFetchFilteredCustomers = operation{"fetch_filtered_customers", "Failed to fetch customer table."}
)

// DashboardService implements the read operations behind the invoice
// dashboard. It holds no mutable state and is safe for concurrent use.
type DashboardService struct {
	logger             *zerolog.Logger
	repos              *repository.Repositories
	metrics            *metrics.Metrics
	slowQueryThreshold time.Duration
}

// NewDashboardService builds the service. m may be nil. A zero
// slowQueryThreshold disables slow query warnings.
func NewDashboardService(
	logger *zerolog.Logger,
	repos *repository.Repositories,
	m *metrics.Metrics,
	slowQueryThreshold time.Duration,
) *DashboardService {
	return &DashboardService{
		logger:             logger,
		repos:              repos,
		metrics:            m,
		slowQueryThreshold: slowQueryThreshold,
	}
}

// loggerFor prefers the request-scoped logger carried by ctx.
func (s *DashboardService) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

// finish records the outcome of op. A store error is logged with full
// detail and replaced by the operation's DataAccessError.
func (s *DashboardService) finish(ctx context.Context, op operation, start time.Time, err error) error {
	duration := time.Since(start)
	logger := s.loggerFor(ctx)

	if err == nil {
		s.metrics.ObserveQuery(op.name, duration, "")
		if s.slowQueryThreshold > 0 && duration > s.slowQueryThreshold {
			logger.Warn().
				Str("operation", op.name).
				Dur("duration", duration).
				Dur("threshold", s.slowQueryThreshold).
				Msg("slow dashboard query")
		}
		return nil
	}

	code, sqlstate := sqlerr.Classify(err)
	s.metrics.ObserveQuery(op.name, duration, string(code))

	logger.Error().
		Err(err).
		Str("operation", op.name).
		Str("error_code", string(code)).
		Str("sqlstate", sqlstate).
		Dur("duration", duration).
		Msg("database error")

	return errs.NewDataAccessError(op.name, op.message)
}

// FetchRevenue returns the monthly revenue series in store order.
func (s *DashboardService) FetchRevenue(ctx context.Context) ([]model.Revenue, error) {
	start := time.Now()

	revenue, err := s.repos.Revenue.List(ctx)
	if err := s.finish(ctx, opFetchRevenue, start, err); err != nil {
		return nil, err
	}
	return revenue, nil
}

// FetchLatestInvoices returns the five most recent invoices with their
// amounts formatted as currency.
func (s *DashboardService) FetchLatestInvoices(ctx context.Context) ([]model.LatestInvoice, error) {
	start := time.Now()

	raw, err := s.repos.Invoices.ListLatest(ctx, LatestInvoicesLimit)
	if err := s.finish(ctx, opFetchLatestInvoices, start, err); err != nil {
		return nil, err
	}

	out := make([]model.LatestInvoice, 0, len(raw))
	for _, inv := range raw {
		out = append(out, model.LatestInvoice{
			ID:       inv.ID,
			Name:     inv.Name,
			ImageURL: inv.ImageURL,
			Email:    inv.Email,
			Amount:   currency.Format(inv.Amount),
		})
	}
	return out, nil
}

// FetchCardData runs the invoice count, customer count and status totals
// queries concurrently. If any of them fails the whole call fails.
func (s *DashboardService) FetchCardData(ctx context.Context) (model.CardData, error) {
	start := time.Now()

	var (
		invoiceCount  int64
		customerCount int64
		totals        struct{ paid, pending int64 }
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invoiceCount, err = s.repos.Invoices.CountAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customerCount, err = s.repos.Customers.CountAll(gctx)
		return err
	})
	g.Go(func() error {
		paid, pending, err := s.repos.Invoices.StatusTotals(gctx)
		if err != nil {
			return err
		}
		// SUM over an empty table is NULL.
		if paid.Valid {
			totals.paid = paid.Int64
		}
		if pending.Valid {
			totals.pending = pending.Int64
		}
		return nil
	})

	if err := s.finish(ctx, opFetchCardData, start, g.Wait()); err != nil {
		return model.CardData{}, err
	}

	return model.CardData{
		NumberOfInvoices:     invoiceCount,
		NumberOfCustomers:    customerCount,
		TotalPaidInvoices:    currency.Format(totals.paid),
		TotalPendingInvoices: currency.Format(totals.pending),
	}, nil
}

// FetchFilteredInvoices returns page currentPage (1-based) of the
// invoices matching query, newest first. Pages below 1 are treated as 1;
// pages past MaxPage are empty without querying. Amounts stay in minor
// units.
func (s *DashboardService) FetchFilteredInvoices(ctx context.Context, query string, currentPage int) ([]model.InvoiceRow, error) {
	start := time.Now()

	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > MaxPage {
		return []model.InvoiceRow{}, nil
	}
	offset := (currentPage - 1) * ItemsPerPage

	rows, err := s.repos.Invoices.ListFiltered(ctx, repository.ContainsPattern(query), ItemsPerPage, offset)
	if err := s.finish(ctx, opFetchFilteredInvoices, start, err); err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchInvoicesPages returns how many pages FetchFilteredInvoices has for
// query. It is 0 when nothing matches.
func (s *DashboardService) FetchInvoicesPages(ctx context.Context, query string) (int, error) {
	start := time.Now()

	count, err := s.repos.Invoices.CountFiltered(ctx, repository.ContainsPattern(query))
	if err := s.finish(ctx, opFetchInvoicesPages, start, err); err != nil {
		return 0, err
	}
	return TotalPages(count), nil
}

// TotalPages is ceil(count / ItemsPerPage).
func TotalPages(count int64) int {
	return int((count + ItemsPerPage - 1) / ItemsPerPage)
}

// FetchInvoiceByID returns the edit form for an invoice with its amount in
// major units. An unknown or malformed id yields (nil, nil).
func (s *DashboardService) FetchInvoiceByID(ctx context.Context, id string) (*model.InvoiceForm, error) {
	if _, err := uuid.Parse(id); err != nil {
		s.loggerFor(ctx).Debug().
			Str("operation", opFetchInvoiceByID.name).
			Str("invoice_id", id).
			Msg("invoice id is not a uuid, treating as absent")
		return nil, nil
	}

	start := time.Now()

	inv, err := s.repos.Invoices.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, s.finish(ctx, opFetchInvoiceByID, start, nil)
	}
	if err := s.finish(ctx, opFetchInvoiceByID, start, err); err != nil {
		return nil, err
	}

	return &model.InvoiceForm{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Amount:     currency.ToMajor(inv.Amount),
		Status:     inv.Status,
	}, nil
}

// FetchCustomers returns every customer as an {id, name} pair ordered by
// name.
func (s *DashboardService) FetchCustomers(ctx context.Context) ([]model.CustomerField, error) {
	start := time.Now()

	customers, err := s.repos.Customers.ListAll(ctx)
	if err := s.finish(ctx, opFetchCustomers, start, err); err != nil {
		return nil, err
	}
	return customers, nil
}

// FetchFilteredCustomers returns the customers whose name or email
// matches query, each with its invoice count and formatted pending and
// paid totals. Customers without invoices are included with zero totals.
func (s *DashboardService) FetchFilteredCustomers(ctx context.Context, query string) ([]model.CustomerRow, error) {
	start := time.Now()

	aggregates, err := s.repos.Customers.ListFiltered(ctx, repository.ContainsPattern(query))
	if err := s.finish(ctx, opFetchFilteredCustomers, start, err); err != nil {
		return nil, err
	}

	out := make([]model.CustomerRow, 0, len(aggregates))
	for _, c := range aggregates {
		out = append(out, model.CustomerRow{
			ID:            c.ID,
			Name:          c.Name,
			Email:         c.Email,
			ImageURL:      c.ImageURL,
			TotalInvoices: c.TotalInvoices,
			TotalPending:  currency.Format(c.TotalPending),
			TotalPaid:     currency.Format(c.TotalPaid),
		})
	}
	return out, nil
}

// CollectInvoices walks every page of FetchFilteredInvoices for query and
// returns the concatenated rows.
func (s *DashboardService) CollectInvoices(ctx context.Context, query string) ([]model.InvoiceRow, error) {
	pages, err := s.FetchInvoicesPages(ctx, query)
	if err != nil {
		return nil, err
	}

	all := make([]model.InvoiceRow, 0, pages*ItemsPerPage)
	for page := 1; page <= pages; page++ {
		rows, err := s.FetchFilteredInvoices(ctx, query, page)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}
