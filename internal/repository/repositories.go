package repository

import (
	"github.com/deppfellow/invoice-dashboard/internal/server"
)

// Repositories is a container for all repository instances.
//
// Every repository shares the single pool owned by the server; none of
// them holds state of its own.
type Repositories struct {
	Revenue   *RevenueRepository
	Invoices  *InvoiceRepository
	Customers *CustomerRepository
}

// NewRepositories constructs the repository container on top of the
// server's database pool.
func NewRepositories(s *server.Server) *Repositories {
	return NewRepositoriesWithDB(s.DB.Pool)
}

// NewRepositoriesWithDB builds the container on any DBTX. Tests use it
// with a mocked pool.
func NewRepositoriesWithDB(db DBTX) *Repositories {
	return &Repositories{
		Revenue:   NewRevenueRepository(db),
		Invoices:  NewInvoiceRepository(db),
		Customers: NewCustomerRepository(db),
	}
}
