package handler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/deppfellow/invoice-dashboard/internal/errs"
	"github.com/deppfellow/invoice-dashboard/internal/metrics"
	"github.com/deppfellow/invoice-dashboard/internal/middleware"
	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/deppfellow/invoice-dashboard/internal/repository"
	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/deppfellow/invoice-dashboard/internal/service"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceColumns = []string{"id", "customer_id", "name", "email", "image_url", "date", "amount", "status"}

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "development"},
			Server:        config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger:  &logger,
		Metrics: metrics.New(),
	}
}

type testEnv struct {
	echo *echo.Echo
	mock pgxmock.PgxPoolIface
	srv  *server.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	s := newTestServer()
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler

	return &testEnv{echo: e, mock: mock, srv: s}
}

func (env *testEnv) dashboard() *service.DashboardService {
	return service.NewDashboardService(env.srv.Logger, repository.NewRepositoriesWithDB(env.mock), env.srv.Metrics, 0)
}

func (env *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListInvoicesDefaultsToFirstPage(t *testing.T) {
	env := newTestEnv(t)
	h := NewInvoiceHandler(env.srv, env.dashboard())
	env.echo.GET("/invoices", Handle(h.Handler, h.ListInvoices, http.StatusOK))

	date := time.Date(2022, 12, 6, 0, 0, 0, 0, time.UTC)
	env.mock.ExpectQuery(`LIMIT \$2 OFFSET \$3`).
		WithArgs("%lee%", service.ItemsPerPage, 0).
		WillReturnRows(pgxmock.NewRows(invoiceColumns).
			AddRow("inv-1", "cus-1", "Lee Robinson", "lee@robinson.com", "/customers/lee.png", date, int64(20348), model.InvoiceStatusPending))

	rec := env.do(http.MethodGet, "/invoices?query=lee", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rows []model.InvoiceRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, int64(20348), rows[0].Amount)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestListInvoicesSecondPage(t *testing.T) {
	env := newTestEnv(t)
	h := NewInvoiceHandler(env.srv, env.dashboard())
	env.echo.GET("/invoices", Handle(h.Handler, h.ListInvoices, http.StatusOK))

	env.mock.ExpectQuery(`LIMIT \$2 OFFSET \$3`).
		WithArgs("%%", service.ItemsPerPage, 6).
		WillReturnRows(pgxmock.NewRows(invoiceColumns))

	rec := env.do(http.MethodGet, "/invoices?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListInvoicesHugePageIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	h := NewInvoiceHandler(env.srv, env.dashboard())
	env.echo.GET("/invoices", Handle(h.Handler, h.ListInvoices, http.StatusOK))

	rec := env.do(http.MethodGet, "/invoices?page=9223372036854775807", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestListInvoicesRejectsPageZero(t *testing.T) {
	env := newTestEnv(t)
	h := NewInvoiceHandler(env.srv, env.dashboard())
	env.echo.GET("/invoices", Handle(h.Handler, h.ListInvoices, http.StatusOK))

	rec := env.do(http.MethodGet, "/invoices?page=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "page", body.Errors[0].Field)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestListInvoicesStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	h := NewInvoiceHandler(env.srv, env.dashboard())
	env.echo.GET("/invoices", Handle(h.Handler, h.ListInvoices, http.StatusOK))

	env.mock.ExpectQuery(`LIMIT`).WillReturnError(errors.New("dial tcp: connection refused"))

	rec := env.do(http.MethodGet, "/invoices", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch invoices.", decodeError(t, rec).Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestGetPages(t *testing.T) {
	env := newTestEnv(t)
	h := NewInvoiceHandler(env.srv, env.dashboard())
	env.echo.GET("/invoices/pages", Handle(h.Handler, h.GetPages, http.StatusOK))

	env.mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("%%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(13)))

	rec := env.do(http.MethodGet, "/invoices/pages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_pages":3}`, rec.Body.String())
}

func TestGetInvoiceNotFound(t *testing.T) {
	env := newTestEnv(t)
	h := NewInvoiceHandler(env.srv, env.dashboard())
	env.echo.GET("/invoices/:id", Handle(h.Handler, h.GetInvoice, http.StatusOK))

	const id = "2b6d4c1e-3e0f-4a4c-9d0b-3f2f1c1a9e77"
	env.mock.ExpectQuery(`WHERE invoices.id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_id", "amount", "status"}))

	for _, target := range []string{"/invoices/" + id, "/invoices/not-a-uuid"} {
		rec := env.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Equal(t, "INVOICE_NOT_FOUND", decodeError(t, rec).Code, target)
	}
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetInvoice(t *testing.T) {
	env := newTestEnv(t)
	h := NewInvoiceHandler(env.srv, env.dashboard())
	env.echo.GET("/invoices/:id", Handle(h.Handler, h.GetInvoice, http.StatusOK))

	const id = "cc27c14a-0acf-4f4a-a6c9-d45682c144b9"
	env.mock.ExpectQuery(`WHERE invoices.id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_id", "amount", "status"}).
			AddRow(id, "cus-1", int64(125000), model.InvoiceStatusPaid))

	rec := env.do(http.MethodGet, "/invoices/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+id+`","customer_id":"cus-1","amount":"1250","status":"paid"}`, rec.Body.String())
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	h := NewInvoiceHandler(env.srv, env.dashboard())
	env.echo.GET("/invoices/export", HandleFile(h.Handler, h.ExportCSV, http.StatusOK, "invoices.csv", "text/csv"))

	date := time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC)
	env.mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("%%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	env.mock.ExpectQuery(`OFFSET \$3`).
		WithArgs("%%", service.ItemsPerPage, 0).
		WillReturnRows(pgxmock.NewRows(invoiceColumns).
			AddRow("inv-1", "cus-1", "Amy Burns", "amy@burns.com", "/customers/amy.png", date, int64(125000), model.InvoiceStatusPaid))

	rec := env.do(http.MethodGet, "/invoices/export", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "attachment; filename=invoices.csv", rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"inv-1", "cus-1", "Amy Burns", "amy@burns.com", "2023-06-05", "1250.00", "paid"}, records[1])
}

func TestGetCards(t *testing.T) {
	env := newTestEnv(t)
	h := NewDashboardHandler(env.srv, env.dashboard())
	env.echo.GET("/cards", Handle(h.Handler, h.GetCards, http.StatusOK))

	env.mock.MatchExpectationsInOrder(false)
	env.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM invoices`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(15)))
	env.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM customers`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(10)))
	env.mock.ExpectQuery(`AS pending`).
		WillReturnRows(pgxmock.NewRows([]string{"paid", "pending"}).AddRow(int64(1234500), nil))

	rec := env.do(http.MethodGet, "/cards", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"number_of_invoices": 15,
		"number_of_customers": 10,
		"total_paid_invoices": "$12,345.00",
		"total_pending_invoices": "$0.00"
	}`, rec.Body.String())
}

func TestListCustomersTable(t *testing.T) {
	env := newTestEnv(t)
	h := NewCustomerHandler(env.srv, env.dashboard())
	env.echo.GET("/customers/table", Handle(h.Handler, h.ListCustomersTable, http.StatusOK))

	env.mock.ExpectQuery(`LEFT JOIN invoices`).
		WithArgs("%evil%").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "image_url", "total_invoices", "total_pending", "total_paid"}).
			AddRow("cus-9", "Evil Rabbit", "evil@rabbit.com", "/customers/evil.png", int64(0), int64(0), int64(0)))

	rec := env.do(http.MethodGet, "/customers/table?query=evil", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []model.CustomerRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "$0.00", rows[0].TotalPaid)
	assert.Equal(t, int64(0), rows[0].TotalInvoices)
}

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func TestRequestInvoiceReport(t *testing.T) {
	env := newTestEnv(t)
	queue := &fakeQueue{}
	h := NewReportHandler(env.srv, service.NewReportServiceWithQueue(queue))
	env.echo.POST("/reports/invoices", Handle(h.Handler, h.RequestInvoiceReport, http.StatusAccepted))

	rec := env.do(http.MethodPost, "/reports/invoices", `{"to":"ops@acme.com","query":"pending"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"task_id":"task-1"}`, rec.Body.String())
	require.Len(t, queue.tasks, 1)
	assert.JSONEq(t, `{"to":"ops@acme.com","query":"pending"}`, string(queue.tasks[0].Payload()))
}

func TestRequestInvoiceReportValidatesRecipient(t *testing.T) {
	env := newTestEnv(t)
	queue := &fakeQueue{}
	h := NewReportHandler(env.srv, service.NewReportServiceWithQueue(queue))
	env.echo.POST("/reports/invoices", Handle(h.Handler, h.RequestInvoiceReport, http.StatusAccepted))

	rec := env.do(http.MethodPost, "/reports/invoices", `{"to":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, queue.tasks)
}

func TestRequestInvoiceReportQueueDown(t *testing.T) {
	env := newTestEnv(t)
	h := NewReportHandler(env.srv, service.NewReportServiceWithQueue(&fakeQueue{err: errors.New("redis: connection refused")}))
	env.echo.POST("/reports/invoices", Handle(h.Handler, h.RequestInvoiceReport, http.StatusAccepted))

	rec := env.do(http.MethodPost, "/reports/invoices", `{"to":"ops@acme.com"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Reports are temporarily unavailable.", decodeError(t, rec).Message)
}

func TestCheckHealth(t *testing.T) {
	failing := errors.New("down")
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return failing }

	tests := []struct {
		name       string
		checks     []healthCheck
		wantCode   int
		wantStatus string
	}{
		{"all healthy", []healthCheck{{name: "database", critical: true, ping: ok}, {name: "redis", ping: ok}}, http.StatusOK, "healthy"},
		{"redis down", []healthCheck{{name: "database", critical: true, ping: ok}, {name: "redis", ping: fail}}, http.StatusOK, "degraded"},
		{"database down", []healthCheck{{name: "database", critical: true, ping: fail}, {name: "redis", ping: ok}}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(newTestServer())
			h.checks = tt.checks

			e := echo.New()
			e.GET("/status", h.CheckHealth)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

			require.Equal(t, tt.wantCode, rec.Code)
			var body healthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Len(t, body.Checks, len(tt.checks))
		})
	}
}

func TestServeOpenAPISpec(t *testing.T) {
	h := NewOpenAPIHandler(newTestServer())
	e := echo.New()
	e.GET("/docs/openapi.json", h.ServeOpenAPISpec)
	e.GET("/docs", h.ServeOpenAPIUI)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/api/v1/invoices")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/docs/openapi.json")
}
