package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/invoice-dashboard/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageRequest struct {
	Query string `query:"query" validate:"max=100"`
	Page  int    `query:"page" validate:"min=1"`
}

func (r *pageRequest) Validate() error { return Struct(r) }

type reportRequest struct {
	To string `json:"to" validate:"required,email"`
}

func (r *reportRequest) Validate() error { return Struct(r) }

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "range", Message: "from must precede to"}}
}

func newContext(method, target, body string) echo.Context {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidateQuery(t *testing.T) {
	req := &pageRequest{}
	require.NoError(t, BindAndValidate(newContext(http.MethodGet, "/invoices?query=lee&page=2", ""), req))
	assert.Equal(t, "lee", req.Query)
	assert.Equal(t, 2, req.Page)
}

func TestBindAndValidateReportsFieldNames(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodGet, "/invoices?page=0", ""), &pageRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, errs.FieldError{Field: "page", Error: "must be at least 1"}, httpErr.Errors[0])
}

func TestBindAndValidateBadType(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodGet, "/invoices?page=abc", ""), &pageRequest{Page: 1})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidateJSONBody(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodPost, "/reports", `{"to":"not-an-email"}`), &reportRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "to", httpErr.Errors[0].Field)
	assert.Equal(t, "must be a valid email address", httpErr.Errors[0].Error)
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	err := BindAndValidate(newContext(http.MethodGet, "/", ""), &customRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, []errs.FieldError{{Field: "range", Error: "from must precede to"}}, httpErr.Errors)
}
