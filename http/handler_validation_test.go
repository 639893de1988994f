package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, method, path, body string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec)
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected echo.HTTPError, got %T", err)
	assert.Equal(t, code, httpErr.Code)
}

func TestPostUsersRequiresEmail(t *testing.T) {
	h := &Handler{}

	c := newTestContext(t, http.MethodPost, "/users", `{"name":"no email"}`)
	assertHTTPError(t, h.PostUsers(c), http.StatusBadRequest)
}

func TestPostRedeemPoolsRejectsZeroQuantity(t *testing.T) {
	h := &Handler{}

	c := newTestContext(t, http.MethodPost, "/admin/redeem-pools",
		`{"amount":{"amount":"25.00","currency":"USD"},"quantity":0}`)
	assertHTTPError(t, h.PostRedeemPools(c), http.StatusBadRequest)
}

func TestPostRedeemRequiresCode(t *testing.T) {
	h := &Handler{}

	c := newTestContext(t, http.MethodPost, "/redeem",
		`{"user_id":"e9d9e8a0-77a1-4f0e-a1c7-2c1b47d3c111"}`)
	assertHTTPError(t, h.PostRedeem(c), http.StatusBadRequest)
}

func TestPutKycReviewRejectsUnknownDecision(t *testing.T) {
	h := &Handler{}

	c := newTestContext(t, http.MethodPut, "/admin/kyc/x/review", `{"decision":"maybe"}`)
	c.SetParamNames("application_id")
	c.SetParamValues("e9d9e8a0-77a1-4f0e-a1c7-2c1b47d3c111")

	assertHTTPError(t, h.PutKycReview(c), http.StatusBadRequest)
}

func TestPostEventsValidation(t *testing.T) {
	h := &Handler{}

	c := newTestContext(t, http.MethodPost, "/events",
		`{"title":"","capacity":10,"start_time":"2099-01-01T10:00:00Z"}`)
	assertHTTPError(t, h.PostEvents(c), http.StatusBadRequest)

	c = newTestContext(t, http.MethodPost, "/events",
		`{"title":"Meetup","capacity":0,"start_time":"2099-01-01T10:00:00Z"}`)
	assertHTTPError(t, h.PostEvents(c), http.StatusBadRequest)

	c = newTestContext(t, http.MethodPost, "/events",
		`{"title":"Meetup","capacity":10,"start_time":"2001-01-01T10:00:00Z"}`)
	assertHTTPError(t, h.PostEvents(c), http.StatusBadRequest)
}

func TestGetTicketsRequiresUserID(t *testing.T) {
	h := &Handler{}

	c := newTestContext(t, http.MethodGet, "/tickets", "")
	assertHTTPError(t, h.GetTickets(c), http.StatusBadRequest)
}

func TestPutTicketRefundRejectsInvalidID(t *testing.T) {
	h := &Handler{}

	c := newTestContext(t, http.MethodPut, "/ticket-refund/not-a-uuid", "")
	c.SetParamNames("ticket_id")
	c.SetParamValues("not-a-uuid")

	assertHTTPError(t, h.PutTicketRefund(c), http.StatusBadRequest)
}
