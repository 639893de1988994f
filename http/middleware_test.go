package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role string, subject string, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": role,
		"sub":  subject,
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func callWithAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	return rec, AdminAuth(testSecret)(next)(c)
}

func TestAdminAuthMissingToken(t *testing.T) {
	_, err := callWithAuth(t, "")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAdminAuthWrongSecret(t *testing.T) {
	token := signToken(t, "admin", uuid.NewString(), "other-secret")
	_, err := callWithAuth(t, "Bearer "+token)
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAdminAuthWrongRole(t *testing.T) {
	token := signToken(t, "member", uuid.NewString(), testSecret)
	_, err := callWithAuth(t, "Bearer "+token)
	assertHTTPError(t, err, http.StatusForbidden)
}

func TestAdminAuthValidToken(t *testing.T) {
	adminID := uuid.NewString()
	token := signToken(t, "admin", adminID, testSecret)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/settings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seenAdminID uuid.UUID
	next := func(c echo.Context) error {
		seenAdminID = adminIDFromContext(c)
		return c.NoContent(http.StatusOK)
	}

	err := AdminAuth(testSecret)(next)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, adminID, seenAdminID.String())
}
