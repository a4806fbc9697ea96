package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autoshop-system/internal/authz"
	"autoshop-system/pkg/constants"
	"autoshop-system/pkg/service"
	"autoshop-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*echo.Echo, service.JWTService) {
	t.Helper()
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour, zap.NewNop())
	mw := NewAuthMiddleware(jwtSvc, zap.NewNop())

	e := echo.New()
	g := e.Group("/api", mw.Auth)
	g.GET("/me", func(c echo.Context) error {
		actor, err := utils.GetActorFromCtx(c.Request().Context())
		require.NoError(t, err)
		return c.String(http.StatusOK, string(actor.Role))
	})
	g.GET("/reports", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, mw.RequirePermission(authz.ReportsView))
	return e, jwtSvc
}

func call(e *echo.Echo, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuth_RejectsMissingAndMalformedHeaders(t *testing.T) {
	e, _ := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, call(e, "/api/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(e, "/api/me", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, call(e, "/api/me", "Bearer not-a-jwt").Code)
}

func TestAuth_PutsActorIntoContext(t *testing.T) {
	e, jwtSvc := newTestServer(t)
	employeeID := uint64(3)
	access, refresh, err := jwtSvc.GenerateTokens(service.TokenSubject{UserID: 1, Role: constants.RoleMechanic, EmployeeID: &employeeID})
	require.NoError(t, err)

	rec := call(e, "/api/me", "Bearer "+access)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mechanic", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call(e, "/api/me", "Bearer "+refresh).Code)
}

func TestRequirePermission(t *testing.T) {
	e, jwtSvc := newTestServer(t)
	employeeID := uint64(3)

	mechanic, _, err := jwtSvc.GenerateTokens(service.TokenSubject{UserID: 1, Role: constants.RoleMechanic, EmployeeID: &employeeID})
	require.NoError(t, err)
	boss, _, err := jwtSvc.GenerateTokens(service.TokenSubject{UserID: 2, Role: constants.RoleBoss, EmployeeID: &employeeID})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, call(e, "/api/reports", "Bearer "+mechanic).Code)
	assert.Equal(t, http.StatusNoContent, call(e, "/api/reports", "Bearer "+boss).Code)
}
