//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopsim/pkg/utils"

	"github.com/labstack/echo/v4"
)

func authTestRequest(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	utils.InitJWT("test-secret")

	rec := authTestRequest(t, "", AuthMiddleware())
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	utils.InitJWT("test-secret")

	rec := authTestRequest(t, "Token abc", AuthMiddleware())
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	utils.InitJWT("test-secret")

	token, err := utils.GenerateJWT("user-1", "USER", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	rec := authTestRequest(t, "Bearer "+token, AuthMiddleware())
	if rec.Code == http.StatusOK {
		t.Error("expired token passed the middleware")
	}
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	utils.InitJWT("test-secret")

	token, err := utils.GenerateJWT("user-1", "USER", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	rec := authTestRequest(t, "Bearer "+token, AuthMiddleware())
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestAdminOnlyBlocksNonAdmin(t *testing.T) {
	utils.InitJWT("test-secret")

	token, err := utils.GenerateJWT("user-1", "USER", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	rec := authTestRequest(t, "Bearer "+token, AuthMiddleware(), AdminOnly())
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	utils.InitJWT("test-secret")

	token, err := utils.GenerateJWT("user-1", "ADMIN", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	rec := authTestRequest(t, "Bearer "+token, AuthMiddleware(), AdminOnly())
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
