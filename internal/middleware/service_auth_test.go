package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/postqms/branch-queue/internal/model"
	"github.com/postqms/branch-queue/internal/repository"
	"github.com/postqms/branch-queue/internal/utils"
)

type fakeClients struct {
	byHash map[string]model.ServiceClient
}

func (f fakeClients) GetByTokenHash(ctx context.Context, tokenHash string) (model.ServiceClient, error) {
	if c, ok := f.byHash[tokenHash]; ok {
		return c, nil
	}
	return model.ServiceClient{}, repository.ErrNotFound
}

func callServiceAuth(t *testing.T, clients ClientSource, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/departments", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := ServiceAuth(clients)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatal(err)
	}
	return rec, reached
}

func TestServiceAuth(t *testing.T) {
	const secret = "terminal-secret-token"
	clients := fakeClients{byHash: map[string]model.ServiceClient{
		utils.HashToken(secret): {ID: "c1", Name: "terminal"},
	}}

	t.Run("valid token passes", func(t *testing.T) {
		rec, reached := callServiceAuth(t, clients, "Bearer "+secret)
		if !reached || rec.Code != http.StatusOK {
			t.Fatalf("status = %d, reached = %v; want 200 and handler reached", rec.Code, reached)
		}
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		rec, reached := callServiceAuth(t, clients, "Bearer wrong-token")
		if reached || rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, reached = %v; want 401 and handler skipped", rec.Code, reached)
		}
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec, reached := callServiceAuth(t, clients, "")
		if reached || rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, reached = %v; want 401 and handler skipped", rec.Code, reached)
		}
	})

	t.Run("non-bearer scheme rejected", func(t *testing.T) {
		rec, reached := callServiceAuth(t, clients, "Basic dXNlcjpwYXNz")
		if reached || rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, reached = %v; want 401 and handler skipped", rec.Code, reached)
		}
	})
}

func TestJWTAuthAndRequireRole(t *testing.T) {
	const secret = "jwt-secret"
	tok, err := utils.NewAccessToken(secret, "emp-1", "ADMIN", 15)
	if err != nil {
		t.Fatal(err)
	}

	run := func(authHeader, requiredRole string) (*httptest.ResponseRecorder, bool) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/employees", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		reached := false
		h := JWTAuth(secret)(RequireRole(requiredRole)(func(c echo.Context) error {
			reached = true
			return c.NoContent(http.StatusOK)
		}))
		if err := h(c); err != nil {
			t.Fatal(err)
		}
		return rec, reached
	}

	t.Run("admin token reaches admin route", func(t *testing.T) {
		rec, reached := run("Bearer "+tok.Token, "ADMIN")
		if !reached || rec.Code != http.StatusOK {
			t.Fatalf("status = %d, reached = %v", rec.Code, reached)
		}
	})

	t.Run("wrong role forbidden", func(t *testing.T) {
		rec, reached := run("Bearer "+tok.Token, "EMPLOYEE")
		if reached || rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, reached = %v; want 403", rec.Code, reached)
		}
	})

	t.Run("garbage token unauthorized", func(t *testing.T) {
		rec, reached := run("Bearer not.a.jwt", "ADMIN")
		if reached || rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, reached = %v; want 401", rec.Code, reached)
		}
	})
}
