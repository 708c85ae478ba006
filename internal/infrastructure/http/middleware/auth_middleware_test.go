package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/linerunner/internal/usecase/errors"
)

type fakeValidator struct {
	user *entities.User
}

func (f *fakeValidator) ValidateSession(_ context.Context, token string) (*entities.User, error) {
	switch token {
	case "good":
		return f.user, nil
	case "expired":
		return nil, usecaseErrors.ErrTokenExpired
	}
	return nil, usecaseErrors.ErrTokenInvalid
}

func serve(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, *entities.User) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *entities.User
	h := mw(func(c echo.Context) error {
		seen, _ = GetUser(c)
		return c.NoContent(http.StatusOK)
	})
	_ = h(c)
	return rec, seen
}

func TestEchoAuth(t *testing.T) {
	user := entities.NewUser("actor@example.com", "Actor")
	mw := EchoAuth(&fakeValidator{user: user})

	tests := map[string]struct {
		setup  func(r *http.Request)
		status int
	}{
		"missing token": {setup: func(r *http.Request) {}, status: http.StatusUnauthorized},
		"bearer header": {
			setup:  func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer good") },
			status: http.StatusOK,
		},
		"cookie": {
			setup:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "good"}) },
			status: http.StatusOK,
		},
		"query": {
			setup:  func(r *http.Request) { r.URL.RawQuery = "access_token=good" },
			status: http.StatusOK,
		},
		"invalid": {
			setup:  func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer nope") },
			status: http.StatusUnauthorized,
		},
		"expired": {
			setup:  func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer expired") },
			status: http.StatusUnauthorized,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec, seen := serve(mw, req)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status == http.StatusOK && seen != user {
				t.Fatalf("expected user in context")
			}
		})
	}
}

func TestEchoOptionalAuth(t *testing.T) {
	user := entities.NewUser("actor@example.com", "Actor")
	mw := EchoOptionalAuth(&fakeValidator{user: user})

	rec, seen := serve(mw, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || seen != nil {
		t.Fatalf("anonymous request should pass without user, got %d %v", rec.Code, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec, seen = serve(mw, req)
	if rec.Code != http.StatusOK || seen != user {
		t.Fatalf("expected authenticated pass, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer nope")
	rec, _ = serve(mw, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token should be rejected, got %d", rec.Code)
	}
}
