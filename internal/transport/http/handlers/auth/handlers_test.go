package authhandler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hreval/internal/domain/auth"
	"hreval/internal/transport/http/middleware"
)

type stubLogin struct {
	err error
}

func (s stubLogin) Login(_ context.Context, email, _ string) (auth.Session, error) {
	if s.err != nil {
		return auth.Session{}, s.err
	}
	return auth.Session{Token: "tok", User: auth.LoginUser{ID: "u1", Email: email, Role: auth.RoleHR}}, nil
}

func TestHandleLogin(t *testing.T) {
	tests := []struct {
		name string
		svc  stubLogin
		body string
		want int
	}{
		{name: "success", body: `{"email":"hr@example.com","password":"pw"}`, want: http.StatusOK},
		{name: "missing password", body: `{"email":"hr@example.com"}`, want: http.StatusBadRequest},
		{name: "malformed", body: `{"email":`, want: http.StatusBadRequest},
		{name: "bad credentials", svc: stubLogin{err: auth.ErrInvalidCredentials}, body: `{"email":"hr@example.com","password":"pw"}`, want: http.StatusUnauthorized},
		{name: "store failure", svc: stubLogin{err: errors.New("db down")}, body: `{"email":"hr@example.com","password":"pw"}`, want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(tc.svc)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			h.HandleLogin(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleMe(t *testing.T) {
	h := NewHandler(stubLogin{})

	rec := httptest.NewRecorder()
	h.HandleMe(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", RoleName: auth.RoleHR}))
	rec = httptest.NewRecorder()
	h.HandleMe(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
