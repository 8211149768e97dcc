package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hreval/internal/domain/auth"
)

type stubPermissions map[string][]string

func (s stubPermissions) HasPermission(_ context.Context, roleID, permission string) (bool, error) {
	if roleID == "broken" {
		return false, errors.New("db down")
	}
	for _, p := range s[roleID] {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

func TestRequirePermission(t *testing.T) {
	perms := stubPermissions{"hr": {auth.PermEvaluationsWrite}, "emp": {auth.PermEvaluationsRead}}
	handler := RequirePermission(auth.PermEvaluationsWrite, perms)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		roleID string
		anon   bool
		want   int
	}{
		{name: "anonymous", anon: true, want: http.StatusUnauthorized},
		{name: "allowed", roleID: "hr", want: http.StatusNoContent},
		{name: "forbidden", roleID: "emp", want: http.StatusForbidden},
		{name: "store error", roleID: "broken", want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if !tc.anon {
				req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u", RoleID: tc.roleID}))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
