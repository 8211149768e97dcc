package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{UserID: "u1", RoleID: "r1", RoleName: RoleHR}

	token, err := GenerateToken(secret, claims, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if parsed.UserID != claims.UserID || parsed.RoleID != claims.RoleID || parsed.RoleName != claims.RoleName {
		t.Fatalf("claims mismatch: %+v", parsed)
	}
}

func TestParseTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateToken("secret-a", Claims{UserID: "u1"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("expected signature error")
	}

	expired, err := GenerateToken("secret-a", Claims{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken("secret-a", expired); err == nil {
		t.Fatal("expected expiry error")
	}
}

type fakeUserStore struct {
	users  map[string]AuthUser
	logins []string
}

func (f *fakeUserStore) FindActiveUserByEmail(_ context.Context, email string) (AuthUser, error) {
	user, ok := f.users[email]
	if !ok {
		return AuthUser{}, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, userID string) error {
	f.logins = append(f.logins, userID)
	return nil
}

func TestLogin(t *testing.T) {
	hash, err := HashPassword("Correct123")
	if err != nil {
		t.Fatal(err)
	}
	store := &fakeUserStore{users: map[string]AuthUser{
		"hr@example.com": {ID: "u1", Email: "hr@example.com", RoleID: "r1", RoleName: RoleHR, Password: hash},
	}}
	svc := NewService(store, "secret", time.Hour)

	session, err := svc.Login(context.Background(), " hr@example.com ", "Correct123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := ParseToken("secret", session.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != "u1" || session.User.Role != RoleHR {
		t.Fatalf("unexpected session: %+v", session)
	}
	if len(store.logins) != 1 {
		t.Fatalf("expected last login update, got %v", store.logins)
	}

	if _, err := svc.Login(context.Background(), "hr@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "Correct123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}
