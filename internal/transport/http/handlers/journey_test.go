package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hreval/internal/app/server"
	"hreval/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

type record struct {
	ID       string  `json:"id"`
	Period   string  `json:"period"`
	Status   string  `json:"status"`
	Revision int     `json:"revision"`
}

func TestEvaluationLifecycleJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            true,
		MigrationsDir:      "../../../../migrations",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		TokenTTL:           time.Hour,
	}

	ctx := context.Background()
	app, err := server.New(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	var employeeID string
	email := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	if err := app.DB.QueryRow(ctx,
		`INSERT INTO employees (first_name, last_name, email) VALUES ('Journey', 'Tester', $1) RETURNING id::text`,
		email,
	).Scan(&employeeID); err != nil {
		t.Fatalf("failed to insert employee: %v", err)
	}

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	var created []record
	decode(t, send(t, client, http.MethodPost, ts.URL+"/api/v1/employees/"+employeeID+"/evaluations", token, map[string]any{
		"type":        "Quarterly",
		"year":        2024,
		"reviewer_id": "1",
		"date":        "2024-03-01",
	}), &created)
	if len(created) != 4 {
		t.Fatalf("expected 4 quarterly evaluations, got %d", len(created))
	}
	evalURL := ts.URL + "/api/v1/evaluations/" + created[0].ID

	var moved record
	decode(t, send(t, client, http.MethodPost, evalURL+"/status", token, map[string]any{
		"status":   "Pending HoD Approval",
		"revision": created[0].Revision,
	}), &moved)
	if moved.Status != "Pending HoD Approval" {
		t.Fatalf("unexpected status %q", moved.Status)
	}

	send(t, client, http.MethodPost, evalURL+"/objectives", token, map[string]any{
		"title": "Revenue", "description": "Grow", "target": 8, "achieved": 7, "weight": 40,
	})
	send(t, client, http.MethodPost, evalURL+"/objectives", token, map[string]any{
		"title": "Retention", "description": "Keep", "target": 9, "achieved": 8, "weight": 35,
	})

	var detail struct {
		Summary struct {
			ObjectiveScore float64 `json:"objective_score"`
		} `json:"summary"`
	}
	decode(t, send(t, client, http.MethodGet, evalURL, token, nil), &detail)
	if detail.Summary.ObjectiveScore != 8.8 {
		t.Fatalf("expected objective score 8.8, got %v", detail.Summary.ObjectiveScore)
	}

	send(t, client, http.MethodDelete, evalURL, token, nil)

	var remaining []record
	decode(t, send(t, client, http.MethodGet, ts.URL+"/api/v1/employees/"+employeeID+"/evaluations", token, nil), &remaining)
	if len(remaining) != 3 {
		t.Fatalf("expected 3 evaluations after delete, got %d", len(remaining))
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	var payload struct {
		Token string `json:"token"`
	}
	decode(t, send(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}), &payload)
	if payload.Token == "" {
		t.Fatal("expected token")
	}
	return payload.Token
}

func decode(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}

func send(t *testing.T, client *http.Client, method, url, token string, body any) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	var env envelope
	if resp.StatusCode == http.StatusNoContent {
		return env
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}
