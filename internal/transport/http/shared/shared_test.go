package shared

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidatorIssuesSorted(t *testing.T) {
	v := NewValidator()
	v.Required("title", " ", "Title is required")
	v.Add("description", "Description is required")
	v.Add("year", "must be a 4-digit year")
	v.Add("quarter", "is required")

	issues := v.Issues()
	if len(issues) != 4 {
		t.Fatalf("expected 4 issues, got %v", issues)
	}
	if issues[0].Field != "description" || issues[3].Field != "year" {
		t.Fatalf("issues not sorted: %v", issues)
	}
}

func TestValidatorRejectWritesEnvelope(t *testing.T) {
	v := NewValidator()
	if v.Reject(httptest.NewRecorder(), "r") {
		t.Fatal("empty validator must not reject")
	}
	if _, ok := v.Date("date", "bad"); ok {
		t.Fatal("expected date issue")
	}
	if !v.Has("date") || v.Has("status") {
		t.Fatalf("unexpected issues: %v", v.Issues())
	}
	rec := httptest.NewRecorder()
	if !v.Reject(rec, "r") || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 rejection, got %d", rec.Code)
	}
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2024-03-01", "2024-03-01T00:00:00Z"} {
		got, err := ParseDate(raw)
		if err != nil || got.Year() != 2024 || got.Month() != 3 {
			t.Fatalf("parse %q: %v %v", raw, got, err)
		}
	}
	if _, err := ParseDate("03/01/2024"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500&offset=-1", nil)
	p := ParsePagination(req, 50, 200)
	if p.Limit != 200 || p.Offset != 0 {
		t.Fatalf("unexpected pagination %+v", p)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Weight int `json:"weight"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"weight": 40}`))
	if !DecodeJSON(rec, req, &dst, "") || dst.Weight != 40 {
		t.Fatalf("expected decode, got %+v", dst)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"weight": "heavy"}`))
	if DecodeJSON(rec, req, &dst, "") || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected type error, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"weight": 1, "extra": true}`))
	if DecodeJSON(rec, req, &dst, "") || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected unknown field rejection, got %d", rec.Code)
	}
}
