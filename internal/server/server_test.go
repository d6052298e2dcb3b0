package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/homestarrealty/buyerhunter/internal/leads"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Options{Extractor: leads.New(nil), Logger: zerolog.Nop(), Version: "test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresExtractor(t *testing.T) {
	if _, err := New(Options{}); err == nil || !strings.Contains(err.Error(), "extractor is required") {
		t.Fatalf("expected extractor error, got %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	s := setupTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "test" {
		t.Fatalf("unexpected %+v", resp)
	}
}

func TestHandleIndex(t *testing.T) {
	s := setupTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Extract Buyers") || !strings.Contains(body, "<textarea") {
		t.Fatalf("form missing:\n%s", body)
	}
}

func TestHandleExtract_ShowsResults(t *testing.T) {
	s := setupTestServer(t)
	rec := postForm(t, s, "/extract", url.Values{"text": {"Looking for Rahul Sharma in Mumbai, +91 9876543210"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Found 1 phone number(s).", "9876543210", "Possible Buyer Names found:", "Rahul, Sharma, Mumbai", "Download CSV"} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q:\n%s", want, body)
		}
	}
}

func TestHandleExtract_NoMatches(t *testing.T) {
	s := setupTestServer(t)
	rec := postForm(t, s, "/extract", url.Values{"text": {"nothing useful here"}})
	body := rec.Body.String()
	if !strings.Contains(body, "No phone numbers found!") || !strings.Contains(body, "No clear buyer names detected.") {
		t.Fatalf("expected empty-result messages:\n%s", body)
	}
	if strings.Contains(body, "Download CSV") {
		t.Fatalf("download should not be offered without phones")
	}
}

func TestHandleExtract_EmptyInput(t *testing.T) {
	s := setupTestServer(t)
	rec := postForm(t, s, "/extract", url.Values{"text": {"   "}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please paste some text above!") {
		t.Fatalf("missing error message")
	}
}

func TestHandleDownloadCSV(t *testing.T) {
	s := setupTestServer(t)
	rec := postForm(t, s, "/download.csv", url.Values{"text": {"9876543210 and 9876543210"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "buyer_contacts.csv") {
		t.Fatalf("content disposition %q", cd)
	}
	if got := rec.Body.String(); got != "Phone Number\n9876543210\n9876543210\n" {
		t.Fatalf("unexpected csv %q", got)
	}
}

func TestHandleAPIExtract(t *testing.T) {
	s := setupTestServer(t)

	t.Run("extracts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(`{"text":"Owner Priya 8123456789"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d", rec.Code)
		}
		var resp ExtractResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp.Phones) != 1 || len(resp.Names) != 1 || resp.Names[0] != "Priya" {
			t.Fatalf("unexpected %+v", resp)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(`{"text":""}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status=%d", rec.Code)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(`{"text":`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status=%d", rec.Code)
		}
	})
}

func TestPrepareHook(t *testing.T) {
	var sawHTML bool
	s, err := New(Options{
		Extractor: leads.New(nil),
		Logger:    zerolog.Nop(),
		Prepare: func(raw string, html bool) string {
			sawHTML = html
			return strings.ReplaceAll(raw, "<b>", " ")
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(`{"text":"<b>Rahul","html":true}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if !sawHTML || !strings.Contains(rec.Body.String(), "Rahul") {
		t.Fatalf("prepare hook not applied: html=%v body=%s", sawHTML, rec.Body.String())
	}
}
