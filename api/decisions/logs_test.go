package decisions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/MathiasVDS1/ProjectManagement/core/decisionlog"
	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

func seedLogStore(t *testing.T) *decisionlog.JSONLStore {
	t.Helper()
	store, err := decisionlog.NewJSONLStore(filepath.Join(t.TempDir(), "decisions.jsonl"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seed := []model.Decision{
		{ID: "d1", Service: model.ServiceNormal, Site: "AT", CreatedAt: base},
		{ID: "d2", Service: model.ServiceExpress, Site: "BE", CreatedAt: base.Add(time.Hour)},
		{ID: "d3", Service: model.ServiceNormal, Site: "AT", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, d := range seed {
		if err := store.Append(context.Background(), d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return store
}

func queryLogs(t *testing.T, h http.Handler, target string) []model.Decision {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var out []model.Decision
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestLogHandlerFilters(t *testing.T) {
	store := seedLogStore(t)
	h := NewLogHandler(store, "tok")

	all := queryLogs(t, h, "/api/decisions")
	if len(all) != 3 {
		t.Fatalf("expected 3 decisions got %d", len(all))
	}

	bySite := queryLogs(t, h, "/api/decisions?site=AT")
	if len(bySite) != 2 {
		t.Fatalf("site filter: expected 2 got %d", len(bySite))
	}

	byService := queryLogs(t, h, "/api/decisions?service=express")
	if len(byService) != 1 || byService[0].ID != "d2" {
		t.Fatalf("service filter: got %+v", byService)
	}

	since := queryLogs(t, h, "/api/decisions?since=2025-03-01T13%3A30%3A00Z")
	if len(since) != 1 || since[0].ID != "d3" {
		t.Fatalf("since filter: got %+v", since)
	}

	until := queryLogs(t, h, "/api/decisions?until=2025-03-01T12%3A30%3A00Z")
	if len(until) != 1 || until[0].ID != "d1" {
		t.Fatalf("until filter: got %+v", until)
	}

	limited := queryLogs(t, h, "/api/decisions?limit=2")
	if len(limited) != 2 || limited[0].ID != "d2" || limited[1].ID != "d3" {
		t.Fatalf("limit filter: got %+v", limited)
	}
}

func TestLogHandlerIgnoresMalformedFilters(t *testing.T) {
	store := seedLogStore(t)
	h := NewLogHandler(store, "tok")

	// Unparseable timestamps and limits fall back to no filtering.
	out := queryLogs(t, h, "/api/decisions?since=yesterday&limit=many")
	if len(out) != 3 {
		t.Fatalf("expected 3 decisions got %d", len(out))
	}
}

func TestLogHandlerAuthAndMethod(t *testing.T) {
	store := seedLogStore(t)
	h := NewLogHandler(store, "tok")

	req := httptest.NewRequest("GET", "/api/decisions", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	req = httptest.NewRequest("POST", "/api/decisions", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}
