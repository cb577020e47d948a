package decisions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

type fakePlanner struct {
	decideErr   error
	scheduleErr error
}

func (f fakePlanner) Decide(_ context.Context, req model.DecisionRequest) (model.Decision, error) {
	if f.decideErr != nil {
		return model.Decision{}, f.decideErr
	}
	return model.Decision{
		ID:       "d1",
		Service:  req.Service,
		Site:     "AT",
		Strategy: "exhaustive",
		Expedite: []string{"P1"},
		Metrics:  model.Metrics{Site: "AT", ExpectedProfit: 950},
	}, nil
}

func (f fakePlanner) BuildSchedule(req model.ScheduleRequest) (model.Schedule, error) {
	if f.scheduleErr != nil {
		return model.Schedule{}, f.scheduleErr
	}
	return model.Schedule{Site: req.Site, TotalDuration: 9}, nil
}

func TestDecideHandler(t *testing.T) {
	h := NewDecideHandler(fakePlanner{}, "tok")

	body := `{"service":"express","site":"AT","missing":{"AT":["P1"]}}`
	req := httptest.NewRequest("POST", "/api/decide", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var d model.Decision
	if err := json.Unmarshal(rr.Body.Bytes(), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.ID != "d1" || d.Site != "AT" || d.Metrics.ExpectedProfit != 950 {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestDecideHandlerAuth(t *testing.T) {
	h := NewDecideHandler(fakePlanner{}, "tok")

	req := httptest.NewRequest("POST", "/api/decide", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	req = httptest.NewRequest("POST", "/api/decide", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer wrong")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestDecideHandlerMethodAndBody(t *testing.T) {
	h := NewDecideHandler(fakePlanner{}, "")

	req := httptest.NewRequest("GET", "/api/decide", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}

	req = httptest.NewRequest("POST", "/api/decide", strings.NewReader(`{not json`))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestDecideHandlerErrorMapping(t *testing.T) {
	h := NewDecideHandler(fakePlanner{decideErr: model.Invalidf("unknown site %q", "NL")}, "")
	req := httptest.NewRequest("POST", "/api/decide", strings.NewReader(`{"service":"normal","site":"NL"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}

	h = NewDecideHandler(fakePlanner{decideErr: fmt.Errorf("catalog corrupted")}, "")
	req = httptest.NewRequest("POST", "/api/decide", strings.NewReader(`{"service":"normal","site":"AT"}`))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rr.Code)
	}
}

func TestScheduleHandler(t *testing.T) {
	h := NewScheduleHandler(fakePlanner{}, "")

	req := httptest.NewRequest("POST", "/api/schedule", strings.NewReader(`{"site":"BE","missing":["P2"]}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var s model.Schedule
	if err := json.Unmarshal(rr.Body.Bytes(), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Site != "BE" || s.TotalDuration != 9 {
		t.Fatalf("unexpected schedule: %+v", s)
	}

	h = NewScheduleHandler(fakePlanner{scheduleErr: model.Invalidf("schedule requires a concrete site")}, "")
	req = httptest.NewRequest("POST", "/api/schedule", strings.NewReader(`{"site":"auto"}`))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthHandler()
	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("unexpected body: %v", resp)
	}
}
