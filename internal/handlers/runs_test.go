package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"heatkeeper/internal/models"
	"heatkeeper/internal/service"
)

func TestRunsHandler_ListAndValidation(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	events := []models.RunEvent{
		{EventID: "e1", RunID: "r1", OccurredAt: now, UserID: 1, Action: "SET_LEVEL", Outcome: "OK"},
		{EventID: "e2", RunID: "r1", OccurredAt: now.Add(1 * time.Second), UserID: 2, Action: "NOOP", Outcome: "OK"},
	}
	runlog := &mockRunLog{resp: events}
	r := newTestRouter(&service.Service{RunLog: runlog})

	// Invalid 'from'
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/?from=notatime", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'from', got %d", w.Code)
	}

	// Valid range; lowercase outcome normalized to upper in the service call
	w = httptest.NewRecorder()
	q := "/api/v1/runs/?from=" + now.Format(time.RFC3339) + "&to=" + now.Add(2*time.Second).Format(time.RFC3339) + "&outcome=ok"
	req = httptest.NewRequest(http.MethodGet, q, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("runs status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int               `json:"count"`
		Events []models.RunEvent `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if runlog.lastOutcome != "OK" {
		t.Fatalf("expected lastOutcome OK, got %q", runlog.lastOutcome)
	}
}

func TestRunsHandler_DateOnlyToIsEndOfDay(t *testing.T) {
	runlog := &mockRunLog{}
	r := newTestRouter(&service.Service{RunLog: runlog})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/?to=2025-11-04", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	wantDay := time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC)
	if !runlog.lastTo.After(wantDay.Add(23 * time.Hour)) {
		t.Fatalf("date-only 'to' not extended to end of day: %v", runlog.lastTo)
	}
}

func TestRunsHandler_InvertedRange(t *testing.T) {
	r := newTestRouter(&service.Service{RunLog: &mockRunLog{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/?from=2025-11-05&to=2025-11-04", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on inverted range, got %d", w.Code)
	}
}
