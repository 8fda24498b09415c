package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/slipcast-io/slipcast/pkg/engine"
	"github.com/slipcast-io/slipcast/pkg/store"
)

type mockStore struct {
	records []*store.AnalysisRecord
	pruned  int64
}

func (m *mockStore) AppendAnalysis(ctx context.Context, rec *store.AnalysisRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *mockStore) RecentAnalyses(ctx context.Context, limit int) ([]*store.AnalysisRecord, error) {
	if limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *mockStore) PruneAnalyses(ctx context.Context, retention time.Duration) (int64, error) {
	return m.pruned, nil
}

func newTestServer() (*Server, *mockStore) {
	st := &mockStore{}
	return NewServer(engine.New(nil), st, ":0"), st
}

func TestHandleCriticalPath(t *testing.T) {
	s, st := newTestServer()

	body := `{"nodes":["A","B","C"],"edges":[{"source":"A","target":"B","weight":2},{"source":"B","target":"C","weight":3}]}`
	req := httptest.NewRequest("POST", "/v1/critical-path", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCriticalPath(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result engine.CriticalPathResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.TotalWeight != 5 {
		t.Errorf("Expected total weight 5, got %v", result.TotalWeight)
	}
	if len(result.Path) != 3 {
		t.Errorf("Expected 3-node path, got %v", result.Path)
	}

	if len(st.records) != 1 {
		t.Fatalf("Expected 1 audit record, got %d", len(st.records))
	}
	if st.records[0].Kind != store.KindCriticalPath || st.records[0].Outcome != "ok" {
		t.Errorf("Unexpected audit record: %+v", st.records[0])
	}
}

func TestHandleCriticalPath_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("GET", "/v1/critical-path", nil)
	w := httptest.NewRecorder()

	s.handleCriticalPath(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}

func TestHandleCriticalPath_InvalidBody(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("POST", "/v1/critical-path", strings.NewReader("not json"))
	w := httptest.NewRecorder()

	s.handleCriticalPath(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestHandleCascadeImpact(t *testing.T) {
	s, st := newTestServer()

	body := `{"workItemId":"A","nodes":["A","B"],"edges":[{"source":"A","target":"B","weight":4}]}`
	req := httptest.NewRequest("POST", "/v1/cascade-impact", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCascadeImpact(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result engine.CascadeImpactResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.TotalDelay != 4 {
		t.Errorf("Expected total delay 4, got %v", result.TotalDelay)
	}
	if len(st.records) != 1 || st.records[0].Kind != store.KindCascadeImpact {
		t.Errorf("Expected one cascade_impact audit record, got %+v", st.records)
	}
}

func TestHandleCascadeImpact_MissingWorkItemID(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("POST", "/v1/cascade-impact", strings.NewReader(`{"nodes":["A"]}`))
	w := httptest.NewRecorder()

	s.handleCascadeImpact(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestHandleCascadeImpact_UnknownSourceIsLogicalError(t *testing.T) {
	s, st := newTestServer()

	// Source not in the graph: still a 200, with the error in the body.
	body := `{"workItemId":"Z","nodes":["A","B"],"edges":[]}`
	req := httptest.NewRequest("POST", "/v1/cascade-impact", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCascadeImpact(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var result engine.CascadeImpactResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Error == "" {
		t.Error("Expected error field in response body")
	}
	if len(st.records) != 1 || st.records[0].Outcome != "error" {
		t.Errorf("Expected audit outcome error, got %+v", st.records)
	}
}

func TestHandleRisk_DefaultsForOmittedFactors(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("POST", "/v1/risk", strings.NewReader(`{"teamVelocity":100}`))
	w := httptest.NewRecorder()

	s.handleRisk(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp RiskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	// 0.4*100 + 0.4*50 + 0.2*50 = 70
	if resp.Risk != 70 {
		t.Errorf("Expected risk 70, got %v", resp.Risk)
	}
	if resp.Factors.DependencyComplexity != 50 {
		t.Errorf("Expected omitted factor to default to 50, got %v", resp.Factors.DependencyComplexity)
	}
}

func TestHandleAnalyzeText(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("POST", "/v1/dependencies/analyze",
		strings.NewReader(`{"text":"This task is blocked by the login rework."}`))
	w := httptest.NewRecorder()

	s.handleAnalyzeText(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "blocked by") {
		t.Errorf("Expected marker in response, got %s", w.Body.String())
	}
}

func TestHandlePrivacyProcess(t *testing.T) {
	s, _ := newTestServer()

	body := `{
		"workItems":[
			{"id":"wi-1","title":"Login rework","assignedTo":"alice"},
			{"id":"wi-2","title":"Schema migration","assignedTo":"bob"}
		],
		"dependencies":[{"sourceId":"wi-1","targetId":"wi-2"}],
		"salt":"test-salt",
		"optOuts":["bob"]
	}`
	req := httptest.NewRequest("POST", "/v1/privacy/process", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.handlePrivacyProcess(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp PrivacyProcessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.WorkItems) != 1 {
		t.Fatalf("Expected opted-out item removed, got %d items", len(resp.WorkItems))
	}
	if resp.WorkItems[0]["title"] == "Login rework" {
		t.Error("Expected title to be anonymized")
	}
	if len(resp.Dependencies) != 0 {
		t.Errorf("Expected dependency to opted-out item pruned, got %+v", resp.Dependencies)
	}
}

func TestHandleAnalyses(t *testing.T) {
	s, st := newTestServer()
	st.records = []*store.AnalysisRecord{
		{AnalysisID: "an-1", Kind: store.KindCriticalPath, Outcome: "ok", Summary: json.RawMessage("{}")},
		{AnalysisID: "an-2", Kind: store.KindCascadeImpact, Outcome: "ok", Summary: json.RawMessage("{}")},
	}

	req := httptest.NewRequest("GET", "/v1/analyses?limit=1", nil)
	w := httptest.NewRecorder()

	s.handleAnalyses(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var records []*store.AnalysisRecord
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 record with limit=1, got %d", len(records))
	}
}

func TestHandleReports(t *testing.T) {
	s, st := newTestServer()
	st.records = []*store.AnalysisRecord{
		{AnalysisID: "an-1", Kind: store.KindCriticalPath, TsStarted: time.Now(), Outcome: "ok"},
	}

	req := httptest.NewRequest("GET", "/v1/reports?type=analyses", nil)
	w := httptest.NewRecorder()

	s.handleReports(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected text/csv, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "an-1") {
		t.Errorf("Expected record in CSV, got %s", w.Body.String())
	}
}

func TestHandlePrune(t *testing.T) {
	s, st := newTestServer()
	st.pruned = 7

	req := httptest.NewRequest("POST", "/v1/admin/prune", strings.NewReader(`{"retention":"720h"}`))
	w := httptest.NewRecorder()

	s.handlePrune(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp PruneResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.PrunedCount != 7 {
		t.Errorf("Expected 7 pruned, got %d", resp.PrunedCount)
	}
}

func TestHandlePrune_InvalidRetention(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("POST", "/v1/admin/prune", strings.NewReader(`{"retention":"soon"}`))
	w := httptest.NewRecorder()

	s.handlePrune(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	secureHandler := withSecureHeaders(handler)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	secureHandler.ServeHTTP(w, req)

	expectedHeaders := map[string]string{
		"Content-Security-Policy":   "default-src 'self'",
		"Strict-Transport-Security": "max-age=63072000; includeSubDomains",
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Referrer-Policy":           "no-referrer",
	}

	for key, expected := range expectedHeaders {
		got := w.Header().Get(key)
		if got != expected {
			t.Errorf("Header %s: expected %q, got %q", key, expected, got)
		}
	}
}

func TestWithLogging_PropagatesTraceID(t *testing.T) {
	var seen string
	handler := withLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getTraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-ID", "trace-123")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if seen != "trace-123" {
		t.Errorf("Expected trace-123 in context, got %q", seen)
	}
	if got := w.Header().Get("X-Trace-ID"); got != "trace-123" {
		t.Errorf("Expected trace ID echoed in response header, got %q", got)
	}
}
