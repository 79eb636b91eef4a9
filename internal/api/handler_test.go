package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/nidhogg/agentmatch/internal/analyzer"
	"github.com/nidhogg/agentmatch/internal/catalog"
	"github.com/nidhogg/agentmatch/internal/explain"
	"github.com/nidhogg/agentmatch/internal/recommend"
	"github.com/nidhogg/agentmatch/internal/scoring"
)

// newTestHandler creates a Handler over the built-in catalog with no cache.
func newTestHandler(t *testing.T, store *catalog.Store) (*Handler, http.Handler) {
	t.Helper()
	logger := zap.NewNop()

	if store == nil {
		cat, err := catalog.Default(nil)
		if err != nil {
			t.Fatalf("catalog: %v", err)
		}
		store = catalog.NewStore(cat)
	}
	engine, err := scoring.NewEngine(scoring.DefaultWeights())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	svc := recommend.NewService(store, analyzer.New(nil), engine, explain.NewBuilder(nil, 0), nil, logger)

	h := NewHandler(svc, logger)
	return h, h.Router()
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body interface{}) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func postRaw(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func getJSON(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// --- Tests ---

func TestHealthCheck(t *testing.T) {
	_, router := newTestHandler(t, nil)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := getJSON(t, ts, "/health")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["agents"] != float64(len(catalog.DefaultProfiles())) {
		t.Errorf("expected %d agents, got %v", len(catalog.DefaultProfiles()), body["agents"])
	}
	if body["catalog_revision"] == "" {
		t.Error("expected a catalog revision")
	}
}

func TestRoot(t *testing.T) {
	_, router := newTestHandler(t, nil)
	ts := httptest.NewServer(router)
	defer ts.Close()

	var body map[string]string
	decodeJSON(t, getJSON(t, ts, "/"), &body)
	if body["message"] == "" {
		t.Error("expected a welcome message")
	}
}

func TestAgents(t *testing.T) {
	_, router := newTestHandler(t, nil)
	ts := httptest.NewServer(router)
	defer ts.Close()

	var agents []catalog.AgentProfile
	decodeJSON(t, getJSON(t, ts, "/agents"), &agents)
	if len(agents) != len(catalog.DefaultProfiles()) {
		t.Fatalf("expected %d agents, got %d", len(catalog.DefaultProfiles()), len(agents))
	}

	resp := getJSON(t, ts, "/agents/"+agents[0].ID)
	if resp.StatusCode != 200 {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	var one catalog.AgentProfile
	decodeJSON(t, resp, &one)
	if one.ID != agents[0].ID {
		t.Errorf("expected %s, got %s", agents[0].ID, one.ID)
	}

	resp = getJSON(t, ts, "/agents/nope")
	if resp.StatusCode != 404 {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRecommend(t *testing.T) {
	_, router := newTestHandler(t, nil)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := postJSON(t, ts, "/recommend", map[string]string{
		"description": "Fix a null pointer bug in the payment service",
		"language":    "",
		"complexity":  "medium",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var recs []recommend.AgentRecommendation
	decodeJSON(t, resp, &recs)
	if len(recs) != len(catalog.DefaultProfiles()) {
		t.Fatalf("expected one result per agent, got %d", len(recs))
	}
	if recs[0].ID != "claude-code" {
		t.Errorf("expected claude-code first, got %s", recs[0].ID)
	}
	if recs[0].Explanation == "" || recs[0].Analysis.TaskType != "bug_fix" {
		t.Errorf("unexpected payload: %+v", recs[0])
	}
}

func TestRecommendErrors(t *testing.T) {
	_, router := newTestHandler(t, nil)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := postJSON(t, ts, "/recommend", map[string]string{"description": "   "})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("empty description: expected 422, got %d", resp.StatusCode)
	}
	var body map[string]string
	decodeJSON(t, resp, &body)
	if body["detail"] == "" {
		t.Error("expected a detail message")
	}

	resp = postJSON(t, ts, "/recommend", map[string]string{"description": "fix it", "complexity": "huge"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("bad complexity: expected 422, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postRaw(t, ts, "/recommend", `{"description":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed json: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRecommendWithoutAgents(t *testing.T) {
	_, router := newTestHandler(t, catalog.NewStore(nil))
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := postJSON(t, ts, "/recommend", map[string]string{"description": "fix a bug"})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = getJSON(t, ts, "/agents/claude-code")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAnalyze(t *testing.T) {
	_, router := newTestHandler(t, nil)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := postJSON(t, ts, "/analyze", map[string]string{
		"description": "Design the architecture for a new microservices data pipeline",
		"complexity":  "high",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	if body["task_type"] != "architecture_design" || body["complexity"] != "high" {
		t.Errorf("unexpected analysis: %v", body)
	}
	if _, ok := body["complexity_signal"]; ok {
		t.Error("complexity signal must stay internal")
	}
}

func TestCalculateInference(t *testing.T) {
	_, router := newTestHandler(t, nil)
	ts := httptest.NewServer(router)
	defer ts.Close()

	resp := postJSON(t, ts, "/calculate-inference", map[string]interface{}{
		"model_size":      "13B",
		"input_tokens":    100,
		"output_tokens":   0,
		"batch_size":      2,
		"hardware_type":   "cpu",
		"deployment_mode": "cloud",
	})
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	decodeJSON(t, resp, &body)
	if body["hardware_compatibility"] != "Not recommended for this model size" {
		t.Errorf("compatibility = %v", body["hardware_compatibility"])
	}
	if body["model_size"] != "13B" || body["hardware_type"] != "cpu" || body["deployment_mode"] != "cloud" {
		t.Errorf("enums not echoed: %v", body)
	}

	resp = postJSON(t, ts, "/calculate-inference", map[string]interface{}{
		"model_size": "70B", "hardware_type": "gpu", "deployment_mode": "cloud",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	var errBody map[string]string
	decodeJSON(t, resp, &errBody)
	if !strings.Contains(errBody["detail"], "model_size") {
		t.Errorf("detail = %q", errBody["detail"])
	}
}

func TestCORSPreflight(t *testing.T) {
	_, router := newTestHandler(t, nil)
	ts := httptest.NewServer(router)
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/recommend", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
