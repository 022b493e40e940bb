package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scamshield-app/scamshield/internal/analysis"
	"github.com/scamshield-app/scamshield/internal/blocklist"
	"github.com/scamshield-app/scamshield/internal/config"
	"github.com/scamshield-app/scamshield/internal/observability"
	"github.com/scamshield-app/scamshield/internal/pii"
	"github.com/scamshield-app/scamshield/internal/protocol"
	"github.com/scamshield-app/scamshield/internal/reports"
	"github.com/scamshield-app/scamshield/internal/scoring"
)

// Prometheus instruments register globally, so each test server gets its
// own metrics namespace.
var testNamespaceSeq atomic.Int64

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		BindAddr:                 ":0",
		MetricsNamespace:         fmt.Sprintf("apitest%d", testNamespaceSeq.Add(1)),
		ShutdownTimeout:          5 * time.Second,
		MaxInputBytes:            4096,
		BlocklistRefreshInterval: time.Minute,
	}
	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	engine := analysis.New(pii.NewScrubber(pii.Config{}), scoring.NewScorer(), analysis.Config{
		Observer: metrics.ObserveScanStage,
	})
	return New(cfg, engine, blocklist.NewInMemoryStore(), reports.NewInMemoryStore(), metrics)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := newTestServer(t).Router()

	rec := doJSON(t, router, http.MethodPost, "/v1/analyze", analyzeRequest{
		Text:    "URGENT: your account will be suspended, buy a gift card",
		Channel: "sms",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var res analysis.Result
	decodeBody(t, rec, &res)
	if res.Blocked {
		t.Fatal("benign-PII input blocked")
	}
	if res.Assessment == nil || res.Assessment.Label != scoring.LabelCritical {
		t.Fatalf("Assessment = %+v", res.Assessment)
	}
}

func TestAnalyzeEndpointBlocked(t *testing.T) {
	router := newTestServer(t).Router()

	rec := doJSON(t, router, http.MethodPost, "/v1/analyze", analyzeRequest{
		Text:    "they asked for my ssn 111-22-3333",
		Channel: "call",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var res analysis.Result
	decodeBody(t, rec, &res)
	if !res.Blocked {
		t.Fatal("SSN input not blocked")
	}
	if res.Assessment != nil {
		t.Fatalf("Assessment = %+v, want absent", res.Assessment)
	}
	if strings.Contains(rec.Body.String(), "111-22-3333") {
		t.Fatal("response leaks raw SSN")
	}
}

func TestAnalyzeEndpointRejects(t *testing.T) {
	router := newTestServer(t).Router()

	tests := []struct {
		name     string
		body     any
		wantCode int
	}{
		{"unknown channel", analyzeRequest{Text: "hi", Channel: "fax"}, http.StatusBadRequest},
		{"empty body", nil, http.StatusBadRequest},
		{"oversized text", analyzeRequest{Text: strings.Repeat("a", 5000), Channel: "sms"}, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/v1/analyze", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestScrubEndpoint(t *testing.T) {
	router := newTestServer(t).Router()

	rec := doJSON(t, router, http.MethodPost, "/v1/scrub", scrubRequest{
		Text: "My number is 555-123-4567 today",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var res pii.ScrubResult
	decodeBody(t, rec, &res)
	if res.CleanText != "My number is [PHONE_REDACTED] today" {
		t.Fatalf("CleanText = %q", res.CleanText)
	}
	if len(res.FoundPII) != 1 || res.FoundPII[0].Position != 13 {
		t.Fatalf("FoundPII = %+v", res.FoundPII)
	}
}

func TestScorePhoneEndpoint(t *testing.T) {
	router := newTestServer(t).Router()

	rec := doJSON(t, router, http.MethodPost, "/v1/score/phone", phoneScoreRequest{
		Number: "1-900-555-0199",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var a scoring.Assessment
	decodeBody(t, rec, &a)
	if a.Label != scoring.LabelMedium {
		t.Fatalf("Label = %q (score %.2f)", a.Label, a.Score)
	}
}

func TestBlocklistEndpoints(t *testing.T) {
	router := newTestServer(t).Router()

	rec := doJSON(t, router, http.MethodPost, "/v1/blocklist", blocklistAddRequest{
		Number: "+1 (202) 555-0147",
		Reason: "reported robocaller",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", rec.Code, rec.Body.String())
	}
	var entry blocklist.Entry
	decodeBody(t, rec, &entry)
	if entry.Number != "2025550147" {
		t.Fatalf("stored number = %q, want normalized", entry.Number)
	}

	// Scoring must see the new entry immediately via cache invalidation.
	rec = doJSON(t, router, http.MethodPost, "/v1/score/phone", phoneScoreRequest{Number: "2025550147"})
	var a scoring.Assessment
	decodeBody(t, rec, &a)
	if a.Label != scoring.LabelHigh {
		t.Fatalf("blocklisted score Label = %q (%+v)", a.Label, a)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/blocklist", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed struct {
		Entries []blocklist.Entry `json:"entries"`
	}
	decodeBody(t, rec, &listed)
	if len(listed.Entries) != 1 {
		t.Fatalf("entries = %+v", listed.Entries)
	}

	rec = doJSON(t, router, http.MethodDelete, "/v1/blocklist/2025550147", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodDelete, "/v1/blocklist/2025550147", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second remove status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodPost, "/v1/blocklist", blocklistAddRequest{Number: "12"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid number status = %d", rec.Code)
	}
}

func TestReportEndpoints(t *testing.T) {
	router := newTestServer(t).Router()

	rec := doJSON(t, router, http.MethodPost, "/v1/reports", reportRequest{
		Text:    "Claim your prize now, wire transfer only",
		Channel: "email",
		Sender:  "winner@prizes.test",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var saved reports.Report
	decodeBody(t, rec, &saved)
	if saved.ID == "" || saved.Label == "" {
		t.Fatalf("saved = %+v", saved)
	}
	if strings.Contains(saved.Sender, "winner@prizes.test") {
		t.Fatalf("Sender not scrubbed: %q", saved.Sender)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/reports", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed struct {
		Reports []reports.Report `json:"reports"`
	}
	decodeBody(t, rec, &listed)
	if len(listed.Reports) != 1 {
		t.Fatalf("reports = %+v", listed.Reports)
	}
}

func TestReportEndpointRefusesBlocked(t *testing.T) {
	router := newTestServer(t).Router()

	rec := doJSON(t, router, http.MethodPost, "/v1/reports", reportRequest{
		Text:    "scammer asked for ssn 111-22-3333",
		Channel: "web",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != "blocked_for_protection" {
		t.Fatalf("code = %q", resp.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/reports", nil)
	var listed struct {
		Reports []reports.Report `json:"reports"`
	}
	decodeBody(t, rec, &listed)
	if len(listed.Reports) != 0 {
		t.Fatalf("blocked submission was stored: %+v", listed.Reports)
	}
}

func TestHealthAndReady(t *testing.T) {
	router := newTestServer(t).Router()

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec.Code)
	}
	var ready struct {
		Status        string `json:"status"`
		BlocklistSize int    `json:"blocklist_size"`
	}
	decodeBody(t, rec, &ready)
	if ready.Status != "ready" {
		t.Fatalf("readyz body = %s", rec.Body.String())
	}
}

func TestPerfScanEndpoint(t *testing.T) {
	router := newTestServer(t).Router()

	doJSON(t, router, http.MethodPost, "/v1/analyze", analyzeRequest{Text: "hello", Channel: "sms"})

	rec := doJSON(t, router, http.MethodGet, "/v1/perf/scan", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap observability.ScanSnapshot
	decodeBody(t, rec, &snap)
	if snap.WindowSize == 0 || len(snap.Stages) == 0 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestScanStream(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Router())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	reqs := []protocol.ScanRequest{
		{Type: protocol.TypeScanRequest, RequestID: "r1", Text: "urgent gift card now", Channel: "sms"},
		{Type: protocol.TypeScanRequest, RequestID: "r2", Text: "my ssn is 111-22-3333", Channel: "sms"},
	}
	for _, req := range reqs {
		if err := conn.WriteJSON(req); err != nil {
			t.Fatalf("write %s: %v", req.RequestID, err)
		}
	}

	// Verdicts come back one per request, in order.
	for i, want := range []string{"r1", "r2"} {
		var verdict protocol.ScanVerdict
		if err := conn.ReadJSON(&verdict); err != nil {
			t.Fatalf("read verdict #%d: %v", i, err)
		}
		if verdict.Type != protocol.TypeScanVerdict || verdict.RequestID != want {
			t.Fatalf("verdict #%d = %+v", i, verdict)
		}
		if want == "r2" && !verdict.Result.Blocked {
			t.Fatal("SSN request not blocked over stream")
		}
	}
}

func TestScanStreamRejectsBadMessages(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Router())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var ev protocol.ErrorEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Type != protocol.TypeErrorEvent || ev.Code != "invalid_client_message" {
		t.Fatalf("event = %+v", ev)
	}

	// A bad channel yields a per-request error but keeps the stream open.
	req := protocol.ScanRequest{Type: protocol.TypeScanRequest, RequestID: "r9", Text: "hi", Channel: "fax"}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Code != "invalid_channel" || ev.RequestID != "r9" {
		t.Fatalf("event = %+v", ev)
	}
}
