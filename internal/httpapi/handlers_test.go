package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/config"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
)

type stubService struct {
	searchErr   error
	lastKeyword string
	lastLimit   int
	batchInput  []string
	resets      int
	proposal    *core.ProposalResult
}

func (s *stubService) SearchJobs(_ context.Context, keyword string, limit int) ([]core.Posting, error) {
	s.lastKeyword = keyword
	s.lastLimit = limit
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return []core.Posting{{Title: "Job one"}, {Title: "Job two"}}, nil
}

func (s *stubService) CategoryJobs(_ context.Context, categoryID string, limit int) ([]core.Posting, error) {
	s.lastKeyword = categoryID
	s.lastLimit = limit
	return []core.Posting{{Title: "Category job"}}, nil
}

func (s *stubService) BatchSearch(_ context.Context, keywords []string, _ int) ([]core.BatchItem, error) {
	s.batchInput = keywords
	items := make([]core.BatchItem, len(keywords))
	for i, kw := range keywords {
		items[i] = core.BatchItem{Keyword: kw, Count: 1, Jobs: []core.Posting{{Title: kw}}}
	}
	return items, nil
}

func (s *stubService) GenerateProposal(context.Context, core.ProposalRequest) (*core.ProposalResult, error) {
	if s.proposal != nil {
		return s.proposal, nil
	}
	return &core.ProposalResult{ProposalText: "draft", Source: core.SourceGenerated}, nil
}

func (s *stubService) ResetCache() {
	s.resets++
}

func newTestServer(svc JobService) *Server {
	cfg := config.NewFromViper(config.NewEmptyViper())
	return NewServer(cfg, svc, zap.NewNop())
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestSearchEnvelope(t *testing.T) {
	svc := &stubService{}
	server := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/search?q=python", nil)
	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Fatalf("expected success envelope, got %+v", body)
	}
	if body["keyword"] != "python" {
		t.Fatalf("expected echoed keyword, got %+v", body["keyword"])
	}
	if body["count"] != float64(2) {
		t.Fatalf("expected count 2, got %+v", body["count"])
	}
	if body["timestamp"] == nil {
		t.Fatal("expected a timestamp")
	}
	if svc.lastLimit != 20 {
		t.Fatalf("expected default limit 20, got %d", svc.lastLimit)
	}
}

func TestSearchRequiresKeyword(t *testing.T) {
	server := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/search", nil)
	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("expected failure envelope, got %+v", body)
	}
}

func TestSearchErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("apify: %w", core.ErrMissingCredential), http.StatusServiceUnavailable},
		{fmt.Errorf("run r1: %w", core.ErrPollTimeout), http.StatusGatewayTimeout},
		{&core.UpstreamError{Op: "run submission", StatusCode: 500}, http.StatusBadGateway},
		{&core.RunFailedError{RunID: "r1", Status: core.JobStatusFailed}, http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		server := newTestServer(&stubService{searchErr: c.err})
		req := httptest.NewRequest(http.MethodGet, "/api/jobs/search?q=python", nil)
		rec := httptest.NewRecorder()
		server.routes().ServeHTTP(rec, req)

		if rec.Code != c.code {
			t.Errorf("error %v: expected status %d, got %d", c.err, c.code, rec.Code)
		}
		body := decodeBody(t, rec)
		if body["success"] != false || body["error"] == nil {
			t.Errorf("error %v: malformed envelope %+v", c.err, body)
		}
	}
}

func TestCategoryEnvelope(t *testing.T) {
	svc := &stubService{}
	server := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/category/12345?limit=5", nil)
	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["category"] != "12345" {
		t.Fatalf("expected echoed category, got %+v", body["category"])
	}
	if svc.lastLimit != 5 {
		t.Fatalf("expected limit 5, got %d", svc.lastLimit)
	}
}

func TestBatchCapsKeywords(t *testing.T) {
	svc := &stubService{}
	server := newTestServer(svc)

	keywords := make([]string, 12)
	for i := range keywords {
		keywords[i] = fmt.Sprintf("kw%d", i)
	}
	payload, _ := json.Marshal(map[string]any{"keywords": keywords})

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/batch", strings.NewReader(string(payload)))
	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if len(svc.batchInput) != 10 {
		t.Fatalf("expected keyword list capped at 10, got %d", len(svc.batchInput))
	}
}

func TestBatchRejectsEmptyList(t *testing.T) {
	server := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/batch", strings.NewReader(`{"keywords": ["", "  "]}`))
	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProposalEnvelopeCarriesWarning(t *testing.T) {
	svc := &stubService{proposal: &core.ProposalResult{
		ProposalText: "fallback draft",
		Source:       core.SourceFallback,
		Warning:      "backend unavailable",
		Analysis:     core.ProposalAnalysis{Confidence: 65, Recommendation: "CONSIDER"},
	}}
	server := newTestServer(svc)

	payload := `{"job": {"title": "Build a bot"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/proposals/generate", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["proposal"] != "fallback draft" {
		t.Fatalf("expected proposal text, got %+v", body["proposal"])
	}
	if body["warning"] != "backend unavailable" {
		t.Fatalf("expected warning surfaced, got %+v", body)
	}
	analysis, ok := body["analysis"].(map[string]any)
	if !ok || analysis["confidence"] != float64(65) {
		t.Fatalf("expected analysis in envelope, got %+v", body["analysis"])
	}
}

func TestProposalRequiresJob(t *testing.T) {
	server := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/proposals/generate", strings.NewReader(`{"job": {}}`))
	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCacheClear(t *testing.T) {
	svc := &stubService{}
	server := newTestServer(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/cache/clear", nil)
	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if svc.resets != 1 {
		t.Fatalf("expected one cache reset, got %d", svc.resets)
	}
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodOptions, "/api/jobs/search", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
