package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type stubSource struct {
	mu    sync.Mutex
	calls int
	// fail lists keywords whose sub-search should fail.
	fail map[string]bool
}

func (s *stubSource) RunSearch(_ context.Context, input SearchInput) ([]Posting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail[input.Keyword] {
		return nil, fmt.Errorf("actor exploded")
	}
	name := input.Keyword
	if name == "" {
		name = "category " + input.Category
	}
	return []Posting{{Title: "Job for " + name}}, nil
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[key]
	return payload, ok
}

func (c *fakeCache) Set(key string, payload []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
}

func (c *fakeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
}

type stubScorer struct {
	breakdown ScoreBreakdown
}

func (s *stubScorer) Score(Posting, *Offering, []Offering) ScoreBreakdown {
	return s.breakdown
}

type stubSynth struct {
	gotBreakdown ScoreBreakdown
}

func (s *stubSynth) Synthesize(_ context.Context, req ProposalRequest, breakdown ScoreBreakdown) (*ProposalResult, error) {
	s.gotBreakdown = breakdown
	return &ProposalResult{ProposalText: "draft for " + req.Job.Title, Source: SourceGenerated}, nil
}

func newTestService(source JobSource, cache ResponseCache) *TrackerService {
	return NewTrackerService(source, cache, &stubScorer{}, &stubSynth{}, zap.NewNop(), 15*time.Minute)
}

func TestSearchJobsCachesResult(t *testing.T) {
	source := &stubSource{}
	svc := newTestService(source, newFakeCache())

	jobs, err := svc.SearchJobs(context.Background(), "python", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	// Second identical request must be served from cache.
	if _, err := svc.SearchJobs(context.Background(), "python", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.callCount() != 1 {
		t.Fatalf("expected a single source call, got %d", source.callCount())
	}
}

func TestSearchJobsCacheKeyIsCaseFolded(t *testing.T) {
	source := &stubSource{}
	svc := newTestService(source, newFakeCache())

	if _, err := svc.SearchJobs(context.Background(), "Python", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.SearchJobs(context.Background(), "  python ", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.callCount() != 1 {
		t.Fatalf("expected folded keywords to share a cache slot, got %d calls", source.callCount())
	}
}

func TestSearchJobsPropagatesSourceError(t *testing.T) {
	source := &stubSource{fail: map[string]bool{"python": true}}
	svc := newTestService(source, newFakeCache())

	if _, err := svc.SearchJobs(context.Background(), "python", 20); err == nil {
		t.Fatal("expected source failure to propagate")
	}
}

func TestCategoryJobsUsesRawID(t *testing.T) {
	source := &stubSource{}
	cache := newFakeCache()
	svc := newTestService(source, cache)

	if _, err := svc.CategoryJobs(context.Background(), "531770282580668418", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cache.Get("category:531770282580668418"); !ok {
		t.Fatal("expected category entry under the raw id key")
	}
}

func TestBatchSearchPartialFailure(t *testing.T) {
	source := &stubSource{fail: map[string]bool{"golang": true}}
	svc := newTestService(source, newFakeCache())

	items, err := svc.BatchSearch(context.Background(), []string{"python", "golang", "react"}, 10)
	if err != nil {
		t.Fatalf("batch must not fail as a whole, got %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 batch items, got %d", len(items))
	}

	failures := 0
	for _, item := range items {
		if item.Error != "" {
			failures++
			if item.Keyword != "golang" {
				t.Fatalf("unexpected failed keyword: %s", item.Keyword)
			}
			if len(item.Jobs) != 0 {
				t.Fatal("failed item must not carry jobs")
			}
		} else if len(item.Jobs) != 1 {
			t.Fatalf("successful item missing jobs: %+v", item)
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly 1 failed item, got %d", failures)
	}
}

func TestBatchSearchCachesCleanResults(t *testing.T) {
	source := &stubSource{}
	svc := newTestService(source, newFakeCache())

	keywords := []string{"python", "react"}
	if _, err := svc.BatchSearch(context.Background(), keywords, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.BatchSearch(context.Background(), keywords, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.callCount() != len(keywords) {
		t.Fatalf("expected %d source calls total, got %d", len(keywords), source.callCount())
	}
}

func TestBatchCacheKeySortsKeywords(t *testing.T) {
	if batchCacheKey([]string{"React", "python"}) != batchCacheKey([]string{"Python", "react"}) {
		t.Fatal("expected order-insensitive batch key")
	}
}

func TestGenerateProposalFeedsScoreToSynthesizer(t *testing.T) {
	scorer := &stubScorer{breakdown: ScoreBreakdown{Confidence: 72}}
	synth := &stubSynth{}
	svc := NewTrackerService(&stubSource{}, newFakeCache(), scorer, synth, zap.NewNop(), time.Minute)

	result, err := svc.GenerateProposal(context.Background(), ProposalRequest{
		Job: Posting{Title: "Scraper build"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ProposalText != "draft for Scraper build" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if synth.gotBreakdown.Confidence != 72 {
		t.Fatalf("expected breakdown handoff, got %+v", synth.gotBreakdown)
	}
}

func TestResetCache(t *testing.T) {
	source := &stubSource{}
	svc := newTestService(source, newFakeCache())

	if _, err := svc.SearchJobs(context.Background(), "python", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.ResetCache()
	if _, err := svc.SearchJobs(context.Background(), "python", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.callCount() != 2 {
		t.Fatalf("expected cache reset to force a refetch, got %d calls", source.callCount())
	}
}
