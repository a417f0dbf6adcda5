package core

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TrackerService is the core service wiring the job source, the response
// cache, the scoring engine and the proposal synthesizer together.
type TrackerService struct {
	source   JobSource
	cache    ResponseCache
	scorer   Scorer
	synth    ProposalSynthesizer
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewTrackerService creates a new tracker service.
func NewTrackerService(
	source JobSource,
	cache ResponseCache,
	scorer Scorer,
	synth ProposalSynthesizer,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *TrackerService {
	return &TrackerService{
		source:   source,
		cache:    cache,
		scorer:   scorer,
		synth:    synth,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// searchCacheKey derives the cache key for a keyword search.
func searchCacheKey(keyword string) string {
	return "search:" + Fold(strings.TrimSpace(keyword))
}

// categoryCacheKey derives the cache key for a category listing. The
// category id is used as-is.
func categoryCacheKey(categoryID string) string {
	return "category:" + categoryID
}

// batchCacheKey derives the cache key for a batch search from the sorted,
// case-folded keyword list.
func batchCacheKey(keywords []string) string {
	folded := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		folded = append(folded, Fold(strings.TrimSpace(kw)))
	}
	sort.Strings(folded)
	return "batch:" + strings.Join(folded, ",")
}

// SearchJobs retrieves postings matching a keyword, consulting the cache
// first. Concurrent identical misses are not deduplicated; the last writer
// wins the cache slot.
func (s *TrackerService) SearchJobs(ctx context.Context, keyword string, limit int) ([]Posting, error) {
	return s.fetchCached(ctx, searchCacheKey(keyword), SearchInput{Keyword: keyword, Limit: limit})
}

// CategoryJobs retrieves postings for a category id, consulting the cache
// first.
func (s *TrackerService) CategoryJobs(ctx context.Context, categoryID string, limit int) ([]Posting, error) {
	return s.fetchCached(ctx, categoryCacheKey(categoryID), SearchInput{Category: categoryID, Limit: limit})
}

func (s *TrackerService) fetchCached(ctx context.Context, key string, input SearchInput) ([]Posting, error) {
	if payload, ok := s.cache.Get(key); ok {
		var jobs []Posting
		if err := json.Unmarshal(payload, &jobs); err == nil {
			s.logger.Debug("cache hit", zap.String("key", key), zap.Int("count", len(jobs)))
			return jobs, nil
		}
		s.logger.Warn("discarding undecodable cache payload", zap.String("key", key))
	}

	jobs, err := s.source.RunSearch(ctx, input)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(jobs); err == nil {
		s.cache.Set(key, payload, s.cacheTTL)
	}

	s.logger.Info("fetched postings from source",
		zap.String("key", key),
		zap.Int("count", len(jobs)))

	return jobs, nil
}

// BatchSearch runs one search per keyword as a scatter join. A failure in
// one sub-search becomes a per-item error descriptor; the batch itself
// never fails. Fully successful batches are cached under the batch key.
func (s *TrackerService) BatchSearch(ctx context.Context, keywords []string, limit int) ([]BatchItem, error) {
	key := batchCacheKey(keywords)
	if payload, ok := s.cache.Get(key); ok {
		var items []BatchItem
		if err := json.Unmarshal(payload, &items); err == nil {
			s.logger.Debug("batch cache hit", zap.String("key", key))
			return items, nil
		}
	}

	items := make([]BatchItem, len(keywords))
	g, gctx := errgroup.WithContext(ctx)
	for i, kw := range keywords {
		i, kw := i, kw
		g.Go(func() error {
			jobs, err := s.source.RunSearch(gctx, SearchInput{Keyword: kw, Limit: limit})
			if err != nil {
				s.logger.Warn("batch sub-search failed",
					zap.String("keyword", kw),
					zap.Error(err))
				items[i] = BatchItem{Keyword: kw, Error: err.Error()}
				return nil
			}
			items[i] = BatchItem{Keyword: kw, Count: len(jobs), Jobs: jobs}
			return nil
		})
	}
	// Sub-search errors are captured per item, so Wait cannot fail.
	_ = g.Wait()

	if batchClean(items) {
		if payload, err := json.Marshal(items); err == nil {
			s.cache.Set(key, payload, s.cacheTTL)
		}
	}

	return items, nil
}

func batchClean(items []BatchItem) bool {
	for _, item := range items {
		if item.Error != "" {
			return false
		}
	}
	return true
}

// GenerateProposal scores the posting against the request's offerings and
// synthesizes a submission-ready proposal. Results are never cached.
func (s *TrackerService) GenerateProposal(ctx context.Context, req ProposalRequest) (*ProposalResult, error) {
	breakdown := s.scorer.Score(req.Job, req.Service, req.AllServices())

	s.logger.Debug("scored posting",
		zap.String("title", req.Job.Title),
		zap.Int("confidence", breakdown.Confidence),
		zap.Int("components", len(breakdown.Components)))

	return s.synth.Synthesize(ctx, req, breakdown)
}

// ResetCache empties the response cache unconditionally.
func (s *TrackerService) ResetCache() {
	s.cache.Clear()
	s.logger.Info("response cache cleared")
}
