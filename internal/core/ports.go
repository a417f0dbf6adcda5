package core

import (
	"context"
	"time"

	"golang.org/x/text/cases"
)

// SearchInput parameterizes one remote retrieval job. Exactly one of
// Keyword or Category is set.
type SearchInput struct {
	Keyword  string
	Category string
	Limit    int
}

// JobSource runs a parameterized retrieval job against the remote job host
// and returns the fetched postings.
type JobSource interface {
	RunSearch(ctx context.Context, input SearchInput) ([]Posting, error)
}

// ResponseCache is an expiring key/value store for serialized responses.
// Expired entries are evicted lazily on lookup; there is no background
// sweep. Implementations cannot fail: a storage error degrades to a miss.
type ResponseCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, payload []byte, ttl time.Duration)
	Clear()
}

// Scorer maps a posting and the caller's offerings to a confidence score
// with a structured breakdown. Implementations are pure and cannot fail.
type Scorer interface {
	Score(posting Posting, primary *Offering, all []Offering) ScoreBreakdown
}

// ProposalGenerator is the generative text backend. It is trusted for
// content but not for structure.
type ProposalGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ProposalSynthesizer turns a posting, a breakdown and an offering profile
// into a structurally complete proposal result.
type ProposalSynthesizer interface {
	Synthesize(ctx context.Context, req ProposalRequest, breakdown ScoreBreakdown) (*ProposalResult, error)
}

// Fold case-folds a string for caseless comparison. Used for skill matching
// and cache key normalization.
func Fold(s string) string {
	return cases.Fold().String(s)
}
