package core

import (
	"time"
)

// JobStatus is the state of a remote actor run.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusAborted   JobStatus = "ABORTED"
	JobStatusTimedOut  JobStatus = "TIMED_OUT"
)

// Terminal reports whether the run has left the pending state.
func (s JobStatus) Terminal() bool {
	return s != JobStatusPending
}

// RemoteJob tracks a single actor run from submission to a terminal state.
// It is created on submission and mutated only by the polling loop.
type RemoteJob struct {
	ID        string
	Status    JobStatus
	DatasetID string
}

// ClientInfo carries the reliability signals a posting exposes about the
// client who published it.
type ClientInfo struct {
	PaymentVerified bool    `json:"paymentVerified"`
	TotalSpent      float64 `json:"totalSpent"`
	FeedbackRating  float64 `json:"feedbackRating"`
	HireRate        float64 `json:"hireRate"`
	Country         string  `json:"country"`
}

// Posting represents an externally sourced job listing. Postings are
// immutable once fetched; the core never creates them.
type Posting struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Skills          []string   `json:"skills"`
	BudgetType      string     `json:"budgetType"`
	BudgetMin       float64    `json:"budgetMin"`
	BudgetMax       float64    `json:"budgetMax"`
	ExperienceLevel string     `json:"experienceLevel"`
	URL             string     `json:"url,omitempty"`
	PostedAt        string     `json:"postedAt,omitempty"`
	Client          ClientInfo `json:"client"`
}

// Hourly reports whether the posting describes an hourly engagement.
func (p *Posting) Hourly() bool {
	return Fold(p.BudgetType) == "hourly"
}

// Offering is a caller-supplied description of a service category: its
// skills and the rate range it is sold at. Offerings are never persisted.
type Offering struct {
	Name    string   `json:"name"`
	Skills  []string `json:"skills"`
	RateMin float64  `json:"rateMin"`
	RateMax float64  `json:"rateMax"`
}

// AverageRate returns the midpoint of the offering's rate range.
func (o *Offering) AverageRate() float64 {
	return (o.RateMin + o.RateMax) / 2
}

// ScoreComponent is one labeled line of a score breakdown.
type ScoreComponent struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// ScoreBreakdown is the explainable output of the scoring engine. The
// confidence is always within [20,95] and every point above the base is
// traceable to exactly one component, recorded in application order.
type ScoreBreakdown struct {
	Confidence    int              `json:"confidence"`
	Components    []ScoreComponent `json:"components"`
	MatchedSkills []string         `json:"matchedSkills"`
	MissingSkills []string         `json:"missingSkills"`
}

// ProposalRequest is the input for proposal generation.
type ProposalRequest struct {
	Job            Posting    `json:"job"`
	Service        *Offering  `json:"service,omitempty"`
	Services       []Offering `json:"services,omitempty"`
	Template       string     `json:"template,omitempty"`
	EstimatedHours float64    `json:"estimatedHours,omitempty"`
}

// AllServices returns every offering the request carries, with the primary
// one included exactly once.
func (r *ProposalRequest) AllServices() []Offering {
	if r.Service == nil {
		return r.Services
	}
	all := make([]Offering, 0, len(r.Services)+1)
	all = append(all, *r.Service)
	for _, svc := range r.Services {
		if svc.Name != r.Service.Name {
			all = append(all, svc)
		}
	}
	return all
}

// CostRange is an estimated engagement cost interval.
type CostRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ProposalAnalysis mirrors the score breakdown and adds the narrative and
// estimate fields of a synthesized proposal.
type ProposalAnalysis struct {
	Summary         string           `json:"summary"`
	Complexity      string           `json:"complexity"`
	Confidence      int              `json:"confidence"`
	Components      []ScoreComponent `json:"components"`
	MatchedSkills   []string         `json:"matchedSkills"`
	MissingSkills   []string         `json:"missingSkills"`
	RecommendedRate float64          `json:"recommendedRate"`
	EstimatedHours  float64          `json:"estimatedHours"`
	EstimatedCost   CostRange        `json:"estimatedCost"`
	Recommendation  string           `json:"recommendation"`
	Deliverables    []string         `json:"deliverables,omitempty"`
	Risks           []string         `json:"risks,omitempty"`
	Timeline        string           `json:"timeline,omitempty"`
	Questions       []string         `json:"questions,omitempty"`
}

// ProposalSource records how a proposal result was constructed.
type ProposalSource string

const (
	// SourceGenerated marks a result parsed from the generative backend.
	SourceGenerated ProposalSource = "generated"
	// SourceFallback marks a result built by deterministic fallback.
	SourceFallback ProposalSource = "fallback"
)

// ProposalResult is the structurally complete outcome of proposal
// synthesis. It is always well formed, regardless of backend behavior.
type ProposalResult struct {
	ProposalText string           `json:"proposal"`
	Analysis     ProposalAnalysis `json:"analysis"`
	Source       ProposalSource   `json:"source"`
	Warning      string           `json:"warning,omitempty"`
	ProcessingID string           `json:"processingId"`
	ModelUsed    string           `json:"modelUsed,omitempty"`
	GeneratedAt  time.Time        `json:"generatedAt"`
}

// BatchItem is the per-keyword slot of a batch search result. A failed
// sub-search carries an error descriptor instead of aborting the batch.
type BatchItem struct {
	Keyword string    `json:"keyword"`
	Count   int       `json:"count"`
	Jobs    []Posting `json:"jobs,omitempty"`
	Error   string    `json:"error,omitempty"`
}
