// Package proposal synthesizes submission-ready proposals from a posting,
// a score breakdown and an offering profile. The generative backend is
// trusted for content but not for structure: whatever it returns, the
// synthesizer produces a structurally complete result.
package proposal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/utils"
)

// Synthesizer builds proposals through a generative backend with a
// deterministic fallback path.
type Synthesizer struct {
	generator   core.ProposalGenerator
	textProc    *utils.TextProcessor
	logger      *zap.Logger
	maxDescSize int
	now         func() time.Time
}

// NewSynthesizer creates a new proposal synthesizer. maxDescSize bounds the
// posting description embedded in the prompt.
func NewSynthesizer(
	generator core.ProposalGenerator,
	textProc *utils.TextProcessor,
	logger *zap.Logger,
	maxDescSize int,
) *Synthesizer {
	return &Synthesizer{
		generator:   generator,
		textProc:    textProc,
		logger:      logger,
		maxDescSize: maxDescSize,
		now:         time.Now,
	}
}

// Synthesize generates a proposal for the request. A missing backend
// credential is a hard failure; every other backend failure or malformed
// output is absorbed into a fallback result with a soft warning.
func (s *Synthesizer) Synthesize(ctx context.Context, req core.ProposalRequest, breakdown core.ScoreBreakdown) (*core.ProposalResult, error) {
	est := computeEstimates(req)
	prompt := s.buildPrompt(req, breakdown, est)

	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		if errors.Is(err, core.ErrMissingCredential) {
			return nil, err
		}
		s.logger.Warn("generator call failed, falling back",
			zap.String("title", req.Job.Title),
			zap.Error(err))
		return s.fallbackResult(req, breakdown, est, "", err.Error()), nil
	}

	payload, perr := parsePayload(raw)
	if perr != nil {
		s.logger.Warn("generator output unparseable, falling back",
			zap.String("title", req.Job.Title),
			zap.Int("raw_length", len(raw)),
			zap.Error(perr))
		return s.fallbackResult(req, breakdown, est, raw, ""), nil
	}

	return s.assembleResult(breakdown, est, payload), nil
}

// assembleResult turns a parsed backend payload into a result, filling any
// omitted numeric or confidence fields from the independently computed
// values so the response is always self-consistent with the scoring
// engine.
func (s *Synthesizer) assembleResult(breakdown core.ScoreBreakdown, est estimates, payload *generatedPayload) *core.ProposalResult {
	analysis := core.ProposalAnalysis{
		Summary:         payload.Summary,
		Complexity:      payload.Complexity,
		Confidence:      payload.Confidence,
		Components:      payload.components(),
		MatchedSkills:   payload.MatchedSkills,
		MissingSkills:   payload.MissingSkills,
		RecommendedRate: payload.RecommendedRate,
		EstimatedHours:  payload.EstimatedHours,
		EstimatedCost:   core.CostRange{Min: payload.EstimatedCost.Min, Max: payload.EstimatedCost.Max},
		Recommendation:  payload.Recommendation,
		Deliverables:    payload.Deliverables,
		Risks:           payload.Risks,
		Timeline:        payload.Timeline,
		Questions:       payload.Questions,
	}

	if analysis.Confidence == 0 {
		analysis.Confidence = breakdown.Confidence
	}
	if len(analysis.Components) == 0 {
		analysis.Components = breakdown.Components
	}
	if len(analysis.MatchedSkills) == 0 && len(analysis.MissingSkills) == 0 {
		analysis.MatchedSkills = breakdown.MatchedSkills
		analysis.MissingSkills = breakdown.MissingSkills
	}
	if analysis.RecommendedRate <= 0 {
		analysis.RecommendedRate = est.rate
	}
	if analysis.EstimatedHours <= 0 {
		analysis.EstimatedHours = est.hours
	}
	if analysis.EstimatedCost.Min <= 0 && analysis.EstimatedCost.Max <= 0 {
		analysis.EstimatedCost = est.cost
	}

	return &core.ProposalResult{
		ProposalText: payload.Proposal,
		Analysis:     analysis,
		Source:       core.SourceGenerated,
		ProcessingID: uuid.NewString(),
		ModelUsed:    s.generator.Model(),
		GeneratedAt:  s.now(),
	}
}

// fallbackResult deterministically constructs a result when the backend
// output could not be used. rawText, when present, becomes the proposal
// body; warning surfaces a backend call failure to the caller.
func (s *Synthesizer) fallbackResult(req core.ProposalRequest, breakdown core.ScoreBreakdown, est estimates, rawText, warning string) *core.ProposalResult {
	text := rawText
	if text == "" {
		text = placeholderProposal(req)
	}

	model := ""
	if warning == "" {
		// The backend did answer; the text just was not structured.
		model = s.generator.Model()
	}

	return &core.ProposalResult{
		ProposalText: text,
		Analysis: core.ProposalAnalysis{
			Summary:         fallbackSummary(req.Job),
			Complexity:      complexityForSkills(len(req.Job.Skills)),
			Confidence:      breakdown.Confidence,
			Components:      breakdown.Components,
			MatchedSkills:   breakdown.MatchedSkills,
			MissingSkills:   breakdown.MissingSkills,
			RecommendedRate: est.rate,
			EstimatedHours:  est.hours,
			EstimatedCost:   est.cost,
			Recommendation:  recommendationForConfidence(breakdown.Confidence),
		},
		Source:       core.SourceFallback,
		Warning:      warning,
		ProcessingID: uuid.NewString(),
		ModelUsed:    model,
		GeneratedAt:  s.now(),
	}
}
