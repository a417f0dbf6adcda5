package proposal

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
)

const (
	defaultEstimatedHours = 20
	defaultRate           = 100
	defaultRateMin        = 75
	defaultRateMax        = 120
)

// estimates are the numeric proposal fields computed independently of the
// generative backend, so they survive any backend failure.
type estimates struct {
	hours float64
	rate  float64
	cost  core.CostRange
}

func computeEstimates(req core.ProposalRequest) estimates {
	hours := req.EstimatedHours
	if hours <= 0 {
		hours = defaultEstimatedHours
	}

	rate := float64(defaultRate)
	rateMin := float64(defaultRateMin)
	rateMax := float64(defaultRateMax)
	if svc := req.Service; svc != nil && svc.RateMax > 0 {
		rate = svc.AverageRate()
		rateMin = svc.RateMin
		rateMax = svc.RateMax
	}

	return estimates{
		hours: hours,
		rate:  rate,
		cost:  core.CostRange{Min: hours * rateMin, Max: hours * rateMax},
	}
}

// generatedPayload is the JSON shape requested from the generative
// backend.
type generatedPayload struct {
	Proposal        string   `json:"proposal"`
	Summary         string   `json:"projectSummary"`
	Complexity      string   `json:"complexity"`
	RecommendedRate float64  `json:"recommendedRate"`
	EstimatedHours  float64  `json:"estimatedHours"`
	EstimatedCost   struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"estimatedCost"`
	Confidence           int      `json:"confidence"`
	ConfidenceComponents []struct {
		Label  string `json:"label"`
		Points int    `json:"points"`
	} `json:"confidenceBreakdown"`
	MatchedSkills  []string `json:"matchedSkills"`
	MissingSkills  []string `json:"missingSkills"`
	Recommendation string   `json:"recommendation"`
	Deliverables   []string `json:"deliverables"`
	Risks          []string `json:"risks"`
	Timeline       string   `json:"timeline"`
	Questions      []string `json:"clarifyingQuestions"`
}

func (p *generatedPayload) components() []core.ScoreComponent {
	if len(p.ConfidenceComponents) == 0 {
		return nil
	}
	components := make([]core.ScoreComponent, 0, len(p.ConfidenceComponents))
	for _, c := range p.ConfidenceComponents {
		components = append(components, core.ScoreComponent{Label: c.Label, Points: c.Points})
	}
	return components
}

// parsePayload strictly parses the backend text after stripping any
// Markdown code-fence wrapping. Anything that is not a JSON object fails.
func parsePayload(raw string) (*generatedPayload, error) {
	cleaned := stripFences(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return nil, fmt.Errorf("generator output is not a JSON object")
	}

	var payload generatedPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("parse generator output: %w", err)
	}
	return &payload, nil
}

// stripFences removes a surrounding ``` or ```json fence, if present.
func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
			cleaned = cleaned[:idx]
		}
	}
	return strings.TrimSpace(cleaned)
}

// complexityForSkills derives a complexity tier from the required skill
// count.
func complexityForSkills(requiredSkills int) string {
	switch {
	case requiredSkills > 5:
		return "High"
	case requiredSkills > 2:
		return "Medium"
	default:
		return "Low"
	}
}

// recommendationForConfidence derives a bid recommendation from the
// confidence score.
func recommendationForConfidence(confidence int) string {
	switch {
	case confidence >= 75:
		return "BID"
	case confidence >= 60:
		return "CONSIDER"
	default:
		return "REVIEW"
	}
}

func fallbackSummary(job core.Posting) string {
	title := strings.TrimSpace(job.Title)
	if title == "" {
		return "Freelance engagement"
	}
	return title
}

func placeholderProposal(req core.ProposalRequest) string {
	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("I reviewed your posting")
	if title := strings.TrimSpace(req.Job.Title); title != "" {
		b.WriteString(fmt.Sprintf(" %q", title))
	}
	b.WriteString(" and I am confident I can deliver it. ")
	if svc := req.Service; svc != nil && len(svc.Skills) > 0 {
		b.WriteString(fmt.Sprintf("My core stack covers %s. ", strings.Join(svc.Skills, ", ")))
	}
	b.WriteString("I would be glad to discuss scope and timeline on a short call.\n\nBest regards")
	return b.String()
}
