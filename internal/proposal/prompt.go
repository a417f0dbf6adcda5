package proposal

import (
	"fmt"
	"strings"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
)

const promptFormat = `You are an expert freelance bid writer. Draft a submission-ready proposal for the job posting below and analyze the fit.

Job posting:
Title: %s
Experience level: %s
Budget: %s
Required skills: %s
Client: %s
Description:
%s

Our fit analysis (computed, do not contradict it):
Confidence: %d
%s
Matched skills: %s
Missing skills: %s

Our offering:
%s

Estimates to anchor on: %.0f hours at $%.0f/h, cost range $%.0f-$%.0f.
%s
Respond with a JSON object containing:
- proposal: string (the full proposal text, ready to submit)
- projectSummary: string (one-paragraph summary of the project)
- complexity: "Low", "Medium" or "High"
- recommendedRate: number (hourly rate in USD)
- estimatedHours: number
- estimatedCost: object with "min" and "max" numbers
- confidence: number (echo the computed confidence)
- confidenceBreakdown: array of {label, points} (echo the computed lines)
- matchedSkills, missingSkills: arrays of strings
- recommendation: "STRONG BID", "BID", "CONSIDER" or "SKIP"
- deliverables: array of strings
- risks: array of strings
- timeline: string
- clarifyingQuestions: array of strings

Respond only with the JSON object and nothing else.`

func (s *Synthesizer) buildPrompt(req core.ProposalRequest, breakdown core.ScoreBreakdown, est estimates) string {
	job := req.Job
	description := s.textProc.ProcessText(job.Description, s.maxDescSize)

	style := ""
	if t := strings.TrimSpace(req.Template); t != "" {
		style = fmt.Sprintf("Style guidance for the proposal text:\n%s\n", t)
	}

	return fmt.Sprintf(promptFormat,
		job.Title,
		orUnknown(job.ExperienceLevel),
		describeBudget(job),
		joinOr(job.Skills, "none listed"),
		describeClient(job.Client),
		description,
		breakdown.Confidence,
		describeComponents(breakdown.Components),
		joinOr(breakdown.MatchedSkills, "none"),
		joinOr(breakdown.MissingSkills, "none"),
		describeOffering(req.Service),
		est.hours,
		est.rate,
		est.cost.Min,
		est.cost.Max,
		style,
	)
}

func describeBudget(job core.Posting) string {
	kind := "fixed price"
	if job.Hourly() {
		kind = "hourly"
	}
	if job.BudgetMax <= 0 {
		return kind + ", unspecified"
	}
	return fmt.Sprintf("%s, $%.0f-$%.0f", kind, job.BudgetMin, job.BudgetMax)
}

func describeClient(client core.ClientInfo) string {
	verified := "payment not verified"
	if client.PaymentVerified {
		verified = "payment verified"
	}
	return fmt.Sprintf("%s, $%.0f spent, %.1f rating, %.0f%% hire rate, %s",
		verified, client.TotalSpent, client.FeedbackRating, client.HireRate*100,
		orUnknown(client.Country))
}

func describeOffering(offering *core.Offering) string {
	if offering == nil {
		return "No specific service profile supplied."
	}
	return fmt.Sprintf("Service: %s\nSkills: %s\nRate range: $%.0f-$%.0f/h",
		offering.Name, joinOr(offering.Skills, "none listed"),
		offering.RateMin, offering.RateMax)
}

func describeComponents(components []core.ScoreComponent) string {
	if len(components) == 0 {
		return "(base score only)"
	}
	lines := make([]string, 0, len(components))
	for _, c := range components {
		lines = append(lines, fmt.Sprintf("- %s: +%d", c.Label, c.Points))
	}
	return strings.Join(lines, "\n")
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
