// Package scoring implements the confidence scoring engine: a pure mapping
// from a posting and a set of service offerings to a bounded, explainable
// confidence score.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
)

const (
	baseScore     = 50
	minConfidence = 20
	maxConfidence = 95

	skillBonusCap      = 25
	reliabilityBonus   = 5
	budgetBonus        = 10
	highSpendThreshold = 10000
	ratingThreshold    = 4.5

	// An hourly budget covering 80% of the average rate, or a fixed budget
	// covering 15 hours at the average rate, counts as aligned.
	hourlyBudgetFactor = 0.8
	fixedBudgetFactor  = 15
)

// Engine scores postings against offerings. It holds no state and cannot
// fail; missing posting fields are treated as absent signals.
type Engine struct{}

// NewEngine creates a new scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score computes the confidence score and its breakdown for a posting
// against the caller's offerings. Bonuses are applied in a fixed order
// (skills, payment verification, client spend, rating, budget) and each
// applied bonus is recorded as one breakdown component. The final score is
// clamped to [20,95].
func (e *Engine) Score(posting core.Posting, primary *core.Offering, all []core.Offering) core.ScoreBreakdown {
	matched, missing := partitionSkills(posting.Skills, capabilitySet(all))

	score := baseScore
	var components []core.ScoreComponent
	apply := func(label string, points int) {
		score += points
		components = append(components, core.ScoreComponent{Label: label, Points: points})
	}

	required := len(posting.Skills)
	if required > 0 {
		bonus := int(math.Round(skillBonusCap * float64(len(matched)) / float64(required)))
		if bonus > 0 {
			apply(fmt.Sprintf("skill coverage %d/%d", len(matched), required), bonus)
		}
	}

	if posting.Client.PaymentVerified {
		apply("payment verified", reliabilityBonus)
	}
	if posting.Client.TotalSpent > highSpendThreshold {
		apply("high client spend", reliabilityBonus)
	}
	if posting.Client.FeedbackRating >= ratingThreshold {
		apply("client rating", reliabilityBonus)
	}

	if primary != nil && budgetAligned(posting, primary) {
		apply("budget alignment", budgetBonus)
	}

	if score < minConfidence {
		score = minConfidence
	}
	if score > maxConfidence {
		score = maxConfidence
	}

	return core.ScoreBreakdown{
		Confidence:    score,
		Components:    components,
		MatchedSkills: matched,
		MissingSkills: missing,
	}
}

// capabilitySet builds the case-folded, deduplicated union of skills
// across all offerings.
func capabilitySet(offerings []core.Offering) []string {
	seen := make(map[string]struct{})
	var set []string
	for _, o := range offerings {
		for _, skill := range o.Skills {
			folded := core.Fold(strings.TrimSpace(skill))
			if folded == "" {
				continue
			}
			if _, ok := seen[folded]; ok {
				continue
			}
			seen[folded] = struct{}{}
			set = append(set, folded)
		}
	}
	return set
}

// partitionSkills splits the posting's required skills into matched and
// missing. A required skill matches when it overlaps any capability as a
// substring in either direction.
func partitionSkills(required, capabilities []string) (matched, missing []string) {
	for _, skill := range required {
		folded := core.Fold(strings.TrimSpace(skill))
		if folded == "" {
			continue
		}
		if overlaps(folded, capabilities) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	return matched, missing
}

func overlaps(skill string, capabilities []string) bool {
	for _, capability := range capabilities {
		if strings.Contains(capability, skill) || strings.Contains(skill, capability) {
			return true
		}
	}
	return false
}

// budgetAligned reports whether the posting's top budget covers the
// offering's average rate for its engagement type.
func budgetAligned(posting core.Posting, offering *core.Offering) bool {
	avg := offering.AverageRate()
	if avg <= 0 || posting.BudgetMax <= 0 {
		return false
	}
	if posting.Hourly() {
		return posting.BudgetMax >= hourlyBudgetFactor*avg
	}
	return posting.BudgetMax >= fixedBudgetFactor*avg
}
