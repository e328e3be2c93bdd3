package scoring

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/repayflow/plan-engine/internal/domain"
	"github.com/repayflow/plan-engine/internal/planner"
)

// ConfidenceThreshold is the gate deciding whether an external
// recommendation is trusted. At or below it the result is discarded and the
// rules-based optimizer takes over. Fixed policy, not configuration.
const ConfidenceThreshold = 0.70

// Adapter wraps the optional scoring collaborator with the fallback policy:
// exactly one external attempt, no retries. Any error or low-confidence
// answer is logged and replaced, synchronously, by the deterministic plan.
// Callers never see a collaborator failure.
type Adapter struct {
	optimizer Optimizer
}

// NewAdapter builds an adapter. A nil optimizer means "no collaborator
// configured" and behaves like a permanent zero-confidence answer.
func NewAdapter(optimizer Optimizer) *Adapter {
	return &Adapter{optimizer: optimizer}
}

// Recommend returns the schedule recommendation for the given amount:
// the external collaborator's answer verbatim when it clears the confidence
// gate, the rules-based optimizer's otherwise.
func (a *Adapter) Recommend(ctx context.Context, debt *domain.DebtSnapshot, amount decimal.Decimal, targetWeeks int, minInstallment decimal.Decimal, now time.Time) *domain.ScheduleRecommendation {
	if a.optimizer != nil {
		recommendation, err := a.optimizer.OptimizeSchedule(ctx, debt, amount, targetWeeks, minInstallment)
		switch {
		case err != nil:
			// Treated as confidence 0. Logged for operational visibility,
			// invisible to the caller.
			log.Printf("scoring collaborator failed for debt %s, falling back to rules optimizer: %v", debt.DebtID, err)
		case recommendation.Confidence > ConfidenceThreshold:
			return recommendation
		default:
			log.Printf("scoring collaborator confidence %.2f at or below %.2f for debt %s, falling back to rules optimizer",
				recommendation.Confidence, ConfidenceThreshold, debt.DebtID)
		}
	}

	return planner.OptimizeWithRules(debt, amount, targetWeeks, minInstallment, now)
}
