// Package subscription implements the paid-tier plan model and
// feature gating. Gating here is advisory, mirroring what the client
// shows the user; it is not an authorization boundary.
package subscription

import (
	"fmt"
	"time"
)

// Kind is the plan variant.
type Kind string

const (
	KindFree  Kind = "free"
	KindTrial Kind = "trial"
	KindPaid  Kind = "paid"
)

// Cycle is the billing cycle of a trial or paid plan.
type Cycle string

const (
	CycleMonthly Cycle = "monthly"
	CycleAnnual  Cycle = "annual"
)

// Trial lengths depend on which cycle the trial is for.
const (
	monthlyTrialDays = 15
	annualTrialDays  = 30
)

// Plan is the user's subscription state as a single tagged value:
// free, a trial of some cycle started at some instant, or a paid
// cycle. Cycle and TrialStartedAt are meaningful only for the
// variants that carry them.
type Plan struct {
	Kind           Kind
	Cycle          Cycle
	TrialStartedAt time.Time
}

// Free returns the free plan.
func Free() Plan {
	return Plan{Kind: KindFree}
}

// Trial returns a trial plan of the given cycle started at startedAt.
func Trial(cycle Cycle, startedAt time.Time) Plan {
	return Plan{Kind: KindTrial, Cycle: cycle, TrialStartedAt: startedAt}
}

// Paid returns a paid plan of the given cycle.
func Paid(cycle Cycle) Plan {
	return Plan{Kind: KindPaid, Cycle: cycle}
}

// ParsePlan maps the legacy stored plan names (free, monthly_trial,
// annual_trial, monthly, annual) onto the tagged variant. Earlier
// revisions kept several near-duplicate feature providers keyed on
// these strings; this is their single replacement.
func ParsePlan(name string, trialStartedAt time.Time) (Plan, error) {
	switch name {
	case "", "free":
		return Free(), nil
	case "monthly_trial":
		return Trial(CycleMonthly, trialStartedAt), nil
	case "annual_trial":
		return Trial(CycleAnnual, trialStartedAt), nil
	case "monthly":
		return Paid(CycleMonthly), nil
	case "annual":
		return Paid(CycleAnnual), nil
	}
	return Plan{}, fmt.Errorf("unknown plan %q", name)
}

func (p Plan) trialDays() int {
	switch p.Cycle {
	case CycleAnnual:
		return annualTrialDays
	default:
		return monthlyTrialDays
	}
}

// TrialDaysLeft returns the remaining whole trial days, never
// negative. Zero for non-trial plans.
func (p Plan) TrialDaysLeft(now time.Time) int {
	if p.Kind != KindTrial {
		return 0
	}
	elapsed := int(now.Sub(p.TrialStartedAt).Hours() / 24)
	left := p.trialDays() - elapsed
	if left < 0 {
		return 0
	}
	return left
}

// TrialExpired reports whether a trial plan has run out.
func (p Plan) TrialExpired(now time.Time) bool {
	return p.Kind == KindTrial && p.TrialDaysLeft(now) == 0 &&
		now.Sub(p.TrialStartedAt) >= time.Duration(p.trialDays())*24*time.Hour
}

// Features returns the feature set the plan unlocks at the given
// instant. Paid plans and unexpired trials get the premium set.
func (p Plan) Features(now time.Time) FeatureSet {
	switch p.Kind {
	case KindPaid:
		return premiumFeatures
	case KindTrial:
		if !p.TrialExpired(now) {
			return premiumFeatures
		}
	}
	return freeFeatures
}

// UpgradeRequired reports whether using the feature needs a paid
// plan: the feature is off for the current set and the plan is free
// or an expired trial. transactionCount matters only for the
// transaction-cap pseudo-feature.
func (p Plan) UpgradeRequired(f Feature, now time.Time, transactionCount int) bool {
	gated := p.Kind == KindFree || p.TrialExpired(now)
	if f == FeatureMaxTransactions {
		return gated && transactionCount >= freeFeatures.MaxTransactions
	}
	return gated && !p.Features(now).Has(f)
}
