/*
rewards.go - Reward dispatcher

PURPOSE:

	Bridges domain actions (report submitted, user registered, daily
	engagement, community post) to ledger credits. There is exactly one
	dispatch point, so the partial-failure contract is enforced uniformly
	instead of being re-implemented per action.

PARTIAL-FAILURE CONTRACT:

	The dispatcher is invoked AFTER the triggering action has committed its
	own state. A reward failure must never undo that commit, so Dispatch
	never returns an error: it returns an Outcome, and a failed credit is
	reported as Credited=false plus a human-readable note. Callers attach
	the outcome to their primary result unchanged.

REWARD AMOUNTS:

	Fixed per kind and injected via Amounts (see config). Defaults match
	the platform constants: 500 initial grant, 10 daily engagement,
	50 report submission, 5 community post.

SEE ALSO:
  - ledger.go: The Crediter this dispatches into
  - platform/: Domain handlers that call Dispatch after committing
*/
package tokens

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// =============================================================================
// REWARD KINDS AND AMOUNTS
// =============================================================================

type RewardKind string

const (
	RewardRegistration     RewardKind = "registration"
	RewardDailyEngagement  RewardKind = "daily_engagement"
	RewardReportSubmission RewardKind = "report_submission"
	RewardCommunityPost    RewardKind = "community_post"
)

// Amounts holds the fixed reward for each kind.
type Amounts struct {
	InitialGrant     uint64
	DailyEngagement  uint64
	ReportSubmission uint64
	CommunityPost    uint64
}

// DefaultAmounts returns the platform's standard reward schedule.
func DefaultAmounts() Amounts {
	return Amounts{
		InitialGrant:     500,
		DailyEngagement:  10,
		ReportSubmission: 50,
		CommunityPost:    5,
	}
}

// Descriptions recorded on reward transactions, one per kind.
const (
	descDailyEngagement  = "Daily engagement reward"
	descReportSubmission = "Report submission reward"
	descCommunityPost    = "Community post reward"
)

// =============================================================================
// OUTCOME
// =============================================================================

// Outcome is the result of a reward dispatch. Credited=false means the
// triggering action succeeded but the credit did not; Note explains why.
type Outcome struct {
	Kind     RewardKind `json:"kind"`
	Credited bool       `json:"credited"`
	Balance  uint64     `json:"balance,omitempty"`
	Note     string     `json:"note,omitempty"`
}

// =============================================================================
// DISPATCHER
// =============================================================================

// Crediter is the slice of the ledger the dispatcher needs.
type Crediter interface {
	Initialize(ctx context.Context, user Identity) (uint64, error)
	Earn(ctx context.Context, user Identity, amount uint64, description string) (uint64, error)
}

// Dispatcher translates domain events into ledger credits.
type Dispatcher struct {
	ledger  Crediter
	amounts Amounts
	log     zerolog.Logger
}

func NewDispatcher(ledger Crediter, amounts Amounts, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		ledger:  ledger,
		amounts: amounts,
		log:     log.With().Str("component", "rewards").Logger(),
	}
}

// Dispatch credits the reward for kind to user. It never fails the
// caller; inspect Outcome.Credited.
func (d *Dispatcher) Dispatch(ctx context.Context, user Identity, kind RewardKind) Outcome {
	var (
		balance uint64
		err     error
	)
	switch kind {
	case RewardRegistration:
		// Registration grants via Initialize so the existence check and
		// the grant stay one atomic step.
		balance, err = d.ledger.Initialize(ctx, user)
	case RewardDailyEngagement:
		balance, err = d.ledger.Earn(ctx, user, d.amounts.DailyEngagement, descDailyEngagement)
	case RewardReportSubmission:
		balance, err = d.ledger.Earn(ctx, user, d.amounts.ReportSubmission, descReportSubmission)
	case RewardCommunityPost:
		balance, err = d.ledger.Earn(ctx, user, d.amounts.CommunityPost, descCommunityPost)
	default:
		err = fmt.Errorf("unknown reward kind %q", kind)
	}

	if err != nil {
		d.log.Warn().
			Str("user", string(user)).
			Str("kind", string(kind)).
			Err(err).
			Msg("reward credit failed")
		return Outcome{
			Kind: kind,
			Note: fmt.Sprintf("reward not credited: %v", err),
		}
	}
	return Outcome{Kind: kind, Credited: true, Balance: balance}
}

// Convenience wrappers matching the external operation names.

func (d *Dispatcher) RewardDailyEngagement(ctx context.Context, user Identity) Outcome {
	return d.Dispatch(ctx, user, RewardDailyEngagement)
}

func (d *Dispatcher) RewardReportSubmission(ctx context.Context, user Identity) Outcome {
	return d.Dispatch(ctx, user, RewardReportSubmission)
}

func (d *Dispatcher) RewardCommunityPost(ctx context.Context, user Identity) Outcome {
	return d.Dispatch(ctx, user, RewardCommunityPost)
}
