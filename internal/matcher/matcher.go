// Package matcher decides whether a freshly recorded action creates a match.
// It is the single source of truth for what building a match means; the
// confirmation workflow on conditional matches is a separate, later phase
// handled by the match service.
package matcher

import (
	"context"

	"fmk-dating/internal/db"
	"fmk-dating/internal/repository"
)

// Outcome types reported back to the caller.
const (
	OutcomeNone        = "none"
	OutcomeInstant     = "instant"
	OutcomeConditional = "conditional"
)

// Outcome describes which branch fired for a submitted action, with enough
// detail for the client to render an icon/label.
type Outcome struct {
	Type string
	// Action is the submitted kind that triggered an instant match.
	Action string
	Icon   string
	// Match is the live match row, set for instant/conditional outcomes.
	Match *db.Match
}

// Resolver evaluates the reciprocal-action matching rule.
type Resolver struct {
	actions *repository.ActionRepository
	matches *repository.MatchRepository
}

// NewResolver creates a resolver over the action and match repositories.
func NewResolver(actions *repository.ActionRepository, matches *repository.MatchRepository) *Resolver {
	return &Resolver{actions: actions, matches: matches}
}

// Resolve decides the match outcome for the just-recorded action from -> to.
//
// Rules:
//   - kill never reads or writes matches.
//   - fuck-fuck / marry-marry: instant match, both confirmations pre-set.
//   - fuck-marry (either order): conditional match, confirmations unset.
//
// Idempotent: when a match already exists for the unordered pair the
// existing row is reported and nothing is created.
func (r *Resolver) Resolve(ctx context.Context, fromID, toID int64, kind string) (Outcome, error) {
	if kind == db.ActionKill {
		return Outcome{Type: OutcomeNone}, nil
	}

	reverse, err := r.actions.GetKind(ctx, toID, fromID)
	if err != nil {
		return Outcome{}, err
	}
	if reverse == "" || reverse == db.ActionKill {
		return Outcome{Type: OutcomeNone}, nil
	}

	if kind == reverse {
		match, _, err := r.matches.CreateIfAbsent(ctx, &db.Match{
			User1ID:  fromID,
			User2ID:  toID,
			Type:     db.MatchInstant,
			Confirm1: true,
			Confirm2: true,
		})
		if err != nil {
			return Outcome{}, err
		}
		icon := "🔥"
		if kind == db.ActionMarry {
			icon = "💍"
		}
		return Outcome{Type: OutcomeInstant, Action: kind, Icon: icon, Match: match}, nil
	}

	// Remaining combination is fuck-marry in one order or the other.
	match, _, err := r.matches.CreateIfAbsent(ctx, &db.Match{
		User1ID: fromID,
		User2ID: toID,
		Type:    db.MatchConditional,
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Type: OutcomeConditional, Icon: "💬", Match: match}, nil
}
