// Package flair implements the transition policy for a user's flair slot.
package flair

import (
	"github.com/okian/flairbot/internal/domain/tier"
)

// State mirrors the externally stored flair of a user. Both fields may be
// empty; the external service owns this record and the policy never caches
// it across requests.
type State struct {
	Class string
	Text  string
}

// Reason explains a transition outcome.
type Reason string

// Transition outcome reasons.
const (
	ReasonTooLow         Reason = "too_low"
	ReasonUnchanged      Reason = "unchanged"
	ReasonWouldDowngrade Reason = "would_downgrade"
	ReasonApplied        Reason = "applied"
)

// Outcome is the decision for one score-based request. When Applied is true
// the caller writes Resolved.Class with Text carried over from the current
// state.
type Outcome struct {
	Applied  bool
	Resolved *tier.Threshold
	Reason   Reason
}

// Decide applies the monotonic-upgrade policy: once a user holds a flair,
// a recomputation never downgrades it.
//
// The downgrade guard compares the cutoff parsed out of the current class
// string against the candidate tier's karma cutoff. The two sides are not
// the same unit (an embedded rank marker vs a raw threshold), but this is
// the long-standing behavior and changing it would change who gets blocked.
// Kept as-is; see DESIGN.md.
func Decide(current State, resolved *tier.Threshold) Outcome {
	if resolved == nil {
		return Outcome{Reason: ReasonTooLow}
	}

	if current.Class == "" {
		return Outcome{Applied: true, Resolved: resolved, Reason: ReasonApplied}
	}

	if current.Class == resolved.Class {
		return Outcome{Resolved: resolved, Reason: ReasonUnchanged}
	}

	currentCutoff, err := tier.ParseClassKarma(current.Class)
	if err != nil {
		// A hand-set class with no embedded cutoff cannot rank above
		// anything; treat it as upgradeable.
		return Outcome{Applied: true, Resolved: resolved, Reason: ReasonApplied}
	}
	if currentCutoff > resolved.MinKarma {
		return Outcome{Resolved: resolved, Reason: ReasonWouldDowngrade}
	}
	return Outcome{Applied: true, Resolved: resolved, Reason: ReasonApplied}
}
