package service

import (
	"fmt"

	"github.com/okian/flairbot/internal/domain/flair"
	"github.com/okian/flairbot/internal/domain/karma"
)

// writeFailureReply is the generic answer for a failed flair write.
const writeFailureReply = "Something went wrong while updating your flair. " +
	"Please try again later; contact the moderators if this keeps happening."

// renderOutcome formats the reply for a score-based request. The winning
// ordering is named so users can see which listing their karma came from.
func renderOutcome(best karma.Best, out flair.Outcome) string {
	prefix := fmt.Sprintf("Calculated Karma: **%d** (%s karma).", best.Total, best.Ordering)
	switch out.Reason {
	case flair.ReasonTooLow:
		return prefix + " Too low for flair."
	case flair.ReasonUnchanged:
		return prefix + " Flair class is same as what you have now, so no changes."
	case flair.ReasonWouldDowngrade:
		return prefix + " New flair would be worse than your current, so no changes."
	case flair.ReasonApplied:
		return fmt.Sprintf("%s New flair set for karma level %d+", prefix, out.Resolved.MinKarma)
	}
	return prefix
}

// renderTextChanged formats the reply for a text-only change.
func renderTextChanged(text string) string {
	return fmt.Sprintf("Flair text changed to %q. Flair class was left as is.", text)
}
