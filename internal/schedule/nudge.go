package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/mph-llm-experiments/fika/internal/model"
)

// DefaultNudgeLimit is how many nudges the dashboard shows.
const DefaultNudgeLimit = 2

// Nudge is a suggested outreach message for a cold contact.
type Nudge struct {
	ContactID  string                `json:"contact_id"`
	Name       string                `json:"name"`
	Initial    string                `json:"initial"`
	Tier       *model.TierDefinition `json:"tier,omitempty"`
	Suggestion string                `json:"suggestion"`
}

// Nudges picks up to limit cold contacts in collection order and drafts a
// message for each. Calling it twice with the same input gives the same
// output.
func Nudges(contacts []model.Contact, tiers model.Tiers, now time.Time, limit int) []Nudge {
	if limit <= 0 {
		limit = DefaultNudgeLimit
	}
	out := []Nudge{}
	for _, c := range contacts {
		if len(out) == limit {
			break
		}
		if Classify(c, tiers, now) != Cold {
			continue
		}
		n := Nudge{
			ContactID:  c.ID,
			Name:       c.Name,
			Initial:    c.Initial(),
			Suggestion: Suggestion(c.Hooks),
		}
		if def, ok := tiers.Lookup(c.Tier); ok {
			n.Tier = &def
		}
		out = append(out, n)
	}
	return out
}

// Suggestion drafts a message from the hooks: health first, then the last
// shared laugh, then a generic check-in.
func Suggestion(h *model.Hooks) string {
	switch {
	case h != nil && strings.TrimSpace(h.Health) != "":
		return fmt.Sprintf("Ask how the %s is going.", strings.ToLower(strings.TrimSpace(h.Health)))
	case h != nil && strings.TrimSpace(h.LastLaugh) != "":
		return fmt.Sprintf("Mention that thing you last laughed about: \"%s\".", strings.TrimSpace(h.LastLaugh))
	default:
		return "Just checking in! Saw this and thought of you."
	}
}
