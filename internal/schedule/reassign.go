package schedule

import (
	"github.com/mph-llm-experiments/fika/internal/model"
)

// Target is where a contact was dropped: onto a tier, or onto another
// contact. Exactly one field is expected to be set; Tier wins when both are.
type Target struct {
	Tier      model.TierID `json:"tier,omitempty"`
	ContactID string       `json:"contact_id,omitempty"`
}

// Reassign moves contact id to target and returns the updated collection.
// The input slice is never modified. The bool is false when the gesture was
// a no-op: unknown ids, a self drop, an undefined tier, or no change.
//
// Dropping onto a tier sets the contact's tier in place. Dropping onto a
// contact adopts that contact's tier and moves the dragged contact to the
// target's index.
func Reassign(contacts []model.Contact, tiers model.Tiers, id string, target Target) ([]model.Contact, bool) {
	from := indexOf(contacts, id)
	if from < 0 {
		return contacts, false
	}

	switch {
	case target.Tier != "":
		if _, ok := tiers.Lookup(target.Tier); !ok {
			return contacts, false
		}
		if contacts[from].Mode() == model.ModeTier && contacts[from].Tier == target.Tier {
			return contacts, false
		}
		out := cloneAll(contacts)
		setTier(&out[from], target.Tier)
		return out, true

	case target.ContactID != "":
		if target.ContactID == id {
			return contacts, false
		}
		to := indexOf(contacts, target.ContactID)
		if to < 0 {
			return contacts, false
		}
		tier := contacts[to].Tier
		if _, ok := tiers.Lookup(tier); !ok {
			return contacts, false
		}
		out := cloneAll(contacts)
		setTier(&out[from], tier)
		return arrayMove(out, from, to), true
	}

	return contacts, false
}

func setTier(c *model.Contact, tier model.TierID) {
	c.Tier = tier
	c.SchedulingMode = model.ModeTier
}

// arrayMove removes the element at from and reinserts it at to.
func arrayMove(s []model.Contact, from, to int) []model.Contact {
	if from == to {
		return s
	}
	moved := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = moved
	return s
}

func indexOf(contacts []model.Contact, id string) int {
	if id == "" {
		return -1
	}
	for i, c := range contacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(contacts []model.Contact) []model.Contact {
	out := make([]model.Contact, len(contacts))
	for i, c := range contacts {
		out[i] = c.Clone()
	}
	return out
}
