package model

// TierID names a cadence bucket.
type TierID string

const (
	TierDaily     TierID = "daily"
	TierWeekly    TierID = "weekly"
	TierMonthly   TierID = "monthly"
	TierQuarterly TierID = "quarterly"
)

// TierDefinition describes one cadence bucket.
type TierDefinition struct {
	ID          TierID `json:"id"`
	Name        string `json:"name"`
	CadenceDays int    `json:"cadence_days"`
	Description string `json:"description,omitempty"`
}

// Tiers is an ordered set of tier definitions. Order is display order.
type Tiers []TierDefinition

// DefaultTiers returns the built-in buckets.
func DefaultTiers() Tiers {
	return Tiers{
		{ID: TierDaily, Name: "Daily", CadenceDays: 1, Description: "The people you talk to every day"},
		{ID: TierWeekly, Name: "Weekly", CadenceDays: 7, Description: "Close friends and family"},
		{ID: TierMonthly, Name: "Monthly", CadenceDays: 30, Description: "Good friends worth a regular coffee"},
		{ID: TierQuarterly, Name: "Quarterly", CadenceDays: 90, Description: "People you don't want to drift from"},
	}
}

// Lookup returns the definition for id.
func (t Tiers) Lookup(id TierID) (TierDefinition, bool) {
	for _, def := range t {
		if def.ID == id {
			return def, true
		}
	}
	return TierDefinition{}, false
}

// Index returns the position of id, or -1.
func (t Tiers) Index(id TierID) int {
	for i, def := range t {
		if def.ID == id {
			return i
		}
	}
	return -1
}

// WithCadences returns a copy with cadences overridden per tier id.
// Non-positive overrides are ignored.
func (t Tiers) WithCadences(overrides map[string]int) Tiers {
	out := make(Tiers, len(t))
	copy(out, t)
	for i := range out {
		if days, ok := overrides[string(out[i].ID)]; ok && days > 0 {
			out[i].CadenceDays = days
		}
	}
	return out
}
