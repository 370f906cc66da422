package schedule

import (
	"time"

	"github.com/mph-llm-experiments/fika/internal/clock"
	"github.com/mph-llm-experiments/fika/internal/model"
)

// Warmth is how fresh a relationship is relative to its expected cadence.
type Warmth string

const (
	Warm     Warmth = "warm"
	Lukewarm Warmth = "lukewarm"
	Cold     Warmth = "cold"
)

// Label is the short status word shown next to a warmth level.
func (w Warmth) Label() string {
	switch w {
	case Warm:
		return "Glowing"
	case Lukewarm:
		return "Cooling"
	default:
		return "Dormant"
	}
}

// Classify computes the warmth of c at now. It must be recomputed on every
// read since now moves independently of the contact.
//
//	diff <= cadence        warm
//	diff <= 2 * cadence    lukewarm
//	otherwise              cold
//
// A contact with no recorded interaction is cold whatever its tier.
func Classify(c model.Contact, tiers model.Tiers, now time.Time) Warmth {
	if !c.LastInteractionAt.Valid() {
		return Cold
	}
	expected := float64(c.EffectiveCadence(tiers))
	diff := clock.FractionalDays(c.LastInteractionAt.Time, now)

	switch {
	case diff <= expected:
		return Warm
	case diff <= 2*expected:
		return Lukewarm
	default:
		return Cold
	}
}

// Card is one contact placed on the board.
type Card struct {
	Contact model.Contact `json:"contact"`
	Warmth  Warmth        `json:"warmth"`
}

// Column is one tier on the board.
type Column struct {
	Tier  model.TierDefinition `json:"tier"`
	Cards []Card               `json:"cards"`
}

// Board groups tier-mode contacts by tier, in tier order. Within a column
// contacts keep their collection order. Contacts without a known tier are
// left off the board.
func Board(contacts []model.Contact, tiers model.Tiers, now time.Time) []Column {
	cols := make([]Column, len(tiers))
	for i, def := range tiers {
		cols[i] = Column{Tier: def, Cards: []Card{}}
	}
	for _, c := range contacts {
		if c.Mode() != model.ModeTier {
			continue
		}
		i := tiers.Index(c.Tier)
		if i < 0 {
			continue
		}
		cols[i].Cards = append(cols[i].Cards, Card{Contact: c, Warmth: Classify(c, tiers, now)})
	}
	return cols
}
