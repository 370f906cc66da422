package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mph-llm-experiments/fika/internal/model"
)

func sampleBoard() []model.Contact {
	return []model.Contact{
		tierContact("a", model.TierWeekly, 1),
		tierContact("b", model.TierMonthly, 1),
		tierContact("c", model.TierMonthly, 1),
		tierContact("d", model.TierQuarterly, 1),
	}
}

func TestReassign_OntoTier(t *testing.T) {
	in := sampleBoard()

	out, changed := Reassign(in, tiers, "a", Target{Tier: model.TierDaily})

	require.True(t, changed)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(out))
	assert.Equal(t, model.TierDaily, out[0].Tier)
	assert.Equal(t, model.TierWeekly, in[0].Tier, "input is not mutated")
}

func TestReassign_OntoTierSwitchesCadenceContactToTierMode(t *testing.T) {
	in := []model.Contact{{ID: "a", CadenceIntervalDays: 30}}

	out, changed := Reassign(in, tiers, "a", Target{Tier: model.TierWeekly})

	require.True(t, changed)
	assert.Equal(t, model.ModeTier, out[0].SchedulingMode)
	assert.Equal(t, 7, out[0].EffectiveCadence(tiers))
}

func TestReassign_OntoContactMovesToTargetPosition(t *testing.T) {
	in := sampleBoard()

	out, changed := Reassign(in, tiers, "a", Target{ContactID: "c"})

	require.True(t, changed)
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(out))
	assert.Equal(t, model.TierMonthly, out[2].Tier)
	for _, c := range out {
		if c.ID != "a" {
			orig := in[indexOf(in, c.ID)]
			assert.Equal(t, orig.Tier, c.Tier, "other members keep their tier")
		}
	}
}

func TestReassign_OntoEarlierContact(t *testing.T) {
	in := sampleBoard()

	out, changed := Reassign(in, tiers, "d", Target{ContactID: "b"})

	require.True(t, changed)
	assert.Equal(t, []string{"a", "d", "b", "c"}, ids(out))
	assert.Equal(t, model.TierMonthly, out[1].Tier)
}

func TestReassign_NoOps(t *testing.T) {
	in := sampleBoard()

	tests := []struct {
		name   string
		id     string
		target Target
	}{
		{"self", "a", Target{ContactID: "a"}},
		{"empty target", "a", Target{}},
		{"unknown contact", "zz", Target{Tier: model.TierDaily}},
		{"unknown target contact", "a", Target{ContactID: "zz"}},
		{"undefined tier", "a", Target{Tier: "yearly"}},
		{"same tier", "b", Target{Tier: model.TierMonthly}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed := Reassign(in, tiers, tt.id, tt.target)
			assert.False(t, changed)
			assert.Equal(t, in, out)
			assert.Equal(t, sampleBoard(), in)
		})
	}
}

func TestReassign_TargetWithoutTier(t *testing.T) {
	in := []model.Contact{
		tierContact("a", model.TierWeekly, 1),
		{ID: "b", CadenceIntervalDays: 30},
	}

	_, changed := Reassign(in, tiers, "a", Target{ContactID: "b"})
	assert.False(t, changed)
}

func TestArrayMove_PreservesMembers(t *testing.T) {
	for from := 0; from < 4; from++ {
		for to := 0; to < 4; to++ {
			s := arrayMove(sampleBoard(), from, to)
			assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, ids(s))
			assert.Equal(t, sampleBoard()[from].ID, s[to].ID)
		}
	}
}
