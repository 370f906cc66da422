package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mph-llm-experiments/fika/internal/model"
)

func tierContact(id string, tier model.TierID, lastDaysAgo float64) model.Contact {
	return model.Contact{
		ID:                id,
		Name:              id,
		SchedulingMode:    model.ModeTier,
		Tier:              tier,
		LastInteractionAt: daysAgo(lastDaysAgo),
	}
}

func TestClassify_Thresholds(t *testing.T) {
	tests := []struct {
		ago  float64
		want Warmth
	}{
		{0, Warm},
		{7, Warm},
		{7.5, Lukewarm},
		{10, Lukewarm},
		{14, Lukewarm},
		{14.01, Cold},
		{60, Cold},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tierContact("a", model.TierWeekly, tt.ago), tiers, now), "ago=%v", tt.ago)
	}
}

func TestClassify_NoInteractionIsColdForEveryTier(t *testing.T) {
	for _, def := range tiers {
		c := model.Contact{SchedulingMode: model.ModeTier, Tier: def.ID}
		assert.Equal(t, Cold, Classify(c, tiers, now), def.ID)
	}
}

func TestClassify_FollowsNow(t *testing.T) {
	c := tierContact("a", model.TierDaily, 0)

	assert.Equal(t, Warm, Classify(c, tiers, now))
	assert.Equal(t, Lukewarm, Classify(c, tiers, now.AddDate(0, 0, 2)))
	assert.Equal(t, Cold, Classify(c, tiers, now.AddDate(0, 0, 3)))
}

func TestBoard_GroupsByTierInOrder(t *testing.T) {
	contacts := []model.Contact{
		tierContact("m1", model.TierMonthly, 1),
		tierContact("w1", model.TierWeekly, 20),
		{ID: "cadence-only", Tier: model.TierWeekly},
		tierContact("m2", model.TierMonthly, 45),
		tierContact("x", "yearly", 1),
	}

	cols := Board(contacts, tiers, now)

	if assert.Len(t, cols, 4) {
		assert.Equal(t, model.TierDaily, cols[0].Tier.ID)
		assert.Empty(t, cols[0].Cards)

		assert.Len(t, cols[1].Cards, 1)
		assert.Equal(t, Cold, cols[1].Cards[0].Warmth)

		if assert.Len(t, cols[2].Cards, 2) {
			assert.Equal(t, "m1", cols[2].Cards[0].Contact.ID)
			assert.Equal(t, Warm, cols[2].Cards[0].Warmth)
			assert.Equal(t, "m2", cols[2].Cards[1].Contact.ID)
			assert.Equal(t, Lukewarm, cols[2].Cards[1].Warmth)
		}
	}
}

func TestWarmthLabel(t *testing.T) {
	assert.Equal(t, "Glowing", Warm.Label())
	assert.Equal(t, "Cooling", Lukewarm.Label())
	assert.Equal(t, "Dormant", Cold.Label())
}
