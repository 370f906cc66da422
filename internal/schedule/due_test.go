package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mph-llm-experiments/fika/internal/model"
)

var (
	now   = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tiers = model.DefaultTiers()
)

func daysAgo(n float64) model.Timestamp {
	return model.At(now.Add(-time.Duration(n * float64(24*time.Hour))))
}

func cadenceContact(cadence int, lastDaysAgo float64) model.Contact {
	return model.Contact{
		ID:                  "c1",
		Name:                "Ada",
		CadenceIntervalDays: cadence,
		LastContactedAt:     daysAgo(lastDaysAgo),
	}
}

func TestEvaluate_CadenceElapsed(t *testing.T) {
	st := Evaluate(cadenceContact(7, 10), tiers, now)

	assert.True(t, st.Due)
	assert.Equal(t, ReasonCadence, st.Reason)
	assert.Equal(t, 10, st.DaysSince)
	assert.Equal(t, -3, st.DaysUntilDue)
}

func TestEvaluate_CadenceBoundary(t *testing.T) {
	tests := []struct {
		name    string
		cadence int
		ago     float64
		due     bool
	}{
		{"exactly on cadence", 30, 30, true},
		{"fraction short is floored", 30, 29.9, false},
		{"one day early", 30, 29, false},
		{"zero cadence uses default", 0, 30, true},
		{"zero cadence under default", 0, 29, false},
		{"daily", 1, 1, true},
		{"contacted in the future", 7, -3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.due, IsDue(cadenceContact(tt.cadence, tt.ago), tiers, now))
		})
	}
}

func TestEvaluate_DueIffDaysSinceReachesCadence(t *testing.T) {
	for cadence := 1; cadence <= 40; cadence += 3 {
		for ago := 0; ago <= 60; ago += 2 {
			c := cadenceContact(cadence, float64(ago))
			assert.Equal(t, ago >= cadence, IsDue(c, tiers, now), "cadence=%d ago=%d", cadence, ago)
		}
	}
}

func TestEvaluate_MissingOrMalformedLastContact(t *testing.T) {
	c := model.Contact{CadenceIntervalDays: 1}
	st := Evaluate(c, tiers, now)
	assert.False(t, st.Due)
	assert.Equal(t, 0, st.DaysSince)

	c.LastContactedAt = model.ParseTimestampString("not-a-date")
	assert.False(t, IsDue(c, tiers, now))
}

func TestEvaluate_SnoozeSuppressesCadence(t *testing.T) {
	c := cadenceContact(1, 30)
	c.SnoozedUntil = model.At(now.AddDate(0, 0, 1))

	st := Evaluate(c, tiers, now)
	assert.False(t, st.Due)
	assert.Equal(t, ReasonSnoozed, st.Reason)
}

func TestEvaluate_ExpiredOrMalformedSnoozeIgnored(t *testing.T) {
	c := cadenceContact(1, 30)

	c.SnoozedUntil = model.At(now.Add(-time.Minute))
	assert.True(t, IsDue(c, tiers, now))

	c.SnoozedUntil = model.At(now)
	assert.True(t, IsDue(c, tiers, now), "snooze must be strictly later than now")

	c.SnoozedUntil = model.ParseTimestampString("whenever")
	assert.True(t, IsDue(c, tiers, now))
}

func TestEvaluate_BirthdayBeatsSnooze(t *testing.T) {
	c := cadenceContact(30, 0)
	c.Birthday = "1990-06-15"
	c.SnoozedUntil = model.At(now.AddDate(0, 0, 5))

	st := Evaluate(c, tiers, now)
	assert.True(t, st.Due)
	assert.Equal(t, ReasonBirthday, st.Reason)
}

func TestEvaluate_BirthdayEve(t *testing.T) {
	c := cadenceContact(30, 0)
	c.Birthday = "--06-16"
	c.SnoozedUntil = model.At(now.AddDate(0, 0, 5))

	st := Evaluate(c, tiers, now)
	assert.True(t, st.Due)
	assert.Equal(t, ReasonBirthdayEve, st.Reason)

	c.SetPreReminder(false)
	st = Evaluate(c, tiers, now)
	assert.False(t, st.Due)
	assert.Equal(t, ReasonSnoozed, st.Reason)
}

func TestEvaluate_BirthdayEveAcrossYearEnd(t *testing.T) {
	nye := time.Date(2025, 12, 31, 9, 0, 0, 0, time.UTC)
	c := model.Contact{Birthday: "2001-01-01", LastContactedAt: model.At(nye)}

	assert.Equal(t, ReasonBirthdayEve, Evaluate(c, tiers, nye).Reason)
}

func TestEvaluate_UnparseableBirthdayIsAbsent(t *testing.T) {
	c := cadenceContact(30, 2)
	c.Birthday = "the fifteenth"

	st := Evaluate(c, tiers, now)
	assert.False(t, st.Due)
	assert.Equal(t, ReasonNotDue, st.Reason)
}

func TestEvaluate_SnoozedNeverDueUnlessBirthday(t *testing.T) {
	for ago := 0; ago < 100; ago += 7 {
		c := cadenceContact(1, float64(ago))
		c.SnoozedUntil = model.At(now.Add(time.Hour))
		c.Birthday = "1980-02-02"
		c.SetPreReminder(false)
		assert.False(t, IsDue(c, tiers, now))
	}
}

func TestEvaluate_TierModeUsesTierCadence(t *testing.T) {
	c := model.Contact{
		SchedulingMode:      model.ModeTier,
		Tier:                model.TierWeekly,
		CadenceIntervalDays: 90,
		LastContactedAt:     daysAgo(8),
	}
	assert.True(t, IsDue(c, tiers, now))
}

func TestScenario_SnoozedUntilTomorrow(t *testing.T) {
	c := cadenceContact(1, 30)
	c.SnoozedUntil = model.At(now.AddDate(0, 0, 1))

	assert.False(t, IsDue(c, tiers, now))
}

func TestDueToday_KeepsInputOrder(t *testing.T) {
	a := cadenceContact(7, 10)
	a.ID = "a"
	b := cadenceContact(7, 1)
	b.ID = "b"
	c := cadenceContact(3, 3)
	c.ID = "c"

	due := DueToday([]model.Contact{a, b, c}, tiers, now)
	if assert.Len(t, due, 2) {
		assert.Equal(t, "a", due[0].ID)
		assert.Equal(t, "c", due[1].ID)
	}
}
