// Package schedule decides who is due for outreach and how warm each
// relationship is. Every function is pure: it reads the contacts and the
// instant it is handed and returns a fresh answer.
package schedule

import (
	"time"

	"github.com/mph-llm-experiments/fika/internal/clock"
	"github.com/mph-llm-experiments/fika/internal/model"
)

// Reason explains a due-state decision.
type Reason string

const (
	ReasonBirthday    Reason = "birthday"
	ReasonBirthdayEve Reason = "birthday-eve"
	ReasonSnoozed     Reason = "snoozed"
	ReasonCadence     Reason = "cadence"
	ReasonNotDue      Reason = "not-due"
)

// Status is the due state of one contact at one instant.
type Status struct {
	Due          bool   `json:"due"`
	Reason       Reason `json:"reason"`
	DaysSince    int    `json:"days_since"`
	DaysUntilDue int    `json:"days_until_due"`
}

// DaysSinceContact returns whole days since the last contact. A missing or
// malformed last-contact timestamp counts as 0, so such a contact is never
// due by cadence.
func DaysSinceContact(c model.Contact, now time.Time) int {
	if !c.LastContactedAt.Valid() {
		return 0
	}
	return clock.DaysSince(c.LastContactedAt.Time, now)
}

// DaysUntilDue is the cadence minus the days since last contact. Negative
// means overdue.
func DaysUntilDue(c model.Contact, tiers model.Tiers, now time.Time) int {
	return c.EffectiveCadence(tiers) - DaysSinceContact(c, now)
}

// Evaluate decides whether c is due at now. Rules apply in order and the
// first match wins: birthday today, birthday tomorrow (when the pre-reminder
// is on), active snooze, then cadence. Birthdays ignore snooze.
func Evaluate(c model.Contact, tiers model.Tiers, now time.Time) Status {
	st := Status{
		DaysSince:    DaysSinceContact(c, now),
		DaysUntilDue: DaysUntilDue(c, tiers, now),
	}

	if month, day, ok := clock.ParseBirthday(c.Birthday); ok {
		if clock.IsBirthday(month, day, now) {
			st.Due, st.Reason = true, ReasonBirthday
			return st
		}
		if c.PreReminderEnabled() && clock.IsBirthday(month, day, now.AddDate(0, 0, 1)) {
			st.Due, st.Reason = true, ReasonBirthdayEve
			return st
		}
	}

	if c.SnoozedUntil.Valid() && c.SnoozedUntil.After(now) {
		st.Reason = ReasonSnoozed
		return st
	}

	if st.DaysSince >= c.EffectiveCadence(tiers) {
		st.Due, st.Reason = true, ReasonCadence
		return st
	}
	st.Reason = ReasonNotDue
	return st
}

// IsDue reports whether c is due at now.
func IsDue(c model.Contact, tiers model.Tiers, now time.Time) bool {
	return Evaluate(c, tiers, now).Due
}

// DueToday returns the due contacts in input order.
func DueToday(contacts []model.Contact, tiers model.Tiers, now time.Time) []model.Contact {
	var due []model.Contact
	for _, c := range contacts {
		if IsDue(c, tiers, now) {
			due = append(due, c)
		}
	}
	return due
}
