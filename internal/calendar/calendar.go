// Package calendar exports upcoming check-ins and birthdays as iCalendar.
package calendar

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/mph-llm-experiments/fika/internal/clock"
	"github.com/mph-llm-experiments/fika/internal/model"
	"github.com/mph-llm-experiments/fika/internal/schedule"
)

const (
	prodID   = "-//fika//Check-ins//EN"
	calName  = "Fika"
	uidHost  = "fika"
	eveAlarm = "-P1D"
)

// Build returns a calendar with one all-day check-in per contact on its next
// due date, plus one event per known birthday on its next occurrence.
func Build(contacts []model.Contact, tiers model.Tiers, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText("X-WR-CALNAME", calName)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(now.UTC())

	for _, c := range contacts {
		due := dueEvent(c, tiers, now)
		due.Props.Set(stamp)
		cal.Children = append(cal.Children, due.Component)

		if bday := birthdayEvent(c, now); bday != nil {
			bday.Props.Set(stamp)
			cal.Children = append(cal.Children, bday.Component)
		}
	}
	return cal
}

// Encode writes cal to w. An empty calendar is written as a bare VCALENDAR.
func Encode(w io.Writer, cal *ical.Calendar) error {
	if len(cal.Children) == 0 {
		_, err := fmt.Fprintf(w, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:%s\r\nEND:VCALENDAR\r\n", prodID)
		return err
	}
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// NextDue returns the day a contact's cadence next needs attention: the
// snooze end while snoozed, today when overdue, otherwise when the cadence
// runs out. Birthdays get their own event and do not move this date.
func NextDue(c model.Contact, tiers model.Tiers, now time.Time) time.Time {
	today := clock.StartOfDay(now)
	if c.SnoozedUntil.Valid() && c.SnoozedUntil.After(now) {
		return clock.StartOfDay(c.SnoozedUntil.In(now.Location()))
	}
	if days := schedule.DaysUntilDue(c, tiers, now); days > 0 {
		return today.AddDate(0, 0, days)
	}
	return today
}

func dueEvent(c model.Contact, tiers model.Tiers, now time.Time) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, fmt.Sprintf("%s-due@%s", c.ID, uidHost))
	ev.Props.SetText(ical.PropSummary, fmt.Sprintf("Check in with %s", c.Name))
	if c.Note != "" {
		ev.Props.SetText(ical.PropDescription, c.Note)
	}
	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(NextDue(c, tiers, now))
	ev.Props.Set(start)
	return ev
}

func birthdayEvent(c model.Contact, now time.Time) *ical.Event {
	month, day, ok := clock.ParseBirthday(c.Birthday)
	if !ok {
		return nil
	}
	next := clock.NextBirthday(month, day, now)
	summary := fmt.Sprintf("%s's birthday", c.Name)

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, fmt.Sprintf("%s-bday-%d@%s", c.ID, next.Year(), uidHost))
	ev.Props.SetText(ical.PropSummary, summary)
	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(next)
	ev.Props.Set(start)

	if c.PreReminderEnabled() {
		alarm := ical.NewComponent(ical.CompAlarm)
		alarm.Props.SetText(ical.PropAction, "DISPLAY")
		alarm.Props.SetText(ical.PropDescription, summary)
		// set the raw value so no VALUE=TEXT parameter is emitted
		trigger := ical.NewProp(ical.PropTrigger)
		trigger.Value = eveAlarm
		alarm.Props.Set(trigger)
		ev.Children = append(ev.Children, alarm)
	}
	return ev
}
