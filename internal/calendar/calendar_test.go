package calendar

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mph-llm-experiments/fika/internal/model"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func contact(id string, lastDaysAgo int) model.Contact {
	c := model.NewContact(id, now.AddDate(0, 0, -lastDaysAgo))
	c.ID = id
	c.CadenceIntervalDays = 10
	return c
}

func TestNextDue(t *testing.T) {
	tiers := model.DefaultTiers()
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, today, NextDue(contact("overdue", 30), tiers, now))
	assert.Equal(t, today.AddDate(0, 0, 6), NextDue(contact("fresh", 4), tiers, now))

	snoozed := contact("snoozed", 30)
	snoozed.SnoozedUntil = model.At(now.Add(50 * time.Hour))
	assert.Equal(t, today.AddDate(0, 0, 2), NextDue(snoozed, tiers, now))
}

func TestNextDue_BirthdayDoesNotMoveCheckIn(t *testing.T) {
	tiers := model.DefaultTiers()
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	bday := contact("bday", 4)
	bday.Birthday = "1990-06-15"
	assert.Equal(t, today.AddDate(0, 0, 6), NextDue(bday, tiers, now), "birthday today")

	eve := contact("eve", 4)
	eve.Birthday = "1990-06-16"
	assert.Equal(t, today.AddDate(0, 0, 6), NextDue(eve, tiers, now), "birthday tomorrow")

	snoozed := contact("snoozed", 30)
	snoozed.Birthday = "1990-06-15"
	snoozed.SnoozedUntil = model.At(now.Add(50 * time.Hour))
	assert.Equal(t, today.AddDate(0, 0, 2), NextDue(snoozed, tiers, now))
}

func TestBuild(t *testing.T) {
	ada := contact("ada", 4)
	ada.Birthday = "1815-06-16"
	bo := contact("bo", 4)
	bo.Birthday = "--0101"
	bo.SetPreReminder(false)
	cy := contact("cy", 4)
	cy.Birthday = "not a date"

	cal := Build([]model.Contact{ada, bo, cy}, model.DefaultTiers(), now)
	events := cal.Events()
	require.Len(t, events, 5, "three check-ins and two birthdays")

	byUID := map[string]ical.Event{}
	for _, ev := range events {
		uid, err := ev.Props.Text(ical.PropUID)
		require.NoError(t, err)
		byUID[uid] = ev
	}

	adaBday, ok := byUID["ada-bday-2025@fika"]
	require.True(t, ok)
	start, err := adaBday.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), start)
	require.Len(t, adaBday.Children, 1)
	assert.Equal(t, ical.CompAlarm, adaBday.Children[0].Name)

	boBday, ok := byUID["bo-bday-2026@fika"]
	require.True(t, ok, "past birthdays roll to next year")
	assert.Empty(t, boBday.Children, "pre-reminder off")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, cal))
	assert.Contains(t, buf.String(), "SUMMARY:Check in with ada")
	assert.Contains(t, buf.String(), "TRIGGER:-P1D")
	assert.Contains(t, buf.String(), "DTSTART;VALUE=DATE:20250621")
}

func TestEncode_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Build(nil, model.DefaultTiers(), now)))
	assert.Equal(t, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//fika//Check-ins//EN\r\nEND:VCALENDAR\r\n", buf.String())
}
