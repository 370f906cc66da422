package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mph-llm-experiments/fika/internal/clock"
	"github.com/mph-llm-experiments/fika/internal/model"
	"github.com/mph-llm-experiments/fika/internal/roster"
	"github.com/mph-llm-experiments/fika/internal/store"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func keyMsg(s string) tea.KeyMsg {
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

// fixture: Ada and Bo overdue cadence contacts, Cy and Di on the weekly tier.
func fixture(t *testing.T) (Model, *roster.Roster) {
	t.Helper()
	s := store.NewMemory()
	ctx := context.Background()

	add := func(c model.Contact) {
		_, err := s.Create(ctx, c)
		require.NoError(t, err)
	}
	ada := model.NewContact("Ada", now.AddDate(0, 0, -40))
	add(ada)
	bo := model.NewContact("Bo", now.AddDate(0, 0, -35))
	add(bo)
	for _, name := range []string{"Cy", "Di"} {
		c := model.NewContact(name, now)
		c.SchedulingMode = model.ModeTier
		c.Tier = model.TierWeekly
		c.LastInteractionAt = model.At(now)
		add(c)
	}

	r := roster.New(s, roster.Options{Clock: clock.Fixed{At: now}})
	require.NoError(t, r.Load(ctx))
	return NewModel(r, Options{SnoozeDays: 2}), r
}

func names(cs []model.Contact) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestToday_ConnectRemovesFromDue(t *testing.T) {
	m, r := fixture(t)
	assert.Equal(t, []string{"Ada", "Bo"}, names(r.Due()))
	assert.Contains(t, m.View(), "overdue 10d")

	m = press(t, m, "c")
	r.Wait()

	assert.Equal(t, []string{"Bo"}, names(r.Due()))
	assert.Equal(t, "Connected with Ada", m.message)
	assert.Zero(t, m.cursor)
}

func TestToday_SnoozeUsesConfiguredDays(t *testing.T) {
	m, r := fixture(t)

	m = press(t, m, "j", "s")
	r.Wait()

	bo, ok := r.Find("2")
	require.True(t, ok)
	assert.True(t, bo.SnoozedUntil.Equal(now.Add(48*time.Hour)))
	assert.Equal(t, []string{"Ada"}, names(r.Due()))
	assert.Zero(t, m.cursor, "cursor clamped to the shorter list")
}

func TestBoard_MoveAcrossAndWithinTiers(t *testing.T) {
	m, r := fixture(t)

	m = press(t, m, "tab", "l")
	require.Equal(t, viewBoard, m.view)
	assert.Equal(t, 1, m.col, "weekly column")

	sel, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "Cy", sel.Name)

	m = press(t, m, "J")
	board := r.Board()
	assert.Equal(t, "Di", board[1].Cards[0].Contact.Name)
	assert.Equal(t, "Cy", board[1].Cards[1].Contact.Name)
	assert.Equal(t, 1, m.row, "selection follows the moved card")

	m = press(t, m, "L")
	board = r.Board()
	require.Len(t, board[2].Cards, 1)
	assert.Equal(t, "Cy", board[2].Cards[0].Contact.Name)
	assert.Equal(t, 2, m.col)
	assert.Equal(t, "Moved Cy to Monthly", m.message)
	r.Wait()

	m = press(t, m, "L", "L")
	assert.Equal(t, 3, m.col)
	m = press(t, m, "L")
	assert.Equal(t, 3, m.col, "no tier past the last")
}

func TestFailureIsShown(t *testing.T) {
	m, _ := fixture(t)

	next, cmd := m.Update(failureMsg{failure: roster.Failure{Op: roster.OpUpdate, ContactID: "x", Err: errors.New("disk full")}})
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.True(t, m.isError)
	assert.Equal(t, "Couldn't save update: disk full", m.message)

	next, _ = m.Update(clearMessageMsg{seq: m.messageSeq - 1})
	assert.NotEmpty(t, next.(Model).message, "stale clear is ignored")

	next, _ = m.Update(clearMessageMsg{seq: m.messageSeq})
	assert.Empty(t, next.(Model).message)
}

func TestView_NudgeFooter(t *testing.T) {
	m, _ := fixture(t)
	// Ada and Bo have never had an interaction logged, so they are cold
	assert.Contains(t, m.View(), "[A] Ada")
	assert.Contains(t, m.View(), "Just checking in!")
}

func TestQuit(t *testing.T) {
	m, _ := fixture(t)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
