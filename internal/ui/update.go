package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mph-llm-experiments/fika/internal/logger"
	"github.com/mph-llm-experiments/fika/internal/model"
	"github.com/mph-llm-experiments/fika/internal/schedule"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case failureMsg:
		// the edit stays applied locally; say so and keep listening
		cmd := m.flash(failureText(msg.failure), true)
		return m, tea.Batch(cmd, waitForFailure(m.roster))

	case reloadedMsg:
		if msg.err != nil {
			logger.Error("reload failed", "err", msg.err)
			cmd := m.flash(fmt.Sprintf("Reload failed: %v", msg.err), true)
			return m, cmd
		}
		m.clamp()
		cmd := m.flash("Reloaded", false)
		return m, cmd

	case clearMessageMsg:
		if msg.seq == m.messageSeq {
			m.message, m.isError = "", false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Switch):
		if m.view == viewToday {
			m.view = viewBoard
		} else {
			m.view = viewToday
		}
		m.clamp()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, reload(m.roster)
	case key.Matches(msg, m.keys.Connect):
		return m.connect()
	case key.Matches(msg, m.keys.Snooze):
		return m.snooze()
	}

	if m.view == viewBoard {
		return m.handleBoardKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.due())-1 {
			m.cursor++
		}
	}
	return m, nil
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	board := m.board()
	tiers := m.roster.Tiers()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.col < len(board) && m.row < len(board[m.col].Cards)-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.clamp()
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < len(board)-1 {
			m.col++
			m.clamp()
		}

	case key.Matches(msg, m.keys.TierUp), key.Matches(msg, m.keys.TierDown):
		c, ok := m.selected()
		if !ok {
			return m, nil
		}
		to := m.col - 1
		if key.Matches(msg, m.keys.TierDown) {
			to = m.col + 1
		}
		if to < 0 || to >= len(tiers) {
			return m, nil
		}
		if m.roster.Reassign(c.ID, schedule.Target{Tier: tiers[to].ID}) {
			m.col = to
			m.row = m.rowOf(to, c.ID)
			cmd := m.flash(fmt.Sprintf("Moved %s to %s", c.Name, tiers[to].Name), false)
			return m, cmd
		}

	case key.Matches(msg, m.keys.MoveUp), key.Matches(msg, m.keys.MoveDown):
		c, ok := m.selected()
		if !ok {
			return m, nil
		}
		to := m.row - 1
		if key.Matches(msg, m.keys.MoveDown) {
			to = m.row + 1
		}
		cards := board[m.col].Cards
		if to < 0 || to >= len(cards) {
			return m, nil
		}
		if m.roster.Reassign(c.ID, schedule.Target{ContactID: cards[to].Contact.ID}) {
			m.row = m.rowOf(m.col, c.ID)
		}
	}
	return m, nil
}

func (m Model) rowOf(col int, id string) int {
	board := m.board()
	if col >= len(board) {
		return 0
	}
	for i, card := range board[col].Cards {
		if card.Contact.ID == id {
			return i
		}
	}
	return 0
}

func (m Model) connect() (tea.Model, tea.Cmd) {
	c, ok := m.selected()
	if !ok {
		return m, nil
	}
	updated, err := m.roster.Connect(c.ID, model.InteractionFika, "")
	if err != nil {
		cmd := m.flash(err.Error(), true)
		return m, cmd
	}
	m.clamp()
	cmd := m.flash(fmt.Sprintf("Connected with %s", updated.Name), false)
	return m, cmd
}

func (m Model) snooze() (tea.Model, tea.Cmd) {
	c, ok := m.selected()
	if !ok {
		return m, nil
	}
	updated, err := m.roster.Snooze(c.ID, m.snoozeFor())
	if err != nil {
		cmd := m.flash(err.Error(), true)
		return m, cmd
	}
	m.clamp()
	cmd := m.flash(fmt.Sprintf("Snoozed %s until %s", updated.Name, updated.SnoozedUntil.Format("Mon Jan 2")), false)
	return m, cmd
}

// flash sets a transient status line.
func (m *Model) flash(text string, isError bool) tea.Cmd {
	m.messageSeq++
	m.message, m.isError = text, isError
	return clearMessageAfter(messageTTL, m.messageSeq)
}
