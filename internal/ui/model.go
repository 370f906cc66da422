// Package ui is the interactive dashboard: a Today list of who is due and
// a Board of tier columns with warmth.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mph-llm-experiments/fika/internal/clock"
	"github.com/mph-llm-experiments/fika/internal/model"
	"github.com/mph-llm-experiments/fika/internal/roster"
	"github.com/mph-llm-experiments/fika/internal/schedule"
)

type viewMode int

const (
	viewToday viewMode = iota
	viewBoard
)

const messageTTL = 4 * time.Second

// Options tune the dashboard.
type Options struct {
	SnoozeDays int
	NudgeLimit int
}

// Model is the dashboard state.
type Model struct {
	roster *roster.Roster
	opts   Options
	keys   KeyMap
	help   help.Model

	view viewMode

	// today view
	cursor int

	// board view
	col, row int

	message    string
	messageSeq int
	isError    bool

	width, height int
}

// NewModel returns a dashboard over r, which should already be loaded.
func NewModel(r *roster.Roster, opts Options) Model {
	if opts.SnoozeDays < 1 {
		opts.SnoozeDays = 1
	}
	if opts.NudgeLimit < 1 {
		opts.NudgeLimit = schedule.DefaultNudgeLimit
	}
	return Model{
		roster: r,
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return waitForFailure(m.roster)
}

func (m Model) due() []model.Contact {
	return m.roster.Due()
}

func (m Model) board() []schedule.Column {
	return m.roster.Board()
}

// selected returns the contact under the cursor in the current view.
func (m Model) selected() (model.Contact, bool) {
	switch m.view {
	case viewBoard:
		board := m.board()
		if m.col < len(board) && m.row < len(board[m.col].Cards) {
			return board[m.col].Cards[m.row].Contact, true
		}
	default:
		due := m.due()
		if m.cursor < len(due) {
			return due[m.cursor], true
		}
	}
	return model.Contact{}, false
}

func (m Model) snoozeFor() time.Duration {
	return time.Duration(m.opts.SnoozeDays) * clock.Day
}

// clamp keeps both cursors inside the current data.
func (m *Model) clamp() {
	if n := len(m.due()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	board := m.board()
	if m.col >= len(board) {
		m.col = max(len(board)-1, 0)
	}
	if m.col < len(board) {
		if n := len(board[m.col].Cards); m.row >= n {
			m.row = max(n-1, 0)
		}
	}
}
