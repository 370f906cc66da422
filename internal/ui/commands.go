package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mph-llm-experiments/fika/internal/roster"
)

// Message types
type failureMsg struct {
	failure roster.Failure
}

type reloadedMsg struct {
	err error
}

type clearMessageMsg struct {
	seq int
}

// waitForFailure blocks on the roster's failure channel. It is re-armed
// after every delivery.
func waitForFailure(r *roster.Roster) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-r.Failures()
		if !ok {
			return nil
		}
		return failureMsg{failure: f}
	}
}

// reload refetches the roster from the store.
func reload(r *roster.Roster) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return reloadedMsg{err: r.Load(ctx)}
	}
}

// clearMessageAfter returns a command that clears the message after a delay
func clearMessageAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearMessageMsg{seq: seq}
	})
}

func failureText(f roster.Failure) string {
	return fmt.Sprintf("Couldn't save %s: %v", f.Op, f.Err)
}
