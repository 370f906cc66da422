package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mph-llm-experiments/fika/internal/model"
	"github.com/mph-llm-experiments/fika/internal/schedule"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	nudgeStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("67")).Padding(0, 1)

	columnStyle = lipgloss.NewStyle().Padding(0, 1).Width(24)

	warmthStyles = map[schedule.Warmth]lipgloss.Style{
		schedule.Warm:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		schedule.Lukewarm: lipgloss.NewStyle().Foreground(lipgloss.Color("108")),
		schedule.Cold:     lipgloss.NewStyle().Foreground(lipgloss.Color("67")),
	}

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	if m.view == viewBoard {
		b.WriteString(m.boardView())
	} else {
		b.WriteString(m.todayView())
	}

	if nudges := m.roster.Nudges(m.opts.NudgeLimit); len(nudges) > 0 {
		b.WriteString("\n\n")
		b.WriteString(nudgeView(nudges))
	}

	if m.message != "" {
		b.WriteString("\n\n")
		if m.isError {
			b.WriteString(errorStyle.Render(m.message))
		} else {
			b.WriteString(okStyle.Render(m.message))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return docStyle.Render(b.String())
}

func (m Model) tabs() string {
	today, board := inactiveTabStyle, inactiveTabStyle
	if m.view == viewBoard {
		board = activeTabStyle
	} else {
		today = activeTabStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, today.Render("Today"), board.Render("Board"))
}

func (m Model) todayView() string {
	due := m.due()
	if len(due) == 0 {
		return dimStyle.Render("Nobody is due today.")
	}

	now := m.roster.Now()
	tiers := m.roster.Tiers()
	var lines []string
	for i, c := range due {
		line := fmt.Sprintf("%-24s %s", truncate(c.Name, 24), reason(schedule.Evaluate(c, tiers, now)))
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render("> "+line))
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func reason(st schedule.Status) string {
	switch st.Reason {
	case schedule.ReasonBirthday:
		return "birthday today"
	case schedule.ReasonBirthdayEve:
		return "birthday tomorrow"
	default:
		if st.DaysUntilDue < 0 {
			return fmt.Sprintf("overdue %dd", -st.DaysUntilDue)
		}
		return "due"
	}
}

func (m Model) boardView() string {
	board := m.board()
	cols := make([]string, 0, len(board))
	for ci, col := range board {
		lines := []string{
			lipgloss.NewStyle().Bold(true).Render(col.Tier.Name),
			dimStyle.Render(fmt.Sprintf("every %dd", col.Tier.CadenceDays)),
			"",
		}
		if len(col.Cards) == 0 {
			lines = append(lines, dimStyle.Render("-"))
		}
		for ri, card := range col.Cards {
			label := fmt.Sprintf("%s %s", truncate(card.Contact.Name, 14), warmthStyles[card.Warmth].Render(card.Warmth.Label()))
			if ci == m.col && ri == m.row {
				label = selectedStyle.Render("> ") + label
			} else {
				label = "  " + label
			}
			lines = append(lines, label)
		}
		cols = append(cols, columnStyle.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func nudgeView(nudges []schedule.Nudge) string {
	lines := []string{lipgloss.NewStyle().Bold(true).Render("Reach out")}
	for _, n := range nudges {
		lines = append(lines, fmt.Sprintf("[%s] %s%s: %s", n.Initial, n.Name, tierSuffix(n.Tier), n.Suggestion))
	}
	return nudgeStyle.Render(strings.Join(lines, "\n"))
}

func tierSuffix(t *model.TierDefinition) string {
	if t == nil {
		return ""
	}
	return " (" + t.Name + ")"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
