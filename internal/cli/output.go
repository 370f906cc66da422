package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mph-llm-experiments/fika/internal/model"
	"github.com/mph-llm-experiments/fika/internal/schedule"
)

var (
	dueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	birthdayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	snoozeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warmStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	lukewarmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("108"))
	coldStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("67"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

func paint(style lipgloss.Style, s string) string {
	if globalFlags.NoColor {
		return s
	}
	return style.Render(s)
}

func (e *env) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.errOut)
	return fs
}

func (e *env) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(e.out, string(data))
	return nil
}

// say prints a confirmation unless --quiet.
func (e *env) say(format string, args ...interface{}) {
	if !globalFlags.Quiet {
		fmt.Fprintf(e.out, format+"\n", args...)
	}
}

func (e *env) find(id string) (model.Contact, error) {
	c, ok := e.roster.Find(id)
	if !ok {
		return model.Contact{}, fmt.Errorf("contact not found: %s", id)
	}
	return c, nil
}

// contactView is the JSON shape of a contact with its computed state.
type contactView struct {
	model.Contact
	Status schedule.Status `json:"status"`
	Warmth string          `json:"warmth,omitempty"`
}

func (e *env) view(c model.Contact) contactView {
	now := e.roster.Now()
	tiers := e.roster.Tiers()
	v := contactView{Contact: c, Status: schedule.Evaluate(c, tiers, now)}
	if c.Mode() == model.ModeTier {
		v.Warmth = string(schedule.Classify(c, tiers, now))
	}
	v.EnsureSlices()
	return v
}

func reasonText(st schedule.Status) string {
	switch st.Reason {
	case schedule.ReasonBirthday:
		return paint(birthdayStyle, "birthday today")
	case schedule.ReasonBirthdayEve:
		return paint(birthdayStyle, "birthday tomorrow")
	case schedule.ReasonSnoozed:
		return paint(snoozeStyle, "snoozed")
	case schedule.ReasonCadence:
		if st.DaysUntilDue < 0 {
			return paint(dueStyle, fmt.Sprintf("overdue %dd", -st.DaysUntilDue))
		}
		return paint(dueStyle, "due")
	default:
		return fmt.Sprintf("in %dd", st.DaysUntilDue)
	}
}

func warmthText(w schedule.Warmth) string {
	switch w {
	case schedule.Warm:
		return paint(warmStyle, w.Label())
	case schedule.Lukewarm:
		return paint(lukewarmStyle, w.Label())
	default:
		return paint(coldStyle, w.Label())
	}
}

func scheduleText(c model.Contact, tiers model.Tiers) string {
	if c.Mode() == model.ModeTier {
		if def, ok := tiers.Lookup(c.Tier); ok {
			return strings.ToLower(def.Name)
		}
		return string(c.Tier) + "?"
	}
	return fmt.Sprintf("every %dd", c.CadenceDays())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func displayTags(tags []string) string {
	var out []string
	for _, t := range tags {
		if t != "contact" {
			out = append(out, "#"+t)
		}
	}
	return strings.Join(out, " ")
}

func parseTags(s string) []string {
	tags := []string{"contact"}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" && t != "contact" {
			tags = append(tags, t)
		}
	}
	return tags
}
