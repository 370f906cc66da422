package cli

import (
	"fmt"
	"strings"

	"github.com/mph-llm-experiments/fika/internal/model"
	"github.com/mph-llm-experiments/fika/internal/schedule"
)

func todayCommand(e *env) *Command {
	return &Command{
		Name:        "today",
		Usage:       "fika today",
		Description: "Show who is due today and why, most urgent first",
		Run: func(cmd *Command, args []string) error {
			due := e.roster.Due()

			if globalFlags.JSON {
				views := make([]contactView, 0, len(due))
				for _, c := range due {
					views = append(views, e.view(c))
				}
				return e.printJSON(views)
			}

			if len(due) == 0 {
				fmt.Fprintln(e.out, "Nobody is due today.")
				return nil
			}

			now := e.roster.Now()
			tiers := e.roster.Tiers()
			for _, c := range due {
				st := schedule.Evaluate(c, tiers, now)
				fmt.Fprintf(e.out, "%-4d %-24s %s\n", c.IndexID, truncate(c.Name, 24), reasonText(st))
			}
			return nil
		},
	}
}

func connectCommand(e *env) *Command {
	fs := e.flagSet("connect")
	typ := fs.String("type", string(model.InteractionNote), "Interaction type ("+interactionTypeList()+")")
	note := fs.String("note", "", "A note about the interaction")

	return &Command{
		Name:        "connect",
		Aliases:     []string{"log"},
		Usage:       "fika connect <id> [--type call] [--note text]",
		Description: "Record that you reached out, clearing any snooze",
		Flags:       fs,
		Run: func(cmd *Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: fika connect <id> [--type call] [--note text]")
			}
			if !model.ValidInteractionType(*typ) {
				return fmt.Errorf("unknown interaction type %q (%s)", *typ, interactionTypeList())
			}
			contact, err := e.find(args[0])
			if err != nil {
				return err
			}

			updated, err := e.roster.Connect(contact.ID, model.InteractionType(*typ), *note)
			if err != nil {
				return err
			}

			if globalFlags.JSON {
				return e.printJSON(e.view(updated))
			}
			e.say("Logged %s with %s (#%d)", *typ, updated.Name, updated.IndexID)
			return nil
		},
	}
}

func interactionTypeList() string {
	names := make([]string, len(model.InteractionTypes))
	for i, t := range model.InteractionTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func snoozeCommand(e *env) *Command {
	fs := e.flagSet("snooze")
	days := fs.Int("days", 0, "Days to snooze (default from config)")

	return &Command{
		Name:        "snooze",
		Usage:       "fika snooze <id> [--days n]",
		Description: "Hide a contact from the due list for a while",
		Flags:       fs,
		Run: func(cmd *Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: fika snooze <id> [--days n]")
			}
			contact, err := e.find(args[0])
			if err != nil {
				return err
			}

			n := e.cfg.SnoozeDays
			if *days > 0 {
				n = *days
			}
			updated, err := e.roster.Snooze(contact.ID, parseDays(n))
			if err != nil {
				return err
			}

			if globalFlags.JSON {
				return e.printJSON(e.view(updated))
			}
			e.say("Snoozed %s until %s", updated.Name, updated.SnoozedUntil.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func moveCommand(e *env) *Command {
	fs := e.flagSet("move")
	tier := fs.String("tier", "", "Tier to move to")
	onto := fs.String("onto", "", "Contact to drop onto: take its tier and its place")

	return &Command{
		Name:        "move",
		Aliases:     []string{"mv"},
		Usage:       "fika move <id> (--tier weekly | --onto <id>)",
		Description: "Move a contact to another tier, or next to another contact",
		Flags:       fs,
		Run: func(cmd *Command, args []string) error {
			if len(args) == 0 || (*tier == "") == (*onto == "") {
				return fmt.Errorf("usage: fika move <id> (--tier weekly | --onto <id>)")
			}
			contact, err := e.find(args[0])
			if err != nil {
				return err
			}

			var target schedule.Target
			if *tier != "" {
				if _, ok := e.roster.Tiers().Lookup(model.TierID(*tier)); !ok {
					return fmt.Errorf("unknown tier %q", *tier)
				}
				target.Tier = model.TierID(*tier)
			} else {
				other, err := e.find(*onto)
				if err != nil {
					return err
				}
				target.ContactID = other.ID
			}

			changed := e.roster.Reassign(contact.ID, target)
			moved, _ := e.roster.Find(contact.ID)

			if globalFlags.JSON {
				return e.printJSON(struct {
					Changed bool        `json:"changed"`
					Contact contactView `json:"contact"`
				}{changed, e.view(moved)})
			}
			if !changed {
				e.say("%s stays where they are", moved.Name)
				return nil
			}
			e.say("Moved %s to %s", moved.Name, scheduleText(moved, e.roster.Tiers()))
			return nil
		},
	}
}

func boardCommand(e *env) *Command {
	return &Command{
		Name:        "board",
		Usage:       "fika board",
		Description: "Show tier columns with each contact's warmth",
		Run: func(cmd *Command, args []string) error {
			board := e.roster.Board()

			if globalFlags.JSON {
				return e.printJSON(board)
			}

			for i, col := range board {
				if i > 0 {
					fmt.Fprintln(e.out)
				}
				fmt.Fprintln(e.out, paint(headerStyle, fmt.Sprintf("%s (every %dd)", col.Tier.Name, col.Tier.CadenceDays)))
				if len(col.Cards) == 0 {
					fmt.Fprintln(e.out, "  -")
					continue
				}
				for _, card := range col.Cards {
					fmt.Fprintf(e.out, "  %-4d %-24s %s\n", card.Contact.IndexID, truncate(card.Contact.Name, 24), warmthText(card.Warmth))
				}
			}
			return nil
		},
	}
}

func nudgeCommand(e *env) *Command {
	fs := e.flagSet("nudge")
	limit := fs.Int("limit", 0, "How many suggestions (default from config)")

	return &Command{
		Name:        "nudge",
		Usage:       "fika nudge [--limit n]",
		Description: "Suggest who to reach out to, with a conversation starter",
		Flags:       fs,
		Run: func(cmd *Command, args []string) error {
			n := e.cfg.NudgeLimit
			if *limit > 0 {
				n = *limit
			}
			nudges := e.roster.Nudges(n)

			if globalFlags.JSON {
				return e.printJSON(nudges)
			}
			if len(nudges) == 0 {
				fmt.Fprintln(e.out, "Everyone is warm. Nice.")
				return nil
			}
			for _, nd := range nudges {
				tier := ""
				if nd.Tier != nil {
					tier = " (" + nd.Tier.Name + ")"
				}
				fmt.Fprintf(e.out, "[%s] %s%s\n    %s\n", nd.Initial, nd.Name, tier, nd.Suggestion)
			}
			return nil
		},
	}
}
