package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/mph-llm-experiments/fika/internal/clock"
	"github.com/mph-llm-experiments/fika/internal/model"
	"github.com/mph-llm-experiments/fika/internal/schedule"
)

func listCommand(e *env) *Command {
	fs := e.flagSet("list")
	due := fs.Bool("due", false, "Show only contacts that are due now")
	tier := fs.String("tier", "", "Filter by tier (daily, weekly, monthly, quarterly)")
	mode := fs.String("mode", "", "Filter by scheduling mode (cadence, tier)")
	search := fs.String("search", "", "Search contacts by name, note, or tags")

	return &Command{
		Name:        "list",
		Aliases:     []string{"ls"},
		Usage:       "fika list [options]",
		Description: "List contacts, most urgent first",
		Flags:       fs,
		Run: func(cmd *Command, args []string) error {
			now := e.roster.Now()
			tiers := e.roster.Tiers()

			var filtered []model.Contact
			for _, c := range e.roster.Contacts() {
				if *due && !schedule.IsDue(c, tiers, now) {
					continue
				}
				if *tier != "" && (c.Mode() != model.ModeTier || string(c.Tier) != *tier) {
					continue
				}
				if *mode != "" && string(c.Mode()) != *mode {
					continue
				}
				if *search != "" && !matches(c, *search) {
					continue
				}
				filtered = append(filtered, c)
			}
			filtered = schedule.SortByUrgency(filtered, tiers, now)

			if globalFlags.JSON {
				views := make([]contactView, 0, len(filtered))
				for _, c := range filtered {
					views = append(views, e.view(c))
				}
				return e.printJSON(views)
			}

			if len(filtered) == 0 {
				fmt.Fprintln(e.out, "No contacts found.")
				return nil
			}

			fmt.Fprintln(e.out, paint(headerStyle, fmt.Sprintf("%-4s %-22s %-11s %5s  %-18s %s",
				"#", "NAME", "SCHEDULE", "DAYS", "STATUS", "TAGS")))
			fmt.Fprintln(e.out, strings.Repeat("-", 80))

			for _, c := range filtered {
				st := schedule.Evaluate(c, tiers, now)
				days := "-"
				if c.LastContactedAt.Valid() {
					days = fmt.Sprintf("%d", st.DaysSince)
				}
				fmt.Fprintf(e.out, "%-4d %-22s %-11s %5s  %-18s %s\n",
					c.IndexID, truncate(c.Name, 22), scheduleText(c, tiers), days,
					reasonText(st), displayTags(c.Tags))
			}
			return nil
		},
	}
}

func matches(c model.Contact, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Note), q) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func showCommand(e *env) *Command {
	return &Command{
		Name:        "show",
		Usage:       "fika show <id>",
		Description: "Show contact details by index_id or id",
		Run: func(cmd *Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: fika show <id>")
			}
			contact, err := e.find(args[0])
			if err != nil {
				return err
			}

			interactions, err := e.roster.Interactions(context.Background(), contact.ID)
			if err != nil {
				return fmt.Errorf("failed to read interactions: %w", err)
			}

			if globalFlags.JSON {
				return e.printJSON(struct {
					contactView
					Interactions []model.Interaction `json:"interactions"`
				}{e.view(contact), nonNil(interactions)})
			}

			now := e.roster.Now()
			tiers := e.roster.Tiers()
			st := schedule.Evaluate(contact, tiers, now)

			fmt.Fprintf(e.out, "# %s (#%d)\n\n", contact.Name, contact.IndexID)
			fmt.Fprintf(e.out, "  Status:    %s\n", reasonText(st))
			fmt.Fprintf(e.out, "  Schedule:  %s (every %d days)\n", scheduleText(contact, tiers), contact.EffectiveCadence(tiers))
			if contact.Mode() == model.ModeTier {
				fmt.Fprintf(e.out, "  Warmth:    %s\n", warmthText(schedule.Classify(contact, tiers, now)))
			}
			if contact.LastContactedAt.Valid() {
				fmt.Fprintf(e.out, "  Last contacted: %d days ago (%s)\n", st.DaysSince, contact.LastContactedAt.Format("2006-01-02"))
			} else {
				fmt.Fprintln(e.out, "  Last contacted: never")
			}
			if contact.SnoozedUntil.After(now) {
				fmt.Fprintf(e.out, "  Snoozed until:  %s\n", contact.SnoozedUntil.Format("2006-01-02 15:04"))
			}
			if month, day, ok := clock.ParseBirthday(contact.Birthday); ok {
				next := clock.NextBirthday(month, day, now)
				reminder := ""
				if !contact.PreReminderEnabled() {
					reminder = ", no reminder"
				}
				fmt.Fprintf(e.out, "  Birthday:       %s %d (next %s%s)\n", month, day, next.Format("2006-01-02"), reminder)
			}
			if h := contact.Hooks; !h.IsZero() {
				fmt.Fprintln(e.out)
				printHook(e, "Pets", h.Pets)
				printHook(e, "Health", h.Health)
				printHook(e, "Hobbies", h.Hobbies)
				printHook(e, "Last laugh", h.LastLaugh)
			}
			if tags := displayTags(contact.Tags); tags != "" {
				fmt.Fprintf(e.out, "\n  Tags: %s\n", tags)
			}
			if contact.Note != "" {
				fmt.Fprintf(e.out, "\n  %s\n", contact.Note)
			}

			if len(interactions) > 0 {
				fmt.Fprintln(e.out, "\nInteractions:")
				for _, in := range interactions {
					line := fmt.Sprintf("  %s  %-8s", in.At.Format("2006-01-02"), in.Type)
					if in.Note != "" {
						line += "  " + in.Note
					}
					fmt.Fprintln(e.out, line)
				}
			}
			return nil
		},
	}
}

func printHook(e *env, label, value string) {
	if value != "" {
		fmt.Fprintf(e.out, "  %-11s %s\n", label+":", value)
	}
}

func nonNil(in []model.Interaction) []model.Interaction {
	if in == nil {
		return []model.Interaction{}
	}
	return in
}

// hookFlags are shared by new and update.
type hookFlags struct {
	pets, health, hobbies, laugh *string
}

func addHookFlags(fs *flag.FlagSet) hookFlags {
	return hookFlags{
		pets:    fs.String("pets", "", "Pets to ask after"),
		health:  fs.String("health", "", "Health matter to ask after"),
		hobbies: fs.String("hobbies", "", "Hobbies"),
		laugh:   fs.String("laugh", "", "The last thing you laughed about together"),
	}
}

func (h hookFlags) apply(c *model.Contact) {
	if *h.pets == "" && *h.health == "" && *h.hobbies == "" && *h.laugh == "" {
		return
	}
	if c.Hooks == nil {
		c.Hooks = &model.Hooks{}
	}
	if *h.pets != "" {
		c.Hooks.Pets = *h.pets
	}
	if *h.health != "" {
		c.Hooks.Health = *h.health
	}
	if *h.hobbies != "" {
		c.Hooks.Hobbies = *h.hobbies
	}
	if *h.laugh != "" {
		c.Hooks.LastLaugh = *h.laugh
	}
}

func newCommand(e *env) *Command {
	fs := e.flagSet("new")
	cadence := fs.Int("cadence", 0, "Days between check-ins (default from config)")
	tier := fs.String("tier", "", "Schedule by tier instead of cadence (daily, weekly, monthly, quarterly)")
	birthday := fs.String("birthday", "", "Birthday (YYYY-MM-DD or --MM-DD)")
	noReminder := fs.Bool("no-reminder", false, "Skip the reminder the day before the birthday")
	note := fs.String("note", "", "Free-form note")
	tags := fs.String("tags", "", "Comma-separated tags (in addition to 'contact')")
	hooks := addHookFlags(fs)

	return &Command{
		Name:        "new",
		Aliases:     []string{"add"},
		Usage:       "fika new \"Name\" [options]",
		Description: "Create a new contact",
		Flags:       fs,
		Run: func(cmd *Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return fmt.Errorf("usage: fika new \"Name\" [options]")
			}

			draft := model.NewContact(name, e.roster.Now())
			draft.CadenceIntervalDays = e.cfg.DefaultCadenceDays
			if *cadence > 0 {
				draft.CadenceIntervalDays = *cadence
			}
			if *tier != "" {
				if _, ok := e.roster.Tiers().Lookup(model.TierID(*tier)); !ok {
					return fmt.Errorf("unknown tier %q", *tier)
				}
				draft.SchedulingMode = model.ModeTier
				draft.Tier = model.TierID(*tier)
			}
			if *birthday != "" {
				if _, _, ok := clock.ParseBirthday(*birthday); !ok {
					return fmt.Errorf("invalid birthday %q (use YYYY-MM-DD or --MM-DD)", *birthday)
				}
				draft.Birthday = *birthday
			}
			if *noReminder {
				draft.SetPreReminder(false)
			}
			draft.Note = *note
			draft.Tags = parseTags(*tags)
			hooks.apply(&draft)

			created, err := e.roster.Add(context.Background(), draft)
			if err != nil {
				return err
			}

			if globalFlags.JSON {
				return e.printJSON(e.view(created))
			}
			e.say("Created contact #%d: %s", created.IndexID, created.Name)
			return nil
		},
	}
}

func updateCommand(e *env) *Command {
	fs := e.flagSet("update")
	name := fs.String("name", "", "Update name")
	cadence := fs.Int("cadence", 0, "Days between check-ins (cadence contacts only)")
	birthday := fs.String("birthday", "", "Update birthday (\"none\" clears it)")
	reminder := fs.String("reminder", "", "Birthday reminder the day before (on, off)")
	note := fs.String("note", "", "Update note")
	tags := fs.String("tags", "", "Set tags (comma-separated, replaces existing non-contact tags)")
	hooks := addHookFlags(fs)

	return &Command{
		Name:        "update",
		Aliases:     []string{"edit"},
		Usage:       "fika update <id> [options]",
		Description: "Update contact fields (use 'move' to change tier)",
		Flags:       fs,
		Run: func(cmd *Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: fika update <id> [options]")
			}
			contact, err := e.find(args[0])
			if err != nil {
				return err
			}

			if *name != "" {
				contact.Name = strings.TrimSpace(*name)
			}
			if *cadence > 0 {
				// tier contacts change schedule only through move
				if contact.Mode() == model.ModeTier {
					return fmt.Errorf("%s is scheduled by tier %s; use 'fika move' to change it", contact.Name, contact.Tier)
				}
				contact.CadenceIntervalDays = *cadence
			}
			switch *birthday {
			case "":
			case "none":
				contact.Birthday = ""
			default:
				if _, _, ok := clock.ParseBirthday(*birthday); !ok {
					return fmt.Errorf("invalid birthday %q (use YYYY-MM-DD or --MM-DD)", *birthday)
				}
				contact.Birthday = *birthday
			}
			switch *reminder {
			case "":
			case "on":
				contact.SetPreReminder(true)
			case "off":
				contact.SetPreReminder(false)
			default:
				return fmt.Errorf("--reminder must be on or off")
			}
			if *note != "" {
				contact.Note = *note
			}
			if *tags != "" {
				contact.Tags = parseTags(*tags)
			}
			hooks.apply(&contact)

			saved, err := e.roster.Save(contact)
			if err != nil {
				return err
			}

			if globalFlags.JSON {
				return e.printJSON(e.view(saved))
			}
			e.say("Updated contact #%d: %s", saved.IndexID, saved.Name)
			return nil
		},
	}
}

func deleteCommand(e *env) *Command {
	fs := e.flagSet("delete")
	confirm := fs.Bool("confirm", false, "Skip confirmation prompt")

	return &Command{
		Name:        "delete",
		Aliases:     []string{"rm"},
		Usage:       "fika delete <id> [--confirm]",
		Description: "Delete a contact",
		Flags:       fs,
		Run: func(cmd *Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: fika delete <id> [--confirm]")
			}
			contact, err := e.find(args[0])
			if err != nil {
				return err
			}
			if !*confirm {
				return fmt.Errorf("use --confirm to delete contact '%s' (#%d)", contact.Name, contact.IndexID)
			}
			if err := e.roster.Delete(contact.ID); err != nil {
				return err
			}

			if globalFlags.JSON {
				return e.printJSON(map[string]interface{}{
					"deleted":  true,
					"id":       contact.ID,
					"index_id": contact.IndexID,
					"name":     contact.Name,
				})
			}
			e.say("Deleted %s (#%d)", contact.Name, contact.IndexID)
			return nil
		},
	}
}

func parseDays(n int) time.Duration {
	return time.Duration(n) * clock.Day
}
