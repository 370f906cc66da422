package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mph-llm-experiments/fika/internal/clock"
	"github.com/mph-llm-experiments/fika/internal/config"
	"github.com/mph-llm-experiments/fika/internal/logger"
	"github.com/mph-llm-experiments/fika/internal/roster"
	"github.com/mph-llm-experiments/fika/internal/store"
	"github.com/mph-llm-experiments/fika/internal/ui"
)

// env is what every command runs against.
type env struct {
	cfg    *config.Config
	roster *roster.Roster
	out    io.Writer
	errOut io.Writer
}

// Run executes the CLI with the given config and arguments.
func Run(cfg *config.Config, args []string) error {
	return run(cfg, args, clock.System{}, os.Stdout, os.Stderr)
}

func run(cfg *config.Config, args []string, clk clock.Clock, out, errOut io.Writer) error {
	remaining, err := ParseGlobalFlags(args)
	if err != nil {
		return err
	}

	// Reload config if --config flag was provided
	if globalFlags.Config != "" {
		newCfg, err := config.Load(globalFlags.Config)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = newCfg
	}

	// --dir beats FIKA_DIR, which config.Load already applied
	if globalFlags.Dir != "" {
		cfg.ContactsDirectory = globalFlags.Dir
	}
	if globalFlags.Debug {
		cfg.Debug = true
	}

	if cfg.LogDirectory != "" {
		if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.LogDirectory}); err != nil {
			fmt.Fprintf(errOut, "Warning: logging disabled: %v\n", err)
		}
	}

	if len(remaining) > 0 && isHelp(remaining[0]) {
		rootCommand(&env{cfg: cfg, out: out, errOut: errOut}).PrintUsage()
		return nil
	}

	s, err := store.Open(store.Options{
		Backend:      cfg.Storage,
		Directory:    cfg.ContactsDirectory,
		DatabasePath: cfg.DatabasePath,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	r := roster.New(s, roster.Options{Clock: clk, Tiers: cfg.TierDefinitions()})
	if err := r.Load(context.Background()); err != nil {
		return err
	}
	logger.Debug("cli start", "args", remaining, "storage", cfg.Storage)

	// If no arguments, launch TUI
	if len(remaining) == 0 {
		m := ui.NewModel(r, ui.Options{SnoozeDays: cfg.SnoozeDays, NudgeLimit: cfg.NudgeLimit})
		p := tea.NewProgram(m, tea.WithAltScreen())
		_, err := p.Run()
		r.Wait()
		if err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	}

	e := &env{cfg: cfg, roster: r, out: out, errOut: errOut}
	err = rootCommand(e).Execute(remaining)

	// a one-shot command must not exit with writes still in flight
	r.Wait()
	e.reportFailures()
	return err
}

func rootCommand(e *env) *Command {
	root := &Command{
		Name:   "fika",
		Usage:  "fika <command> [options]",
		Output: e.errOut,
		Description: `Keep in touch with the people who matter.

Commands:
  list       List contacts, most urgent first
  today      Show who is due today and why
  show       Show contact details
  new        Create a new contact
  update     Update contact fields
  connect    Record that you reached out
  snooze     Hide a contact for a few days
  move       Move a contact to another tier
  board      Show tier columns with warmth
  nudge      Suggest who to reach out to
  import     Import contacts from vCard or CSV
  export     Export check-ins and birthdays as iCalendar
  delete     Delete a contact

Global Options:
  --config PATH  Use specific config file
  --dir PATH     Override contacts directory
  --json         Output in JSON format
  --no-color     Disable color output
  --quiet, -q    Minimal output
  --debug        Verbose logging to stderr`,
	}

	root.Subcommands = append(root.Subcommands,
		listCommand(e),
		todayCommand(e),
		showCommand(e),
		newCommand(e),
		updateCommand(e),
		connectCommand(e),
		snoozeCommand(e),
		moveCommand(e),
		boardCommand(e),
		nudgeCommand(e),
		importCommand(e),
		exportCommand(e),
		deleteCommand(e),
	)
	return root
}

// reportFailures prints writes that did not persist. Local changes were
// already shown as done, so these are warnings, not errors.
func (e *env) reportFailures() {
	for {
		select {
		case f := <-e.roster.Failures():
			fmt.Fprintf(e.errOut, "Warning: could not save %s for %s: %v\n", f.Op, f.ContactID, f.Err)
		default:
			return
		}
	}
}

func isHelp(arg string) bool {
	return arg == "help" || arg == "--help" || arg == "-h"
}
