package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mph-llm-experiments/fika/internal/calendar"
	"github.com/mph-llm-experiments/fika/internal/importer"
	"github.com/mph-llm-experiments/fika/internal/model"
)

func importCommand(e *env) *Command {
	fs := e.flagSet("import")
	format := fs.String("format", "", "Input format: vcard or csv (default from file extension)")
	dryRun := fs.Bool("dry-run", false, "Show what would be imported without saving")

	return &Command{
		Name:        "import",
		Usage:       "fika import <file> [--format vcard|csv] [--dry-run]",
		Description: "Import contacts from a vCard file or a Name,Tier,LastLaugh CSV",
		Flags:       fs,
		Run: func(cmd *Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: fika import <file> [--format vcard|csv]")
			}
			path := args[0]

			kind := *format
			if kind == "" {
				kind = formatFromExt(path)
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			now := e.roster.Now()
			var drafts []model.Contact
			var skipped int
			switch kind {
			case "vcard":
				drafts, skipped, err = importer.VCard(f, now)
			case "csv":
				drafts, skipped, err = importer.CSV(f, e.roster.Tiers(), now)
			default:
				return fmt.Errorf("unknown import format %q (vcard, csv)", kind)
			}
			if err != nil {
				return err
			}
			for i := range drafts {
				if drafts[i].Mode() == model.ModeCadence {
					drafts[i].CadenceIntervalDays = e.cfg.DefaultCadenceDays
				}
			}

			if *dryRun {
				if globalFlags.JSON {
					return e.printJSON(drafts)
				}
				for _, d := range drafts {
					fmt.Fprintf(e.out, "would import %s (%s)\n", d.Name, scheduleText(d, e.roster.Tiers()))
				}
				e.say("%d to import, %d skipped", len(drafts), skipped)
				return nil
			}

			res, err := importer.Save(context.Background(), e.roster, drafts)
			res.Skipped = skipped
			if globalFlags.JSON {
				if jerr := e.printJSON(res); jerr != nil {
					return jerr
				}
				return err
			}
			if err != nil {
				return fmt.Errorf("imported %d before failing: %w", len(res.Created), err)
			}
			e.say("Imported %d contacts, skipped %d", len(res.Created), res.Skipped)
			return nil
		},
	}
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vcf", ".vcard":
		return "vcard"
	case ".csv":
		return "csv"
	}
	return ""
}

func exportCommand(e *env) *Command {
	fs := e.flagSet("export")
	output := fs.String("output", "", "Write to file instead of stdout")

	return &Command{
		Name:        "export",
		Usage:       "fika export [--output fika.ics]",
		Description: "Export next check-ins and birthdays as an iCalendar feed",
		Flags:       fs,
		Run: func(cmd *Command, args []string) error {
			cal := calendar.Build(e.roster.Contacts(), e.roster.Tiers(), e.roster.Now())

			var w io.Writer = e.out
			if *output != "" {
				f, err := os.Create(*output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", *output, err)
				}
				defer f.Close()
				w = f
			}
			if err := calendar.Encode(w, cal); err != nil {
				return err
			}
			if *output != "" {
				e.say("Wrote %d events to %s", len(cal.Children), *output)
			}
			return nil
		},
	}
}
