package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/785823869/gametrad"
	"github.com/785823869/gametrad/ocr"
	"github.com/google/subcommands"
)

type parseCmd struct {
	domain string
	note   string
	date   string
	dryRun bool
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "import events from recognized screenshot text" }
func (*parseCmd) Usage() string {
	return `gt parse -domain <stock-out|monitor> [-note <text>] [-d <date>] [-n] [file]

  Parses OCR text into records and imports them as events. Reads the text
  from the given file, or from stdin when no file is given.

  The stock-out domain expects the sale notification wording and produces
  one event. The monitor domain expects the trade-monitor layout and may
  produce several records; rows with unreadable fields are imported
  flagged, never silently completed.

  With -n the parsed records are shown but nothing is written.
`
}

func (c *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.domain, "domain", "", "Target domain: stock-out or monitor.")
	f.StringVar(&c.note, "note", "", "Note attached to the imported events.")
	f.StringVar(&c.date, "d", "", "Event date for the imported events, defaults to now.")
	f.BoolVar(&c.dryRun, "n", false, "Parse and show only, do not import.")
}

func (c *parseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	text, err := readInput(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	at, err := parseWhen(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	switch gametrad.Domain(c.domain) {
	case gametrad.DomainStockOut:
		return c.importStockOut(text, at)
	case gametrad.DomainMonitor:
		return c.importMonitor(text, at)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown domain %q, expected stock-out or monitor.\n", c.domain)
		return subcommands.ExitUsageError
	}
}

func (c *parseCmd) importStockOut(text string, at time.Time) subcommands.ExitStatus {
	rec, err := ocr.ParseStockOut(text)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	event, err := gametrad.StockOutFromOCR(rec, at, c.note)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Parsed stock-out: %d %s at %s each, fee %s, settled %s.\n",
		event.Quantity, event.Item, event.UnitPrice, event.Fee, event.Total)
	if c.dryRun {
		return subcommands.ExitSuccess
	}

	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := gametrad.NewHistory(store).AddStockOut(event); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Imported 1 stock-out event.")
	return subcommands.ExitSuccess
}

func (c *parseCmd) importMonitor(text string, at time.Time) subcommands.ExitStatus {
	dict, err := LoadDictionary()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	rows, warnings, err := ocr.ParseMonitor(text, dict)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	reportWarnings(warnings)

	records := make([]gametrad.MonitorRecord, 0, len(rows))
	for _, row := range rows {
		rec := gametrad.MonitorFromOCR(row, at)
		rec.Note = c.note
		records = append(records, rec)
		if len(rec.Missing) > 0 {
			fmt.Printf("Parsed monitor row: %q (missing: %v)\n", rec.Item, rec.Missing)
		} else {
			fmt.Printf("Parsed monitor row: %q x%d at %s\n", rec.Item, rec.Quantity, rec.Price)
		}
	}
	if c.dryRun || len(records) == 0 {
		fmt.Printf("Parsed %d monitor records.\n", len(records))
		return subcommands.ExitSuccess
	}

	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if err := gametrad.NewHistory(store).AddMonitor(records); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d monitor records.\n", len(records))
	return subcommands.ExitSuccess
}

// readInput returns the text of the single file argument, or stdin when
// no argument is given.
func readInput(args []string) (string, error) {
	switch len(args) {
	case 0:
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("cannot read stdin: %w", err)
		}
		return string(b), nil
	case 1:
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("cannot read %q: %w", args[0], err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("expected at most one file argument, got %d", len(args))
	}
}
