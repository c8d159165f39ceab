package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/785823869/gametrad"
	"github.com/google/subcommands"
)

type deleteCmd struct {
	domain string
	item   string
	date   string
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a recorded event" }
func (*deleteCmd) Usage() string {
	return `gt delete -domain <stock-in|stock-out|monitor> -item <name> -d <date>

  Deletes the event of the given domain identified by item name and exact
  event time. The deleted row is captured in the operation log, so the
  deletion can be undone with "gt undo".
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.domain, "domain", "", "Event domain: stock-in, stock-out or monitor.")
	f.StringVar(&c.item, "item", "", "Item name of the event to delete.")
	f.StringVar(&c.date, "d", "", "Exact event time of the event to delete.")
}

func (c *deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.item == "" || c.date == "" {
		fmt.Fprintln(os.Stderr, "Error: -item and -d are required.")
		return subcommands.ExitUsageError
	}
	at, err := parseWhen(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	history := gametrad.NewHistory(store)

	switch gametrad.Domain(c.domain) {
	case gametrad.DomainStockIn:
		err = deleteOne(history, gametrad.DomainStockIn, c.item, at,
			store.ListStockIn, store.DeleteStockIn, store.InsertStockIn,
			func(e gametrad.StockInEvent) (string, time.Time) { return e.Item, e.Time })
	case gametrad.DomainStockOut:
		err = deleteOne(history, gametrad.DomainStockOut, c.item, at,
			store.ListStockOut, store.DeleteStockOut, store.InsertStockOut,
			func(e gametrad.StockOutEvent) (string, time.Time) { return e.Item, e.Time })
	case gametrad.DomainMonitor:
		err = deleteOne(history, gametrad.DomainMonitor, c.item, at,
			store.ListMonitor, store.DeleteMonitor, store.InsertMonitor,
			func(r gametrad.MonitorRecord) (string, time.Time) { return r.Item, r.Time })
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown domain %q.\n", c.domain)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Deleted %s event for %s at %s.\n", c.domain, c.item, at.Format("2006-01-02 15:04:05"))
	return subcommands.ExitSuccess
}

// deleteOne captures the matching row, removes it from the store and
// records the deletion so it can be undone. A deletion whose log entry
// cannot be written is put back, so the row never vanishes unlogged.
func deleteOne[T any](history *gametrad.History, domain gametrad.Domain, item string, at time.Time,
	list func() ([]T, []error, error),
	remove func(string, time.Time) error,
	insert func(T) error,
	key func(T) (string, time.Time),
) error {
	rows, warnings, err := list()
	reportWarnings(warnings)
	if err != nil {
		return err
	}
	for _, row := range rows {
		name, when := key(row)
		if name == item && when.Equal(at) {
			if err := remove(item, at); err != nil {
				return err
			}
			if _, err := history.Record(gametrad.OpDelete, domain, []T{row}); err != nil {
				if ierr := insert(row); ierr != nil {
					return fmt.Errorf("%w (restoring the deleted row also failed: %v)", err, ierr)
				}
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("no %s event for %q at %s", domain, item, at.Format("2006-01-02 15:04:05"))
}
