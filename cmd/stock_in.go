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

// timeFormats accepted by the -d flag, tried in order.
var timeFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseWhen parses the -d flag value. An empty value means now.
func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	for _, layout := range timeFormats {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q, expected e.g. %q", s, timeFormats[0])
}

type stockInCmd struct {
	item     string
	quantity int64
	cost     float64
	note     string
	date     string
}

func (*stockInCmd) Name() string     { return "stock-in" }
func (*stockInCmd) Synopsis() string { return "record a purchase event" }
func (*stockInCmd) Usage() string {
	return `gt stock-in -item <name> -q <quantity> -cost <total> [-note <text>] [-d <date>]

  Records a stock-in event: a quantity of an item bought for a total cost.
  The event is appended to the raw event log and captured in the operation
  log, so it can be undone with "gt undo".

Usage Examples:
# 10 iron swords bought for 30 silver in total.
$ gt stock-in -item 铁剑 -q 10 -cost 30
`
}

func (c *stockInCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.item, "item", "", "Item name, must match the dictionary spelling.")
	f.Int64Var(&c.quantity, "q", 0, "Quantity bought.")
	f.Float64Var(&c.cost, "cost", 0, "Total cost in silver, for the whole quantity.")
	f.StringVar(&c.note, "note", "", "Free-form note attached to the event.")
	f.StringVar(&c.date, "d", "", "Event date, defaults to now.")
}

func (c *stockInCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	at, err := parseWhen(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	event, err := gametrad.NewStockIn(c.item, at, c.quantity, gametrad.M(c.cost), c.note)
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
	if err := history.AddStockIn(event); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded stock-in of %d %s for %s.\n", event.Quantity, event.Item, event.Cost)
	return subcommands.ExitSuccess
}
