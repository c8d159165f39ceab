package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/785823869/gametrad"
	"github.com/google/subcommands"
)

type stockOutCmd struct {
	item      string
	quantity  int64
	unitPrice float64
	fee       float64
	deposit   float64
	note      string
	date      string
}

func (*stockOutCmd) Name() string     { return "stock-out" }
func (*stockOutCmd) Synopsis() string { return "record a sale event" }
func (*stockOutCmd) Usage() string {
	return `gt stock-out -item <name> -q <quantity> -price <unit_price> [-fee <fee>] [-deposit <deposit>] [-note <text>] [-d <date>]

  Records a stock-out event: a quantity of an item sold at a unit price,
  minus the exchange fee, plus any deposit returned with the sale. The
  settled total is computed from those inputs, never entered by hand.

Usage Examples:
# 10 iron swords sold at 5 silver each, 2 silver fee.
$ gt stock-out -item 铁剑 -q 10 -price 5 -fee 2
`
}

func (c *stockOutCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.item, "item", "", "Item name, must match the dictionary spelling.")
	f.Int64Var(&c.quantity, "q", 0, "Quantity sold.")
	f.Float64Var(&c.unitPrice, "price", 0, "Unit price in silver.")
	f.Float64Var(&c.fee, "fee", 0, "Exchange fee in silver.")
	f.Float64Var(&c.deposit, "deposit", 0, "Deposit returned with the sale, in silver.")
	f.StringVar(&c.note, "note", "", "Free-form note attached to the event.")
	f.StringVar(&c.date, "d", "", "Event date, defaults to now.")
}

func (c *stockOutCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	at, err := parseWhen(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	event, err := gametrad.NewStockOut(c.item, at, c.quantity, gametrad.M(c.unitPrice), gametrad.M(c.fee), gametrad.M(c.deposit), c.note)
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
	if err := history.AddStockOut(event); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded stock-out of %d %s, settled %s.\n", event.Quantity, event.Item, event.Total)
	return subcommands.ExitSuccess
}
