package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/785823869/gametrad"
	"github.com/785823869/gametrad/renderer"
	"github.com/google/subcommands"
)

type ledgerCmd struct {
	item string
}

func (*ledgerCmd) Name() string     { return "ledger" }
func (*ledgerCmd) Synopsis() string { return "list per-item aggregated positions" }
func (*ledgerCmd) Usage() string {
	return `gt ledger [-item <name>]

  Shows the raw per-item aggregates: quantities and amounts in and out,
  remaining quantity, and average prices. Use -item to show one item only.
`
}

func (c *ledgerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.item, "item", "", "Show only this item.")
}

func (c *ledgerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	in, warnIn, err := store.ListStockIn()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	out, warnOut, err := store.ListStockOut()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	reportWarnings(warnIn)
	reportWarnings(warnOut)

	ledger := gametrad.Aggregate(in, out)
	items := ledger.Items()
	if c.item != "" {
		// Item never returns nil; an item with no events comes back as
		// a zero aggregate.
		agg := ledger.Item(c.item)
		if agg.InQty == 0 && agg.OutQty == 0 {
			fmt.Fprintf(os.Stderr, "Error: no events recorded for %q.\n", c.item)
			return subcommands.ExitFailure
		}
		items = []*gametrad.ItemAggregate{agg}
	}

	printMarkdown(renderer.LedgerMarkdown(items))
	return subcommands.ExitSuccess
}
