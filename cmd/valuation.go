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

type valuationCmd struct{}

func (*valuationCmd) Name() string     { return "valuation" }
func (*valuationCmd) Synopsis() string { return "compute the inventory valuation snapshot" }
func (*valuationCmd) Usage() string {
	return `gt valuation

  Aggregates all stock events into per-item positions and evaluates the
  derived fields (profit, profit rate, inventory value) with the formula
  engine, honoring any overrides. The snapshot is recomputed from the raw
  events on every run.
`
}

func (c *valuationCmd) SetFlags(f *flag.FlagSet) {}

func (c *valuationCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	result := gametrad.Refresh(store, OpenEngine())
	if result.Err != nil {
		fmt.Fprintln(os.Stderr, "Error:", result.Err)
		return subcommands.ExitFailure
	}
	reportWarnings(result.Warnings)

	printMarkdown(renderer.ValuationMarkdown(result.Rows))
	return subcommands.ExitSuccess
}
