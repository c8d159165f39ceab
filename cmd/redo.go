package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/785823869/gametrad"
	"github.com/google/subcommands"
)

type redoCmd struct{}

func (*redoCmd) Name() string     { return "redo" }
func (*redoCmd) Synopsis() string { return "re-apply the most recently undone operation" }
func (*redoCmd) Usage() string {
	return `gt redo

  Re-applies the most recently undone operation. Recording a new forward
  operation discards the pending redos.
`
}

func (c *redoCmd) SetFlags(f *flag.FlagSet) {}

func (c *redoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	history := gametrad.NewHistory(store)
	if err := history.Reload(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	entry, err := history.Redo()
	if errors.Is(err, gametrad.ErrNothingToRedo) {
		fmt.Println("Nothing to redo.")
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Redone: %s %s recorded at %s.\n", entry.Kind, entry.Domain, entry.Time.Format("2006-01-02 15:04:05"))
	return subcommands.ExitSuccess
}
