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

type undoCmd struct{}

func (*undoCmd) Name() string     { return "undo" }
func (*undoCmd) Synopsis() string { return "reverse the most recent operation" }
func (*undoCmd) Usage() string {
	return `gt undo

  Reverses the most recent operation that has not been undone yet,
  whatever its domain. The operation stays in the log, marked reverted,
  and can be re-applied with "gt redo".
`
}

func (c *undoCmd) SetFlags(f *flag.FlagSet) {}

func (c *undoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	entry, err := gametrad.NewHistory(store).Undo()
	if errors.Is(err, gametrad.ErrNothingToUndo) {
		fmt.Println("Nothing to undo.")
		return subcommands.ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Undone: %s %s recorded at %s.\n", entry.Kind, entry.Domain, entry.Time.Format("2006-01-02 15:04:05"))
	return subcommands.ExitSuccess
}
