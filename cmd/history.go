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

type historyCmd struct {
	domain   string
	kind     string
	page     int
	pageSize int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list recorded operations, most recent first" }
func (*historyCmd) Usage() string {
	return `gt history [-domain <d>] [-kind <add|delete|modify>] [-page <n>] [-size <n>]

  Lists the operation log. Entries marked reverted have been undone and
  are skipped by the next "gt undo".
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.domain, "domain", "", "Only operations on this domain.")
	f.StringVar(&c.kind, "kind", "", "Only operations of this kind: add, delete or modify.")
	f.IntVar(&c.page, "page", 1, "Page number, starting at 1.")
	f.IntVar(&c.pageSize, "size", 20, "Entries per page, 0 for all.")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := OpenStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	entries, err := store.ListLog(gametrad.LogFilter{
		Domain:   gametrad.Domain(c.domain),
		Kind:     gametrad.OperationKind(c.kind),
		Page:     c.page,
		PageSize: c.pageSize,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.HistoryMarkdown(entries))
	return subcommands.ExitSuccess
}
