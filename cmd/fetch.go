package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/785823869/gametrad/pricefeed"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	url  string
	path string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch a reference price from a JSON feed" }
func (*fetchCmd) Usage() string {
	return `gt fetch -url <url> [-path <jsonpath>]

  Fetches a JSON document and extracts a price from it with a jsonpath
  expression. Useful to track the silver-to-cash exchange rate published
  by third-party market sites.

Usage Examples:
$ gt fetch -url https://example.com/rates.json -path '$.silver.price'
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.url, "url", "", "URL of the JSON document.")
	f.StringVar(&c.path, "path", "$.price", "jsonpath expression locating the price.")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.url == "" {
		fmt.Fprintln(os.Stderr, "Error: -url is required.")
		return subcommands.ExitUsageError
	}

	price, err := pricefeed.New(nil, pricefeed.Feed{URL: c.url, Path: c.path}).Latest()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println(price)
	return subcommands.ExitSuccess
}
