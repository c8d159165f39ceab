package cmd

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/785823869/gametrad/vision"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct {
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "recognize a screenshot with Gemini" }
func (*assistCmd) Usage() string {
	return `gt assist [-model <name>] <screenshot>

  Sends a screenshot to Gemini and prints the recognized text, ready to
  be piped into "gt parse". Requires the GEMINI_API_KEY environment
  variable.

Usage Examples:
$ gt assist sale.png | gt parse -domain stock-out
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", vision.DefaultModel, "Gemini model to use.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one screenshot file.")
		return subcommands.ExitUsageError
	}
	file := f.Arg(0)
	image, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %q: %v\n", file, err)
		return subcommands.ExitFailure
	}
	mimeType := mime.TypeByExtension(filepath.Ext(file))
	if mimeType == "" {
		mimeType = "image/png"
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	text, err := vision.NewReader(c.model).Recognize(ctx, client, image, mimeType)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println(text)
	return subcommands.ExitSuccess
}
