package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/785823869/gametrad"
	"github.com/785823869/gametrad/expr"
	"github.com/google/subcommands"
)

type formulaCmd struct {
	domain string
	field  string
	set    string
	clear  bool
}

func (*formulaCmd) Name() string     { return "formula" }
func (*formulaCmd) Synopsis() string { return "show or override the derived-field formulas" }
func (*formulaCmd) Usage() string {
	return `gt formula [-domain <d>] [-field <f>] [-set <expression> | -clear]

  Without -set or -clear, shows the formulas in effect: defaults and any
  overrides. With -set, installs an override for the given field; the
  expression is parsed first and rejected if malformed. With -clear, the
  override is removed and the default applies again.

Usage Examples:
# Override profit to ignore the fee.
$ gt formula -domain inventory -field profit -set '(out_avg - in_avg) * out_qty'
# Back to the default.
$ gt formula -domain inventory -field profit -clear
`
}

func (c *formulaCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.domain, "domain", string(gametrad.DomainInventory), "Formula domain: inventory or monitor.")
	f.StringVar(&c.field, "field", "", "Derived field the formula computes.")
	f.StringVar(&c.set, "set", "", "Expression to install as override.")
	f.BoolVar(&c.clear, "clear", false, "Remove the override for the field.")
}

func (c *formulaCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	domain := gametrad.Domain(c.domain)
	if len(gametrad.FormulaFields(domain)) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no formulas defined for domain %q.\n", c.domain)
		return subcommands.ExitUsageError
	}

	if c.set != "" && c.clear {
		fmt.Fprintln(os.Stderr, "Error: -set and -clear cannot be used together.")
		return subcommands.ExitUsageError
	}

	switch {
	case c.set != "":
		if c.field == "" {
			fmt.Fprintln(os.Stderr, "Error: -set requires -field.")
			return subcommands.ExitUsageError
		}
		if _, err := expr.Parse(c.set); err != nil {
			fmt.Fprintf(os.Stderr, "Error: expression rejected: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err := Overrides().Set(domain, c.field, c.set); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Override installed for %s.%s.\n", domain, c.field)

	case c.clear:
		if c.field == "" {
			fmt.Fprintln(os.Stderr, "Error: -clear requires -field.")
			return subcommands.ExitUsageError
		}
		if err := Overrides().Set(domain, c.field, ""); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Override cleared for %s.%s, default applies.\n", domain, c.field)

	default:
		overrides := Overrides()
		fields := gametrad.FormulaFields(domain)
		if c.field != "" {
			fields = []string{c.field}
		}
		var b strings.Builder
		fmt.Fprintf(&b, "# Formulas for %s\n\n", domain)
		b.WriteString("| Field | Source | Expression |\n")
		b.WriteString("|---|---|---|\n")
		for _, field := range fields {
			expression, err := overrides.Get(domain, field)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				return subcommands.ExitFailure
			}
			source := "override"
			if expression == "" {
				source = "default"
				expression = gametrad.DefaultFormula(domain, field)
			}
			fmt.Fprintf(&b, "| %s | %s | `%s` |\n", field, source, expression)
		}
		printMarkdown(b.String())
	}

	return subcommands.ExitSuccess
}
