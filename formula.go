package gametrad

import (
	"fmt"

	"github.com/785823869/gametrad/expr"
	"github.com/shopspring/decimal"
)

// FormulaStore is the read-mostly keystore holding user formula
// overrides, keyed by domain then field. The core does not own its file
// format; it only gets and sets expression strings. An empty string means
// "no override".
type FormulaStore interface {
	Get(domain Domain, field string) (string, error)
	Set(domain Domain, field, expression string) error
}

// defaultFormulas are the built-in expressions per domain and field.
//
// total_profit deliberately shares profit's expression: the two are
// separate display fields with independent override slots, so a user can
// repurpose one without touching the other.
var defaultFormulas = map[Domain]map[string]string{
	DomainInventory: {
		"profit":          "(out_avg - in_avg) * out_qty if out_qty > 0 else 0",
		"profit_rate":     "(out_avg - in_avg) / in_avg * 100 if in_avg > 0 else 0",
		"total_profit":    "(out_avg - in_avg) * out_qty if out_qty > 0 else 0",
		"inventory_value": "remain_qty * in_avg",
	},
	DomainMonitor: {
		"profit":      "(price - break_even_price) * quantity if quantity > 0 else 0",
		"profit_rate": "(price - break_even_price) / break_even_price * 100 if break_even_price > 0 else 0",
	},
}

// DefaultFormula returns the built-in expression for a field, or "" if
// the field has none.
func DefaultFormula(domain Domain, field string) string {
	return defaultFormulas[domain][field]
}

// FormulaFields returns the fields with a built-in default in a domain.
func FormulaFields(domain Domain) []string {
	fields := make([]string, 0, len(defaultFormulas[domain]))
	for f := range defaultFormulas[domain] {
		fields = append(fields, f)
	}
	return fields
}

// Engine resolves derived field values. A non-empty user override wins
// over the built-in default; a field with neither resolves to 0.
type Engine struct {
	overrides FormulaStore
}

// NewEngine creates a formula engine reading overrides from store. A nil
// store means "defaults only".
func NewEngine(store FormulaStore) *Engine {
	return &Engine{overrides: store}
}

// Resolve evaluates the (domain, field) formula against env. It never
// fails: any problem (unreadable override store, syntax error, unknown
// identifier, division by zero) degrades the value to 0 and is reported
// in the returned warnings.
func (e *Engine) Resolve(domain Domain, field string, env expr.Env) (decimal.Decimal, []error) {
	var warnings []error

	src := ""
	if e.overrides != nil {
		o, err := e.overrides.Get(domain, field)
		if err != nil {
			// The keystore is a collaborator: its failure is recoverable,
			// fall back to the built-in default.
			warnings = append(warnings, fmt.Errorf("cannot read override for %s.%s: %w", domain, field, err))
		} else {
			src = o
		}
	}
	if src == "" {
		src = DefaultFormula(domain, field)
	}
	if src == "" {
		return decimal.Zero, warnings
	}

	v, err := expr.Eval(src, env)
	if err != nil {
		warnings = append(warnings, &FormulaError{Domain: domain, Field: field, Expr: src, Err: err})
		return decimal.Zero, warnings
	}
	return v, warnings
}
