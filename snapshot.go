package gametrad

import (
	"github.com/shopspring/decimal"
)

// ValuationRow is one line of the valuation table shown to a caller. It is
// purely derived, recomputed on demand, and never a source of truth.
type ValuationRow struct {
	Item           string
	RemainQty      int64
	InAvg          Money
	OutAvg         Money
	BreakEven      Money // the price that exactly recovers InAvg
	Profit         decimal.Decimal
	ProfitRate     decimal.Decimal
	TotalProfit    decimal.Decimal
	InventoryValue decimal.Decimal
}

// ValuationResult is the outcome of one full-table recomputation: the
// rows, the non-fatal warnings gathered along the way, and Err when the
// event store itself could not be read.
type ValuationResult struct {
	Rows     []ValuationRow
	Warnings []error
	Err      error
}

// BuildValuation computes the full valuation table from a ledger. It is a
// pure function of the ledger (same events always yield the same rows, in
// item-name order), so running it twice yields identical output and it is
// safe to execute on a background worker.
//
// Formula failures degrade the affected field to 0 and are reported as
// warnings; they never abort the refresh.
func BuildValuation(l *Ledger, eng *Engine) ValuationResult {
	var res ValuationResult
	res.Rows = make([]ValuationRow, 0, l.Len())
	for _, a := range l.Items() {
		row := ValuationRow{
			Item:      a.Item,
			RemainQty: a.RemainQty(),
			InAvg:     a.InAvg(),
			OutAvg:    a.OutAvg(),
			BreakEven: a.InAvg(),
		}
		env := a.Env()
		var warnings []error
		row.Profit, warnings = eng.Resolve(DomainInventory, "profit", env)
		res.Warnings = append(res.Warnings, warnings...)
		row.ProfitRate, warnings = eng.Resolve(DomainInventory, "profit_rate", env)
		res.Warnings = append(res.Warnings, warnings...)
		row.TotalProfit, warnings = eng.Resolve(DomainInventory, "total_profit", env)
		res.Warnings = append(res.Warnings, warnings...)
		row.InventoryValue, warnings = eng.Resolve(DomainInventory, "inventory_value", env)
		res.Warnings = append(res.Warnings, warnings...)
		res.Rows = append(res.Rows, row)
	}
	return res
}

// Refresh lists the whole event set from the store and builds the
// valuation table. Row warnings from decoding join the formula warnings;
// only a store failure sets Err, and even then no partial state leaks.
func Refresh(store Store, eng *Engine) ValuationResult {
	in, inWarnings, err := store.ListStockIn()
	if err != nil {
		return ValuationResult{Err: err}
	}
	out, outWarnings, err := store.ListStockOut()
	if err != nil {
		return ValuationResult{Err: err}
	}
	res := BuildValuation(Aggregate(in, out), eng)
	res.Warnings = append(append(inWarnings, outWarnings...), res.Warnings...)
	return res
}

// RefreshAsync runs Refresh on a background goroutine and hands the result
// back through the returned channel, which gets exactly one value and is
// then closed. The worker touches nothing shared; the triggering context
// applies the result when it receives it.
func RefreshAsync(store Store, eng *Engine) <-chan ValuationResult {
	ch := make(chan ValuationResult, 1)
	go func() {
		defer close(ch)
		ch <- Refresh(store, eng)
	}()
	return ch
}
