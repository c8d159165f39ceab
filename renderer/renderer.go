// Package renderer turns core results into markdown, ready for a terminal
// renderer or a plain pager.
package renderer

import (
	"fmt"
	"strings"

	"github.com/785823869/gametrad"
)

// ValuationMarkdown renders the valuation table.
func ValuationMarkdown(rows []gametrad.ValuationRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Valuation\n\n")
	if len(rows) == 0 {
		fmt.Fprintln(&b, "No stock movements recorded yet.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Item | Remain | In Avg | Out Avg | Break-even | Profit | Profit % | Total Profit | Inventory Value |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Item,
			r.RemainQty,
			r.InAvg,
			r.OutAvg,
			r.BreakEven,
			r.Profit.StringFixed(2),
			r.ProfitRate.StringFixed(2),
			r.TotalProfit.StringFixed(2),
			r.InventoryValue.StringFixed(2),
		)
	}
	return b.String()
}

// LedgerMarkdown renders the per-item aggregates.
func LedgerMarkdown(items []*gametrad.ItemAggregate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ledger\n\n")
	if len(items) == 0 {
		fmt.Fprintln(&b, "No stock movements recorded yet.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Item | In Qty | In Amount | Out Qty | Out Amount | Remain |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	for _, a := range items {
		fmt.Fprintf(&b, "| %s | %d | %s | %d | %s | %d |\n",
			a.Item, a.InQty, a.InAmount, a.OutQty, a.OutAmount, a.RemainQty())
	}
	return b.String()
}

// HistoryMarkdown renders operation-log entries, most recent first.
func HistoryMarkdown(entries []gametrad.AuditEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Operation history\n\n")
	if len(entries) == 0 {
		fmt.Fprintln(&b, "No operations recorded yet.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Id | Time | Operation | Domain | State |")
	fmt.Fprintln(&b, "|---:|:---|:---|:---|:---|")
	for _, e := range entries {
		state := "applied"
		switch {
		case e.Superseded:
			state = "superseded"
		case e.Reverted:
			state = "reverted"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			e.ID, e.Time.Format("2006-01-02 15:04:05"), e.Kind, e.Domain, state)
	}
	return b.String()
}

// WarningsMarkdown renders non-fatal findings as a bullet list, or
// nothing when there are none.
func WarningsMarkdown(warnings []error) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n## Warnings\n\n")
	for _, w := range warnings {
		fmt.Fprintf(&b, "- %v\n", w)
	}
	return b.String()
}
