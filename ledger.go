package gametrad

import (
	"sort"

	"github.com/785823869/gametrad/expr"
	"github.com/shopspring/decimal"
)

// ItemAggregate holds the per-item ledger totals folded from raw stock
// movement events. It is ephemeral: recomputed from events on every
// refresh, never persisted.
//
// InAmount sums each inbound event's cost. OutAmount sums each sale's
// unit_price*quantity - fee; the deposit is excluded from this basis even
// though the event's own total includes it.
type ItemAggregate struct {
	Item      string
	InQty     int64
	OutQty    int64
	InAmount  Money
	OutAmount Money
}

// RemainQty is the held quantity: InQty - OutQty, exact integer
// arithmetic. There is no enforced floor, it may be negative.
func (a *ItemAggregate) RemainQty() int64 { return a.InQty - a.OutQty }

// InAvg is the weighted-average inbound cost over all historical inbound
// events, not just currently-held stock. 0 when nothing came in.
func (a *ItemAggregate) InAvg() Money {
	if a.InQty == 0 {
		return M(0)
	}
	return a.InAmount.DivQty(a.InQty)
}

// OutAvg is the average realized price net of fees. 0 when nothing went
// out.
func (a *ItemAggregate) OutAvg() Money {
	if a.OutQty == 0 {
		return M(0)
	}
	return a.OutAmount.DivQty(a.OutQty)
}

// Env exposes the aggregate to the formula engine as its closed variable
// set.
func (a *ItemAggregate) Env() expr.Env {
	return expr.Env{
		"in_qty":     decimal.NewFromInt(a.InQty),
		"in_amount":  a.InAmount.Decimal(),
		"out_qty":    decimal.NewFromInt(a.OutQty),
		"out_amount": a.OutAmount.Decimal(),
		"remain_qty": decimal.NewFromInt(a.RemainQty()),
		"in_avg":     a.InAvg().Decimal(),
		"out_avg":    a.OutAvg().Decimal(),
	}
}

// Ledger is the derived per-item view of the whole event set.
type Ledger struct {
	items map[string]*ItemAggregate
}

// Aggregate folds stock movement events into a ledger. Events arrive
// already decoded; malformed persisted rows were dropped (and reported)
// by the decoding layer, so the fold itself never fails.
func Aggregate(in []StockInEvent, out []StockOutEvent) *Ledger {
	l := &Ledger{items: make(map[string]*ItemAggregate)}
	for _, e := range in {
		a := l.item(e.Item)
		a.InQty += e.Quantity
		a.InAmount = a.InAmount.Add(e.Cost)
	}
	for _, e := range out {
		a := l.item(e.Item)
		a.OutQty += e.Quantity
		a.OutAmount = a.OutAmount.Add(e.Revenue())
	}
	return l
}

func (l *Ledger) item(name string) *ItemAggregate {
	a, ok := l.items[name]
	if !ok {
		a = &ItemAggregate{Item: name}
		l.items[name] = a
	}
	return a
}

// Item returns the aggregate for one item, or a zero aggregate if the
// item never moved.
func (l *Ledger) Item(name string) *ItemAggregate {
	if a, ok := l.items[name]; ok {
		return a
	}
	return &ItemAggregate{Item: name}
}

// Items returns all aggregates sorted by item name.
func (l *Ledger) Items() []*ItemAggregate {
	out := make([]*ItemAggregate, 0, len(l.items))
	for _, a := range l.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out
}

// Len returns the number of distinct items in the ledger.
func (l *Ledger) Len() int { return len(l.items) }
