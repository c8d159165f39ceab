package gametrad

import (
	"time"
)

// StockInEvent records one inbound stock movement: a purchase or pickup of
// Quantity units of Item for a total of Cost. Events are append-only; an
// edit is a delete followed by a reinsert.
type StockInEvent struct {
	Item     string    `json:"item"`
	Time     time.Time `json:"time"`
	Quantity int64     `json:"quantity"`
	Cost     Money     `json:"cost"` // total money spent, not unit price
	Note     string    `json:"note,omitempty"`
}

// NewStockIn builds and validates a stock-in event.
func NewStockIn(item string, at time.Time, quantity int64, cost Money, note string) (StockInEvent, error) {
	e := StockInEvent{Item: item, Time: at, Quantity: quantity, Cost: cost, Note: note}
	return e, e.Validate()
}

// Validate checks the event against the data model.
func (e StockInEvent) Validate() error {
	if e.Item == "" {
		return &ValidationError{Field: "item", Reason: "must not be empty"}
	}
	if e.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if e.Cost.IsNegative() {
		return &ValidationError{Field: "cost", Reason: "must not be negative"}
	}
	return nil
}

// AvgCost returns the per-unit cost of this single event.
func (e StockInEvent) AvgCost() Money {
	if e.Quantity == 0 {
		return M(0)
	}
	return e.Cost.DivQty(e.Quantity)
}

// StockOutEvent records one outbound stock movement: a sale of Quantity
// units of Item at UnitPrice each, minus the market Fee, plus a returned
// Deposit.
//
// Total is fixed at creation time to Quantity*UnitPrice - Fee + Deposit and
// is never recomputed from the ledger afterwards. Note that the ledger's
// out_amount basis excludes the deposit (see ItemAggregate); the two are
// different quantities on purpose.
type StockOutEvent struct {
	Item      string    `json:"item"`
	Time      time.Time `json:"time"`
	Quantity  int64     `json:"quantity"`
	UnitPrice Money     `json:"unitPrice"`
	Fee       Money     `json:"fee"`
	Deposit   Money     `json:"deposit"`
	Total     Money     `json:"totalAmount"`
	Note      string    `json:"note,omitempty"`
}

// NewStockOut builds and validates a stock-out event, fixing its Total.
func NewStockOut(item string, at time.Time, quantity int64, unitPrice, fee, deposit Money, note string) (StockOutEvent, error) {
	e := StockOutEvent{
		Item:      item,
		Time:      at,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Fee:       fee,
		Deposit:   deposit,
		Note:      note,
	}
	if err := e.Validate(); err != nil {
		return e, err
	}
	e.Total = unitPrice.MulQty(quantity).Sub(fee).Add(deposit)
	return e, nil
}

// Validate checks the event against the data model.
func (e StockOutEvent) Validate() error {
	if e.Item == "" {
		return &ValidationError{Field: "item", Reason: "must not be empty"}
	}
	if e.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if !e.UnitPrice.IsPositive() {
		return &ValidationError{Field: "unitPrice", Reason: "must be positive"}
	}
	if e.Fee.IsNegative() {
		return &ValidationError{Field: "fee", Reason: "must not be negative"}
	}
	if e.Deposit.IsNegative() {
		return &ValidationError{Field: "deposit", Reason: "must not be negative"}
	}
	return nil
}

// Revenue returns the ledger basis of this sale: Quantity*UnitPrice - Fee.
// The deposit is excluded here even though it is part of Total.
func (e StockOutEvent) Revenue() Money {
	return e.UnitPrice.MulQty(e.Quantity).Sub(e.Fee)
}

// MonitorRecord is one row of the trade-monitor domain, usually imported
// from OCR text. Missing lists the fields the OCR parser could not fill.
type MonitorRecord struct {
	Item     string    `json:"item"`
	Time     time.Time `json:"time"`
	Quantity int64     `json:"quantity"`
	Price    Money     `json:"price"`
	Note     string    `json:"note,omitempty"`
	Missing  []string  `json:"missing,omitempty"`
}
