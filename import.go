package gametrad

import (
	"strconv"
	"time"

	"github.com/785823869/gametrad/ocr"
)

// This file bridges the ocr parsers to the core record types.

// StockOutFromOCR builds a stock-out event from a parsed OCR record. The
// event receives its own validation, so an implausible recognition (zero
// quantity, zero price) is rejected here rather than entering the ledger.
func StockOutFromOCR(rec ocr.StockOutRecord, at time.Time, note string) (StockOutEvent, error) {
	return NewStockOut(rec.Item, at, rec.Quantity, M(rec.UnitPrice), M(rec.Fee), M(0), note)
}

// MonitorFromOCR builds a monitor record from a parsed OCR row. Numeric
// tokens that fail to parse count as missing, same as absent ones; the
// record is kept either way, flagged for the user to fix.
func MonitorFromOCR(row ocr.MonitorRow, at time.Time) MonitorRecord {
	rec := MonitorRecord{
		Item:    row.Item,
		Time:    at,
		Missing: append([]string(nil), row.Missing...),
	}
	if row.Quantity != "" {
		if q, err := strconv.ParseInt(row.Quantity, 10, 64); err == nil {
			rec.Quantity = q
		} else {
			rec.Missing = append(rec.Missing, "quantity")
		}
	}
	if row.Price != "" {
		if p, err := strconv.ParseInt(row.Price, 10, 64); err == nil {
			rec.Price = M(p)
		} else {
			rec.Missing = append(rec.Missing, "price")
		}
	}
	return rec
}
