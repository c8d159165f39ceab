package ocr

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrNoMatch is returned when a text carries no recognizable stock-out
// phrase; the caller skips that input and moves on.
var ErrNoMatch = errors.New("no stock-out phrase recognized")

// The game client phrases a completed sale the same way every time, so
// parsing anchors on those fixed phrases.
var (
	reSold  = regexp.MustCompile(`已成功售出(.+?)[（(](\d+)[)）]`)
	rePrice = regexp.MustCompile(`售出单价(\d+(?:\.\d+)?)银两`)
	reFee   = regexp.MustCompile(`手续费(\d+(?:\.\d+)?)银两`)
)

// StockOutRecord is a candidate stock-out event parsed from OCR text.
type StockOutRecord struct {
	Item      string
	Quantity  int64
	UnitPrice decimal.Decimal
	Fee       decimal.Decimal
	Total     decimal.Decimal // Quantity*UnitPrice - Fee
}

// ParseStockOut extracts one sale from recognized text. The item name and
// quantity anchor is mandatory; unit price and fee default to 0 when their
// phrases are absent.
func ParseStockOut(text string) (StockOutRecord, error) {
	m := reSold.FindStringSubmatch(text)
	if m == nil {
		return StockOutRecord{}, ErrNoMatch
	}
	qty, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return StockOutRecord{}, ErrNoMatch
	}
	rec := StockOutRecord{Item: m[1], Quantity: qty}
	if m := rePrice.FindStringSubmatch(text); m != nil {
		rec.UnitPrice = decimal.RequireFromString(m[1])
	}
	if m := reFee.FindStringSubmatch(text); m != nil {
		rec.Fee = decimal.RequireFromString(m[1])
	}
	rec.Total = rec.UnitPrice.Mul(decimal.NewFromInt(rec.Quantity)).Sub(rec.Fee)
	return rec, nil
}
