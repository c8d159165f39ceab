package gametrad

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file persists events and log entries as JSONL: one JSON object per
// line, human-readable and git-friendly. Decoding is tolerant: a line that
// fails to parse or validate becomes a RowError and is skipped, so one
// corrupt historical row never blanks the whole ledger.

// decodeLines scans r line by line, decoding each into T and validating
// it. source names the stream for row error messages only.
func decodeLines[T any](source string, r io.Reader, validate func(T) error) (rows []T, warnings []error, err error) {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			warnings = append(warnings, &RowError{Source: source, Line: line, Err: err})
			continue
		}
		if validate != nil {
			if err := validate(row); err != nil {
				warnings = append(warnings, &RowError{Source: source, Line: line, Err: err})
				continue
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return rows, warnings, fmt.Errorf("cannot read %s: %w", source, err)
	}
	return rows, warnings, nil
}

func encodeLines[T any](w io.Writer, rows []T) error {
	for _, row := range rows {
		b, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
			return err
		}
	}
	return nil
}

// DecodeStockIn reads stock-in events from a JSONL stream.
func DecodeStockIn(source string, r io.Reader) ([]StockInEvent, []error, error) {
	return decodeLines(source, r, StockInEvent.Validate)
}

// EncodeStockIn writes stock-in events as JSONL.
func EncodeStockIn(w io.Writer, events []StockInEvent) error {
	return encodeLines(w, events)
}

// DecodeStockOut reads stock-out events from a JSONL stream.
func DecodeStockOut(source string, r io.Reader) ([]StockOutEvent, []error, error) {
	return decodeLines(source, r, StockOutEvent.Validate)
}

// EncodeStockOut writes stock-out events as JSONL.
func EncodeStockOut(w io.Writer, events []StockOutEvent) error {
	return encodeLines(w, events)
}

// DecodeMonitor reads monitor records from a JSONL stream.
func DecodeMonitor(source string, r io.Reader) ([]MonitorRecord, []error, error) {
	return decodeLines[MonitorRecord](source, r, nil)
}

// EncodeMonitor writes monitor records as JSONL.
func EncodeMonitor(w io.Writer, records []MonitorRecord) error {
	return encodeLines(w, records)
}

// DecodeLog reads operation-log entries from a JSONL stream.
func DecodeLog(source string, r io.Reader) ([]AuditEntry, []error, error) {
	return decodeLines[AuditEntry](source, r, nil)
}

// EncodeLog writes operation-log entries as JSONL.
func EncodeLog(w io.Writer, entries []AuditEntry) error {
	return encodeLines(w, entries)
}
