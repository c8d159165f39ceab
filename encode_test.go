package gametrad

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeStockIn(t *testing.T) {
	events := []StockInEvent{
		mustStockIn(t, "铁剑", day(0), 10, 30),
		mustStockIn(t, "金创药", day(1), 5, 10.5),
	}

	var buf bytes.Buffer
	if err := EncodeStockIn(&buf, events); err != nil {
		t.Fatalf("EncodeStockIn() failed: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Fatalf("encoded %d lines, want 2 (one per event)", got)
	}

	decoded, warnings, err := DecodeStockIn("test", &buf)
	if err != nil {
		t.Fatalf("DecodeStockIn() failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("DecodeStockIn() warnings = %v, want none", warnings)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d events, want 2", len(decoded))
	}
	if decoded[0].Item != "铁剑" || !decoded[0].Time.Equal(day(0)) {
		t.Errorf("decoded[0] = %+v, want the 铁剑 event", decoded[0])
	}
	assertMoney(t, "decoded cost", decoded[1].Cost, 10.5)
}

func TestDecodeSkipsCorruptRows(t *testing.T) {
	input := `{"item":"铁剑","time":"2026-03-01T12:00:00Z","quantity":10,"cost":30}
not json at all
{"item":"金创药","time":"2026-03-02T12:00:00Z","quantity":5,"cost":10}
`
	rows, warnings, err := DecodeStockIn("stock_in.jsonl", strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeStockIn() failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("decoded %d rows, want 2 good ones", len(rows))
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	var rerr *RowError
	if !errors.As(warnings[0], &rerr) {
		t.Fatalf("warning is %T, want *RowError", warnings[0])
	}
	if rerr.Source != "stock_in.jsonl" || rerr.Line != 2 {
		t.Errorf("RowError points at %s:%d, want stock_in.jsonl:2", rerr.Source, rerr.Line)
	}
}

func TestDecodeRejectsInvalidRows(t *testing.T) {
	// Well-formed JSON, but a quantity the data model forbids.
	input := `{"item":"铁剑","time":"2026-03-01T12:00:00Z","quantity":0,"cost":30}` + "\n"
	rows, warnings, err := DecodeStockIn("test", strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeStockIn() failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("decoded %d rows, want 0", len(rows))
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one validation row error", warnings)
	}
}

func TestDecodeSkipsBlankLines(t *testing.T) {
	input := "\n\n" + `{"item":"铁剑","time":"2026-03-01T12:00:00Z","quantity":1,"cost":3}` + "\n\n"
	rows, warnings, err := DecodeStockIn("test", strings.NewReader(input))
	if err != nil || len(warnings) != 0 {
		t.Fatalf("DecodeStockIn() = warnings %v, err %v; want clean", warnings, err)
	}
	if len(rows) != 1 {
		t.Errorf("decoded %d rows, want 1", len(rows))
	}
}

func TestMoneyEncodesAsPlainNumber(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeStockIn(&buf, []StockInEvent{mustStockIn(t, "铁剑", day(0), 10, 30.5)}); err != nil {
		t.Fatalf("EncodeStockIn() failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"cost":30.5`) {
		t.Errorf("encoded line = %s, want cost as an unquoted number", buf.String())
	}
}

func TestEncodeDecodeStockOutKeepsTotal(t *testing.T) {
	event := mustStockOut(t, "铁剑", day(0), 10, 5, 2, 7)

	var buf bytes.Buffer
	if err := EncodeStockOut(&buf, []StockOutEvent{event}); err != nil {
		t.Fatalf("EncodeStockOut() failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"totalAmount":55`) {
		t.Errorf("encoded line = %s, want the settled total persisted", buf.String())
	}

	decoded, _, err := DecodeStockOut("test", &buf)
	if err != nil {
		t.Fatalf("DecodeStockOut() failed: %v", err)
	}
	assertMoney(t, "decoded Total", decoded[0].Total, 55)
}
