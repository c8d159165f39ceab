package ocr

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseStockOut(t *testing.T) {
	rec, err := ParseStockOut("已成功售出铁剑(10)\n售出单价5银两\n手续费2银两")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Item != "铁剑" {
		t.Errorf("item = %q, want 铁剑", rec.Item)
	}
	if rec.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", rec.Quantity)
	}
	if !rec.UnitPrice.Equal(decimal.NewFromInt(5)) {
		t.Errorf("unit price = %s, want 5", rec.UnitPrice)
	}
	if !rec.Fee.Equal(decimal.NewFromInt(2)) {
		t.Errorf("fee = %s, want 2", rec.Fee)
	}
	// 10*5 - 2
	if !rec.Total.Equal(decimal.NewFromInt(48)) {
		t.Errorf("total = %s, want 48", rec.Total)
	}
}

func TestParseStockOutFullWidthParens(t *testing.T) {
	rec, err := ParseStockOut("已成功售出金创药（3）售出单价7银两")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Item != "金创药" || rec.Quantity != 3 {
		t.Fatalf("got %+v", rec)
	}
	if !rec.Fee.IsZero() {
		t.Errorf("missing fee should default to 0, got %s", rec.Fee)
	}
	if !rec.Total.Equal(decimal.NewFromInt(21)) {
		t.Errorf("total = %s, want 21", rec.Total)
	}
}

func TestParseStockOutNoAnchor(t *testing.T) {
	for _, text := range []string{"", "随便什么文字", "售出单价5银两"} {
		if _, err := ParseStockOut(text); !errors.Is(err, ErrNoMatch) {
			t.Errorf("ParseStockOut(%q) err = %v, want ErrNoMatch", text, err)
		}
	}
}

func TestTokenizeGreedyLongestPrefix(t *testing.T) {
	dict := NewDictionary("铁剑", "金创药")
	tokens, skipped := dict.Tokenize("铁剑金创药")
	if want := []string{"铁剑", "金创药"}; !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokens = %v, want %v", tokens, want)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
}

func TestTokenizePrefersLongerEntry(t *testing.T) {
	// 铁剑 is a prefix of 铁剑柄; greedy matching must take the longer one.
	dict := NewDictionary("铁剑", "铁剑柄")
	tokens, skipped := dict.Tokenize("铁剑柄铁剑")
	if want := []string{"铁剑柄", "铁剑"}; !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokens = %v, want %v", tokens, want)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
}

func TestTokenizeCountsSkips(t *testing.T) {
	dict := NewDictionary("铁剑")
	tokens, skipped := dict.Tokenize("x铁剑yz")
	if want := []string{"铁剑"}; !reflect.DeepEqual(tokens, want) {
		t.Errorf("tokens = %v, want %v", tokens, want)
	}
	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
}

func TestParseMonitor(t *testing.T) {
	dict := NewDictionary("铁剑", "金创药")
	text := "物品\n铁剑金创药\n数量\n12\n34\n一口价\n5\n6"
	rows, warnings, err := ParseMonitor(text, dict)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	want := []MonitorRow{
		{Item: "铁剑", Quantity: "12", Price: "5"},
		{Item: "金创药", Quantity: "34", Price: "6"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %+v, want %+v", rows, want)
	}
}

func TestParseMonitorReconciliation(t *testing.T) {
	dict := NewDictionary("铁剑", "金创药")
	// 2 items, 1 quantity, 2 prices.
	text := "物品\n铁剑金创药\n数量\n12\n一口价\n5\n6"
	rows, warnings, err := ParseMonitor(text, dict)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].DataMissing() {
		t.Errorf("first row unexpectedly incomplete: %+v", rows[0])
	}
	if !reflect.DeepEqual(rows[1].Missing, []string{"quantity"}) {
		t.Errorf("second row missing = %v, want [quantity]", rows[1].Missing)
	}
	var recon *ReconciliationWarning
	for _, w := range warnings {
		if errors.As(w, &recon) {
			break
		}
	}
	if recon == nil {
		t.Fatal("no ReconciliationWarning returned")
	}
	if recon.Items != 2 || recon.Quantities != 1 || recon.Prices != 2 {
		t.Errorf("warning counts = (%d, %d, %d), want (2, 1, 2)", recon.Items, recon.Quantities, recon.Prices)
	}
}

func TestParseMonitorEmptyDictionary(t *testing.T) {
	_, _, err := ParseMonitor("物品\n铁剑", NewDictionary())
	if !errors.Is(err, ErrEmptyDictionary) {
		t.Fatalf("err = %v, want ErrEmptyDictionary", err)
	}
	if _, _, err := ParseMonitor("物品\n铁剑", nil); !errors.Is(err, ErrEmptyDictionary) {
		t.Fatalf("nil dictionary err = %v, want ErrEmptyDictionary", err)
	}
}

func TestParseMonitorSkippedFromGaps(t *testing.T) {
	dict := NewDictionary("铁剑")
	text := "物品\n铁剑xx\n数量\n1\n一口价\n2"
	_, warnings, err := ParseMonitor(text, dict)
	if err != nil {
		t.Fatal(err)
	}
	var skip *SkippedRunesWarning
	for _, w := range warnings {
		if errors.As(w, &skip) {
			break
		}
	}
	if skip == nil || skip.Count != 2 {
		t.Fatalf("warnings = %v, want a SkippedRunesWarning with count 2", warnings)
	}
}
