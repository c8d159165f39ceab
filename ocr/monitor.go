package ocr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyDictionary is returned when trade-monitor parsing is requested
// with no item dictionary: the tokenizer would skip every character and
// silently yield zero records, so it refuses to run instead.
var ErrEmptyDictionary = errors.New("item dictionary is empty")

// ReconciliationWarning reports that the three extracted token lists have
// different lengths. The record list is still returned, padded with
// missing placeholders; the warning carries the raw counts so the caller
// can surface them.
type ReconciliationWarning struct {
	Items      int
	Quantities int
	Prices     int
}

func (w *ReconciliationWarning) Error() string {
	return fmt.Sprintf("field counts differ: %d items, %d quantities, %d prices", w.Items, w.Quantities, w.Prices)
}

// SkippedRunesWarning counts the characters the dictionary tokenizer had
// to skip: each one is a dictionary coverage gap.
type SkippedRunesWarning struct {
	Count int
}

func (w *SkippedRunesWarning) Error() string {
	return fmt.Sprintf("tokenizer skipped %d unrecognized characters", w.Count)
}

// The trade-monitor screen lays fields out in three columns; OCR flattens
// them into line blocks headed by these family prefixes.
const (
	familyItem     = "物品"
	familyQuantity = "数量"
	familyPrice    = "一口价"
)

var familyPrefixes = []string{familyItem, familyQuantity, familyPrice}

var reDigits = regexp.MustCompile(`\d+`)

// MonitorRow is one candidate trade-monitor record. Fields hold raw
// tokens; an empty field is also named in Missing.
type MonitorRow struct {
	Item     string
	Quantity string
	Price    string
	Missing  []string
}

// DataMissing reports whether any field of the row lacked a token.
func (r MonitorRow) DataMissing() bool { return len(r.Missing) > 0 }

// ParseMonitor extracts trade-monitor records from recognized text. Rows
// are assembled by zipping the three token lists position by position up
// to the longest list; a position absent from one list leaves that field
// empty and flags the row. Non-fatal findings (count mismatch, skipped
// characters) come back as warnings next to the records.
func ParseMonitor(text string, dict *Dictionary) ([]MonitorRow, []error, error) {
	if dict == nil || dict.Len() == 0 {
		return nil, nil, ErrEmptyDictionary
	}

	blocks := splitBlocks(text)
	items, skipped := dict.Tokenize(strings.Join(blocks[familyItem], ""))
	quantities := reDigits.FindAllString(strings.Join(blocks[familyQuantity], "\n"), -1)
	prices := reDigits.FindAllString(strings.Join(blocks[familyPrice], "\n"), -1)

	var warnings []error
	if skipped > 0 {
		warnings = append(warnings, &SkippedRunesWarning{Count: skipped})
	}
	if len(items) != len(quantities) || len(quantities) != len(prices) {
		warnings = append(warnings, &ReconciliationWarning{
			Items:      len(items),
			Quantities: len(quantities),
			Prices:     len(prices),
		})
	}

	n := max(len(items), max(len(quantities), len(prices)))
	rows := make([]MonitorRow, 0, n)
	for i := 0; i < n; i++ {
		var row MonitorRow
		if i < len(items) {
			row.Item = items[i]
		} else {
			row.Missing = append(row.Missing, "item")
		}
		if i < len(quantities) {
			row.Quantity = quantities[i]
		} else {
			row.Missing = append(row.Missing, "quantity")
		}
		if i < len(prices) {
			row.Price = prices[i]
		} else {
			row.Missing = append(row.Missing, "price")
		}
		rows = append(rows, row)
	}
	return rows, warnings, nil
}

// splitBlocks groups the text's lines into field-family blocks: a line
// whose prefix names a family starts that block, and every following line
// belongs to it until the next known prefix.
func splitBlocks(text string) map[string][]string {
	blocks := make(map[string][]string)
	current := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		prefixed := false
		for _, p := range familyPrefixes {
			if strings.HasPrefix(line, p) {
				current = p
				// OCR often glues the first value onto the header line.
				if rest := strings.TrimSpace(strings.TrimPrefix(line, p)); rest != "" {
					blocks[current] = append(blocks[current], rest)
				}
				prefixed = true
				break
			}
		}
		if prefixed || current == "" {
			continue
		}
		blocks[current] = append(blocks[current], line)
	}
	return blocks
}
