// Package ocr converts recognized free text into candidate structured
// records, one parser per domain. Inputs are whatever the recognition
// collaborator produced, so every parser is tolerant: a single input that
// cannot be anchored fails alone, and anything lossy (skipped characters,
// mismatched field counts) is counted and reported rather than silently
// dropped.
package ocr

import (
	"bufio"
	"sort"
	"strings"
)

// Dictionary is the externally maintained set of canonical item names the
// tokenizer splits concatenated text against.
type Dictionary struct {
	entries []string // sorted by descending rune length for greedy matching
}

// NewDictionary builds a dictionary from item names, dropping empties and
// duplicates.
func NewDictionary(names ...string) *Dictionary {
	seen := make(map[string]bool, len(names))
	d := &Dictionary{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		d.entries = append(d.entries, n)
	}
	// Longest candidates first so greedy matching prefers them; ties stay
	// in lexical order to keep tokenization deterministic.
	sort.SliceStable(d.entries, func(i, j int) bool {
		li, lj := len([]rune(d.entries[i])), len([]rune(d.entries[j]))
		if li != lj {
			return li > lj
		}
		return d.entries[i] < d.entries[j]
	})
	return d
}

// LoadDictionary reads one item name per line.
func LoadDictionary(r *bufio.Scanner) (*Dictionary, error) {
	var names []string
	for r.Scan() {
		names = append(names, r.Text())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return NewDictionary(names...), nil
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.entries) }

// Entries returns the entries in matching order (longest first).
func (d *Dictionary) Entries() []string {
	out := make([]string, len(d.entries))
	copy(out, d.entries)
	return out
}

// Tokenize splits concatenated text into known item names using greedy
// longest-prefix matching. A character matching no entry is skipped one at
// a time; skips are lossy but counted so dictionary coverage gaps stay
// observable.
func (d *Dictionary) Tokenize(text string) (tokens []string, skipped int) {
	runes := []rune(text)
	i := 0
scan:
	for i < len(runes) {
		rest := string(runes[i:])
		for _, entry := range d.entries {
			if strings.HasPrefix(rest, entry) {
				tokens = append(tokens, entry)
				i += len([]rune(entry))
				continue scan
			}
		}
		skipped++
		i++
	}
	return tokens, skipped
}
