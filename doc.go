// Package gametrad implements the inventory valuation and audit core of a
// trading tracker for a game economy. It is designed to be local-first and
// auditable: raw stock movement events are the only source of truth, and
// everything a caller sees is derived from them on demand.
//
// The core functionalities include:
//   - Ledger Aggregation: folding the immutable stream of stock-in and
//     stock-out events into per-item totals and weighted-average costs.
//   - Formula Engine: resolving derived fields (profit, profit rate,
//     inventory value) from built-in defaults or user-overridden
//     expressions, evaluated by a restricted interpreter over a closed
//     variable set.
//   - Valuation Snapshot: one recomputed row per item, a pure function of
//     the event set, safe to build on a background worker.
//   - Operation History: an append-only log of every mutating action with
//     undo/redo through registered compensating actions.
//   - Data Persistence: encoding and decoding events and log entries to
//     and from human-readable JSONL files.
//
// This package serves as the foundational logic for the `gt` command-line
// tool. The ocr subpackage turns recognized screenshot text into candidate
// records for the stock-out and trade-monitor domains.
package gametrad
