package gametrad

import (
	"encoding/json"
	"fmt"
	"time"
)

// OperationKind is the closed set of mutating actions the log records.
type OperationKind string

const (
	OpAdd    OperationKind = "add"
	OpDelete OperationKind = "delete"
	OpModify OperationKind = "modify"
)

// Domain names a record family. Stock movements and monitor rows have
// undo/redo compensators; the formula domains only key override tables.
type Domain string

const (
	DomainStockIn   Domain = "stock-in"
	DomainStockOut  Domain = "stock-out"
	DomainMonitor   Domain = "monitor"
	DomainInventory Domain = "inventory"
)

// Action is the tagged pair history dispatches on.
type Action struct {
	Kind   OperationKind
	Domain Domain
}

// AuditEntry is one record of the append-only operation log. The payload
// captures the affected row(s) verbatim and is immutable once written;
// only the Reverted and Superseded flags ever change.
//
// Superseded marks a reverted entry whose redo was invalidated by a later
// forward operation. It can never be redone again; it stays in the log as
// a record of what happened.
type AuditEntry struct {
	ID         int64           `json:"id"`
	Kind       OperationKind   `json:"kind"`
	Domain     Domain          `json:"domain"`
	Time       time.Time       `json:"time"`
	Payload    json.RawMessage `json:"payload"`
	Reverted   bool            `json:"reverted"`
	Superseded bool            `json:"superseded,omitempty"`
}

// ModifyPayload is the payload shape of an OpModify entry: the row(s)
// before and after the edit. Old and New hold the same row type as an
// OpAdd payload for the entry's domain.
type ModifyPayload struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// modifyEnvelope is the decode-side counterpart of ModifyPayload.
type modifyEnvelope struct {
	Old json.RawMessage `json:"old"`
	New json.RawMessage `json:"new"`
}

// rowSet is the unit a compensator inserts into or removes from the store.
type rowSet interface {
	insert(Store) error
	remove(Store) error
}

type stockInRows []StockInEvent

func (r stockInRows) insert(s Store) error {
	for _, e := range r {
		if err := s.InsertStockIn(e); err != nil {
			return err
		}
	}
	return nil
}

func (r stockInRows) remove(s Store) error {
	for _, e := range r {
		if err := s.DeleteStockIn(e.Item, e.Time); err != nil {
			return err
		}
	}
	return nil
}

type stockOutRows []StockOutEvent

func (r stockOutRows) insert(s Store) error {
	for _, e := range r {
		if err := s.InsertStockOut(e); err != nil {
			return err
		}
	}
	return nil
}

func (r stockOutRows) remove(s Store) error {
	for _, e := range r {
		if err := s.DeleteStockOut(e.Item, e.Time); err != nil {
			return err
		}
	}
	return nil
}

type monitorRows []MonitorRecord

func (r monitorRows) insert(s Store) error {
	for _, m := range r {
		if err := s.InsertMonitor(m); err != nil {
			return err
		}
	}
	return nil
}

func (r monitorRows) remove(s Store) error {
	for _, m := range r {
		if err := s.DeleteMonitor(m.Item, m.Time); err != nil {
			return err
		}
	}
	return nil
}

// rowDecoders maps a domain to the decoder for its payload row type.
var rowDecoders = map[Domain]func(json.RawMessage) (rowSet, error){
	DomainStockIn: func(p json.RawMessage) (rowSet, error) {
		var r stockInRows
		err := json.Unmarshal(p, &r)
		return r, err
	},
	DomainStockOut: func(p json.RawMessage) (rowSet, error) {
		var r stockOutRows
		err := json.Unmarshal(p, &r)
		return r, err
	},
	DomainMonitor: func(p json.RawMessage) (rowSet, error) {
		var r monitorRows
		err := json.Unmarshal(p, &r)
		return r, err
	},
}

// Compensator reverses (Revert) and re-applies (Apply) one action kind on
// one domain. Revert is what Undo runs; Apply is its exact inverse, run by
// Redo.
type Compensator struct {
	Revert func(Store, json.RawMessage) error
	Apply  func(Store, json.RawMessage) error
}

// History is the audit-log engine. It records every mutating action into
// the store's operation log and can undo or redo them through registered
// compensators. The redo list lives in memory only; it does not survive a
// restart, but the log itself does.
//
// History assumes a single interactive actor; it is not safe for
// concurrent use.
type History struct {
	store        Store
	compensators map[Action]Compensator
	redo         []AuditEntry
}

// NewHistory creates a history engine over the store with the standard
// compensators registered for every {Add, Delete, Modify} x
// {stock-in, stock-out, monitor} pair.
func NewHistory(store Store) *History {
	h := &History{
		store:        store,
		compensators: make(map[Action]Compensator),
	}
	for domain, decode := range rowDecoders {
		h.Register(Action{OpAdd, domain}, addCompensator(decode))
		h.Register(Action{OpDelete, domain}, deleteCompensator(decode))
		h.Register(Action{OpModify, domain}, modifyCompensator(decode))
	}
	return h
}

// Register installs (or replaces) the compensator for an action.
func (h *History) Register(a Action, c Compensator) {
	h.compensators[a] = c
}

// Record appends a new Applied entry capturing a mutation that was already
// written to the store, and returns its id. payload must match the shape
// the domain's compensator expects: a slice of rows for Add and Delete, a
// ModifyPayload for Modify.
//
// A new forward action invalidates every pending redo: the in-memory
// list is cleared, and the undone entries it covered are marked
// superseded in the store. Without the persisted mark a later undo could
// bury them under the reverted prefix again, and a fresh process would
// take them for redoable.
func (h *History) Record(kind OperationKind, domain Domain, payload any) (int64, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("cannot capture %s %s payload: %w", kind, domain, err)
	}
	if err := h.supersedePending(); err != nil {
		return 0, err
	}
	id, err := h.store.AppendLog(AuditEntry{
		Kind:    kind,
		Domain:  domain,
		Time:    time.Now(),
		Payload: raw,
	})
	if err != nil {
		return 0, fmt.Errorf("cannot append to operation log: %w", err)
	}
	h.redo = h.redo[:0]
	return id, nil
}

// supersedePending marks every redo-eligible entry superseded. Those are
// the contiguous reverted, not-yet-superseded entries at the top of the
// newest-first log, the persisted mirror of the in-memory redo list.
func (h *History) supersedePending() error {
	entries, err := h.store.ListLog(LogFilter{})
	if err != nil {
		return fmt.Errorf("cannot read operation log: %w", err)
	}
	for _, e := range entries {
		if !e.Reverted {
			break
		}
		if e.Superseded {
			continue
		}
		if err := h.store.SetLogSuperseded(e.ID, true); err != nil {
			return fmt.Errorf("cannot mark entry %d superseded: %w", e.ID, err)
		}
	}
	return nil
}

// AddStockIn inserts the event and records the addition as one logical
// operation: when the log append fails, the inserted row is removed
// again, so no mutation escapes the audit trail.
func (h *History) AddStockIn(e StockInEvent) error {
	if err := h.store.InsertStockIn(e); err != nil {
		return err
	}
	if _, err := h.Record(OpAdd, DomainStockIn, []StockInEvent{e}); err != nil {
		if derr := h.store.DeleteStockIn(e.Item, e.Time); derr != nil {
			return fmt.Errorf("%w (rollback of the stored event also failed: %v)", err, derr)
		}
		return err
	}
	return nil
}

// AddStockOut is the stock-out counterpart of AddStockIn.
func (h *History) AddStockOut(e StockOutEvent) error {
	if err := h.store.InsertStockOut(e); err != nil {
		return err
	}
	if _, err := h.Record(OpAdd, DomainStockOut, []StockOutEvent{e}); err != nil {
		if derr := h.store.DeleteStockOut(e.Item, e.Time); derr != nil {
			return fmt.Errorf("%w (rollback of the stored event also failed: %v)", err, derr)
		}
		return err
	}
	return nil
}

// AddMonitor inserts a batch of monitor records and records them as one
// operation. Any failure removes the rows inserted so far.
func (h *History) AddMonitor(records []MonitorRecord) error {
	rollback := func(n int) error {
		for _, r := range records[:n] {
			if err := h.store.DeleteMonitor(r.Item, r.Time); err != nil {
				return err
			}
		}
		return nil
	}
	for i, r := range records {
		if err := h.store.InsertMonitor(r); err != nil {
			if derr := rollback(i); derr != nil {
				return fmt.Errorf("%w (rollback of the stored records also failed: %v)", err, derr)
			}
			return err
		}
	}
	if _, err := h.Record(OpAdd, DomainMonitor, records); err != nil {
		if derr := rollback(len(records)); derr != nil {
			return fmt.Errorf("%w (rollback of the stored records also failed: %v)", err, derr)
		}
		return err
	}
	return nil
}

// Undo reverses the most recently recorded operation that is still
// applied, system-wide. It returns the reverted entry.
//
// The store writes happen first; only when they all succeed does the redo
// list advance, so recorded history and visible state cannot diverge.
func (h *History) Undo() (AuditEntry, error) {
	entries, err := h.store.ListLog(LogFilter{})
	if err != nil {
		return AuditEntry{}, fmt.Errorf("cannot read operation log: %w", err)
	}
	var target *AuditEntry
	for i := range entries {
		if !entries[i].Reverted {
			target = &entries[i]
			break
		}
	}
	if target == nil {
		return AuditEntry{}, ErrNothingToUndo
	}
	comp, ok := h.compensators[Action{target.Kind, target.Domain}]
	if !ok {
		return AuditEntry{}, &UnsupportedOperationError{Kind: target.Kind, Domain: target.Domain}
	}
	if err := comp.Revert(h.store, target.Payload); err != nil {
		return AuditEntry{}, fmt.Errorf("cannot undo %s %s: %w", target.Kind, target.Domain, err)
	}
	if err := h.store.SetLogReverted(target.ID, true); err != nil {
		return AuditEntry{}, fmt.Errorf("cannot mark entry %d reverted: %w", target.ID, err)
	}
	target.Reverted = true
	h.redo = append(h.redo, *target)
	return *target, nil
}

// Redo re-applies the most recently undone operation and returns its
// entry. The redo list only shrinks once both the forward action and the
// reverted-flag flip have been written.
func (h *History) Redo() (AuditEntry, error) {
	if len(h.redo) == 0 {
		return AuditEntry{}, ErrNothingToRedo
	}
	entry := h.redo[len(h.redo)-1]
	comp, ok := h.compensators[Action{entry.Kind, entry.Domain}]
	if !ok {
		return AuditEntry{}, &UnsupportedOperationError{Kind: entry.Kind, Domain: entry.Domain}
	}
	if err := comp.Apply(h.store, entry.Payload); err != nil {
		return AuditEntry{}, fmt.Errorf("cannot redo %s %s: %w", entry.Kind, entry.Domain, err)
	}
	if err := h.store.SetLogReverted(entry.ID, false); err != nil {
		return AuditEntry{}, fmt.Errorf("cannot mark entry %d applied: %w", entry.ID, err)
	}
	h.redo = h.redo[:len(h.redo)-1]
	entry.Reverted = false
	return entry, nil
}

// PendingRedo reports how many undone operations are waiting for a redo.
func (h *History) PendingRedo() int { return len(h.redo) }

// Reload rebuilds the pending redo list from the operation log. Undone
// operations form a contiguous reverted prefix of the newest-first log;
// reloading restores them in the order they were undone, so a fresh
// process can still redo what an earlier one undid. Superseded entries
// inside that prefix lost their redo to a later forward operation and
// are left out.
func (h *History) Reload() error {
	entries, err := h.store.ListLog(LogFilter{})
	if err != nil {
		return fmt.Errorf("cannot read operation log: %w", err)
	}
	h.redo = h.redo[:0]
	for _, e := range entries {
		if !e.Reverted {
			break
		}
		if e.Superseded {
			continue
		}
		h.redo = append(h.redo, e)
	}
	return nil
}

func addCompensator(decode func(json.RawMessage) (rowSet, error)) Compensator {
	return Compensator{
		// Undoing an Add deletes the captured rows.
		Revert: func(s Store, p json.RawMessage) error {
			rows, err := decode(p)
			if err != nil {
				return fmt.Errorf("corrupt payload: %w", err)
			}
			return rows.remove(s)
		},
		Apply: func(s Store, p json.RawMessage) error {
			rows, err := decode(p)
			if err != nil {
				return fmt.Errorf("corrupt payload: %w", err)
			}
			return rows.insert(s)
		},
	}
}

func deleteCompensator(decode func(json.RawMessage) (rowSet, error)) Compensator {
	return Compensator{
		// Undoing a Delete reinserts the rows captured verbatim.
		Revert: func(s Store, p json.RawMessage) error {
			rows, err := decode(p)
			if err != nil {
				return fmt.Errorf("corrupt payload: %w", err)
			}
			return rows.insert(s)
		},
		Apply: func(s Store, p json.RawMessage) error {
			rows, err := decode(p)
			if err != nil {
				return fmt.Errorf("corrupt payload: %w", err)
			}
			return rows.remove(s)
		},
	}
}

func modifyCompensator(decode func(json.RawMessage) (rowSet, error)) Compensator {
	split := func(p json.RawMessage) (before, after rowSet, err error) {
		var env modifyEnvelope
		if err := json.Unmarshal(p, &env); err != nil {
			return nil, nil, fmt.Errorf("corrupt payload: %w", err)
		}
		if before, err = decode(env.Old); err != nil {
			return nil, nil, fmt.Errorf("corrupt old rows: %w", err)
		}
		if after, err = decode(env.New); err != nil {
			return nil, nil, fmt.Errorf("corrupt new rows: %w", err)
		}
		return before, after, nil
	}
	return Compensator{
		// Undoing a Modify removes the new rows and restores the old.
		Revert: func(s Store, p json.RawMessage) error {
			before, after, err := split(p)
			if err != nil {
				return err
			}
			if err := after.remove(s); err != nil {
				return err
			}
			return before.insert(s)
		},
		Apply: func(s Store, p json.RawMessage) error {
			before, after, err := split(p)
			if err != nil {
				return err
			}
			if err := before.remove(s); err != nil {
				return err
			}
			return after.insert(s)
		},
	}
}
