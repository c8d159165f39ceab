package gametrad

import (
	"errors"
	"testing"
)

// record inserts an event and records it, the way a caller mutates the
// system: store write first, log entry second.
func recordStockIn(t *testing.T, store Store, h *History, e StockInEvent) {
	t.Helper()
	if err := store.InsertStockIn(e); err != nil {
		t.Fatalf("InsertStockIn() failed: %v", err)
	}
	if _, err := h.Record(OpAdd, DomainStockIn, []StockInEvent{e}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
}

func countStockIn(t *testing.T, store Store) int {
	t.Helper()
	rows, _, err := store.ListStockIn()
	if err != nil {
		t.Fatalf("ListStockIn() failed: %v", err)
	}
	return len(rows)
}

func TestUndoRedoAdd(t *testing.T) {
	store := NewMemoryStore()
	h := NewHistory(store)
	recordStockIn(t, store, h, mustStockIn(t, "铁剑", day(0), 10, 30))

	entry, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	if entry.Kind != OpAdd || entry.Domain != DomainStockIn {
		t.Errorf("Undo() reverted %s %s, want add stock-in", entry.Kind, entry.Domain)
	}
	if n := countStockIn(t, store); n != 0 {
		t.Fatalf("after undo, %d stock-in rows remain, want 0", n)
	}

	// The entry stays in the log, marked reverted.
	log, err := store.ListLog(LogFilter{})
	if err != nil {
		t.Fatalf("ListLog() failed: %v", err)
	}
	if len(log) != 1 || !log[0].Reverted {
		t.Fatalf("log after undo = %+v, want one reverted entry", log)
	}

	if _, err := h.Redo(); err != nil {
		t.Fatalf("Redo() failed: %v", err)
	}
	if n := countStockIn(t, store); n != 1 {
		t.Fatalf("after redo, %d stock-in rows, want 1", n)
	}
	log, _ = store.ListLog(LogFilter{})
	if log[0].Reverted {
		t.Error("entry still marked reverted after redo")
	}
}

func TestUndoRedoDelete(t *testing.T) {
	store := NewMemoryStore()
	h := NewHistory(store)
	e := mustStockIn(t, "铁剑", day(0), 10, 30)
	recordStockIn(t, store, h, e)

	// Delete the event, recording the removed row.
	if err := store.DeleteStockIn(e.Item, e.Time); err != nil {
		t.Fatalf("DeleteStockIn() failed: %v", err)
	}
	if _, err := h.Record(OpDelete, DomainStockIn, []StockInEvent{e}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	// Undoing the deletion restores the row.
	if _, err := h.Undo(); err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	rows, _, _ := store.ListStockIn()
	if len(rows) != 1 || rows[0].Item != "铁剑" {
		t.Fatalf("after undo of delete, rows = %+v, want the restored 铁剑", rows)
	}

	// Redoing the deletion removes it again.
	if _, err := h.Redo(); err != nil {
		t.Fatalf("Redo() failed: %v", err)
	}
	if n := countStockIn(t, store); n != 0 {
		t.Fatalf("after redo of delete, %d rows remain, want 0", n)
	}
}

func TestUndoRedoModify(t *testing.T) {
	store := NewMemoryStore()
	h := NewHistory(store)
	before := mustStockIn(t, "铁剑", day(0), 10, 30)
	after := mustStockIn(t, "铁剑", day(0), 12, 36)

	if err := store.InsertStockIn(after); err != nil {
		t.Fatalf("InsertStockIn() failed: %v", err)
	}
	payload := ModifyPayload{
		Old: []StockInEvent{before},
		New: []StockInEvent{after},
	}
	if _, err := h.Record(OpModify, DomainStockIn, payload); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	if _, err := h.Undo(); err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	rows, _, _ := store.ListStockIn()
	if len(rows) != 1 || rows[0].Quantity != 10 {
		t.Fatalf("after undo of modify, rows = %+v, want the old quantity 10", rows)
	}

	if _, err := h.Redo(); err != nil {
		t.Fatalf("Redo() failed: %v", err)
	}
	rows, _, _ = store.ListStockIn()
	if len(rows) != 1 || rows[0].Quantity != 12 {
		t.Fatalf("after redo of modify, rows = %+v, want the new quantity 12", rows)
	}
}

func TestUndoOrderIsSystemWide(t *testing.T) {
	// Operations across domains share one log; undo walks it newest
	// first regardless of domain.
	store := NewMemoryStore()
	h := NewHistory(store)
	recordStockIn(t, store, h, mustStockIn(t, "铁剑", day(0), 10, 30))

	sale := mustStockOut(t, "铁剑", day(1), 5, 6, 2, 0)
	if err := store.InsertStockOut(sale); err != nil {
		t.Fatalf("InsertStockOut() failed: %v", err)
	}
	if _, err := h.Record(OpAdd, DomainStockOut, []StockOutEvent{sale}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	entry, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	if entry.Domain != DomainStockOut {
		t.Errorf("first undo hit %s, want the newer stock-out", entry.Domain)
	}
	entry, err = h.Undo()
	if err != nil {
		t.Fatalf("second Undo() failed: %v", err)
	}
	if entry.Domain != DomainStockIn {
		t.Errorf("second undo hit %s, want stock-in", entry.Domain)
	}
}

func TestUndoEmptyLog(t *testing.T) {
	h := NewHistory(NewMemoryStore())
	if _, err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() on empty log = %v, want ErrNothingToUndo", err)
	}
	if _, err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() with no pending undo = %v, want ErrNothingToRedo", err)
	}
}

func TestUndoUnsupportedAction(t *testing.T) {
	store := NewMemoryStore()
	h := NewHistory(store)
	if _, err := h.Record(OperationKind("archive"), DomainStockIn, []StockInEvent{}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	_, err := h.Undo()
	var uerr *UnsupportedOperationError
	if !errors.As(err, &uerr) {
		t.Fatalf("Undo() = %v, want *UnsupportedOperationError", err)
	}
	// The entry must not have been touched.
	log, _ := store.ListLog(LogFilter{})
	if log[0].Reverted {
		t.Error("unsupported entry was marked reverted")
	}
}

func TestRecordClearsPendingRedo(t *testing.T) {
	store := NewMemoryStore()
	h := NewHistory(store)
	recordStockIn(t, store, h, mustStockIn(t, "铁剑", day(0), 10, 30))

	if _, err := h.Undo(); err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	if h.PendingRedo() != 1 {
		t.Fatalf("PendingRedo() = %d, want 1", h.PendingRedo())
	}

	// A new forward action forks history; the undone branch is gone.
	recordStockIn(t, store, h, mustStockIn(t, "金创药", day(1), 5, 10))
	if h.PendingRedo() != 0 {
		t.Errorf("PendingRedo() after new record = %d, want 0", h.PendingRedo())
	}
	if _, err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() after new record = %v, want ErrNothingToRedo", err)
	}
}

func TestFailedUndoLeavesHistoryInPlace(t *testing.T) {
	store := NewMemoryStore()
	h := NewHistory(store)
	e := mustStockIn(t, "铁剑", day(0), 10, 30)
	recordStockIn(t, store, h, e)

	// Sabotage: the row is already gone, so the compensating delete
	// must fail and nothing may advance.
	if err := store.DeleteStockIn(e.Item, e.Time); err != nil {
		t.Fatalf("DeleteStockIn() failed: %v", err)
	}
	if _, err := h.Undo(); err == nil {
		t.Fatal("Undo() succeeded, want failure from the compensator")
	}
	if h.PendingRedo() != 0 {
		t.Errorf("PendingRedo() = %d after failed undo, want 0", h.PendingRedo())
	}
	log, _ := store.ListLog(LogFilter{})
	if log[0].Reverted {
		t.Error("entry marked reverted although its compensation failed")
	}
}

// brokenLogStore rejects every log append, as a full or read-only data
// directory would.
type brokenLogStore struct {
	MemoryStore
}

func (s *brokenLogStore) AppendLog(e AuditEntry) (int64, error) {
	return 0, errors.New("log write refused")
}

func TestAddRollsBackOnFailedRecord(t *testing.T) {
	// An event whose log entry cannot be written must not survive in
	// the store: it would be invisible to undo.
	store := &brokenLogStore{}
	h := NewHistory(store)

	if err := h.AddStockIn(mustStockIn(t, "铁剑", day(0), 10, 30)); err == nil {
		t.Fatal("AddStockIn() succeeded although the log append failed")
	}
	if n := countStockIn(t, store); n != 0 {
		t.Errorf("after failed AddStockIn, %d rows remain, want 0", n)
	}

	if err := h.AddStockOut(mustStockOut(t, "铁剑", day(1), 5, 6, 2, 0)); err == nil {
		t.Fatal("AddStockOut() succeeded although the log append failed")
	}
	if rows, _, _ := store.ListStockOut(); len(rows) != 0 {
		t.Errorf("after failed AddStockOut, %d rows remain, want 0", len(rows))
	}

	recs := []MonitorRecord{
		{Item: "铁剑", Time: day(0), Quantity: 3, Price: M(5)},
		{Item: "金创药", Time: day(0), Quantity: 7, Price: M(2)},
	}
	if err := h.AddMonitor(recs); err == nil {
		t.Fatal("AddMonitor() succeeded although the log append failed")
	}
	if rows, _, _ := store.ListMonitor(); len(rows) != 0 {
		t.Errorf("after failed AddMonitor, %d rows remain, want 0", len(rows))
	}
}

func TestRecordSupersedesUndoneEntries(t *testing.T) {
	// An undone operation loses its redo to any later forward
	// operation, and a fresh process must not resurrect it: only the
	// most recently undone entry may come back.
	store := NewMemoryStore()
	h := NewHistory(store)
	b := mustStockIn(t, "铁剑", day(0), 10, 30)
	recordStockIn(t, store, h, b)
	if _, err := h.Undo(); err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	c := mustStockIn(t, "金创药", day(1), 5, 10)
	recordStockIn(t, store, h, c)
	if _, err := h.Undo(); err != nil {
		t.Fatalf("second Undo() failed: %v", err)
	}

	// The first undone entry is now both reverted and superseded.
	log, err := store.ListLog(LogFilter{})
	if err != nil {
		t.Fatalf("ListLog() failed: %v", err)
	}
	if len(log) != 2 {
		t.Fatalf("log has %d entries, want 2", len(log))
	}
	if !log[1].Reverted || !log[1].Superseded {
		t.Errorf("oldest entry = reverted %v, superseded %v; want both true", log[1].Reverted, log[1].Superseded)
	}
	if !log[0].Reverted || log[0].Superseded {
		t.Errorf("newest entry = reverted %v, superseded %v; want reverted only", log[0].Reverted, log[0].Superseded)
	}

	// A fresh history over the same store, as a new process would build.
	h2 := NewHistory(store)
	if err := h2.Reload(); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if h2.PendingRedo() != 1 {
		t.Fatalf("PendingRedo() after reload = %d, want 1", h2.PendingRedo())
	}
	if _, err := h2.Redo(); err != nil {
		t.Fatalf("Redo() failed: %v", err)
	}
	rows, _, _ := store.ListStockIn()
	if len(rows) != 1 || rows[0].Item != "金创药" {
		t.Fatalf("redo restored %+v, want only the 金创药 event", rows)
	}
	if _, err := h2.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("second Redo() = %v, want ErrNothingToRedo", err)
	}
}

func TestReloadRestoresRedoAcrossProcesses(t *testing.T) {
	store := NewMemoryStore()
	h := NewHistory(store)
	recordStockIn(t, store, h, mustStockIn(t, "铁剑", day(0), 10, 30))
	recordStockIn(t, store, h, mustStockIn(t, "金创药", day(1), 5, 10))
	if _, err := h.Undo(); err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	if _, err := h.Undo(); err != nil {
		t.Fatalf("second Undo() failed: %v", err)
	}

	// A fresh history over the same store, as a new process would build.
	h2 := NewHistory(store)
	if err := h2.Reload(); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if h2.PendingRedo() != 2 {
		t.Fatalf("PendingRedo() after reload = %d, want 2", h2.PendingRedo())
	}

	// Redo order mirrors undo order: the last undone comes back first.
	if _, err := h2.Redo(); err != nil {
		t.Fatalf("Redo() failed: %v", err)
	}
	rows, _, _ := store.ListStockIn()
	if len(rows) != 1 || rows[0].Item != "铁剑" {
		t.Fatalf("first redo restored %+v, want the 铁剑 event (last undone)", rows)
	}
	if _, err := h2.Redo(); err != nil {
		t.Fatalf("second Redo() failed: %v", err)
	}
	if n := countStockIn(t, store); n != 2 {
		t.Errorf("after both redos, %d rows, want 2", n)
	}
}

func TestLogFilter(t *testing.T) {
	store := NewMemoryStore()
	h := NewHistory(store)
	recordStockIn(t, store, h, mustStockIn(t, "铁剑", day(0), 10, 30))
	sale := mustStockOut(t, "铁剑", day(1), 5, 6, 2, 0)
	if err := store.InsertStockOut(sale); err != nil {
		t.Fatalf("InsertStockOut() failed: %v", err)
	}
	if _, err := h.Record(OpAdd, DomainStockOut, []StockOutEvent{sale}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	entries, err := store.ListLog(LogFilter{Domain: DomainStockOut})
	if err != nil {
		t.Fatalf("ListLog() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Domain != DomainStockOut {
		t.Errorf("filtered log = %+v, want the single stock-out entry", entries)
	}

	paged, err := store.ListLog(LogFilter{Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("ListLog() failed: %v", err)
	}
	if len(paged) != 1 || paged[0].Domain != DomainStockOut {
		t.Errorf("page 1 = %+v, want the newest entry only", paged)
	}
	empty, err := store.ListLog(LogFilter{Page: 5, PageSize: 10})
	if err != nil {
		t.Fatalf("ListLog() failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("page beyond the log = %+v, want empty", empty)
	}
}
