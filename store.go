package gametrad

import (
	"fmt"
	"sync"
	"time"
)

// Store is the event store the core drives. It is a plain in-process call
// contract: durable append/delete storage for stock movement events,
// monitor rows and operation-log entries. Implementations are expected to
// be reliable; the core offers no durability guarantees of its own.
//
// List calls return decoded rows plus non-fatal row warnings (see
// RowError) so that one corrupt persisted line never hides the rest.
type Store interface {
	ListStockIn() ([]StockInEvent, []error, error)
	InsertStockIn(e StockInEvent) error
	DeleteStockIn(item string, at time.Time) error

	ListStockOut() ([]StockOutEvent, []error, error)
	InsertStockOut(e StockOutEvent) error
	DeleteStockOut(item string, at time.Time) error

	ListMonitor() ([]MonitorRecord, []error, error)
	InsertMonitor(r MonitorRecord) error
	DeleteMonitor(item string, at time.Time) error

	// AppendLog appends an operation-log entry and returns its id.
	AppendLog(e AuditEntry) (int64, error)
	// ListLog returns entries most-recent first.
	ListLog(f LogFilter) ([]AuditEntry, error)
	// SetLogReverted flips the reverted flag of an entry. The payload is
	// immutable; flag flips are the only mutation a log entry ever sees.
	SetLogReverted(id int64, reverted bool) error
	// SetLogSuperseded flips the superseded flag of an entry.
	SetLogSuperseded(id int64, superseded bool) error
}

// LogFilter narrows and pages ListLog results. Zero values mean "all".
type LogFilter struct {
	Domain   Domain
	Kind     OperationKind
	Page     int // 1-based; 0 disables paging
	PageSize int
}

func (f LogFilter) match(e AuditEntry) bool {
	if f.Domain != "" && e.Domain != f.Domain {
		return false
	}
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	return true
}

// page slices entries according to the filter's paging fields.
func (f LogFilter) page(entries []AuditEntry) []AuditEntry {
	if f.Page <= 0 || f.PageSize <= 0 {
		return entries
	}
	lo := (f.Page - 1) * f.PageSize
	if lo >= len(entries) {
		return nil
	}
	hi := min(lo+f.PageSize, len(entries))
	return entries[lo:hi]
}

// MemoryStore is an in-memory Store. It backs tests and dry runs.
type MemoryStore struct {
	mu       sync.Mutex
	stockIn  []StockInEvent
	stockOut []StockOutEvent
	monitor  []MonitorRecord
	log      []AuditEntry
	nextID   int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) ListStockIn() ([]StockInEvent, []error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StockInEvent, len(s.stockIn))
	copy(out, s.stockIn)
	return out, nil, nil
}

func (s *MemoryStore) InsertStockIn(e StockInEvent) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stockIn = append(s.stockIn, e)
	return nil
}

func (s *MemoryStore) DeleteStockIn(item string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.stockIn {
		if e.Item == item && e.Time.Equal(at) {
			s.stockIn = append(s.stockIn[:i], s.stockIn[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no stock-in event for %q at %s", item, at.Format(time.RFC3339))
}

func (s *MemoryStore) ListStockOut() ([]StockOutEvent, []error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StockOutEvent, len(s.stockOut))
	copy(out, s.stockOut)
	return out, nil, nil
}

func (s *MemoryStore) InsertStockOut(e StockOutEvent) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stockOut = append(s.stockOut, e)
	return nil
}

func (s *MemoryStore) DeleteStockOut(item string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.stockOut {
		if e.Item == item && e.Time.Equal(at) {
			s.stockOut = append(s.stockOut[:i], s.stockOut[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no stock-out event for %q at %s", item, at.Format(time.RFC3339))
}

func (s *MemoryStore) ListMonitor() ([]MonitorRecord, []error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MonitorRecord, len(s.monitor))
	copy(out, s.monitor)
	return out, nil, nil
}

func (s *MemoryStore) InsertMonitor(r MonitorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitor = append(s.monitor, r)
	return nil
}

func (s *MemoryStore) DeleteMonitor(item string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.monitor {
		if r.Item == item && r.Time.Equal(at) {
			s.monitor = append(s.monitor[:i], s.monitor[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no monitor record for %q at %s", item, at.Format(time.RFC3339))
}

func (s *MemoryStore) AppendLog(e AuditEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.log = append(s.log, e)
	return e.ID, nil
}

func (s *MemoryStore) ListLog(f LogFilter) ([]AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []AuditEntry
	// s.log is in append order; walk it backwards for most-recent first.
	for i := len(s.log) - 1; i >= 0; i-- {
		if f.match(s.log[i]) {
			out = append(out, s.log[i])
		}
	}
	return f.page(out), nil
}

func (s *MemoryStore) SetLogReverted(id int64, reverted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.log {
		if s.log[i].ID == id {
			s.log[i].Reverted = reverted
			return nil
		}
	}
	return fmt.Errorf("no log entry with id %d", id)
}

func (s *MemoryStore) SetLogSuperseded(id int64, superseded bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.log {
		if s.log[i].ID == id {
			s.log[i].Superseded = superseded
			return nil
		}
	}
	return fmt.Errorf("no log entry with id %d", id)
}
