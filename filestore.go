package gametrad

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	stockInFilename  = "stock_in.jsonl"
	stockOutFilename = "stock_out.jsonl"
	monitorFilename  = "monitor.jsonl"
	logFilename      = "oplog.jsonl"
)

// FileStore is a Store backed by JSONL files in a single data directory.
// Inserts and log appends are plain file appends; deletes and flag flips
// rewrite the affected file through a temp file and rename.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore opens (creating if needed) the data directory.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create data directory %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory path.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) string { return filepath.Join(s.dir, name) }

// readAll decodes a whole JSONL file. A missing file is an empty list.
func readAll[T any](s *FileStore, name string, validate func(T) error) ([]T, []error, error) {
	f, err := os.Open(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %q: %w", name, err)
	}
	defer f.Close()
	return decodeLines(name, f, validate)
}

// appendOne appends a single row to a JSONL file.
func appendOne[T any](s *FileStore, name string, row T) error {
	f, err := os.OpenFile(s.path(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open %q: %w", name, err)
	}
	defer f.Close()
	return encodeLines(f, []T{row})
}

// rewrite replaces a JSONL file atomically.
func rewrite[T any](s *FileStore, name string, rows []T) error {
	tmp := s.path(name) + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("cannot create %q: %w", tmp, err)
	}
	if err := encodeLines(f, rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.path(name))
}

func (s *FileStore) ListStockIn() ([]StockInEvent, []error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readAll(s, stockInFilename, StockInEvent.Validate)
}

func (s *FileStore) InsertStockIn(e StockInEvent) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendOne(s, stockInFilename, e)
}

func (s *FileStore) DeleteStockIn(item string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events, _, err := readAll(s, stockInFilename, StockInEvent.Validate)
	if err != nil {
		return err
	}
	kept, found := deleteEvent(events, func(e StockInEvent) bool {
		return e.Item == item && e.Time.Equal(at)
	})
	if !found {
		return fmt.Errorf("no stock-in event for %q at %s", item, at.Format(time.RFC3339))
	}
	return rewrite(s, stockInFilename, kept)
}

func (s *FileStore) ListStockOut() ([]StockOutEvent, []error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readAll(s, stockOutFilename, StockOutEvent.Validate)
}

func (s *FileStore) InsertStockOut(e StockOutEvent) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendOne(s, stockOutFilename, e)
}

func (s *FileStore) DeleteStockOut(item string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events, _, err := readAll(s, stockOutFilename, StockOutEvent.Validate)
	if err != nil {
		return err
	}
	kept, found := deleteEvent(events, func(e StockOutEvent) bool {
		return e.Item == item && e.Time.Equal(at)
	})
	if !found {
		return fmt.Errorf("no stock-out event for %q at %s", item, at.Format(time.RFC3339))
	}
	return rewrite(s, stockOutFilename, kept)
}

func (s *FileStore) ListMonitor() ([]MonitorRecord, []error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readAll[MonitorRecord](s, monitorFilename, nil)
}

func (s *FileStore) InsertMonitor(r MonitorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendOne(s, monitorFilename, r)
}

func (s *FileStore) DeleteMonitor(item string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, _, err := readAll[MonitorRecord](s, monitorFilename, nil)
	if err != nil {
		return err
	}
	kept, found := deleteEvent(records, func(r MonitorRecord) bool {
		return r.Item == item && r.Time.Equal(at)
	})
	if !found {
		return fmt.Errorf("no monitor record for %q at %s", item, at.Format(time.RFC3339))
	}
	return rewrite(s, monitorFilename, kept)
}

func (s *FileStore) AppendLog(e AuditEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, _, err := readAll[AuditEntry](s, logFilename, nil)
	if err != nil {
		return 0, err
	}
	e.ID = 1
	for _, prev := range entries {
		if prev.ID >= e.ID {
			e.ID = prev.ID + 1
		}
	}
	if err := appendOne(s, logFilename, e); err != nil {
		return 0, err
	}
	return e.ID, nil
}

func (s *FileStore) ListLog(f LogFilter) ([]AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, warnings, err := readAll[AuditEntry](s, logFilename, nil)
	if err != nil {
		return nil, err
	}
	// Unlike events, a corrupt log row cannot be skipped silently: undo
	// dispatches on it. Surface the first problem.
	if len(warnings) > 0 {
		return nil, fmt.Errorf("corrupt operation log: %w", warnings[0])
	}
	var out []AuditEntry
	for i := len(entries) - 1; i >= 0; i-- {
		if f.match(entries[i]) {
			out = append(out, entries[i])
		}
	}
	return f.page(out), nil
}

func (s *FileStore) SetLogReverted(id int64, reverted bool) error {
	return s.setLogFlag(id, func(e *AuditEntry) { e.Reverted = reverted })
}

func (s *FileStore) SetLogSuperseded(id int64, superseded bool) error {
	return s.setLogFlag(id, func(e *AuditEntry) { e.Superseded = superseded })
}

// setLogFlag rewrites the log with one entry's flag flipped.
func (s *FileStore) setLogFlag(id int64, flip func(*AuditEntry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, _, err := readAll[AuditEntry](s, logFilename, nil)
	if err != nil {
		return err
	}
	found := false
	for i := range entries {
		if entries[i].ID == id {
			flip(&entries[i])
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("no log entry with id %d", id)
	}
	return rewrite(s, logFilename, entries)
}

// deleteEvent removes the first row matching the predicate.
func deleteEvent[T any](rows []T, match func(T) bool) (kept []T, found bool) {
	for i, row := range rows {
		if !found && match(row) {
			found = true
			kept = append(rows[:i:i], rows[i+1:]...)
			return kept, true
		}
	}
	return rows, false
}
