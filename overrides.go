package gametrad

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// MemoryFormulaStore is an in-memory FormulaStore for tests and dry runs.
type MemoryFormulaStore struct {
	mu        sync.Mutex
	overrides map[Domain]map[string]string
}

// NewMemoryFormulaStore creates an empty in-memory override table.
func NewMemoryFormulaStore() *MemoryFormulaStore {
	return &MemoryFormulaStore{overrides: make(map[Domain]map[string]string)}
}

func (s *MemoryFormulaStore) Get(domain Domain, field string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overrides[domain][field], nil
}

func (s *MemoryFormulaStore) Set(domain Domain, field, expression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overrides[domain] == nil {
		s.overrides[domain] = make(map[string]string)
	}
	if expression == "" {
		delete(s.overrides[domain], field)
		return nil
	}
	s.overrides[domain][field] = expression
	return nil
}

// FileFormulaStore persists formula overrides in a single JSON file:
// a two-level map of domain to field to expression string. The file is
// read on every Get so external edits are picked up; it is read-mostly,
// so that is cheap enough.
type FileFormulaStore struct {
	mu   sync.Mutex
	path string
}

// NewFileFormulaStore opens (lazily) the override file at path. A missing
// file is an empty table.
func NewFileFormulaStore(path string) *FileFormulaStore {
	return &FileFormulaStore{path: path}
}

func (s *FileFormulaStore) load() (map[Domain]map[string]string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[Domain]map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read overrides %q: %w", s.path, err)
	}
	var table map[Domain]map[string]string
	if err := json.Unmarshal(b, &table); err != nil {
		return nil, fmt.Errorf("cannot parse overrides %q: %w", s.path, err)
	}
	if table == nil {
		table = map[Domain]map[string]string{}
	}
	return table, nil
}

func (s *FileFormulaStore) Get(domain Domain, field string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, err := s.load()
	if err != nil {
		return "", err
	}
	return table[domain][field], nil
}

func (s *FileFormulaStore) Set(domain Domain, field, expression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, err := s.load()
	if err != nil {
		return err
	}
	if table[domain] == nil {
		table[domain] = make(map[string]string)
	}
	if expression == "" {
		delete(table[domain], field)
		if len(table[domain]) == 0 {
			delete(table, domain)
		}
	} else {
		table[domain][field] = expression
	}
	b, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, append(b, '\n'), 0644); err != nil {
		return fmt.Errorf("cannot write overrides %q: %w", s.path, err)
	}
	return nil
}
