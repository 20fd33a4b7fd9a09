package bench

import (
	"fmt"
	"sync"

	"qbench/models"
)

// Selector holds the backends the user chose from a closed catalog.
// An empty selection is allowed here; the Runner rejects it at submission.
type Selector struct {
	catalog models.Catalog

	mu       sync.RWMutex
	selected []models.BackendID
}

// NewSelector creates a Selector over catalog with nothing selected
func NewSelector(catalog models.Catalog) *Selector {
	return &Selector{catalog: catalog}
}

// Catalog returns the catalog the selection is drawn from
func (s *Selector) Catalog() models.Catalog {
	return s.catalog
}

// SetSelection replaces the selection. Order is kept, duplicates collapse
// to their first occurrence. Ids outside the catalog panic.
func (s *Selector) SetSelection(ids []models.BackendID) {
	next := make([]models.BackendID, 0, len(ids))
	seen := make(map[models.BackendID]bool, len(ids))
	for _, id := range ids {
		s.mustKnow(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		next = append(next, id)
	}

	s.mu.Lock()
	s.selected = next
	s.mu.Unlock()
}

// Toggle adds id when absent, removes it when present, and reports whether
// it is selected afterwards
func (s *Selector) Toggle(id models.BackendID) bool {
	s.mustKnow(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.selected {
		if cur == id {
			s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
			return false
		}
	}
	s.selected = append(s.selected, id)
	return true
}

// Selected reports whether id is in the selection
func (s *Selector) Selected(id models.BackendID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, cur := range s.selected {
		if cur == id {
			return true
		}
	}
	return false
}

// Selection returns a copy of the selection in insertion order
func (s *Selector) Selection() []models.BackendID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.BackendID, len(s.selected))
	copy(out, s.selected)
	return out
}

func (s *Selector) mustKnow(id models.BackendID) {
	if !s.catalog.Has(id) {
		panic(fmt.Sprintf("bench: backend %q is not in the catalog", id))
	}
}
