package models

import (
	"fmt"
	"strings"
)

// BackendID identifies a simulator backend in the catalog
type BackendID string

// BackendKind tags what a backend reports
type BackendKind string

const (
	// KindTiming backends report execution time and are charted
	KindTiming BackendKind = "timing"
	// KindFidelity pseudo-backends only report fidelity and are never charted
	KindFidelity BackendKind = "fidelity"
)

// Backend is a single catalog entry
type Backend struct {
	ID    BackendID   `json:"id" yaml:"id"`
	Label string      `json:"label,omitempty" yaml:"label,omitempty"`
	Kind  BackendKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// DisplayName returns the label, falling back to the id
func (b Backend) DisplayName() string {
	if b.Label != "" {
		return b.Label
	}
	return string(b.ID)
}

// Timed reports whether the backend belongs on the execution time chart
func (b Backend) Timed() bool {
	return b.Kind != KindFidelity
}

// Matches reports whether a backend name from a response refers to this entry.
// The service answers with either the id or the label.
func (b Backend) Matches(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	return strings.EqualFold(name, string(b.ID)) || (b.Label != "" && strings.EqualFold(name, b.Label))
}

// Catalog is the closed, ordered list of backends. Its order is the display order.
type Catalog []Backend

// DefaultCatalog returns the built-in simulator catalog
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "qiskit", Label: "Qiskit", Kind: KindTiming},
		{ID: "pennylane", Label: "PennyLane", Kind: KindTiming},
		{ID: "cirq", Label: "Cirq", Kind: KindTiming},
		{ID: "braket", Label: "Amazon Braket", Kind: KindTiming},
		{ID: "projectq", Label: "ProjectQ", Kind: KindTiming},
	}
}

// Lookup returns the entry with the given id
func (c Catalog) Lookup(id BackendID) (Backend, bool) {
	for _, b := range c {
		if b.ID == id {
			return b, true
		}
	}
	return Backend{}, false
}

// Has reports whether id is part of the catalog
func (c Catalog) Has(id BackendID) bool {
	_, ok := c.Lookup(id)
	return ok
}

// Match finds the entry a response backend name refers to
func (c Catalog) Match(name string) (Backend, bool) {
	for _, b := range c {
		if b.Matches(name) {
			return b, true
		}
	}
	return Backend{}, false
}

// IDs returns the catalog ids in display order
func (c Catalog) IDs() []BackendID {
	ids := make([]BackendID, 0, len(c))
	for _, b := range c {
		ids = append(ids, b.ID)
	}
	return ids
}

// Validate checks the catalog is usable: non-empty, known kinds, and every
// id and label naming exactly one entry. Names compare case-insensitively,
// the same way responses are matched.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("catalog has no backends")
	}
	owner := make(map[string]BackendID, 2*len(c))
	for i, b := range c {
		if strings.TrimSpace(string(b.ID)) == "" {
			return fmt.Errorf("catalog entry %d has no id", i)
		}
		switch b.Kind {
		case "", KindTiming, KindFidelity:
		default:
			return fmt.Errorf("backend %q has unknown kind %q", b.ID, b.Kind)
		}

		names := map[string]string{}
		for _, name := range []string{string(b.ID), b.Label} {
			if key := strings.ToLower(strings.TrimSpace(name)); key != "" {
				names[key] = name
			}
		}
		for key, name := range names {
			if prev, ok := owner[key]; ok {
				if prev == b.ID {
					return fmt.Errorf("catalog has duplicate backend %q", b.ID)
				}
				return fmt.Errorf("backend %q: name %q is already used by %q", b.ID, name, prev)
			}
		}
		for key := range names {
			owner[key] = b.ID
		}
	}
	return nil
}
