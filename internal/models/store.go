// Package models tracks configured whisper model descriptors and the active selection.
package models

import (
	"fmt"
	"sync"
)

// Descriptor is one immutable configured model entry.
type Descriptor struct {
	ID          string
	DisplayName string
	Path        string
}

// Store mediates reads and writes of the global model selection.
//
// Sessions snapshot Current() at creation time; changing the selection
// mid-session never affects an in-flight session.
type Store struct {
	mu       sync.RWMutex
	order    []string
	byID     map[string]Descriptor
	selected string
}

// NewStore builds a store from configured descriptors and marks the initial selection.
func NewStore(descriptors []Descriptor, selected string) (*Store, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("at least one model must be configured")
	}

	byID := make(map[string]Descriptor, len(descriptors))
	order := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		if d.ID == "" {
			return nil, fmt.Errorf("model id must not be empty")
		}
		if _, exists := byID[d.ID]; exists {
			return nil, fmt.Errorf("duplicate model id %q", d.ID)
		}
		byID[d.ID] = d
		order = append(order, d.ID)
	}

	if selected == "" {
		selected = order[0]
	}
	if _, ok := byID[selected]; !ok {
		return nil, fmt.Errorf("default model %q is not configured", selected)
	}

	return &Store{order: order, byID: byID, selected: selected}, nil
}

// Current returns the descriptor for the active selection.
func (s *Store) Current() Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[s.selected]
}

// Select changes the active selection and returns the new descriptor.
func (s *Store) Select(id string) (Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.byID[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown model %q", id)
	}
	s.selected = id
	return d, nil
}

// List returns descriptors in configured order.
func (s *Store) List() []Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Descriptor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}
