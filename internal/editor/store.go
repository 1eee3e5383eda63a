package editor

import (
	"github.com/fieldline/fieldline/backend-go/internal/document"
)

// Store holds every area of the open document in insertion order. Insertion
// order doubles as z-order: a later area draws on top of an earlier one and
// is hit-tested first. All mutations flow through commands, which run on the
// single event goroutine, so the store does no locking.
type Store struct {
	areas []*document.Area
	byID  map[string]*document.Area
}

func NewStore() *Store {
	return &Store{
		byID: make(map[string]*document.Area),
	}
}

// Add appends an area at the top of the z-order. It reports false when an
// area with the same instanceId already exists, leaving the store untouched.
func (s *Store) Add(a *document.Area) bool {
	if _, exists := s.byID[a.InstanceID]; exists {
		return false
	}
	s.areas = append(s.areas, a)
	s.byID[a.InstanceID] = a
	return true
}

// Insert places an area at the given position in the z-order, shifting later
// areas up. An index at or beyond the end appends. Used to restore an area
// exactly where it sat before a delete.
func (s *Store) Insert(index int, a *document.Area) bool {
	if _, exists := s.byID[a.InstanceID]; exists {
		return false
	}
	if index < 0 {
		index = 0
	}
	if index >= len(s.areas) {
		return s.Add(a)
	}
	s.areas = append(s.areas, nil)
	copy(s.areas[index+1:], s.areas[index:])
	s.areas[index] = a
	s.byID[a.InstanceID] = a
	return true
}

// Remove deletes the area with the given id, returning a snapshot of it and
// the z-order position it held. ok is false when the id is unknown.
func (s *Store) Remove(id string) (area document.Area, index int, ok bool) {
	a, exists := s.byID[id]
	if !exists {
		return document.Area{}, 0, false
	}
	for i, candidate := range s.areas {
		if candidate.InstanceID == id {
			index = i
			break
		}
	}
	area = *a
	s.areas = append(s.areas[:index], s.areas[index+1:]...)
	delete(s.byID, id)
	return area, index, true
}

// Get returns the area with the given id.
func (s *Store) Get(id string) (*document.Area, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// SetRect replaces an area's document rect, normalizing it. Reports false
// when the id is unknown.
func (s *Store) SetRect(id string, r document.Rect) bool {
	a, ok := s.byID[id]
	if !ok {
		return false
	}
	a.Rect = r.Normalized()
	return true
}

// SetProperties replaces an area's fieldId and prompt. Reports false when
// the id is unknown.
func (s *Store) SetProperties(id, fieldID, prompt string) bool {
	a, ok := s.byID[id]
	if !ok {
		return false
	}
	a.FieldID = fieldID
	a.Prompt = prompt
	return true
}

// ByPage returns the areas on a page in insertion (z) order, bottom first.
func (s *Store) ByPage(pageIndex int) []*document.Area {
	var out []*document.Area
	for _, a := range s.areas {
		if a.PageIndex == pageIndex {
			out = append(out, a)
		}
	}
	return out
}

// All returns every area in insertion order.
func (s *Store) All() []*document.Area {
	out := make([]*document.Area, len(s.areas))
	copy(out, s.areas)
	return out
}

// Snapshot returns value copies of every area, for serialization.
func (s *Store) Snapshot() []document.Area {
	out := make([]document.Area, len(s.areas))
	for i, a := range s.areas {
		out[i] = *a
	}
	return out
}

func (s *Store) Len() int {
	return len(s.areas)
}
