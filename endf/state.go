package endf

import "sync"

// StateKey identifies a persistent variable by name and dimensionality.
type StateKey struct {
	Name string
	Dims int
}

// Cell holds the value and read-state of one persistent variable between
// calls of a generated function. LastIdx has one entry per dimension, -1
// meaning unbound.
type Cell struct {
	Value   any
	Read    bool
	LastIdx []int
}

// State is caller-owned storage shared by successive invocations of
// generated functions. Calls using the same key must not overlap.
type State struct {
	mu    sync.Mutex
	cells map[StateKey]*Cell
}

func NewState() *State {
	return &State{cells: make(map[StateKey]*Cell)}
}

// Cell returns the cell for name with dims indices, creating an unread one
// on first use.
func (s *State) Cell(name string, dims int) *Cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cells == nil {
		s.cells = make(map[StateKey]*Cell)
	}
	key := StateKey{Name: name, Dims: dims}
	if c, ok := s.cells[key]; ok {
		return c
	}
	c := &Cell{LastIdx: make([]int, dims)}
	for i := range c.LastIdx {
		c.LastIdx[i] = -1
	}
	s.cells[key] = c
	return c
}

// Reset discards all cells.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells = make(map[StateKey]*Cell)
}
