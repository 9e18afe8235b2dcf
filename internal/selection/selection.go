// Package selection tracks user selection and decides how each route is
// emphasized.
//
// State is the local mirror of the authoritative selection held by a Manager.
// It is only overwritten with what the Manager returns after a commit, never
// with what was requested.
package selection

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"routemap/internal/dataset"
)

// ErrUnknownKey is returned when a request names a key the manager does not know.
var ErrUnknownKey = errors.New("selection: unknown key")

// State is a set of selected keys.
type State struct {
	keys map[dataset.Key]struct{}
}

// NewState returns a state holding keys.
func NewState(keys ...dataset.Key) *State {
	s := &State{}
	s.Replace(keys)
	return s
}

// Replace overwrites the state with keys.
func (s *State) Replace(keys []dataset.Key) {
	s.keys = make(map[dataset.Key]struct{}, len(keys))
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
}

// Clear empties the state.
func (s *State) Clear() { s.keys = nil }

// Contains reports whether k is selected.
func (s *State) Contains(k dataset.Key) bool {
	if s == nil {
		return false
	}
	_, ok := s.keys[k]
	return ok
}

// ContainsAll reports whether every key is selected. It is false for no keys.
func (s *State) ContainsAll(keys []dataset.Key) bool {
	if len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		if !s.Contains(k) {
			return false
		}
	}
	return true
}

// Len returns the number of selected keys.
func (s *State) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the selected keys in sorted order.
func (s *State) Keys() []dataset.Key {
	if s == nil {
		return nil
	}
	out := make([]dataset.Key, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Display is how a route is drawn.
type Display int

const (
	// Normal is full opacity with nothing selected.
	Normal Display = iota
	// Emphasized is a selected or highlighted route.
	Emphasized
	// Dimmed is drawn at DimOpacity.
	Dimmed
)

// DimOpacity is the opacity of a dimmed route.
const DimOpacity = 0.3

func (d Display) String() string {
	switch d {
	case Normal:
		return "normal"
	case Emphasized:
		return "emphasized"
	case Dimmed:
		return "dimmed"
	}
	return fmt.Sprintf("display(%d)", int(d))
}

// Opacity returns the alpha for d.
func (d Display) Opacity() float64 {
	if d == Dimmed {
		return DimOpacity
	}
	return 1
}

// Shown reports whether d counts as selected or highlighted. With nothing
// selected every route is shown, so Normal counts too.
func (d Display) Shown() bool { return d != Dimmed }

// Evaluate returns the display state of a route. While highlight mode is on,
// only the host highlight counts and the selection is ignored.
func Evaluate(s *State, key dataset.Key, highlightMode, highlighted bool) Display {
	if highlightMode {
		if highlighted {
			return Emphasized
		}
		return Dimmed
	}
	if s.Len() == 0 {
		return Normal
	}
	if s.Contains(key) {
		return Emphasized
	}
	return Dimmed
}

// Op is what a click asks the manager to do.
type Op int

const (
	OpSelect Op = iota
	OpClear
)

// Request is a pending selection commit.
type Request struct {
	Op       Op
	Keys     []dataset.Key
	Additive bool
}

// ClickRoute is the request for a click on a route line.
func ClickRoute(key dataset.Key, additive bool) Request {
	return Request{Op: OpSelect, Keys: []dataset.Key{key}, Additive: additive}
}

// ClickMarker is the request for a click on a marker whose location is shared
// by group. A group that is already fully selected clears everything.
func ClickMarker(s *State, group []dataset.Key, additive bool) Request {
	if s.ContainsAll(group) {
		return Request{Op: OpClear}
	}
	return Request{Op: OpSelect, Keys: slices.Clone(group), Additive: additive}
}

// Manager owns the authoritative selection. Select and Clear return the
// selection as it stands after the commit.
type Manager interface {
	Select(ctx context.Context, keys []dataset.Key, additive bool) ([]dataset.Key, error)
	Clear(ctx context.Context) error
}

// Commit sends r to m and returns the authoritative selection.
func Commit(ctx context.Context, m Manager, r Request) ([]dataset.Key, error) {
	if r.Op == OpClear {
		if err := m.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return m.Select(ctx, r.Keys, r.Additive)
}

// Apply commits r and, only on success, overwrites s with the result.
func Apply(ctx context.Context, m Manager, s *State, r Request) error {
	keys, err := Commit(ctx, m, r)
	if err != nil {
		return err
	}
	s.Replace(keys)
	return nil
}

// LocalManager is an in-process Manager.
//
// Additive selects toggle each key. A non-additive select of exactly the
// current selection clears it; any other non-additive select replaces it.
type LocalManager struct {
	mu    sync.Mutex
	sel   []dataset.Key
	known func(dataset.Key) bool
}

// NewLocalManager returns a manager. known, when non-nil, rejects keys it
// returns false for with ErrUnknownKey.
func NewLocalManager(known func(dataset.Key) bool) *LocalManager {
	return &LocalManager{known: known}
}

// SetKnown replaces the key filter, typically after a data refresh.
func (m *LocalManager) SetKnown(known func(dataset.Key) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.known = known
}

func (m *LocalManager) Select(ctx context.Context, keys []dataset.Key, additive bool) ([]dataset.Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.known != nil {
		for _, k := range keys {
			if !m.known(k) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownKey, k)
			}
		}
	}

	cur := NewState(m.sel...)
	switch {
	case additive:
		for _, k := range keys {
			if cur.Contains(k) {
				delete(cur.keys, k)
			} else {
				cur.keys[k] = struct{}{}
			}
		}
	case sameSet(cur, keys):
		cur.Clear()
	default:
		cur.Replace(keys)
	}
	m.sel = cur.Keys()
	return slices.Clone(m.sel), nil
}

func (m *LocalManager) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sel = nil
	return nil
}

// Selected returns the current selection.
func (m *LocalManager) Selected() []dataset.Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.sel)
}

func sameSet(s *State, keys []dataset.Key) bool {
	other := NewState(keys...)
	if s.Len() != other.Len() || s.Len() == 0 {
		return false
	}
	for k := range other.keys {
		if !s.Contains(k) {
			return false
		}
	}
	return true
}
