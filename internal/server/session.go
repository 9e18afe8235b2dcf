package server

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"routemap/internal/dataset"
	"routemap/internal/render"
	"routemap/internal/selection"
)

// Session is one loaded dataset with its selection and current frame.
// HTTP handlers run concurrently, so every access goes through mu.
type Session struct {
	mu       sync.Mutex
	renderer *render.Renderer
	update   render.Update
	manager  selection.Manager
	state    *selection.State
	frame    render.Frame
	logger   *log.Logger
}

// NewSession renders the first frame of u.
func NewSession(r *render.Renderer, u render.Update, m selection.Manager, logger *log.Logger) (*Session, error) {
	s := &Session{
		renderer: r,
		update:   u,
		manager:  m,
		state:    selection.NewState(),
		logger:   logger,
	}
	f, err := r.Render(u, s.state)
	if err != nil {
		return nil, err
	}
	s.frame = f
	if lm, ok := m.(*selection.LocalManager); ok {
		lm.SetKnown(f.Known)
	}
	return s, nil
}

// Frame returns the current frame.
func (s *Session) Frame() render.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Selected returns the local selection mirror.
func (s *Session) Selected() []dataset.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Keys()
}

// Commit sends r to the manager and re-renders. A failed commit leaves the
// selection and frame untouched; a failed render keeps the previous frame.
func (s *Session) Commit(ctx context.Context, r selection.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, r)
}

// Click resolves a click on the primitive of kind drawn for route and commits
// it. The request is built and applied against the same selection.
func (s *Session) Click(ctx context.Context, kind render.Kind, route int, additive bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.frame.Find(kind, route)
	if !ok {
		return false, nil
	}
	return true, s.commitLocked(ctx, p.Click(s.state, additive))
}

func (s *Session) commitLocked(ctx context.Context, r selection.Request) error {
	if err := selection.Apply(ctx, s.manager, s.state, r); err != nil {
		s.logger.Warn("selection commit failed", "err", err)
		return err
	}
	f, err := s.renderer.Render(s.update, s.state)
	if err != nil {
		return err
	}
	s.frame = f
	return nil
}
