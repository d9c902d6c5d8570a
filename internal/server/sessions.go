package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/internal/editor"
	"github.com/Faultbox/floorplan/internal/store"
)

// session is one open plan. Its mutex serialises every kernel call on the plan.
type session struct {
	mu   sync.Mutex
	id   uuid.UUID
	name string
	ed   *editor.Editor

	// set under mu once the plan is deleted or the table is closed
	deleted bool
	closed  bool
}

// usable reports why a locked session can no longer be used.
func (s *session) usable() error {
	switch {
	case s.deleted:
		return fmt.Errorf("plan %s: %w", s.id, store.ErrNotFound)
	case s.closed:
		return fmt.Errorf("plan %s: %w", s.id, editor.ErrClosed)
	}
	return nil
}

// Sessions keeps plans open in memory, loading them from the store on first
// use and writing them back after every change.
type Sessions struct {
	mu       sync.Mutex
	store    *store.Store
	settings editor.Settings
	open     map[uuid.UUID]*session
}

// NewSessions creates an empty session table.
func NewSessions(st *store.Store, settings editor.Settings) *Sessions {
	return &Sessions{
		store:    st,
		settings: settings,
		open:     make(map[uuid.UUID]*session),
	}
}

// build replays doc into a fresh editor.
func (m *Sessions) build(doc *editor.Document) (*editor.Editor, error) {
	ed := editor.New(m.settings)
	if doc == nil {
		return ed, nil
	}
	if err := ed.Apply(doc); err != nil {
		ed.Close()
		return nil, err
	}
	return ed, nil
}

// Create stores a new plan built from doc.
func (m *Sessions) Create(ctx context.Context, doc *editor.Document) (uuid.UUID, editor.Summary, error) {
	ed, err := m.build(doc)
	if err != nil {
		return uuid.Nil, editor.Summary{}, err
	}
	s := &session{id: uuid.New(), ed: ed}
	if doc != nil {
		s.name = doc.Name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := m.persist(ctx, s); err != nil {
		ed.Close()
		return uuid.Nil, editor.Summary{}, err
	}

	m.mu.Lock()
	m.open[s.id] = s
	m.mu.Unlock()
	return s.id, ed.Summary(), nil
}

// get returns the open session for id, loading it from the store if needed.
func (m *Sessions) get(ctx context.Context, id uuid.UUID) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.open[id]; ok {
		return s, nil
	}
	p, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ed, err := m.build(p.Document)
	if err != nil {
		return nil, fmt.Errorf("replaying plan %s: %w", id, err)
	}
	s := &session{id: id, name: p.Name, ed: ed}
	m.open[id] = s
	return s, nil
}

// View runs fn on the plan without persisting.
func (m *Sessions) View(ctx context.Context, id uuid.UUID, fn func(*editor.Editor) error) error {
	s, err := m.get(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}
	return fn(s.ed)
}

// Update runs fn on the plan and stores the resulting document. The plan is
// stored even when fn fails, since a failed finalize still commits walls.
// A plan deleted while fn waited for the lock is neither edited nor stored.
func (m *Sessions) Update(ctx context.Context, id uuid.UUID, fn func(*editor.Editor) error) error {
	s, err := m.get(ctx, id)
	if err != nil {
		return err
	}
	return m.update(ctx, s, fn)
}

func (m *Sessions) update(ctx context.Context, s *session, fn func(*editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		return err
	}

	fnErr := fn(s.ed)
	if err := m.persist(ctx, s); err != nil {
		return err
	}
	return fnErr
}

// Replace swaps the plan's content for doc.
func (m *Sessions) Replace(ctx context.Context, id uuid.UUID, doc *editor.Document) (editor.Summary, error) {
	s, err := m.get(ctx, id)
	if err != nil {
		return editor.Summary{}, err
	}
	ed, err := m.build(doc)
	if err != nil {
		return editor.Summary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(); err != nil {
		ed.Close()
		return editor.Summary{}, err
	}
	s.ed.Close()
	s.ed = ed
	s.name = doc.Name
	if err := m.persist(ctx, s); err != nil {
		return editor.Summary{}, err
	}
	return ed.Summary(), nil
}

// Delete closes and removes a plan. The table lock is held until the row is
// gone so a concurrent get cannot reload the plan in between.
func (m *Sessions) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.open[id]; ok {
		delete(m.open, id)
		s.mu.Lock()
		s.deleted = true
		s.ed.Close()
		s.mu.Unlock()
	}
	return m.store.Delete(ctx, id)
}

// CloseAll releases every open plan.
func (m *Sessions) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.open {
		s.mu.Lock()
		s.closed = true
		s.ed.Close()
		s.mu.Unlock()
		delete(m.open, id)
	}
}

// persist writes the session's document. The caller holds s.mu.
func (m *Sessions) persist(ctx context.Context, s *session) error {
	doc := s.ed.Document()
	doc.Name = s.name
	return m.store.Save(ctx, &store.Plan{ID: s.id, Name: s.name, Document: doc})
}
