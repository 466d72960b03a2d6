package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/gestion-ventas/internal/domain"
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
)

type session struct {
	mu       sync.Mutex
	draft    *entity.Draft
	lastUsed time.Time
	closed   bool
}

// Store sesiones de borrador en memoria. Cada sesión se modifica bajo su propio lock
// y sobre una copia: si la operación falla, el borrador queda intacto.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore crea el almacén; ttl <= 0 desactiva la expiración.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put registra un borrador nuevo.
func (s *Store) Put(d *entity.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[d.ID] = &session{draft: d, lastUsed: s.now()}
}

// Get devuelve una copia del borrador.
func (s *Store) Get(id string) (*entity.Draft, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return nil, notFound(id)
	}
	sess.lastUsed = s.now()
	return sess.draft.Clone(), nil
}

// Update aplica fn sobre una copia y la confirma solo si fn no devuelve error.
func (s *Store) Update(id string, fn func(d *entity.Draft) error) (*entity.Draft, error) {
	return s.run(id, false, fn)
}

// Finish como Update, pero si fn tiene éxito la sesión se elimina (envío).
func (s *Store) Finish(id string, fn func(d *entity.Draft) error) (*entity.Draft, error) {
	return s.run(id, true, fn)
}

func (s *Store) run(id string, remove bool, fn func(d *entity.Draft) error) (*entity.Draft, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return nil, notFound(id)
	}
	sess.lastUsed = s.now()

	work := sess.draft.Clone()
	if err := fn(work); err != nil {
		var kept *keepChanges
		if !errors.As(err, &kept) {
			return nil, err
		}
		// La sesión sigue abierta con la copia modificada.
		work.UpdatedAt = s.now()
		sess.draft = work
		return nil, kept.err
	}
	work.UpdatedAt = s.now()
	sess.draft = work

	if remove {
		sess.closed = true
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
	}
	return work.Clone(), nil
}

// keepChanges lo devuelve fn cuando la copia debe guardarse aunque la operación falle.
type keepChanges struct{ err error }

func (k *keepChanges) Error() string { return k.err.Error() }
func (k *keepChanges) Unwrap() error { return k.err }

// Delete descarta un borrador. Devuelve false si no existía.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		sess.mu.Lock()
		sess.closed = true
		sess.mu.Unlock()
	}
	return ok
}

// Len cantidad de sesiones abiertas.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep elimina las sesiones inactivas por más del TTL y devuelve cuántas borró.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue // en uso
		}
		if sess.lastUsed.Before(cutoff) {
			sess.closed = true
			delete(s.sessions, id)
			n++
		}
		sess.mu.Unlock()
	}
	return n
}

// RunSweeper ejecuta Sweep cada interval hasta que ctx se cancele.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed int)) error {
	if s.ttl <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

func (s *Store) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return sess, nil
}

func notFound(id string) error {
	return fmt.Errorf("borrador %s: %w", id, domain.ErrNotFound)
}
