package pos

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Saver persists a state snapshot.
type Saver interface {
	Save(ctx context.Context, state *State) error
}

// Store owns the process-wide State. Every read-modify-write goes through
// Update, which runs under a single mutex and persists before releasing it.
type Store struct {
	mu     sync.Mutex
	state  *State
	saver  Saver
	logger *zap.Logger
}

// NewStore wraps state. A nil saver keeps everything in memory.
func NewStore(state *State, saver Saver, logger *zap.Logger) *Store {
	if state == nil {
		state = NewState()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	state.Normalize()
	return &Store{
		state:  state,
		saver:  saver,
		logger: logger.Named("store"),
	}
}

// View runs fn with read access to the live state. fn must not retain
// pointers into the state past its return.
func (s *Store) View(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Update runs fn and persists the result when fn succeeds. fn must validate
// before mutating: an error return means nothing was changed. Persistence
// failures are logged and never returned; the in-memory state stays usable.
func (s *Store) Update(ctx context.Context, fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.state); err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) persist(ctx context.Context) {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(ctx, s.state); err != nil {
		s.logger.Error("state not persisted", zap.Error(err))
	}
}
