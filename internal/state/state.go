package state

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

type Phase int

const (
	NOT_STARTED Phase = iota
	SERVING
	STOPPED
)

func (p Phase) String() string {
	switch p {
	case NOT_STARTED:
		return "NotStarted"
	case SERVING:
		return "Serving"
	case STOPPED:
		return "Stopped"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ErrInvalidTransition is returned when a phase change is not one of
// NotStarted -> Serving or Serving -> Stopped.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

type State struct {
	Phase     Phase
	Addr      string
	Root      string
	StartedAt time.Time
	StoppedAt time.Time
}

type Store struct {
	mu    sync.RWMutex
	state State
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{state: State{Phase: NOT_STARTED}, now: time.Now}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

// MarkServing records that the listener is bound on addr and serving root.
func (store *Store) MarkServing(addr, root string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.Phase != NOT_STARTED {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, store.state.Phase, SERVING)
	}
	store.state.Phase = SERVING
	store.state.Addr = addr
	store.state.Root = root
	store.state.StartedAt = store.now()
	return nil
}

func (store *Store) MarkStopped() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.Phase != SERVING {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, store.state.Phase, STOPPED)
	}
	store.state.Phase = STOPPED
	store.state.StoppedAt = store.now()
	return nil
}
