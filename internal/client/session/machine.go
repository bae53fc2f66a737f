// Package session owns the client's lock state: whether the app is still
// loading, waiting for the PIN, or unlocked, and which session (if any) is
// active. Readers get immutable snapshots; every change goes through one of
// the transition methods, which enforce the allowed edges:
//
//	Loading ──Resolve──▶ LockedAwaitingPin ──Unlock──▶ Unlocked
//	Loading ──Resolve──▶ Unlocked
//	Unlocked ──SignIn/SignOut──▶ Unlocked (session replaced)
//
// Nothing ever returns to Loading, and Unlocked is never re-locked.
package session

import (
	"errors"
	"sync"

	"github.com/dmitrijs2005/patrimoine/internal/client/models"
)

type LockState int

const (
	Loading LockState = iota
	LockedAwaitingPin
	Unlocked
)

func (s LockState) String() string {
	switch s {
	case Loading:
		return "loading"
	case LockedAwaitingPin:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

var (
	ErrAlreadyResolved   = errors.New("lock state already resolved")
	ErrNotLocked         = errors.New("not awaiting pin")
	ErrInvalidTransition = errors.New("invalid lock state transition")
)

// Snapshot is a read-only view of the machine at one point in time.
type Snapshot struct {
	State   LockState
	Session *models.Session
}

// Authenticated reports whether the snapshot carries a usable session.
func (s Snapshot) Authenticated() bool {
	return s.State == Unlocked && s.Session != nil
}

type Machine struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewMachine returns a machine in Loading with no session.
func NewMachine() *Machine {
	return &Machine{snap: Snapshot{State: Loading}}
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// Resolve performs the single transition out of Loading. The target must be
// LockedAwaitingPin (with a session) or Unlocked.
func (m *Machine) Resolve(state LockState, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap.State != Loading {
		return ErrAlreadyResolved
	}
	switch state {
	case Unlocked:
	case LockedAwaitingPin:
		if s == nil {
			return ErrInvalidTransition
		}
	default:
		return ErrInvalidTransition
	}

	m.snap = Snapshot{State: state, Session: s}
	return nil
}

// Resolved reports whether Resolve has happened.
func (m *Machine) Resolved() bool {
	return m.Snapshot().State != Loading
}

// Unlock moves LockedAwaitingPin to Unlocked, keeping the session.
func (m *Machine) Unlock() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap.State != LockedAwaitingPin {
		return ErrNotLocked
	}
	m.snap = Snapshot{State: Unlocked, Session: m.snap.Session}
	return nil
}

// SignIn replaces the session after a login. Only valid once unlocked.
func (m *Machine) SignIn(s *models.Session) error {
	if s == nil {
		return ErrInvalidTransition
	}
	return m.replaceSession(s)
}

// SignOut drops the session. Only valid once unlocked.
func (m *Machine) SignOut() error {
	return m.replaceSession(nil)
}

func (m *Machine) replaceSession(s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap.State != Unlocked {
		return ErrInvalidTransition
	}
	m.snap = Snapshot{State: Unlocked, Session: s}
	return nil
}
