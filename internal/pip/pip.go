// Package pip shows the current stream in a floating picture-in-picture
// window.
package pip

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tubewaves/internal/player"
)

var (
	// ErrUnsupported is returned when no display server is reachable.
	ErrUnsupported = errors.New("picture-in-picture is not supported here")
	// ErrNoStream is returned when nothing is playing.
	ErrNoStream = errors.New("no stream to show")
)

var logger = logrus.WithField("component", "pip")

// Session is one open picture-in-picture window.
type Session interface {
	// Done is closed when the window goes away, including when the user
	// closes it.
	Done() <-chan struct{}
	Close() error
}

// Surface opens picture-in-picture windows.
type Surface interface {
	Open(ctx context.Context, stream player.Stream) (Session, error)
}

// Manager keeps at most one picture-in-picture session open.
type Manager struct {
	surface Surface

	mu      sync.Mutex
	session Session
}

// NewManager creates a manager opening windows on surface.
func NewManager(surface Surface) *Manager {
	return &Manager{surface: surface}
}

// Active reports whether a window is open.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// Enter opens a window showing stream. No-op if one is already open.
func (m *Manager) Enter(ctx context.Context, stream player.Stream) error {
	if !stream.Valid() {
		return ErrNoStream
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		return nil
	}

	session, err := m.surface.Open(ctx, stream)
	if err != nil {
		return err
	}
	m.session = session
	go m.watch(session)

	logger.WithField("position", stream.Position).Info("entered picture-in-picture")
	return nil
}

// watch forgets session once its window is gone.
func (m *Manager) watch(session Session) {
	<-session.Done()
	m.mu.Lock()
	if m.session == session {
		m.session = nil
	}
	m.mu.Unlock()
}

// Exit closes the open window. Idempotent.
func (m *Manager) Exit() error {
	m.mu.Lock()
	session := m.session
	m.session = nil
	m.mu.Unlock()

	if session == nil {
		return nil
	}
	logger.Info("exited picture-in-picture")
	return session.Close()
}

// Toggle exits when active; otherwise it captures the current stream and
// enters. Returns whether a window is open afterwards.
func (m *Manager) Toggle(ctx context.Context, capture func() (player.Stream, bool)) (bool, error) {
	if m.Active() {
		return false, m.Exit()
	}
	stream, ok := capture()
	if !ok {
		return false, ErrNoStream
	}
	if err := m.Enter(ctx, stream); err != nil {
		return false, err
	}
	return true, nil
}
