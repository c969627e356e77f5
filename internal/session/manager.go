// Package session owns the per-operation remote session lifecycle: acquire,
// connect, run, and release on every exit path.
package session

import (
	"context"
	"fmt"

	"github.com/tgshelf/tgshelf/internal/model"
	"github.com/tgshelf/tgshelf/internal/remote"
)

// Manager turns a credential into a connected remote session for the span of
// one operation. Sessions are never shared across operations; strict
// isolation between concurrent callers is traded for reconnect latency.
type Manager struct {
	factory remote.Factory
}

// NewManager creates a Manager over the given session factory.
func NewManager(factory remote.Factory) *Manager {
	return &Manager{factory: factory}
}

// WithSession acquires a session bound to credential (anonymous when empty),
// connects it, invokes fn, and disconnects on every exit path including
// panics. No remote call in this codebase runs outside this wrapper.
func (m *Manager) WithSession(ctx context.Context, credential model.Credential, fn func(remote.Session) error) error {
	s, err := m.factory.New(credential)
	if err != nil {
		return err
	}
	if err := s.Connect(ctx); err != nil {
		s.Disconnect()
		return fmt.Errorf("%w: %v", model.ErrConnectionFailed, err)
	}
	defer s.Disconnect()
	return fn(s)
}
