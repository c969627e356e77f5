package session

import (
	"context"
	"errors"
	"testing"

	"github.com/tgshelf/tgshelf/internal/model"
	"github.com/tgshelf/tgshelf/internal/remote"
	"github.com/tgshelf/tgshelf/internal/remote/remotetest"
)

func TestWithSession_ReleasesOnSuccess(t *testing.T) {
	f := &remotetest.Factory{}
	m := NewManager(f)

	err := m.WithSession(context.Background(), "cred", func(s remote.Session) error { return nil })
	if err != nil {
		t.Fatalf("WithSession: %v", err)
	}
	s := f.Last()
	if s.Connects != 1 || s.Disconnects != 1 {
		t.Fatalf("connect/disconnect = %d/%d, want 1/1", s.Connects, s.Disconnects)
	}
	if s.Cred != "cred" {
		t.Fatalf("session bound to %q", s.Cred)
	}
}

func TestWithSession_ReleasesOnBusinessError(t *testing.T) {
	f := &remotetest.Factory{}
	m := NewManager(f)

	want := errors.New("boom")
	err := m.WithSession(context.Background(), "", func(s remote.Session) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
	if s := f.Last(); s.Disconnects != 1 {
		t.Fatalf("disconnects = %d, want 1", s.Disconnects)
	}
}

func TestWithSession_ReleasesOnPanic(t *testing.T) {
	f := &remotetest.Factory{}
	m := NewManager(f)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = m.WithSession(context.Background(), "", func(s remote.Session) error { panic("mid-operation fault") })
	}()

	if s := f.Last(); s.Disconnects != 1 {
		t.Fatalf("disconnects = %d, want 1", s.Disconnects)
	}
}

func TestWithSession_ConnectFailureIsConnectionFailed(t *testing.T) {
	f := &remotetest.Factory{Configure: func(s *remotetest.Session) {
		s.ConnectErr = errors.New("dial tcp: timeout")
	}}
	m := NewManager(f)

	err := m.WithSession(context.Background(), "", func(s remote.Session) error {
		t.Fatal("fn must not run when connect fails")
		return nil
	})
	if !errors.Is(err, model.ErrConnectionFailed) {
		t.Fatalf("err = %v, want ErrConnectionFailed", err)
	}
}

func TestDisconnect_Idempotent(t *testing.T) {
	f := &remotetest.Factory{}
	s, err := f.New("")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.Disconnect()
	s.Disconnect()
	if got := f.Last().Disconnects; got != 1 {
		t.Fatalf("double disconnect observable effects = %d, want same as single", got)
	}
}
