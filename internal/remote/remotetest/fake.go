// Package remotetest provides an in-memory remote.Session fake shared by
// service and handler tests.
package remotetest

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tgshelf/tgshelf/internal/model"
	"github.com/tgshelf/tgshelf/internal/remote"
)

// SentDoc records one SendDocument call.
type SentDoc struct {
	Filename string
	Caption  string
	Data     []byte
}

// Session is a scriptable fake. Zero value is usable; set the Err/result
// fields to steer individual calls.
type Session struct {
	mu sync.Mutex

	Cred model.Credential

	ConnectErr  error
	Connects    int
	Disconnects int
	Connected   bool

	CodeHash    string
	SendCodeErr error

	VerifyCred model.Credential
	VerifyErr  error

	Authorized bool
	AuthErr    error

	LogOutErr error
	LoggedOut bool

	Messages  []model.RawMessage
	RecentErr error

	Blobs       map[string][]byte
	DownloadErr error

	SendDocErr error
	Sent       []SentDoc
	// SendReply overrides the default confirmation message.
	SendReply func(filename, caption string, data []byte) *model.RawMessage
}

var _ remote.Session = (*Session)(nil)

func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Connects++
	if s.ConnectErr != nil {
		return s.ConnectErr
	}
	s.Connected = true
	return nil
}

func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Connected {
		return
	}
	s.Connected = false
	s.Disconnects++
}

func (s *Session) SendCodeRequest(ctx context.Context, phone string) (string, error) {
	if s.SendCodeErr != nil {
		return "", s.SendCodeErr
	}
	if s.CodeHash == "" {
		return "hash-" + phone, nil
	}
	return s.CodeHash, nil
}

func (s *Session) VerifyCode(ctx context.Context, phone, codeHash, code string) (model.Credential, error) {
	if s.VerifyErr != nil {
		return "", s.VerifyErr
	}
	if s.VerifyCred != "" {
		return s.VerifyCred, nil
	}
	return model.Credential("cred-" + phone), nil
}

func (s *Session) IsAuthorized(ctx context.Context) (bool, error) {
	if s.AuthErr != nil {
		return false, s.AuthErr
	}
	return s.Authorized, nil
}

func (s *Session) LogOut(ctx context.Context) error {
	s.mu.Lock()
	s.LoggedOut = true
	s.mu.Unlock()
	return s.LogOutErr
}

func (s *Session) RecentMessages(ctx context.Context, limit int) ([]model.RawMessage, error) {
	if s.RecentErr != nil {
		return nil, s.RecentErr
	}
	if limit > 0 && limit < len(s.Messages) {
		return s.Messages[:limit], nil
	}
	return s.Messages, nil
}

func (s *Session) MessageByID(ctx context.Context, id string) (*model.RawMessage, error) {
	for i := range s.Messages {
		if s.Messages[i].ID == id {
			m := s.Messages[i]
			return &m, nil
		}
	}
	return nil, model.ErrNotFound
}

// BlobKey builds the Blobs map key for a media ref.
func BlobKey(ref model.MediaRef) string {
	if ref.Thumb != "" {
		return ref.MessageID + "/" + ref.Thumb
	}
	return ref.MessageID
}

func (s *Session) Download(ctx context.Context, ref model.MediaRef, progress remote.ProgressFunc) ([]byte, error) {
	if s.DownloadErr != nil {
		return nil, s.DownloadErr
	}
	data, ok := s.Blobs[BlobKey(ref)]
	if !ok {
		return nil, model.ErrNotFound
	}
	if progress != nil {
		progress(int64(len(data)), int64(len(data)))
	}
	return data, nil
}

func (s *Session) SendDocument(ctx context.Context, r io.Reader, size int64, filename, caption string, progress remote.ProgressFunc) (*model.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if s.SendDocErr != nil {
		return nil, s.SendDocErr
	}
	s.mu.Lock()
	s.Sent = append(s.Sent, SentDoc{Filename: filename, Caption: caption, Data: data})
	s.mu.Unlock()
	if progress != nil {
		progress(int64(len(data)), int64(len(data)))
	}
	if s.SendReply != nil {
		return s.SendReply(filename, caption, data), nil
	}
	return &model.RawMessage{
		ID:      "sent-1",
		Date:    time.Now(),
		Caption: caption,
		Media: &model.Media{
			Kind:      model.KindDocument,
			UniqueID:  "u-sent-1",
			FileName:  filename,
			MIMEType:  http.DetectContentType(data),
			SizeBytes: int64(len(data)),
		},
	}, nil
}

// Factory hands out fakes and remembers every session it built so tests can
// assert on connect/disconnect pairing.
type Factory struct {
	mu       sync.Mutex
	Sessions []*Session
	NewErr   error
	// Configure runs on each new session before it is returned.
	Configure func(s *Session)
}

var _ remote.Factory = (*Factory)(nil)

func (f *Factory) New(cred model.Credential) (remote.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NewErr != nil {
		return nil, f.NewErr
	}
	s := &Session{Cred: cred, Blobs: map[string][]byte{}}
	if f.Configure != nil {
		f.Configure(s)
	}
	f.Sessions = append(f.Sessions, s)
	return s, nil
}

// Last returns the most recently built session, or nil.
func (f *Factory) Last() *Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sessions) == 0 {
		return nil
	}
	return f.Sessions[len(f.Sessions)-1]
}
