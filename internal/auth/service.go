// Package auth orchestrates the multi-step login handshake against the
// remote provider: code request, code verification, authorization probes
// and logout. It holds no caller state itself; PendingLogin and Credential
// travel in and out through the caller's web session.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgshelf/tgshelf/internal/api/validate"
	"github.com/tgshelf/tgshelf/internal/model"
	"github.com/tgshelf/tgshelf/internal/remote"
	"github.com/tgshelf/tgshelf/internal/session"
)

type Service struct {
	sessions *session.Manager
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(sessions *session.Manager, log zerolog.Logger) *Service {
	return &Service{sessions: sessions, now: time.Now, log: log}
}

// RequestCode asks the provider to deliver a one-time code and returns the
// PendingLogin the caller must hold on to for verification.
func (s *Service) RequestCode(ctx context.Context, phone string) (*model.PendingLogin, error) {
	phone = strings.TrimSpace(phone)
	if err := validate.Phone(phone); err != nil {
		return nil, err
	}

	var pending *model.PendingLogin
	err := s.sessions.WithSession(ctx, "", func(rs remote.Session) error {
		codeHash, err := rs.SendCodeRequest(ctx, phone)
		if err != nil {
			return err
		}
		pending = &model.PendingLogin{Phone: phone, CodeHash: codeHash, CreatedAt: s.now()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("phone", maskPhone(phone)).Msg("verification code requested")
	return pending, nil
}

// VerifyCode exchanges the pending login and the one-time code for a durable
// credential. A missing pending login fails without contacting the provider.
// Two-factor accounts are a terminal unsupported path here: the provider
// signals model.ErrTwoFactorRequired and the caller must restart out-of-band.
func (s *Service) VerifyCode(ctx context.Context, pending *model.PendingLogin, code string) (model.Credential, error) {
	if pending == nil || pending.Phone == "" || pending.CodeHash == "" {
		return "", model.ErrNoPendingLogin
	}
	code = strings.TrimSpace(code)
	if err := validate.Code(code); err != nil {
		return "", err
	}

	var cred model.Credential
	err := s.sessions.WithSession(ctx, "", func(rs remote.Session) error {
		var err error
		cred, err = rs.VerifyCode(ctx, pending.Phone, pending.CodeHash, code)
		return err
	})
	if err != nil {
		return "", err
	}
	s.log.Info().Str("phone", maskPhone(pending.Phone)).Msg("signed in")
	return cred, nil
}

// CheckAuthenticated reports whether the credential is still accepted by the
// provider. An empty credential answers false without a remote call. A
// revoked credential answers false alongside model.ErrSessionRevoked so the
// caller can distinguish revocation from a transport fault and drop its copy.
func (s *Service) CheckAuthenticated(ctx context.Context, cred model.Credential) (bool, error) {
	if cred == "" {
		return false, nil
	}
	var authorized bool
	err := s.sessions.WithSession(ctx, cred, func(rs remote.Session) error {
		var err error
		authorized, err = rs.IsAuthorized(ctx)
		return err
	})
	if errors.Is(err, model.ErrSessionRevoked) {
		return false, model.ErrSessionRevoked
	}
	if err != nil {
		return false, err
	}
	return authorized, nil
}

// Logout best-effort invalidates the credential server-side. Provider
// failures are logged, never propagated: the caller clears its local state
// unconditionally.
func (s *Service) Logout(ctx context.Context, cred model.Credential) {
	if cred == "" {
		return
	}
	err := s.sessions.WithSession(ctx, cred, func(rs remote.Session) error {
		return rs.LogOut(ctx)
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("provider-side logout failed, clearing local state anyway")
	}
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
