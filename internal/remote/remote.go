// Package remote defines the capability surface of the remote-messaging
// protocol as consumed by the gateway. Implementations live under
// internal/remote/<driver>/ (e.g., tdbridge).
package remote

import (
	"context"
	"io"

	"github.com/tgshelf/tgshelf/internal/model"
)

// ProgressFunc receives transfer progress during media downloads and uploads.
// total is -1 when the provider does not announce a length. Callers pass nil
// when they do not care.
type ProgressFunc func(transferred, total int64)

// Session is a single connected conversation with the provider. Sessions are
// per-operation: acquired from a Factory, connected, used, and released.
// No call other than Connect and Disconnect is valid before Connect succeeds.
type Session interface {
	// Connect establishes the transport. Idempotent.
	Connect(ctx context.Context) error

	// Disconnect releases the transport. Idempotent and never fails;
	// calling it on an already-closed session is a no-op.
	Disconnect()

	// SendCodeRequest asks the provider to deliver a one-time code to phone.
	// Returns the provider's code-verification handle.
	SendCodeRequest(ctx context.Context, phone string) (codeHash string, err error)

	// VerifyCode exchanges phone + code + handle for a durable credential.
	// Fails with model.ErrCodeInvalid or model.ErrTwoFactorRequired.
	VerifyCode(ctx context.Context, phone, codeHash, code string) (model.Credential, error)

	// IsAuthorized reports whether the bound credential is still accepted.
	// A revoked credential yields model.ErrSessionRevoked.
	IsAuthorized(ctx context.Context) (bool, error)

	// LogOut invalidates the bound credential server-side. Best effort.
	LogOut(ctx context.Context) error

	// RecentMessages returns up to limit messages from the caller's
	// saved-storage channel, newest first.
	RecentMessages(ctx context.Context, limit int) ([]model.RawMessage, error)

	// MessageByID fetches one message. Absent id yields model.ErrNotFound.
	MessageByID(ctx context.Context, id string) (*model.RawMessage, error)

	// Download fetches the bytes behind ref (full media or one thumbnail)
	// into memory.
	Download(ctx context.Context, ref model.MediaRef, progress ProgressFunc) ([]byte, error)

	// SendDocument uploads r as a single message to the caller's
	// saved-storage channel with the given caption, letting the provider
	// pick a native rich preview. Returns the confirmation message.
	SendDocument(ctx context.Context, r io.Reader, size int64, filename, caption string, progress ProgressFunc) (*model.RawMessage, error)
}

// Factory builds a Session bound to a credential. An empty credential yields
// an anonymous session, valid only for the login handshake.
type Factory interface {
	New(credential model.Credential) (Session, error)
}
