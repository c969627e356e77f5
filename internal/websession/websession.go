// Package websession carries the caller's auth state (Credential plus an
// optional PendingLogin) in a signed stateless cookie, keeping the web tier
// free of server-side session storage.
package websession

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tgshelf/tgshelf/internal/model"
)

// CookieName is the session cookie issued to browsers.
const CookieName = "tgshelf_session"

// State is the per-caller auth state. The zero value means a fresh,
// unauthenticated caller.
type State struct {
	Credential model.Credential
	Pending    *model.PendingLogin
}

// Authenticated reports whether a credential is present locally. The
// provider remains the source of truth for whether it is still accepted.
func (s *State) Authenticated() bool { return s.Credential != "" }

type claims struct {
	jwt.RegisteredClaims
	Credential string `json:"cred,omitempty"`
	Phone      string `json:"phone,omitempty"`
	CodeHash   string `json:"code_hash,omitempty"`
	PendingAt  int64  `json:"pending_at,omitempty"`
}

// Codec signs and verifies session cookies with HS256.
type Codec struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewCodec(secret string, ttl time.Duration, secure bool) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Read decodes the caller's state from the request cookie. Absent, expired
// or tampered cookies yield a fresh zero state, never an error: the caller
// simply is not authenticated.
func (c *Codec) Read(r *http.Request) *State {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return &State{}
	}

	var cl claims
	token, err := jwt.ParseWithClaims(cookie.Value, &cl, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return &State{}
	}

	st := &State{Credential: model.Credential(cl.Credential)}
	if cl.Phone != "" && cl.CodeHash != "" {
		st.Pending = &model.PendingLogin{
			Phone:     cl.Phone,
			CodeHash:  cl.CodeHash,
			CreatedAt: time.Unix(cl.PendingAt, 0),
		}
	}
	return st
}

// Write signs state into the response cookie, replacing any previous value
// wholesale.
func (c *Codec) Write(w http.ResponseWriter, st *State) error {
	now := time.Now()
	cl := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Credential: string(st.Credential),
	}
	if st.Pending != nil {
		cl.Phone = st.Pending.Phone
		cl.CodeHash = st.Pending.CodeHash
		cl.PendingAt = st.Pending.CreatedAt.Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.ttl / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
