package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tgshelf/tgshelf/internal/api/respond"
	"github.com/tgshelf/tgshelf/internal/auth"
	"github.com/tgshelf/tgshelf/internal/model"
	"github.com/tgshelf/tgshelf/internal/websession"
)

// AuthHandler is the HTTP transport for the login handshake. All caller
// state travels in the signed web-session cookie.
type AuthHandler struct {
	svc      *auth.Service
	sessions *websession.Codec
	log      zerolog.Logger
}

func NewAuthHandler(svc *auth.Service, sessions *websession.Codec, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions, log: log}
}

// SendCodeRequest POST /send_code_request
func (h *AuthHandler) SendCodeRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phone_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	pending, err := h.svc.RequestCode(r.Context(), req.PhoneNumber)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	state := h.sessions.Read(r)
	state.Pending = pending
	if err := h.sessions.Write(w, state); err != nil {
		h.log.Error().Err(err).Msg("failed to write session cookie")
		respond.WriteInternalError(w, "failed to persist login state")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "Code request sent successfully"})
}

// SignIn POST /sign_in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	state := h.sessions.Read(r)
	cred, err := h.svc.VerifyCode(r.Context(), state.Pending, req.Code)
	if err != nil {
		// a rejected or 2FA-blocked attempt invalidates the pending login;
		// throttling and transport faults keep it so the caller can retry
		if errors.Is(err, model.ErrCodeInvalid) || errors.Is(err, model.ErrTwoFactorRequired) {
			state.Pending = nil
			_ = h.sessions.Write(w, state)
		}
		writeDomainError(w, h.log, err)
		return
	}

	state.Credential = cred
	state.Pending = nil
	if err := h.sessions.Write(w, state); err != nil {
		h.log.Error().Err(err).Msg("failed to write session cookie")
		respond.WriteInternalError(w, "failed to persist credential")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "Signed in successfully"})
}

// IsAuthenticated GET /is_authenticated
func (h *AuthHandler) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.Read(r)
	ok, err := h.svc.CheckAuthenticated(r.Context(), state.Credential)
	if errors.Is(err, model.ErrSessionRevoked) {
		// drop the dead credential and tell the caller why
		h.sessions.Clear(w)
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"authenticated": false,
			"reason":        "session_revoked",
		})
		return
	}
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"authenticated": ok})
}

// Logout POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.Read(r)
	h.svc.Logout(r.Context(), state.Credential)
	h.sessions.Clear(w)
	respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
