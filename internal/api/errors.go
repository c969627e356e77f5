package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tgshelf/tgshelf/internal/api/respond"
	"github.com/tgshelf/tgshelf/internal/model"
)

// writeDomainError translates the service error taxonomy into HTTP status
// codes. Raw provider faults never reach this point; services only return
// taxonomy values.
func writeDomainError(w http.ResponseWriter, log zerolog.Logger, err error) {
	if re, ok := model.AsRateLimitError(err); ok {
		seconds := int(re.RetryAfter.Seconds())
		log.Warn().Int("retry_after_seconds", seconds).Msg("provider rate limit")
		respond.WriteRateLimited(w, seconds, "rate limited by provider, retry later")
		return
	}

	switch {
	case model.IsValidationError(err):
		// caller mistake, not an operational event
		log.Debug().Err(err).Msg("request validation failed")
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNoPendingLogin):
		respond.WriteBadRequest(w, "no pending login; start with /send_code_request")
	case errors.Is(err, model.ErrCodeInvalid):
		respond.WriteBadRequest(w, "invalid or expired verification code")
	case errors.Is(err, model.ErrTwoFactorRequired):
		respond.WriteUnauthorized(w, "two-factor authentication is enabled; password entry is not supported, restart login")
	case errors.Is(err, model.ErrSessionRevoked):
		respond.WriteUnauthorized(w, "session revoked, please login again")
	case errors.Is(err, model.ErrUnauthorized):
		respond.WriteUnauthorized(w, "user not authenticated")
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "not found")
	case model.IsConfigurationError(err):
		log.Error().Err(err).Msg("provider configuration error")
		respond.WriteInternalError(w, "provider API credentials not configured")
	case errors.Is(err, model.ErrConnectionFailed):
		log.Warn().Err(err).Msg("provider connection failed")
		respond.WriteServiceUnavailable(w, "failed to connect to provider, try again")
	case errors.Is(err, model.ErrUploadFailed):
		log.Error().Err(err).Msg("upload rejected")
		respond.WriteInternalError(w, "upload rejected by provider")
	default:
		log.Error().Err(err).Msg("unexpected error")
		respond.WriteInternalError(w, "an unexpected error occurred")
	}
}
