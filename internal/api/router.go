package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/tgshelf/tgshelf/internal/api/recovery"
	"github.com/tgshelf/tgshelf/internal/api/respond"
)

// RouterConfig carries the HTTP policy knobs the router needs.
type RouterConfig struct {
	CORSOrigins       []string
	AuthRatePerMinute int

	// Healthy reports whether the session bridge is reachable. Nil means
	// no monitor is running and /health always succeeds.
	Healthy func() bool
}

// NewRouter wires the stable HTTP surface: auth handshake, catalog listing,
// the two streaming endpoints and upload.
func NewRouter(authH *AuthHandler, mediaH *MediaHandler, cfg RouterConfig, log zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestID, mux.MiddlewareFunc(AccessLog(log)))

	// login endpoints carry an extra per-IP limiter against anonymous abuse
	authLimiter := NewIPRateLimiter(cfg.AuthRatePerMinute)
	r.Handle("/send_code_request", authLimiter.Limit(http.HandlerFunc(authH.SendCodeRequest))).Methods(http.MethodPost)
	r.Handle("/sign_in", authLimiter.Limit(http.HandlerFunc(authH.SignIn))).Methods(http.MethodPost)
	r.HandleFunc("/is_authenticated", authH.IsAuthenticated).Methods(http.MethodGet)
	r.HandleFunc("/logout", authH.Logout).Methods(http.MethodPost)

	r.HandleFunc("/get_saved_messages_media", mediaH.List).Methods(http.MethodGet)
	r.HandleFunc("/stream_media/{id}", mediaH.StreamContent).Methods(http.MethodGet)
	r.HandleFunc("/stream_thumbnail/{id}", mediaH.StreamThumbnail).Methods(http.MethodGet)
	r.HandleFunc("/upload_file", mediaH.Upload).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		status := "ok"
		code := http.StatusOK
		if cfg.Healthy != nil && !cfg.Healthy() {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		respond.WriteJSON(w, code, map[string]string{"status": status})
	}).Methods(http.MethodGet)

	corsOpts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		// browsers refuse a literal "*" on credentialed requests, and the
		// whole auth flow rides on cookies; reflect the caller's origin
		corsOpts.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		corsOpts.AllowedOrigins = cfg.CORSOrigins
	}
	return cors.New(corsOpts).Handler(recovery.Middleware(r))
}
