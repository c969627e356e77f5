package tdbridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgshelf/tgshelf/internal/model"
)

func newTestFactory(t *testing.T, handler http.Handler) *Factory {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFactory(Config{BaseURL: srv.URL, APIID: 12345, APIHash: "hash"}, zerolog.Nop())
}

func connectedSession(t *testing.T, handler http.Handler, cred model.Credential) *Session {
	t.Helper()
	f := newTestFactory(t, handler)
	s, err := f.New(cred)
	require.NoError(t, err)
	require.NoError(t, s.Connect(context.Background()))
	return s.(*Session)
}

func bridgeMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/connect", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			APIID   int    `json:"api_id"`
			APIHash string `json:"api_hash"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 12345, body.APIID)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/v1/disconnect", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestFactoryRequiresCredentials(t *testing.T) {
	f := NewFactory(Config{BaseURL: "http://localhost:1"}, zerolog.Nop())
	_, err := f.New("")
	assert.True(t, model.IsConfigurationError(err))
}

func TestSendCodeRequest(t *testing.T) {
	mux := bridgeMux(t)
	mux.HandleFunc("/v1/auth/send_code", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Phone string `json:"phone"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "+15551234567", body.Phone)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"phone_code_hash": "abc123"})
	})
	s := connectedSession(t, mux, "")

	hash, err := s.SendCodeRequest(context.Background(), "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "abc123", hash)
}

func TestSendCodeRequestFloodWait(t *testing.T) {
	mux := bridgeMux(t)
	mux.HandleFunc("/v1/auth/send_code", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": "FLOOD_WAIT", "retry_after": 42})
	})
	s := connectedSession(t, mux, "")

	_, err := s.SendCodeRequest(context.Background(), "+15551234567")
	rle, ok := model.AsRateLimitError(err)
	require.True(t, ok)
	assert.Equal(t, 42*time.Second, rle.RetryAfter)
}

func TestVerifyCodeErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		code    string
		wantErr error
	}{
		{"invalid code", "PHONE_CODE_INVALID", model.ErrCodeInvalid},
		{"expired code", "PHONE_CODE_EXPIRED", model.ErrCodeInvalid},
		{"two factor", "SESSION_PASSWORD_NEEDED", model.ErrTwoFactorRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux := bridgeMux(t)
			mux.HandleFunc("/v1/auth/sign_in", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": tc.code})
			})
			s := connectedSession(t, mux, "")

			_, err := s.VerifyCode(context.Background(), "+15551234567", "abc", "00000")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestVerifyCodeReturnsCredential(t *testing.T) {
	mux := bridgeMux(t)
	mux.HandleFunc("/v1/auth/sign_in", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"session": "new-session-string"})
	})
	s := connectedSession(t, mux, "")

	cred, err := s.VerifyCode(context.Background(), "+15551234567", "abc", "12345")
	require.NoError(t, err)
	assert.Equal(t, model.Credential("new-session-string"), cred)
}

func TestIsAuthorizedSendsSessionHeader(t *testing.T) {
	mux := bridgeMux(t)
	mux.HandleFunc("/v1/auth/status", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "stored-session", r.Header.Get("X-Session"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"authorized": true})
	})
	s := connectedSession(t, mux, "stored-session")

	ok, err := s.IsAuthorized(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAuthorizedRevoked(t *testing.T) {
	mux := bridgeMux(t)
	mux.HandleFunc("/v1/auth/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "AUTH_KEY_UNREGISTERED"})
	})
	s := connectedSession(t, mux, "stale")

	_, err := s.IsAuthorized(context.Background())
	assert.ErrorIs(t, err, model.ErrSessionRevoked)
}

func TestRecentMessages(t *testing.T) {
	mux := bridgeMux(t)
	mux.HandleFunc("/v1/messages/self", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"messages": []map[string]interface{}{
				{
					"id":      101,
					"date":    1700000000,
					"caption": "report.pdf\n#q1",
					"media": map[string]interface{}{
						"kind":      "document",
						"unique_id": "u101",
						"file_name": "report.pdf",
						"mime_type": "application/pdf",
						"size":      2048,
					},
				},
				{"id": 102, "date": 1700000100},
			},
		})
	})
	s := connectedSession(t, mux, "cred")

	msgs, err := s.RecentMessages(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "101", msgs[0].ID)
	require.NotNil(t, msgs[0].Media)
	assert.Equal(t, model.KindDocument, msgs[0].Media.Kind)
	assert.Equal(t, int64(2048), msgs[0].Media.SizeBytes)
	assert.Equal(t, int64(1700000000), msgs[0].Date.Unix())
	assert.Nil(t, msgs[1].Media)
}

func TestMessageByIDNotFound(t *testing.T) {
	mux := bridgeMux(t)
	mux.HandleFunc("/v1/messages/self/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "MESSAGE_ID_INVALID"})
	})
	s := connectedSession(t, mux, "cred")

	_, err := s.MessageByID(context.Background(), "999")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDownloadReportsProgress(t *testing.T) {
	payload := strings.Repeat("x", 1<<16)
	mux := bridgeMux(t)
	mux.HandleFunc("/v1/media/download", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			MessageID string `json:"message_id"`
			Thumb     string `json:"thumb"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "101", body.MessageID)
		_, _ = w.Write([]byte(payload))
	})
	s := connectedSession(t, mux, "cred")

	var calls int
	var last int64
	data, err := s.Download(context.Background(), model.MediaRef{MessageID: "101"}, func(transferred, total int64) {
		calls++
		last = transferred
	})
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
	assert.Greater(t, calls, 0)
	assert.Equal(t, int64(len(payload)), last)
}

func TestSendDocument(t *testing.T) {
	mux := bridgeMux(t)
	mux.HandleFunc("/v1/messages/self/files", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "notes.txt\n#log", r.FormValue("caption"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "notes.txt", header.Filename)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      201,
			"date":    1700000200,
			"caption": "notes.txt\n#log",
			"media": map[string]interface{}{
				"kind":      "document",
				"unique_id": "u201",
				"file_name": "notes.txt",
				"mime_type": "text/plain",
				"size":      10,
			},
		})
	})
	s := connectedSession(t, mux, "cred")

	msg, err := s.SendDocument(context.Background(), strings.NewReader("hello test"), 10, "notes.txt", "notes.txt\n#log", nil)
	require.NoError(t, err)
	require.NotNil(t, msg.Media)
	assert.Equal(t, "201", msg.ID)
	assert.Equal(t, "notes.txt", msg.Media.FileName)
}

func TestConnectTransportFailure(t *testing.T) {
	f := NewFactory(Config{BaseURL: "http://127.0.0.1:1", APIID: 12345, APIHash: "hash"}, zerolog.Nop())
	s, err := f.New("cred")
	require.NoError(t, err)

	err = s.Connect(context.Background())
	assert.ErrorIs(t, err, model.ErrConnectionFailed)
}

func TestDisconnectIdempotent(t *testing.T) {
	mux := bridgeMux(t)
	s := connectedSession(t, mux, "cred")
	s.Disconnect()
	s.Disconnect()
}
