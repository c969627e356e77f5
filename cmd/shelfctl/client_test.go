package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgshelf/tgshelf/internal/websession"
)

func TestPersistSessionRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/set":
			http.SetCookie(w, &http.Cookie{Name: websession.CookieName, Value: "token-1", MaxAge: 3600})
		case "/echo":
			ck, err := r.Cookie(websession.CookieName)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(ck.Value))
		case "/clear":
			http.SetCookie(w, &http.Cookie{Name: websession.CookieName, Value: "", MaxAge: -1})
		}
	}))
	defer srv.Close()

	resp, err := newClient(srv.URL).R().Get("/set")
	require.NoError(t, err)
	persistSession(resp)

	p, err := sessionPath()
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "token-1", string(data))

	// a fresh client picks the saved cookie up
	resp, err = newClient(srv.URL).R().Get("/echo")
	require.NoError(t, err)
	assert.Equal(t, "token-1", string(resp.Body()))

	// clearing removes the file
	resp, err = newClient(srv.URL).R().Get("/clear")
	require.NoError(t, err)
	persistSession(resp)
	_, err = os.ReadFile(p)
	assert.True(t, os.IsNotExist(err))
}
