package websession

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgshelf/tgshelf/internal/model"
)

func roundTrip(t *testing.T, c *Codec, st *State) *State {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, c.Write(rec, st))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	return c.Read(req)
}

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec("secret", time.Hour, false)
	st := &State{
		Credential: "cred-1",
		Pending: &model.PendingLogin{
			Phone:     "+15551230000",
			CodeHash:  "h1",
			CreatedAt: time.Unix(1700000000, 0),
		},
	}
	got := roundTrip(t, c, st)
	assert.Equal(t, model.Credential("cred-1"), got.Credential)
	require.NotNil(t, got.Pending)
	assert.Equal(t, "+15551230000", got.Pending.Phone)
	assert.Equal(t, "h1", got.Pending.CodeHash)
	assert.Equal(t, time.Unix(1700000000, 0), got.Pending.CreatedAt)
	assert.True(t, got.Authenticated())
}

func TestCodec_AbsentCookieIsFreshState(t *testing.T) {
	c := NewCodec("secret", time.Hour, false)
	st := c.Read(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, st.Authenticated())
	assert.Nil(t, st.Pending)
}

func TestCodec_TamperedCookieIsFreshState(t *testing.T) {
	c := NewCodec("secret", time.Hour, false)
	rec := httptest.NewRecorder()
	require.NoError(t, c.Write(rec, &State{Credential: "cred"}))
	cookie := rec.Result().Cookies()[0]
	cookie.Value += "x"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	assert.False(t, c.Read(req).Authenticated())
}

func TestCodec_WrongSecretIsFreshState(t *testing.T) {
	writer := NewCodec("secret-a", time.Hour, false)
	reader := NewCodec("secret-b", time.Hour, false)

	rec := httptest.NewRecorder()
	require.NoError(t, writer.Write(rec, &State{Credential: "cred"}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	assert.False(t, reader.Read(req).Authenticated())
}

func TestCodec_Clear(t *testing.T) {
	c := NewCodec("secret", time.Hour, false)
	rec := httptest.NewRecorder()
	c.Clear(rec)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}
