package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/tgshelf/tgshelf/internal/websession"
)

// sessionPath is where the signed session cookie persists between runs.
func sessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shelfctl", "session"), nil
}

// newClient builds a resty client carrying the saved session cookie, if any.
func newClient(apiURL string) *resty.Client {
	c := resty.New().SetBaseURL(apiURL)
	if p, err := sessionPath(); err == nil {
		if data, err := os.ReadFile(p); err == nil {
			c.SetCookie(&http.Cookie{
				Name:  websession.CookieName,
				Value: strings.TrimSpace(string(data)),
			})
		}
	}
	return c
}

// persistSession stores or removes the session cookie the gateway set.
func persistSession(resp *resty.Response) {
	for _, ck := range resp.Cookies() {
		if ck.Name != websession.CookieName {
			continue
		}
		p, err := sessionPath()
		if err != nil {
			return
		}
		if ck.MaxAge < 0 || ck.Value == "" {
			_ = os.Remove(p)
			continue
		}
		_ = os.MkdirAll(filepath.Dir(p), 0o700)
		_ = os.WriteFile(p, []byte(ck.Value), 0o600)
	}
}
