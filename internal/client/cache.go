package client

import (
	"encoding/json"
	"os"
)

// SessionState classifies the cached session.
type SessionState int

const (
	SessionAnonymous SessionState = iota
	SessionAuthenticated
	SessionExpired
)

func (s SessionState) String() string {
	switch s {
	case SessionAuthenticated:
		return "authenticated"
	case SessionExpired:
		return "expired"
	default:
		return "anonymous"
	}
}

type cachedSession struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expires_at"`
}

// tokenCache persists the session as a small JSON file so separate
// dashboard processes share one login.
type tokenCache struct {
	path string
}

func newTokenCache(path string) *tokenCache {
	return &tokenCache{path: path}
}

func (c *tokenCache) load() (cachedSession, bool) {
	var session cachedSession

	data, err := os.ReadFile(c.path)
	if err != nil {
		return session, false
	}
	if err := json.Unmarshal(data, &session); err != nil {
		// unreadable cache is treated as absent
		os.Remove(c.path)
		return cachedSession{}, false
	}
	if session.Token == "" {
		return cachedSession{}, false
	}
	return session, true
}

func (c *tokenCache) save(session cachedSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}

func (c *tokenCache) clear() error {
	err := os.Remove(c.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
