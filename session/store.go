package session

import (
	"encoding/json"
	"time"
)

const (
	// CookieName is the cookie mirror consumed by the navigation gate.
	CookieName = "token"

	// DefaultCookieMaxAge applies when the token has no usable expiry.
	DefaultCookieMaxAge = 900

	tokenKey = "token"
	userKey  = "user"
)

// KV is the script-accessible half of the credential pair. Implementations
// must be safe for concurrent readers and return absent rather than fail when
// a key is missing.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// CookieJar is the cookie half. The in-process mirror write cannot mark the
// cookie HTTP-only; only the auth handlers sitting at the trusted boundary
// can, and they do. The mirror exists so the navigation gate sees a fresh
// token before the next round trip.
type CookieJar interface {
	Set(name, value, path string, maxAge int)
	Get(name string) (string, bool)
	Clear(name, path string)
}

// Store owns the credential pair: the token plus cached identity in the
// key/value store, and the cookie mirror of the token. Every write touches
// both locations in one synchronous call so no reader ever observes them in
// different presence states.
type Store struct {
	kv      KV
	cookies CookieJar
	codec   Codec
	now     func() time.Time
}

func NewStore(kv KV, cookies CookieJar) *Store {
	return &Store{kv: kv, cookies: cookies, now: time.Now}
}

// SetSession persists the token and identity: key/value store first, cookie
// mirror immediately after, with no suspension between the two writes.
func (s *Store) SetSession(tokenValue string, identity Identity) {
	payload, err := json.Marshal(identity)
	if err != nil {
		payload = []byte("{}")
	}
	s.kv.Set(tokenKey, tokenValue)
	s.kv.Set(userKey, string(payload))
	s.cookies.Set(CookieName, tokenValue, "/", s.cookieMaxAge(tokenValue))
}

// Token returns the stored token, or empty when absent. Reads never fail and
// never have side effects.
func (s *Store) Token() string {
	if s == nil || s.kv == nil {
		return ""
	}
	v, _ := s.kv.Get(tokenKey)
	return v
}

// Identity returns the cached identity, or false when absent or unreadable.
func (s *Store) Identity() (Identity, bool) {
	if s == nil || s.kv == nil {
		return Identity{}, false
	}
	raw, ok := s.kv.Get(userKey)
	if !ok || raw == "" {
		return Identity{}, false
	}
	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return Identity{}, false
	}
	return identity, true
}

// Clear removes the token and the cached identity and expires the cookie
// mirror, as one unit. Callers never clear one side alone.
func (s *Store) Clear() {
	s.kv.Delete(tokenKey)
	s.kv.Delete(userKey)
	s.cookies.Clear(CookieName, "/")
}

// cookieMaxAge matches the cookie lifetime to the token's real remaining
// validity, falling back to the default when the token has no expiry or is
// already past it.
func (s *Store) cookieMaxAge(tokenValue string) int {
	claims, err := s.codec.Decode(tokenValue)
	if err != nil {
		return DefaultCookieMaxAge
	}
	remaining, ok := claims.RemainingSeconds(s.now())
	if !ok || remaining <= 0 {
		return DefaultCookieMaxAge
	}
	return int(remaining)
}
