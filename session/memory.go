package session

import (
	"sync"
	"time"
)

type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemoryKV) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

type memoryCookie struct {
	value     string
	path      string
	maxAge    int
	expiresAt time.Time
}

// MemoryCookieJar backs the cookie mirror in processes that have no real
// cookie surface (tests, the terminal shell). Entries honor their max-age.
type MemoryCookieJar struct {
	mu      sync.RWMutex
	cookies map[string]memoryCookie
	now     func() time.Time
}

func NewMemoryCookieJar() *MemoryCookieJar {
	return &MemoryCookieJar{cookies: map[string]memoryCookie{}, now: time.Now}
}

func (j *MemoryCookieJar) Set(name, value, path string, maxAge int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[name] = memoryCookie{
		value:     value,
		path:      path,
		maxAge:    maxAge,
		expiresAt: j.now().Add(time.Duration(maxAge) * time.Second),
	}
}

func (j *MemoryCookieJar) Get(name string) (string, bool) {
	j.mu.RLock()
	entry, ok := j.cookies[name]
	j.mu.RUnlock()
	if !ok || entry.value == "" {
		return "", false
	}
	if j.now().After(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

func (j *MemoryCookieJar) Clear(name, path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[name] = memoryCookie{path: path, maxAge: -1, expiresAt: time.Unix(0, 0)}
}

// MaxAge reports the max-age the cookie was last written with.
func (j *MemoryCookieJar) MaxAge(name string) (int, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	entry, ok := j.cookies[name]
	if !ok {
		return 0, false
	}
	return entry.maxAge, true
}
