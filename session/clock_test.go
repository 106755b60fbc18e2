package session

import (
	"sync"
	"testing"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{current: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}

func mintToken(t *testing.T, claims jwtgo.MapClaims) string {
	t.Helper()
	token, err := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}
