package session

import (
	"context"
	"testing"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFormatCountdown(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{59, "0:59"},
		{60, "1:00"},
		{61, "1:01"},
		{599, "9:59"},
		{600, "10:00"},
		{-5, "0:00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatCountdown(c.seconds), "seconds=%d", c.seconds)
	}
}

func newTestWatcher(t *testing.T, clock *fakeClock, opts ...WatcherOption) (*Watcher, *Store, *Controller, *recordingNavigator) {
	t.Helper()
	store, _, _ := newTestStore(clock)
	validator := NewValidator()
	validator.now = clock.Now
	nav := &recordingNavigator{}
	controller := NewController(store, validator, nav, zap.NewNop(), Config{})
	watcher := NewWatcher(store, validator, controller, Config{}, opts...)
	return watcher, store, controller, nav
}

func TestWatcherTick(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)

	t.Run("no token clears the display", func(t *testing.T) {
		clock := newFakeClock(base)
		watcher, _, _, nav := newTestWatcher(t, clock)

		watcher.Tick()

		countdown, warning := watcher.Countdown()
		assert.Empty(t, countdown)
		assert.False(t, warning)
		assert.Empty(t, nav.Targets())
	})

	t.Run("outside the warning band", func(t *testing.T) {
		clock := newFakeClock(base)
		var expiring []int64
		watcher, store, _, _ := newTestWatcher(t, clock, WithOnExpiring(func(remaining int64) {
			expiring = append(expiring, remaining)
		}))
		token := mintToken(t, jwtgo.MapClaims{"sub": "u-1", "exp": clock.Now().Add(700 * time.Second).Unix()})
		store.SetSession(token, Identity{ID: "u-1"})

		watcher.Tick()

		countdown, warning := watcher.Countdown()
		assert.Equal(t, "11:40", countdown)
		assert.False(t, warning)
		assert.Empty(t, expiring)
	})

	t.Run("inside the warning band", func(t *testing.T) {
		clock := newFakeClock(base)
		var expiring []int64
		watcher, store, _, _ := newTestWatcher(t, clock, WithOnExpiring(func(remaining int64) {
			expiring = append(expiring, remaining)
		}))
		token := mintToken(t, jwtgo.MapClaims{"sub": "u-1", "exp": clock.Now().Add(300 * time.Second).Unix()})
		store.SetSession(token, Identity{ID: "u-1"})

		watcher.Tick()

		countdown, warning := watcher.Countdown()
		assert.Equal(t, "5:00", countdown)
		assert.True(t, warning)
		require.Len(t, expiring, 1)
		assert.Equal(t, int64(300), expiring[0])
	})

	t.Run("custom threshold", func(t *testing.T) {
		clock := newFakeClock(base)
		watcher, store, _, _ := newTestWatcher(t, clock, WithWarnThreshold(2*time.Minute))
		token := mintToken(t, jwtgo.MapClaims{"sub": "u-1", "exp": clock.Now().Add(300 * time.Second).Unix()})
		store.SetSession(token, Identity{ID: "u-1"})

		watcher.Tick()

		_, warning := watcher.Countdown()
		assert.False(t, warning)
	})

	t.Run("token without expiry shows no countdown", func(t *testing.T) {
		clock := newFakeClock(base)
		watcher, store, _, nav := newTestWatcher(t, clock)
		token := mintToken(t, jwtgo.MapClaims{"sub": "u-1"})
		store.SetSession(token, Identity{ID: "u-1"})

		watcher.Tick()

		countdown, warning := watcher.Countdown()
		assert.Empty(t, countdown)
		assert.False(t, warning)
		assert.Empty(t, nav.Targets())
	})

	t.Run("crossing expiry forces logout exactly once", func(t *testing.T) {
		clock := newFakeClock(base)
		watcher, store, controller, nav := newTestWatcher(t, clock)
		token := mintToken(t, jwtgo.MapClaims{"sub": "u-1", "exp": clock.Now().Add(time.Second).Unix()})
		store.SetSession(token, Identity{ID: "u-1"})
		controller.CheckToken()
		require.True(t, controller.Authenticated())

		clock.Advance(2 * time.Second)
		watcher.Tick()
		watcher.Tick()
		watcher.Tick()

		assert.Equal(t, []string{"/?expired=true"}, nav.Targets())
		assert.False(t, controller.Authenticated())
		assert.Empty(t, store.Token())
		countdown, warning := watcher.Countdown()
		assert.Empty(t, countdown)
		assert.False(t, warning)
	})
}

// The end-to-end shape: login, drift into the warning band, lapse, get
// thrown out with the expired marker.
func TestSessionLifecycleEndToEnd(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	store, _, jar := newTestStore(clock)
	validator := NewValidator()
	validator.now = clock.Now
	nav := &recordingNavigator{}
	controller := NewController(store, validator, nav, zap.NewNop(), Config{})
	watcher := NewWatcher(store, validator, controller, Config{})

	token := mintToken(t, jwtgo.MapClaims{
		"sub":    "u-1",
		"correo": "ana@beneficios.example",
		"exp":    clock.Now().Add(900 * time.Second).Unix(),
	})
	store.SetSession(token, Identity{ID: "u-1", Email: "ana@beneficios.example"})
	controller.CheckToken()
	watcher.Tick()

	snap := controller.Snapshot()
	require.True(t, snap.Authenticated)
	assert.GreaterOrEqual(t, snap.RemainingSeconds, int64(899))
	assert.LessOrEqual(t, snap.RemainingSeconds, int64(900))
	assert.False(t, snap.ExpiringSoon)

	clock.Advance(305 * time.Second)
	controller.CheckToken()
	watcher.Tick()
	assert.True(t, controller.ExpiringSoon())
	_, warning := watcher.Countdown()
	assert.True(t, warning)

	clock.Advance(600 * time.Second)
	watcher.Tick()
	assert.False(t, controller.Authenticated())
	assert.Empty(t, store.Token())
	_, ok := jar.Get(CookieName)
	assert.False(t, ok)
	assert.Equal(t, []string{"/?expired=true"}, nav.Targets())
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	clock := newFakeClock(time.Unix(1_700_000_000, 0))
	store, _, _ := newTestStore(clock)
	validator := NewValidator()
	validator.now = clock.Now
	controller := NewController(store, validator, nil, zap.NewNop(), Config{})
	watcher := NewWatcher(store, validator, controller, Config{TickInterval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher run loop did not stop on cancel")
	}
}
