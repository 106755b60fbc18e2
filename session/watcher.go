package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Watcher is the fine-grained countdown loop: once per tick interval it
// re-validates the stored token, refreshes the displayed countdown, raises
// the low-time warning, and enforces the expiry boundary. The coarse
// controller poll may lag a full interval behind a token lapsing; the
// watcher may not, which makes it the authoritative enforcer.
//
// Mounting it without a token is fine: ticks simply clear the display until
// credentials appear.
type Watcher struct {
	store      *Store
	validator  *Validator
	controller *Controller
	threshold  time.Duration
	interval   time.Duration
	onExpiring func(remainingSeconds int64)

	mu        sync.RWMutex
	countdown string
	warning   bool
}

type WatcherOption func(*Watcher)

// WithOnExpiring registers a callback invoked on every tick that lands at or
// under the warning threshold.
func WithOnExpiring(fn func(remainingSeconds int64)) WatcherOption {
	return func(w *Watcher) { w.onExpiring = fn }
}

func WithWarnThreshold(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.threshold = d
		}
	}
}

func NewWatcher(store *Store, validator *Validator, controller *Controller, cfg Config, opts ...WatcherOption) *Watcher {
	cfg = cfg.withDefaults()
	w := &Watcher{
		store:      store,
		validator:  validator,
		controller: controller,
		threshold:  cfg.WarnThreshold,
		interval:   cfg.TickInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Tick runs one pass: read, validate, display, warn, enforce. Exported so a
// caller that owns its own clock can drive the watcher directly.
func (w *Watcher) Tick() {
	tokenValue := w.store.Token()
	if tokenValue == "" {
		w.setDisplay("", false)
		return
	}

	verdict := w.validator.Validate(tokenValue)
	if verdict.Expired {
		w.setDisplay("", false)
		w.controller.ExpireNow()
		return
	}
	if !verdict.Valid || !verdict.HasRemaining {
		w.setDisplay("", false)
		return
	}

	warning := verdict.RemainingSeconds <= int64(w.threshold/time.Second)
	w.setDisplay(FormatCountdown(verdict.RemainingSeconds), warning)
	if warning && w.onExpiring != nil {
		w.onExpiring(verdict.RemainingSeconds)
	}
}

// Countdown returns the formatted remaining time and whether the warning
// band has been reached. Empty when there is nothing to count down.
func (w *Watcher) Countdown() (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.countdown, w.warning
}

// Run ticks until ctx is cancelled. The ticker is stopped deterministically;
// no callback fires after cancellation.
func (w *Watcher) Run(ctx context.Context) {
	w.Tick()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Tick()
		}
	}
}

func (w *Watcher) setDisplay(countdown string, warning bool) {
	w.mu.Lock()
	w.countdown = countdown
	w.warning = warning
	w.mu.Unlock()
}

// FormatCountdown renders whole seconds as m:ss for the countdown banner.
func FormatCountdown(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
