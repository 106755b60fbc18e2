package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type State string

const (
	StateUninitialized   State = "uninitialized"
	StateChecking        State = "checking"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Navigator performs a full navigation to the given target, discarding all
// in-memory state on the way. A soft in-app transition is not enough here.
type Navigator interface {
	Navigate(target string)
}

type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// Snapshot is the derived session state handed to readers. It is recomputed,
// never stored; readers cannot write it back.
type Snapshot struct {
	State            State
	Authenticated    bool
	Identity         *Identity
	RemainingSeconds int64
	HasRemaining     bool
	ExpiringSoon     bool
}

// Controller is the single owner of session state. Two independent inputs
// feed it: the coarse poll (CheckToken, once per poll interval) and the fine
// watcher tick (ExpireNow, once a second while the countdown runs). Both
// mutate through the same lock, so neither can observe the other half-done.
//
// States move uninitialized → checking → authenticated|unauthenticated, and
// authenticated → unauthenticated on expiry or logout. Once signed out, the
// only way back is a fresh login writing new credentials into the store.
//
// Credentials live per process; another tab or process clearing its own copy
// is only noticed here on the next poll. That gap is accepted.
type Controller struct {
	store     *Store
	validator *Validator
	nav       Navigator
	logger    *zap.Logger
	cfg       Config

	mu           sync.Mutex
	state        State
	identity     *Identity
	remaining    int64
	hasRemaining bool
	expiringSoon bool
	expiryFired  bool
}

func NewController(store *Store, validator *Validator, nav Navigator, logger *zap.Logger, cfg Config) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		store:     store,
		validator: validator,
		nav:       nav,
		logger:    logger,
		cfg:       cfg.withDefaults(),
		state:     StateUninitialized,
		// No session yet: the expiring-soon flag defaults on, so any warning
		// surface fails safe until the first check says otherwise.
		expiringSoon: true,
	}
}

// CheckToken re-derives the verdict from the credential store. It is safe to
// call from any goroutine at any rate; each call is one atomic
// read-validate-update pass.
func (c *Controller) CheckToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateUninitialized {
		c.state = StateChecking
	}

	tokenValue := c.store.Token()
	if tokenValue == "" {
		c.becomeUnauthenticated()
		return
	}

	verdict := c.validator.Validate(tokenValue)
	if !verdict.Valid || verdict.Expired {
		c.store.Clear()
		c.becomeUnauthenticated()
		return
	}

	identity := verdict.Identity
	if cached, ok := c.store.Identity(); ok {
		identity = cached
	}
	c.state = StateAuthenticated
	c.identity = &identity
	c.remaining = verdict.RemainingSeconds
	c.hasRemaining = verdict.HasRemaining
	c.expiringSoon = verdict.HasRemaining && verdict.RemainingSeconds <= c.cfg.warnSeconds()
	c.expiryFired = false
}

// Logout clears the credential pair, resets derived state, and performs a
// full navigation to the login entry point.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.store.Clear()
	c.becomeUnauthenticated()
	c.mu.Unlock()
	c.logger.Info("session logged out")
	if c.nav != nil {
		c.nav.Navigate(c.cfg.LoginPath)
	}
}

// ExpireNow is the hard expiry path taken by the countdown watcher the
// instant a tick sees the boundary crossed. It fires at most once per
// authenticated session; ticks that keep arriving after the boundary are
// no-ops, so navigations cannot stack.
func (c *Controller) ExpireNow() {
	c.mu.Lock()
	if c.expiryFired {
		c.mu.Unlock()
		return
	}
	c.expiryFired = true
	c.store.Clear()
	c.becomeUnauthenticated()
	c.mu.Unlock()
	c.logger.Warn("session expired, forcing logout")
	if c.nav != nil {
		c.nav.Navigate(c.cfg.expiredTarget())
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		State:            c.state,
		Authenticated:    c.state == StateAuthenticated,
		RemainingSeconds: c.remaining,
		HasRemaining:     c.hasRemaining,
		ExpiringSoon:     c.expiringSoon,
	}
	if c.identity != nil {
		identity := *c.identity
		snap.Identity = &identity
	}
	return snap
}

func (c *Controller) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateAuthenticated
}

func (c *Controller) ExpiringSoon() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiringSoon
}

func (c *Controller) CurrentIdentity() (Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return Identity{}, false
	}
	return *c.identity, true
}

// Run drives the coarse re-validation pass until ctx is cancelled: one check
// immediately, then one per poll interval. The ticker is stopped on the way
// out; nothing fires after cancellation.
func (c *Controller) Run(ctx context.Context) {
	c.CheckToken()
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckToken()
		}
	}
}

// becomeUnauthenticated resets derived state. The expiring-soon flag stays
// on: absence of a session is the degenerate expiring-soon case.
func (c *Controller) becomeUnauthenticated() {
	c.state = StateUnauthenticated
	c.identity = nil
	c.remaining = 0
	c.hasRemaining = false
	c.expiringSoon = true
}
