package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/propman/internal/client/client"
	"github.com/dmitrijs2005/propman/internal/client/models"
	"github.com/dmitrijs2005/propman/internal/client/tokenstore"
	"github.com/dmitrijs2005/propman/internal/logging"
)

// ErrTokenNotCleared is returned by Logout when the user was signed out but
// the persisted token could not be removed.
var ErrTokenNotCleared = errors.New("stored token not cleared")

// State is a snapshot of the session.
type State struct {
	User  models.UserProfile
	Ready bool
}

// Authenticated reports whether a user is present.
func (s State) Authenticated() bool {
	return s.User != nil
}

type Controller struct {
	api    client.Client
	tokens tokenstore.Store
	logger logging.Logger

	mu    sync.RWMutex
	user  models.UserProfile
	ready bool
	// epoch counts login, register and logout commits. Start uses it to
	// drop a /me result that raced with one of them.
	epoch uint64
	// clearPending is set when Logout could not remove the stored token.
	clearPending bool

	startOnce sync.Once
	readyCh   chan struct{}
}

func New(api client.Client, tokens tokenstore.Store, logger logging.Logger) *Controller {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Controller{
		api:     api,
		tokens:  tokens,
		logger:  logger.With("module", "session"),
		readyCh: make(chan struct{}),
	}
}

// Start performs startup token resolution. Only the first call does any work;
// later calls return immediately. Ready is true when Start returns.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		c.resolve(ctx)

		c.mu.Lock()
		c.ready = true
		c.mu.Unlock()
		close(c.readyCh)
	})
}

func (c *Controller) resolve(ctx context.Context) {
	c.mu.Lock()
	epoch := c.epoch
	if c.clearPending {
		// A token left behind by a failed logout is never resumed.
		if err := c.tokens.Clear(ctx); err != nil {
			c.logger.Error(ctx, "clear token left by logout", "error", err)
		} else {
			c.clearPending = false
		}
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	token, err := c.tokens.Get(ctx)
	if err != nil {
		c.logger.Warn(ctx, "read stored token", "error", err)
		return
	}
	if token == "" {
		c.logger.Debug(ctx, "no stored token")
		return
	}

	user, err := c.api.Me(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		c.logger.Debug(ctx, "session changed during startup, discarding /me result")
		return
	}
	if err != nil {
		c.logger.Info(ctx, "stored token rejected, clearing", "error", err)
		if cerr := c.tokens.Clear(ctx); cerr != nil {
			c.logger.Error(ctx, "clear token", "error", cerr)
		}
		c.user = nil
		return
	}
	c.user = user
}

// Ready is closed once startup resolution has finished.
func (c *Controller) Ready() <-chan struct{} {
	return c.readyCh
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{User: c.user, Ready: c.ready}
}

// User returns the current profile, or nil when logged out.
func (c *Controller) User() models.UserProfile {
	return c.State().User
}

// Login authenticates without attaching any stored token. API errors are
// returned unchanged and leave the session as it was.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return c.commit(ctx, resp)
}

// Register creates an account and signs in with the returned token.
func (c *Controller) Register(ctx context.Context, name, email, password string) error {
	resp, err := c.api.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	return c.commit(ctx, resp)
}

func (c *Controller) commit(ctx context.Context, resp *models.AuthResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.tokens.Set(ctx, resp.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	c.clearPending = false
	c.user = resp.User
	if c.user == nil {
		c.user = models.UserProfile{}
	}
	c.epoch++
	c.logger.Info(ctx, "signed in", "user", c.user.DisplayName())
	return nil
}

// Logout forgets the token and the user. It makes no network call.
// The user is cleared even when the token store fails; the error then wraps
// ErrTokenNotCleared and the clear is retried by Start and by the next Logout.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = nil
	c.epoch++
	if err := c.tokens.Clear(ctx); err != nil {
		c.clearPending = true
		return fmt.Errorf("%w: %w", ErrTokenNotCleared, err)
	}
	c.clearPending = false
	c.logger.Info(ctx, "signed out")
	return nil
}
