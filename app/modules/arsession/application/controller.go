package arsessionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	arsessiondomain "github.com/Black-And-White-Club/lensboard/app/modules/arsession/domain"
	"github.com/Black-And-White-Club/lensboard/app/observability/attr"
)

var (
	// ErrAlreadyStarted is returned by Start while a session is loading or live.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrStopped is returned by Start when Stop was called while loading.
	ErrStopped = errors.New("session stopped while loading")
)

// Controller drives the play flow: login, loading, then game or error.
type Controller struct {
	signIn SignInClient
	opener Opener
	logger *slog.Logger

	mu         sync.Mutex
	state      arsessiondomain.State
	message    string
	session    *LiveSession
	generation uint64
	// cancel aborts the in-flight Start.
	cancel context.CancelFunc
}

// NewController creates a Controller in the login state.
func NewController(signIn SignInClient, opener Opener, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		signIn: signIn,
		opener: opener,
		logger: logger,
		state:  arsessiondomain.StateLogin,
	}
}

// State returns the current step and, in the error state, its message.
func (c *Controller) State() (arsessiondomain.State, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.message
}

// Session returns the live session while in the game state.
func (c *Controller) Session() *LiveSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Start signs the guest in and opens the AR session.
func (c *Controller) Start(ctx context.Context, name, email string) error {
	c.mu.Lock()
	if c.state == arsessiondomain.StateLoading || c.state == arsessiondomain.StateGame {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.generation++
	gen := c.generation
	c.state = arsessiondomain.StateLoading
	c.message = ""
	c.cancel = cancel
	c.mu.Unlock()
	defer c.clearCancel(gen)

	token, err := c.signIn.SignIn(ctx, name, email)
	if err != nil {
		return c.fail(ctx, gen, fmt.Errorf("login error: %w", err))
	}

	live, err := c.opener.Open(ctx, token)
	if err != nil {
		return c.fail(ctx, gen, err)
	}

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		if err := live.Close(); err != nil {
			c.logger.WarnContext(ctx, "Release of abandoned session failed", attr.Error(err))
		}
		return ErrStopped
	}
	c.session = live
	c.state = arsessiondomain.StateGame
	c.mu.Unlock()
	return nil
}

// Stop tears the session down and returns to the login state. A Start
// still loading is cancelled and releases whatever it acquired.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	live := c.session
	c.session = nil
	c.generation++
	c.state = arsessiondomain.StateLogin
	c.message = ""
	c.mu.Unlock()

	if live == nil {
		return nil
	}
	return live.Close()
}

func (c *Controller) clearCancel(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.cancel = nil
	}
}

func (c *Controller) fail(ctx context.Context, gen uint64, err error) error {
	c.logger.WarnContext(ctx, "AR session failed to start",
		attr.ExtractCorrelationID(ctx),
		attr.Error(err),
	)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return ErrStopped
	}
	c.state = arsessiondomain.StateError
	c.message = errorMessage(err)
	return err
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, arsessiondomain.ErrCameraUnavailable):
		return "Camera Error: " + err.Error()
	case errors.Is(err, arsessiondomain.ErrMissingLensConfig):
		return "Lens is not configured"
	default:
		return err.Error()
	}
}
