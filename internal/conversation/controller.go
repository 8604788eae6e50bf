package conversation

import (
	"context"
	"errors"
	"sync"

	"agronomo-ia/internal/tavus"

	"github.com/rs/zerolog/log"
)

var errEmptyConversation = errors.New("starter returned no conversation")

// Starter creates a remote conversation for one attempt.
type Starter interface {
	Create(ctx context.Context, opts tavus.ConversationOptions) (*tavus.Conversation, error)
}

// Observer receives every snapshot in transition order. It runs with the
// controller lock held and must not call back into the controller.
type Observer func(Snapshot)

// Controller drives idle -> loading -> connected|error and back to idle on
// Leave. One controller belongs to exactly one page connection.
type Controller struct {
	starter   Starter
	observers []Observer

	mu   sync.Mutex
	snap Snapshot
}

func NewController(starter Starter, observers ...Observer) *Controller {
	return &Controller{
		starter:   starter,
		observers: observers,
		snap:      Snapshot{State: StateIdle},
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Start begins an attempt from idle or error and blocks until it resolves.
// A start while loading returns ErrAttemptInFlight without contacting the
// starter. Starter failures never escape: they become StateError and the
// returned error is nil.
func (c *Controller) Start(ctx context.Context, opts tavus.ConversationOptions) (Snapshot, error) {
	c.mu.Lock()
	switch c.snap.State {
	case StateLoading:
		snap := c.snap
		c.mu.Unlock()
		return snap, ErrAttemptInFlight
	case StateConnected:
		snap := c.snap
		c.mu.Unlock()
		return snap, ErrInvalidTransition
	}
	c.setLocked(Snapshot{State: StateLoading})
	c.mu.Unlock()

	conv, err := c.starter.Create(ctx, opts)
	if err == nil && conv == nil {
		err = errEmptyConversation
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		log.Debug().Err(err).Str("kind", string(tavus.KindOf(err))).Msg("conversation attempt failed")
		c.setLocked(Snapshot{State: StateError, Error: UserMessage(err)})
		return c.snap, nil
	}
	c.setLocked(Snapshot{
		State:           StateConnected,
		ConversationURL: conv.ConversationURL,
		ConversationID:  conv.ConversationID,
	})
	return c.snap, nil
}

// Leave resets connected or error back to idle. The remote session is left
// to expire on its own; nothing is sent upstream.
func (c *Controller) Leave() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.snap.State {
	case StateIdle:
		return c.snap, nil
	case StateLoading:
		return c.snap, ErrInvalidTransition
	}
	c.setLocked(Snapshot{State: StateIdle})
	return c.snap, nil
}

func (c *Controller) setLocked(next Snapshot) {
	c.snap = next
	for _, obs := range c.observers {
		obs(next)
	}
}
