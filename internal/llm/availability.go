package llm

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/clock"
)

// State is the cached reachability of a backend
type State int

// Availability states
const (
	StateUnknown State = iota
	StateAvailable
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// AvailabilityCache remembers the last probe of one backend for a window
type AvailabilityCache struct {
	mu        sync.Mutex
	clock     clock.Clock
	ttl       time.Duration
	state     State
	checkedAt time.Time
	lastErr   error

	probing singleflight.Group
}

// NewAvailabilityCache creates a cache in the Unknown state
func NewAvailabilityCache(ttl time.Duration, clk clock.Clock) *AvailabilityCache {
	if clk == nil {
		clk = clock.New()
	}
	return &AvailabilityCache{clock: clk, ttl: ttl}
}

// Cached returns the state and whether it is still within the window
func (c *AvailabilityCache) Cached() (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state, c.freshLocked()
}

// State returns the last recorded state regardless of age
func (c *AvailabilityCache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// LastError is the error from the most recent failed probe
func (c *AvailabilityCache) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastErr
}

// CheckedAt is when the state was last recorded
func (c *AvailabilityCache) CheckedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.checkedAt
}

// Record stores a probe outcome
func (c *AvailabilityCache) Record(err error) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checkedAt = c.clock.Now()
	c.lastErr = err
	if err != nil {
		c.state = StateUnavailable
	} else {
		c.state = StateAvailable
	}
	return c.state
}

// Invalidate forces the next Check to probe
func (c *AvailabilityCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checkedAt = time.Time{}
}

// Check returns the cached answer inside the window and probes otherwise.
// Concurrent callers share one probe. A probe cut short by ctx is not
// recorded, and a caller is released as soon as its ctx is done.
func (c *AvailabilityCache) Check(ctx context.Context, probe func(context.Context) error) bool {
	if state, fresh := c.Cached(); fresh {
		return state == StateAvailable
	}
	if ctx.Err() != nil {
		return false
	}

	ch := c.probing.DoChan("probe", func() (any, error) {
		err := probe(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return StateUnknown, ctxErr
		}
		return c.Record(err), nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return false
		}
		return res.Val.(State) == StateAvailable
	case <-ctx.Done():
		return false
	}
}

func (c *AvailabilityCache) freshLocked() bool {
	if c.state == StateUnknown || c.checkedAt.IsZero() {
		return false
	}
	return c.clock.Now().Sub(c.checkedAt) < c.ttl
}
