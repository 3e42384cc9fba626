// Package audit delivers memories and game events to storage without making
// the caller wait for the write. Queued records are published on an event bus
// where the storage writer is one subscriber.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-dialogue/internal/entities"
	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/memory"
)

//go:generate mockgen -destination=mock/mock_recorder.go -package=auditmock github.com/KirkDiggler/rpg-dialogue/internal/audit Recorder

const (
	DefaultQueueSize    = 256
	DefaultWriteTimeout = 5 * time.Second
)

// Recorder accepts audit records. Implementations must return quickly; an
// error means the record was dropped.
type Recorder interface {
	RecordMemory(ctx context.Context, memory *entities.Memory) error
	RecordEvent(ctx context.Context, event *entities.GameEvent) error
}

// Config configures the emitter. A nil Bus gets a private one.
type Config struct {
	Repository   memory.Repository
	Bus          events.EventBus
	QueueSize    int
	WriteTimeout time.Duration
}

// Validate ensures required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.QueueSize < 0 {
		vb.InvalidField("QueueSize", "must not be negative")
	}

	return vb.Build()
}

type record struct {
	ctx   context.Context
	event *busEvent
}

// Emitter queues records and publishes them from a single worker goroutine
type Emitter struct {
	repo    memory.Repository
	bus     events.EventBus
	subs    []string
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan record
	done   chan struct{}
}

var _ Recorder = (*Emitter)(nil)

// NewEmitter creates an emitter and starts its worker. Call Close to drain it.
func NewEmitter(cfg *Config) (*Emitter, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	size := cfg.QueueSize
	if size == 0 {
		size = DefaultQueueSize
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}

	bus := cfg.Bus
	if bus == nil {
		bus = events.NewBus()
	}

	e := &Emitter{
		repo:    cfg.Repository,
		bus:     bus,
		timeout: timeout,
		queue:   make(chan record, size),
		done:    make(chan struct{}),
	}
	e.subs = []string{
		bus.SubscribeFunc(EventMemoryRecorded, 0, e.saveMemory),
		bus.SubscribeFunc(EventGameRecorded, 0, e.saveEvent),
	}
	go e.run()
	return e, nil
}

// Bus is where queued records are published
func (e *Emitter) Bus() events.EventBus {
	return e.bus
}

// RecordMemory queues a memory write
func (e *Emitter) RecordMemory(ctx context.Context, m *entities.Memory) error {
	if m == nil {
		return errors.InvalidArgument("memory is required")
	}
	return e.enqueue(record{ctx: context.WithoutCancel(ctx), event: memoryEvent(m)})
}

// RecordEvent queues an event write
func (e *Emitter) RecordEvent(ctx context.Context, ev *entities.GameEvent) error {
	if ev == nil {
		return errors.InvalidArgument("event is required")
	}
	return e.enqueue(record{ctx: context.WithoutCancel(ctx), event: gameEvent(ev)})
}

func (e *Emitter) enqueue(r record) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return errors.FailedPrecondition("audit emitter is closed")
	}

	select {
	case e.queue <- r:
		return nil
	default:
		return errors.ResourceExhausted("audit queue is full")
	}
}

// Close stops accepting records and waits for queued ones to be written, or
// for ctx to end. The storage writer leaves the bus once drained.
func (e *Emitter) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return errors.FromContext(ctx.Err(), "audit queue not drained")
	}
}

func (e *Emitter) run() {
	defer close(e.done)

	for r := range e.queue {
		e.publish(r)
	}
	for _, id := range e.subs {
		if err := e.bus.Unsubscribe(id); err != nil {
			slog.Debug("Failed to unsubscribe audit writer", "subscription", id, "error", err)
		}
	}
}

func (e *Emitter) publish(r record) {
	ctx, cancel := context.WithTimeout(r.ctx, e.timeout)
	defer cancel()

	if err := e.bus.Publish(ctx, r.event); err != nil {
		slog.Warn("Failed to deliver audit record", "type", r.event.Type(), "error", err)
	}
}

func (e *Emitter) saveMemory(ctx context.Context, ev events.Event) error {
	m, ok := MemoryFrom(ev)
	if !ok {
		return nil
	}
	if err := e.repo.SaveMemory(ctx, m); err != nil {
		return errors.Wrapf(err, "failed to write %s memory for %s", m.Kind, m.NPCID)
	}
	return nil
}

func (e *Emitter) saveEvent(ctx context.Context, ev events.Event) error {
	g, ok := GameEventFrom(ev)
	if !ok {
		return nil
	}
	if err := e.repo.SaveEvent(ctx, g); err != nil {
		return errors.Wrapf(err, "failed to write %s event for %s", g.Type, g.PrimaryID)
	}
	return nil
}
