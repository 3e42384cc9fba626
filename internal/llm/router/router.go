// Package router picks a generation backend for each request, falling back to
// canned replies when none can answer.
package router

//go:generate mockgen -destination=mock/mock_service.go -package=routermock github.com/KirkDiggler/rpg-dialogue/internal/llm/router Service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dialogue/internal/telemetry"
)

const (
	// DefaultRetryDelay is multiplied by the attempt number between retries
	DefaultRetryDelay = time.Second

	// DefaultProbeTimeout bounds a single availability probe
	DefaultProbeTimeout = 5 * time.Second
)

// Service routes generation requests across backends
type Service interface {
	// Generate tries each usable backend once within req.Timeout and returns
	// a canned reply when all fail. It only errors when ctx is done.
	Generate(ctx context.Context, req *llm.Request) (*llm.Result, error)

	// GenerateWithRetry repeats Generate while it yields a canned reply
	GenerateWithRetry(ctx context.Context, req *llm.Request, maxRetries int) (*llm.Result, error)

	// SetPreferred pins a backend by case-insensitive name; empty clears it
	SetPreferred(name string) error

	// Preferred returns the pinned backend name, if any
	Preferred() string

	// RefreshAvailability re-probes every backend now
	RefreshAvailability(ctx context.Context)

	// Status reports the cached state of every backend without probing
	Status(ctx context.Context) []*ProviderStatus
}

// ProviderStatus describes one backend
type ProviderStatus struct {
	Name      string
	Priority  int
	Model     string
	State     llm.State
	CheckedAt time.Time
	Preferred bool
	LastError string
}

// Config holds the dependencies for the router
type Config struct {
	Providers    []llm.Provider
	Clock        clock.Clock
	RetryDelay   time.Duration
	ProbeTimeout time.Duration
}

// Validate ensures the backends are usable. An empty set is allowed.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	seen := make(map[string]bool, len(c.Providers))
	for i, p := range c.Providers {
		if p == nil {
			vb.Fieldf("Providers", "entry %d is nil", i)
			continue
		}
		key := strings.ToLower(p.Name())
		if key == "" {
			vb.Fieldf("Providers", "entry %d has no name", i)
			continue
		}
		if seen[key] {
			vb.Fieldf("Providers", "duplicate name %q", p.Name())
		}
		seen[key] = true
	}
	if c.RetryDelay < 0 {
		vb.InvalidField("RetryDelay", "must not be negative")
	}

	return vb.Build()
}

type entry struct {
	provider llm.Provider
	cache    *llm.AvailabilityCache
}

type router struct {
	entries      []*entry
	clock        clock.Clock
	retryDelay   time.Duration
	probeTimeout time.Duration

	mu        sync.RWMutex
	preferred *entry
}

// New creates a router over the configured backends
func New(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = DefaultRetryDelay
	}
	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}

	r := &router{
		clock:        clk,
		retryDelay:   retryDelay,
		probeTimeout: probeTimeout,
	}
	for _, p := range cfg.Providers {
		r.entries = append(r.entries, &entry{
			provider: p,
			cache:    llm.NewAvailabilityCache(p.ProbeInterval(), clk),
		})
		slog.Debug("Registered generation backend", "name", p.Name(), "priority", p.Priority())
	}
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].provider.Priority() < r.entries[j].provider.Priority()
	})

	return r, nil
}

func (r *router) Generate(ctx context.Context, req *llm.Request) (*llm.Result, error) {
	if req == nil {
		return nil, errors.InvalidArgument("request is required")
	}
	req = req.WithDefaults()

	ctx, span := telemetry.Tracer().Start(ctx, "router.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("dialogue.npc_id", req.NPCID),
		attribute.String("dialogue.kind", req.Kind),
	)

	if len(r.entries) == 0 {
		slog.Error("No generation backends configured")
		span.SetAttributes(attribute.Bool("llm.fallback", true))
		return Fallback(CategoryNoProvider), nil
	}

	// One budget covers probing and generation across every candidate
	budget, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	category := CategoryError
	for _, e := range r.candidates() {
		if err := ctx.Err(); err != nil {
			return nil, errors.FromContext(err, "generation canceled")
		}
		if budget.Err() != nil {
			category = CategoryTimeout
			break
		}

		name := e.provider.Name()
		if !e.cache.Check(budget, r.probeFunc(e)) {
			if err := ctx.Err(); err != nil {
				return nil, errors.FromContext(err, "generation canceled")
			}
			if budget.Err() != nil {
				slog.Warn("Request timed out while probing backends", "provider", name, "timeout", req.Timeout)
				category = CategoryTimeout
				break
			}
			slog.Debug("Backend unavailable, trying next", "provider", name)
			continue
		}

		res, err := r.attempt(ctx, budget, e, req)
		if err == nil {
			slog.Debug("Generation succeeded",
				"provider", res.Provider,
				"model", res.Model,
				"elapsed", res.Elapsed,
				"tokens", res.TotalTokens())
			span.SetAttributes(
				attribute.String("llm.provider", res.Provider),
				attribute.String("llm.model", res.Model),
				attribute.Int("llm.prompt_tokens", res.PromptTokens),
				attribute.Int("llm.completion_tokens", res.CompletionTokens),
			)
			return res, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			span.SetStatus(otelcodes.Error, "canceled")
			return nil, errors.FromContext(ctxErr, "generation canceled")
		}

		switch {
		case errors.IsDeadlineExceeded(err):
			category = CategoryTimeout
		case errors.IsUnavailable(err):
			category = CategoryError
			e.cache.Record(err)
		default:
			category = CategoryError
		}
		slog.Warn("Backend generation failed", "provider", name, "error", err)
	}

	slog.Error("All generation backends failed, using fallback", "category", category)
	span.SetAttributes(attribute.Bool("llm.fallback", true), attribute.String("llm.fallback_category", string(category)))
	return Fallback(category), nil
}

type attemptResult struct {
	res *llm.Result
	err error
}

// attempt runs one backend under what is left of the request budget. The
// caller is released as soon as the budget runs out even if the backend keeps
// running.
func (r *router) attempt(ctx, budget context.Context, e *entry, req *llm.Request) (*llm.Result, error) {
	start := r.clock.Now()
	done := make(chan attemptResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				slog.Error("Backend panicked during generation", "provider", e.provider.Name(), "panic", p)
				done <- attemptResult{err: errors.Internalf("backend %s panicked: %v", e.provider.Name(), p)}
			}
		}()
		res, err := e.provider.Generate(budget, req)
		done <- attemptResult{res: res, err: err}
	}()

	var out attemptResult
	select {
	case out = <-done:
	case <-budget.Done():
		if ctx.Err() != nil {
			return nil, errors.FromContext(ctx.Err(), "generation canceled")
		}
		return nil, errors.DeadlineExceeded("request timed out")
	}

	if out.err != nil {
		if budget.Err() != nil && ctx.Err() == nil {
			return nil, errors.WrapWithCode(out.err, errors.CodeDeadlineExceeded, "request timed out")
		}
		return nil, out.err
	}
	if out.res == nil || !out.res.Success {
		msg := "backend returned no result"
		if out.res != nil && out.res.Error != "" {
			msg = out.res.Error
		}
		return nil, errors.Internal(msg)
	}

	res := *out.res
	if res.Provider == "" {
		res.Provider = e.provider.Name()
	}
	if res.Model == "" {
		res.Model = e.provider.Model()
	}
	if res.Elapsed == 0 {
		res.Elapsed = r.clock.Now().Sub(start)
	}
	return &res, nil
}

// probeFunc bounds a probe by ProbeTimeout and by ctx, whichever ends first,
// and returns at that point even if the backend ignores its context
func (r *router) probeFunc(e *entry) func(context.Context) error {
	return func(ctx context.Context) error {
		pctx, cancel := context.WithTimeout(ctx, r.probeTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- e.provider.Probe(pctx)
		}()

		select {
		case err := <-done:
			return err
		case <-pctx.Done():
			return errors.FromContext(pctx.Err(), "availability probe timed out")
		}
	}
}

func (r *router) GenerateWithRetry(ctx context.Context, req *llm.Request, maxRetries int) (*llm.Result, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	var last *llm.Result
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			slog.Debug("Retrying generation", "attempt", attempt, "max_retries", maxRetries)
			if err := sleep(ctx, time.Duration(attempt)*r.retryDelay); err != nil {
				return nil, errors.FromContext(err, "generation canceled")
			}
		}

		res, err := r.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		last = res
		if res.Success && !res.IsFallback {
			return res, nil
		}
	}

	return last, nil
}

func (r *router) SetPreferred(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		r.preferred = nil
		return nil
	}
	for _, e := range r.entries {
		if strings.EqualFold(e.provider.Name(), name) {
			r.preferred = e
			slog.Info("Preferred backend set", "provider", e.provider.Name())
			return nil
		}
	}
	return errors.NotFoundf("backend %s not found", name)
}

func (r *router) Preferred() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.preferred == nil {
		return ""
	}
	return r.preferred.provider.Name()
}

func (r *router) RefreshAvailability(ctx context.Context) {
	var wg sync.WaitGroup
	for _, e := range r.entries {
		wg.Add(1)
		go func(e *entry) {
			defer wg.Done()
			e.cache.Invalidate()
			available := e.cache.Check(ctx, r.probeFunc(e))
			slog.Debug("Backend probed", "provider", e.provider.Name(), "available", available)
		}(e)
	}
	wg.Wait()
}

func (r *router) Status(_ context.Context) []*ProviderStatus {
	preferred := r.Preferred()

	out := make([]*ProviderStatus, 0, len(r.entries))
	for _, e := range r.entries {
		st := &ProviderStatus{
			Name:      e.provider.Name(),
			Priority:  e.provider.Priority(),
			Model:     e.provider.Model(),
			State:     e.cache.State(),
			CheckedAt: e.cache.CheckedAt(),
			Preferred: preferred != "" && strings.EqualFold(preferred, e.provider.Name()),
		}
		if err := e.cache.LastError(); err != nil {
			st.LastError = err.Error()
		}
		out = append(out, st)
	}
	return out
}

// candidates lists the pinned backend first, then the rest by priority
func (r *router) candidates() []*entry {
	r.mu.RLock()
	preferred := r.preferred
	r.mu.RUnlock()

	out := make([]*entry, 0, len(r.entries))
	if preferred != nil {
		out = append(out, preferred)
	}
	for _, e := range r.entries {
		if e != preferred {
			out = append(out, e)
		}
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
