package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-dialogue/internal/actions"
	"github.com/KirkDiggler/rpg-dialogue/internal/audit"
	"github.com/KirkDiggler/rpg-dialogue/internal/config"
	"github.com/KirkDiggler/rpg-dialogue/internal/engine/d20"
	"github.com/KirkDiggler/rpg-dialogue/internal/engine/modifier"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/providers/lmstudio"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/providers/ollama"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/providers/openaicompat"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/router"
	"github.com/KirkDiggler/rpg-dialogue/internal/orchestrators/dialogue"
	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dialogue/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-dialogue/internal/redis"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/conversation"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/memory"
	"github.com/KirkDiggler/rpg-dialogue/internal/repositories/world"
	"github.com/KirkDiggler/rpg-dialogue/internal/services/charactersheet"
	"github.com/KirkDiggler/rpg-dialogue/internal/telemetry"
)

const serviceName = "rpg-dialogue"

// app holds the wired dependency graph shared by the subcommands
type app struct {
	cfg          *config.Config
	router       router.Service
	world        world.Repository
	orchestrator dialogue.Service

	closers []func(context.Context) error
}

func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, config.LogFormatJSON) {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// newProviders builds the enabled generation backends
func newProviders(cfg *config.Config) ([]llm.Provider, error) {
	var providers []llm.Provider

	if cfg.LMStudio.Enabled {
		p, err := lmstudio.New(&lmstudio.Config{
			BaseURL: cfg.LMStudio.URL,
			Model:   cfg.LMStudio.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create LM Studio backend: %w", err)
		}
		providers = append(providers, p)
	}

	if cfg.Ollama.Enabled {
		p, err := ollama.New(&ollama.Config{
			BaseURL: cfg.Ollama.URL,
			Model:   cfg.Ollama.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama backend: %w", err)
		}
		providers = append(providers, p)
	}

	p, err := openaicompat.New(&openaicompat.Config{
		Preset:  cfg.API.Preset,
		BaseURL: cfg.API.URL,
		APIKey:  cfg.API.Key,
		Model:   cfg.API.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API backend: %w", err)
	}
	providers = append(providers, p)

	return providers, nil
}

func newRouter(cfg *config.Config, clk clock.Clock) (router.Service, error) {
	providers, err := newProviders(cfg)
	if err != nil {
		return nil, err
	}

	r, err := router.New(&router.Config{
		Providers: providers,
		Clock:     clk,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}
	return r, nil
}

func loadWorld(cfg *config.Config) (*world.InMemoryRepository, error) {
	seed := world.DemoSeed()
	if cfg.WorldPath != "" {
		loaded, err := world.LoadSeedFile(cfg.WorldPath)
		if err != nil {
			return nil, err
		}
		seed = loaded
	} else {
		slog.Info("No world seed configured, using demo world")
	}

	return world.NewInMemory(seed)
}

// newApp wires every component. Call Close to release what was opened.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}
	clk := clock.New()

	shutdown, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}
	a.closers = append(a.closers, shutdown)

	w, err := loadWorld(cfg)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to load world: %w", err)
	}
	a.world = w

	store, err := memory.NewSQLite(ctx, &memory.Config{
		Path:        cfg.SQLitePath,
		Clock:       clk,
		IDGenerator: idgen.NewUUID("mem"),
	})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to open memory store: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })

	bus := events.NewBus()
	bus.SubscribeFunc(audit.EventGameRecorded, 10, logGameEvent)

	emitter, err := audit.NewEmitter(&audit.Config{Repository: store, Bus: bus})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create audit emitter: %w", err)
	}
	// Drains before the store closes
	a.closers = append(a.closers, emitter.Close)

	redisClient, err := redis.NewClient(cfg.RedisAddr, &redis.Options{
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return redisClient.Close() })
	if err := redis.Ping(ctx, redisClient); err != nil {
		slog.Warn("Conversation history disabled until redis is reachable", "addr", cfg.RedisAddr, "error", err)
	}

	turns, err := conversation.NewRedisRepository(&conversation.Config{
		Client: redisClient,
		Clock:  clk,
		TTL:    cfg.TurnTTL,
	})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create conversation store: %w", err)
	}

	a.router, err = newRouter(cfg, clk)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	sheets, err := charactersheet.New(&charactersheet.Config{World: w})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create character sheet service: %w", err)
	}

	registry, err := actions.NewRegistry(&actions.Config{World: w, Recorder: emitter})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create action registry: %w", err)
	}

	calculator, err := modifier.NewCalculator(&modifier.Config{World: w})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create modifier calculator: %w", err)
	}

	resolver, err := d20.NewResolver(&d20.Config{
		Roller:     dice.DefaultRoller,
		Calculator: calculator,
	})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create dice resolver: %w", err)
	}

	g := cfg.Generation
	a.orchestrator, err = dialogue.NewOrchestrator(&dialogue.Config{
		Router:      a.router,
		Registry:    registry,
		Resolver:    resolver,
		World:       w,
		Sheets:      sheets,
		Turns:       turns,
		Memories:    store,
		Recorder:    emitter,
		Clock:       clk,
		IDGenerator: idgen.NewUUID("conv"),
		Generation: dialogue.Generation{
			MaxTokens:   g.MaxTokens,
			Temperature: g.Temperature,
			TopP:        g.TopP,
			Timeout:     g.Timeout,
			MaxRetries:  g.MaxRetries,
			MaxHistory:  g.MaxHistory,
			MaxMemories: g.MaxMemories,
		},
	})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to create dialogue orchestrator: %w", err)
	}

	return a, nil
}

func logGameEvent(_ context.Context, e events.Event) error {
	if ev, ok := audit.GameEventFrom(e); ok {
		slog.Debug("Game event",
			"type", ev.Type,
			"primary_id", ev.PrimaryID,
			"secondary_id", ev.SecondaryID,
			"description", ev.Description)
	}
	return nil
}

// Close releases resources in reverse order of acquisition
func (a *app) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			slog.Warn("Shutdown step failed", "error", err)
		}
	}
	a.closers = nil
}
