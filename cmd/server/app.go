package main

import (
	"context"
	"log/slog"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/config"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/engine/rules"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/orchestrators/npcimport"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/pkg/clock"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/pkg/idgen"
	redisclient "github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/redis"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/actor"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/repositories/library"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/services/resolver"
)

// app holds the wired components shared by the commands
type app struct {
	actors   actor.Repository
	library  library.Repository
	resolver resolver.Service
	importer npcimport.Service

	redis   redisclient.Client
	closers []func() error
}

// newApp wires the store, library, rules and orchestrator described by cfg
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	clk := clock.New()
	ids := idgen.NewUUID("")

	if cfg.Store.Backend == config.StoreRedis || cfg.Library.Source == config.LibraryRedis {
		client, err := a.redisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.redis = client
	}

	switch cfg.Store.Backend {
	case config.StoreMemory:
		a.actors = actor.NewInMemory(&actor.InMemoryConfig{IDGenerator: ids, Clock: clk})
	case config.StoreRedis:
		repo, err := actor.NewRedis(&actor.RedisConfig{Client: a.redis, Clock: clk, IDGenerator: ids})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create redis actor store")
		}
		a.actors = repo
	case config.StoreSQLite:
		repo, err := actor.NewSQLite(ctx, &actor.SQLiteConfig{Path: cfg.Store.SQLitePath, Clock: clk, IDGenerator: ids})
		if err != nil {
			return nil, errors.Wrap(err, "failed to open sqlite actor store")
		}
		a.actors = repo
		a.closers = append(a.closers, repo.Close)
	default:
		return nil, errors.InvalidArgumentf("unknown store backend %q", cfg.Store.Backend)
	}

	switch cfg.Library.Source {
	case config.LibraryDirectory:
		lib, err := library.NewDirectory(&library.DirectoryConfig{Dir: cfg.Library.Dir})
		if err != nil {
			return nil, errors.Wrap(err, "failed to load library")
		}
		a.library = lib
	case config.LibraryRedis:
		lib, err := library.NewRedis(&library.RedisConfig{Client: a.redis})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create redis library")
		}
		a.library = lib
	default:
		return nil, errors.InvalidArgumentf("unknown library source %q", cfg.Library.Source)
	}

	res, err := resolver.New(&resolver.Config{Library: a.library})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create resolver")
	}
	a.resolver = res

	eng, err := rules.NewAdapter(&rules.AdapterConfig{DefaultPolicy: cfg.ScalingPolicy()})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create rules engine")
	}

	a.importer, err = npcimport.NewOrchestrator(&npcimport.Config{
		ActorRepo:       a.actors,
		Resolver:        a.resolver,
		Engine:          eng,
		Clock:           clk,
		SettleDelay:     cfg.Import.SettleDelay,
		DefaultPortrait: cfg.Import.DefaultPortrait,
		DefaultScaling:  cfg.ScalingPolicy(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create import orchestrator")
	}

	slog.DebugContext(ctx, "Application wired",
		"store", cfg.Store.Backend,
		"library", cfg.Library.Source)

	ok = true
	return a, nil
}

func (a *app) redisClient(ctx context.Context, cfg *config.Config) (redisclient.Client, error) {
	client, err := redisclient.NewClient(cfg.Store.RedisAddr, &redisclient.Options{
		DB:       cfg.Store.RedisDB,
		Password: cfg.Store.RedisPassword,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid redis settings")
	}
	a.closers = append(a.closers, client.Close)

	if err := redisclient.Ping(ctx, client); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "redis is not reachable")
	}
	return client, nil
}

// Close releases the store connections
func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
