package app

import (
	"context"
	"time"

	"talent-match/internal/backend"
	"talent-match/internal/cache"
	"talent-match/internal/config"
	"talent-match/internal/match/aggregate"
	"talent-match/internal/match/commute"
	"talent-match/internal/match/skills"
	"talent-match/internal/match/weights"
	"talent-match/internal/orchestrator"
	"talent-match/internal/prefstore"

	"go.uber.org/zap"
)

// Backend priorities. The router walks them descending, so the rich
// backend is always the first choice when eligible.
const (
	priorityRich      = 30
	prioritySecondary = 20
	priorityBasic     = 10
)

// Container wires the object graph. Every collaborator is optional
// except the local fallback backend, so a bare environment still
// serves matches.
type Container struct {
	Config       config.Config
	Logger       *zap.Logger
	Cache        cache.Cache
	Store        prefstore.Store
	Registry     *backend.Registry
	Prober       *backend.HealthProber
	Orchestrator *orchestrator.Orchestrator

	redisCache *cache.Redis
	pgStore    *prefstore.Postgres
}

func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: log}

	if r := cache.NewRedis(cfg.Cache, log); r != nil {
		c.redisCache = r
		c.Cache = r
	} else {
		log.Info("no redis endpoint configured, using in-memory cache")
		c.Cache = cache.NewMemory()
	}

	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pg, err := prefstore.Connect(ctx, cfg.Database)
		cancel()
		if err != nil {
			// The provider falls back to cold-start weights, so a
			// missing store is a degradation, not a startup failure.
			log.Warn("preference store unreachable, cold-start weights only", zap.Error(err))
		} else {
			c.pgStore = pg
			c.Store = pg
		}
	}
	if c.Store == nil {
		c.Store = prefstore.NewMemory()
	}

	weightProvider := weights.NewProvider(c.Store, cfg.Match.MinFeedbackForWarm, log)
	skillScorer := skills.NewScorer(cfg.Match.SkillDirectWeight, cfg.Match.SkillSemanticWeight)

	// The basic backend estimates commute locally; only the rich
	// backend consults the travel-time service.
	localCommute := commute.NewScorer(nil, cfg.Backends.CallTimeout, log)
	providerCommute := commute.NewScorer(
		commute.NewHTTPProvider(cfg.Backends.TravelTimeURL, cfg.Backends.CallTimeout),
		cfg.Backends.CallTimeout,
		log,
	)

	aggregator := aggregate.New(skillScorer, localCommute, cfg.Match.DealbreakerCeiling, cfg.Match.DefaultMaxCommuteMinutes)

	c.Registry = backend.NewRegistry()
	c.Registry.Register(backend.NewBasic(aggregator, weightProvider), priorityBasic)

	if secondary := backend.NewSecondary(cfg.Backends.ScoringServiceURL, cfg.Backends.CallTimeout, cfg.Match.DealbreakerCeiling); secondary != nil {
		c.Registry.Register(secondary, prioritySecondary)
	}

	if cfg.Backends.GeminiAPIKey != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		generator, err := backend.NewGeminiGenerator(ctx, cfg.Backends.GeminiAPIKey, cfg.Backends.GeminiModel)
		cancel()
		if err != nil {
			log.Warn("gemini client unavailable, rich backend disabled", zap.Error(err))
		} else {
			rich := backend.NewRich(generator, providerCommute, cfg.Match.DealbreakerCeiling, log)
			c.Registry.Register(rich, priorityRich)
		}
	}

	c.Prober = backend.NewHealthProber(c.Registry, cfg.Backends.ProbeInterval, cfg.Backends.CallTimeout, log)
	c.Orchestrator = orchestrator.New(
		c.Registry,
		weightProvider,
		c.Cache,
		cfg.Cache.TTL,
		cfg.Backends.CallTimeout,
		cfg.Backends.BatchConcurrency,
		log,
	)

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.pgStore != nil {
		c.pgStore.Close()
	}
	if c.redisCache != nil {
		return c.redisCache.Close()
	}
	return nil
}
