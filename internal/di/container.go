package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/config"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/factory"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/httpapi"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/logging"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/proposal"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/scoring"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewGeneratorFactory); err != nil {
		return nil, err
	}

	// Register job source
	if err := container.Provide(func(f *factory.SourceFactory) core.JobSource {
		return f.CreateJobSource()
	}); err != nil {
		return nil, err
	}

	// Register response cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.ResponseCache, error) {
		return f.CreateResponseCache()
	}); err != nil {
		return nil, err
	}

	// Register proposal generator
	if err := container.Provide(func(f *factory.GeneratorFactory) (core.ProposalGenerator, error) {
		return f.CreateGenerator()
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register scoring engine
	if err := container.Provide(func() core.Scorer {
		return scoring.NewEngine()
	}); err != nil {
		return nil, err
	}

	// Register proposal synthesizer
	if err := container.Provide(func(
		generator core.ProposalGenerator,
		textProc *utils.TextProcessor,
		cfg *config.Config,
		logger *zap.Logger,
	) core.ProposalSynthesizer {
		return proposal.NewSynthesizer(generator, textProc, logger, cfg.GetInt("proposal.max_description_size"))
	}); err != nil {
		return nil, err
	}

	// Register tracker service
	if err := container.Provide(func(
		source core.JobSource,
		cache core.ResponseCache,
		scorer core.Scorer,
		synth core.ProposalSynthesizer,
		cfg *config.Config,
		logger *zap.Logger,
	) (*core.TrackerService, error) {
		ttl, err := cfg.GetDuration("cache.ttl")
		if err != nil {
			return nil, err
		}
		return core.NewTrackerService(source, cache, scorer, synth, logger, ttl), nil
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(cfg *config.Config, svc *core.TrackerService, logger *zap.Logger) *httpapi.Server {
		return httpapi.NewServer(cfg, svc, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
