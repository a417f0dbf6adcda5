package factory

import (
	"go.uber.org/zap"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/adapters/apify"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/config"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
)

// SourceFactory creates job sources
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new job source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateJobSource creates the Apify-backed job source from configuration
func (f *SourceFactory) CreateJobSource() core.JobSource {
	apifyCfg := f.cfg.GetApify()
	return apify.NewClient(
		apifyCfg.BaseURL,
		apifyCfg.Token,
		apifyCfg.ActorID,
		apifyCfg.PollInterval,
		apifyCfg.MaxPollAttempts,
		f.logger,
	)
}
