package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/adapters/bedrock"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/adapters/gemini"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/adapters/openai"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/config"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
)

// GeneratorFactory creates proposal generators
type GeneratorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewGeneratorFactory creates a new generator factory
func NewGeneratorFactory(cfg *config.Config, logger *zap.Logger) *GeneratorFactory {
	return &GeneratorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates a proposal generator based on the configuration
func (f *GeneratorFactory) CreateGenerator() (core.ProposalGenerator, error) {
	provider := f.cfg.GetLLM().Provider

	switch provider {
	case "openai":
		c := f.cfg.GetOpenAI()
		return openai.NewGenerator(c.APIKey, c.ModelName, c.MaxTokens, c.Temperature, c.TopP, f.logger), nil
	case "gemini":
		c := f.cfg.GetGemini()
		return gemini.NewGenerator(c.APIKey, c.ModelName, c.MaxTokens, c.Temperature, c.TopP, f.logger), nil
	case "bedrock":
		c := f.cfg.GetBedrock()
		return bedrock.NewGenerator(context.Background(), c.Region, c.ModelID, c.MaxTokens, c.Temperature, c.TopP, f.logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
