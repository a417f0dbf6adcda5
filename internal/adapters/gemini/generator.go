// Package gemini implements the proposal generator backend using Google
// Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
)

// Generator is a ProposalGenerator backed by Gemini. The underlying client
// is created lazily on first use so a missing credential surfaces at call
// time, not at startup.
type Generator struct {
	apiKey      string
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger

	once    sync.Once
	client  *genai.Client
	model   *genai.GenerativeModel
	initErr error
}

// NewGenerator creates a new Gemini generator.
func NewGenerator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		apiKey:      apiKey,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

func (g *Generator) init(ctx context.Context) error {
	g.once.Do(func() {
		client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
		if err != nil {
			g.initErr = fmt.Errorf("create gemini client: %w", err)
			return
		}
		model := client.GenerativeModel(g.modelName)
		model.SetTemperature(g.temperature)
		model.SetTopP(g.topP)
		model.SetMaxOutputTokens(int32(g.maxTokens))

		g.client = client
		g.model = model
	})
	return g.initErr
}

// GenerateText sends the prompt and returns the concatenated text parts of
// the first candidate.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini: %w", core.ErrMissingCredential)
	}
	if err := g.init(ctx); err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	g.logger.Debug("gemini completion received",
		zap.String("model", g.modelName),
		zap.Int("length", b.Len()))

	return b.String(), nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	return g.modelName
}

// Close closes the underlying client if it was created.
func (g *Generator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
