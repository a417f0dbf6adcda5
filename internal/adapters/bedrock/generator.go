// Package bedrock implements the proposal generator backend using Amazon
// Bedrock.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"
)

// Generator is a ProposalGenerator backed by Bedrock. Credentials come
// from the standard AWS chain; a missing credential surfaces as an API
// error on the first call.
type Generator struct {
	client      *bedrockruntime.Client
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewGenerator creates a new Bedrock generator for the given region and
// model.
func NewGenerator(ctx context.Context, region, modelID string, maxTokens int, temperature, topP float32, logger *zap.Logger) (*Generator, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Generator{
		client:      bedrockruntime.NewFromConfig(cfg),
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}, nil
}

func (g *Generator) isAnthropicModel() bool {
	return strings.Contains(g.modelID, "anthropic")
}

func (g *Generator) isTitanModel() bool {
	return strings.Contains(g.modelID, "titan")
}

// GenerateText sends the prompt and returns the raw completion text.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	var payload []byte
	var err error

	switch {
	case g.isAnthropicModel():
		payload, err = json.Marshal(map[string]any{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": g.maxTokens,
			"temperature":          g.temperature,
			"top_p":                g.topP,
		})
	case g.isTitanModel():
		payload, err = json.Marshal(map[string]any{
			"inputText": prompt,
			"textGenerationConfig": map[string]any{
				"maxTokenCount": g.maxTokens,
				"temperature":   g.temperature,
				"topP":          g.topP,
			},
		})
	default:
		payload, err = json.Marshal(map[string]any{
			"prompt":      prompt,
			"max_tokens":  g.maxTokens,
			"temperature": g.temperature,
			"top_p":       g.topP,
		})
	}
	if err != nil {
		return "", fmt.Errorf("marshal bedrock payload: %w", err)
	}

	resp, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return "", fmt.Errorf("invoke bedrock model: %w", err)
	}

	text, err := extractText(resp.Body)
	if err != nil {
		return "", err
	}

	g.logger.Debug("bedrock completion received",
		zap.String("model_id", g.modelID),
		zap.Int("length", len(text)))

	return text, nil
}

// extractText pulls the completion text out of the model-family specific
// response shape.
func extractText(body []byte) (string, error) {
	var response struct {
		Completion string `json:"completion"`
		Results    []struct {
			OutputText string `json:"outputText"`
		} `json:"results"`
		Generation string `json:"generation"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("decode bedrock response: %w", err)
	}

	switch {
	case response.Completion != "":
		return response.Completion, nil
	case len(response.Results) > 0:
		return response.Results[0].OutputText, nil
	case response.Generation != "":
		return response.Generation, nil
	default:
		return "", fmt.Errorf("bedrock response contained no text")
	}
}

// Model returns the configured model id.
func (g *Generator) Model() string {
	return g.modelID
}
