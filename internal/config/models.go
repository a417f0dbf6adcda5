package config

import "time"

// ApifyConfig represents the configuration for the Apify job source
type ApifyConfig struct {
	BaseURL         string
	Token           string
	ActorID         string
	PollInterval    time.Duration
	MaxPollAttempts int
}

// LLMConfig represents the configuration for the generative provider
type LLMConfig struct {
	Provider string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	ListenAddress string
	CORSOrigins   []string
}

// SearchConfig represents the search parameter defaults
type SearchConfig struct {
	DefaultLimit     int
	MaxBatchKeywords int
}

// GetApify returns the Apify configuration
func (c *Config) GetApify() ApifyConfig {
	interval, err := c.GetDuration("apify.poll_interval")
	if err != nil {
		interval = 2 * time.Second
	}
	return ApifyConfig{
		BaseURL:         c.GetString("apify.base_url"),
		Token:           c.GetString("apify.token"),
		ActorID:         c.GetString("apify.actor_id"),
		PollInterval:    interval,
		MaxPollAttempts: c.GetInt("apify.max_poll_attempts"),
	}
}

// GetLLM returns the generative provider configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		CORSOrigins:   c.GetStringSlice("server.cors_origins"),
	}
}

// GetSearch returns the search parameter defaults
func (c *Config) GetSearch() SearchConfig {
	return SearchConfig{
		DefaultLimit:     c.GetInt("search.default_limit"),
		MaxBatchKeywords: c.GetInt("search.max_batch_keywords"),
	}
}
