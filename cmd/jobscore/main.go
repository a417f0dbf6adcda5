// jobscore scores a job posting against a set of service offerings from
// the command line and can optionally draft a proposal for it, without
// running the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/config"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/core"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/factory"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/logging"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/proposal"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/scoring"
	"github.com/sanishr85/paysontech-upwork-tracker-backend/internal/utils"
)

var (
	jobFile      = flag.String("job", "", "Path to a JSON file with the job posting")
	servicesFile = flag.String("services", "", "Path to a JSON file with the service offerings")
	propose      = flag.Bool("propose", false, "Also draft a proposal via the generative backend")
	template     = flag.String("template", "", "Optional style template for the proposal text")
	hours        = flag.Float64("hours", 0, "Estimated hours (0 uses the default)")

	provider      = flag.String("provider", "openai", "LLM provider (openai, gemini, bedrock)")
	openaiKey     = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModel   = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")
	geminiKey     = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModel   = flag.String("gemini-model", "gemini-1.5-flash", "Gemini model name")
	bedrockRegion = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModel  = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *jobFile == "" {
		logger.Fatal("A job file is required (-job)")
	}

	var job core.Posting
	if err := readJSONFile(*jobFile, &job); err != nil {
		logger.Fatal("Failed to read job posting", zap.Error(err))
	}

	var services []core.Offering
	if *servicesFile != "" {
		if err := readJSONFile(*servicesFile, &services); err != nil {
			logger.Fatal("Failed to read offerings", zap.Error(err))
		}
	}

	var primary *core.Offering
	if len(services) > 0 {
		primary = &services[0]
	}

	engine := scoring.NewEngine()
	breakdown := engine.Score(job, primary, services)
	printBreakdown(job, breakdown)

	if !*propose {
		return
	}

	cfg := createConfigFromFlags()
	generator, err := factory.NewGeneratorFactory(cfg, logger).CreateGenerator()
	if err != nil {
		logger.Fatal("Failed to create generator", zap.Error(err))
	}

	synth := proposal.NewSynthesizer(
		generator,
		utils.NewTextProcessor(logger),
		logger,
		cfg.GetInt("proposal.max_description_size"),
	)

	req := core.ProposalRequest{
		Job:            job,
		Service:        primary,
		Services:       services,
		Template:       *template,
		EstimatedHours: *hours,
	}

	result, err := synth.Synthesize(context.Background(), req, breakdown)
	if err != nil {
		logger.Fatal("Failed to synthesize proposal", zap.Error(err))
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode result", zap.Error(err))
	}
	fmt.Println(string(out))
}

func printBreakdown(job core.Posting, breakdown core.ScoreBreakdown) {
	fmt.Printf("Posting: %s\n", job.Title)
	fmt.Printf("Confidence: %d\n", breakdown.Confidence)
	for _, c := range breakdown.Components {
		fmt.Printf("  %-24s +%d\n", c.Label, c.Points)
	}
	if len(breakdown.MissingSkills) > 0 {
		fmt.Printf("Missing skills: %v\n", breakdown.MissingSkills)
	}
}

func readJSONFile(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// createConfigFromFlags builds a configuration from the command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("llm.provider", *provider)
	v.Set("openai.api_key", *openaiKey)
	v.Set("openai.model_name", *openaiModel)
	v.Set("gemini.api_key", *geminiKey)
	v.Set("gemini.model_name", *geminiModel)
	v.Set("bedrock.region", *bedrockRegion)
	v.Set("bedrock.model_id", *bedrockModel)

	return config.NewFromViper(v)
}
