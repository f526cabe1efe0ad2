package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ai_tutorial_generator/config"
	"ai_tutorial_generator/generator"
	"ai_tutorial_generator/metrics"
	"ai_tutorial_generator/pipeline"
	"ai_tutorial_generator/publisher"
	"ai_tutorial_generator/search"
	"ai_tutorial_generator/topic"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tutorgen",
	Short: "Generate beginner tutorials with a researcher, writer and reviewer agent",
	Long: `tutorgen turns a topic into a beginner-friendly markdown tutorial.

A researcher agent searches the web, a writer drafts the tutorial and a
reviewer polishes it. The result is written to output.path.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logCfg := config.LogConfig{Level: "info"}
		if cmd.Name() != initCmd.Name() {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			logCfg = cfg.Log
		}
		var err error
		logger, err = newLogger(logCfg, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds a production or development zap logger. verbose forces
// debug level.
func newLogger(lc config.LogConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if lc.Level != "" {
		lvl, err := zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func buildLLM(lc config.LLMConfig) (generator.LLMClient, error) {
	switch lc.Provider {
	case "ollama", "openai":
		llm, err := generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider: lc.Provider,
			Model:    lc.Model,
			APIKey:   lc.APIKey,
			BaseURL:  lc.BaseURL,
		}, lc.Timeout)
		if err != nil {
			return nil, err
		}
		return llm, nil
	case "mock":
		return &generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", lc.Provider)
	}
}

// app is the wired object graph shared by the subcommands.
type app struct {
	metrics    *metrics.Metrics
	normalizer *topic.Normalizer
	search     *search.Tool
	publisher  *publisher.Publisher
	driver     *pipeline.Driver
}

func buildApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	llm, err := buildLLM(cfg.LLM)
	if err != nil {
		return nil, err
	}
	m := metrics.New()

	formatter, err := search.NewFormatter(cfg.Search.Mode)
	if err != nil {
		return nil, err
	}
	ddg := search.NewDuckDuckGo(cfg.Search.Endpoint, &http.Client{Timeout: cfg.Search.Timeout})
	tool := search.NewTool(ddg, formatter,
		search.WithMaxResults(cfg.Search.MaxResults),
		search.WithMaxAttempts(cfg.Search.MaxAttempts),
		search.WithBaseDelay(cfg.Search.BaseDelay),
		search.WithLogger(logger),
		search.WithMetrics(m))

	pub, err := publisher.New(cfg.Output.Path, logger)
	if err != nil {
		return nil, err
	}
	driver, err := pipeline.New(pipeline.Deps{
		LLM:       llm,
		Agents:    cfg.Agents,
		Tools:     []generator.Tool{tool},
		Publisher: pub,
		Logger:    logger,
		Metrics:   m,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		metrics:    m,
		normalizer: topic.NewNormalizer(llm, logger, m),
		search:     tool,
		publisher:  pub,
		driver:     driver,
	}, nil
}
