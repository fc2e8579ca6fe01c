package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/dealdesk/internal/config"
	"github.com/iwvelando/dealdesk/internal/optimizer"
	"github.com/iwvelando/dealdesk/pkg/constants"
	"github.com/iwvelando/dealdesk/pkg/output"
	"github.com/iwvelando/dealdesk/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI
// override. Every entry carries the run ID so the lines of one invocation can
// be grouped in a shared log file.
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride, runID string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
	case "json":
		config = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	if runID != "" {
		config.InitialFields = map[string]interface{}{"run": runID}
	}

	// Logs go to stderr so stdout carries only the report.
	config.OutputPaths = []string{"stderr"}
	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

// run executes the configured mode and writes the report to w.
func run(ctx context.Context, logger *zap.Logger, conf *config.Configuration, outputFormat, runID string, w io.Writer) error {
	runner := optimizer.NewRunner(logger, conf.RunnerOptions())

	switch conf.Mode {
	case constants.ModeOptimize:
		res, err := runner.Search(ctx, conf.SearchInput())
		if err != nil {
			return fmt.Errorf("affordability search failed: %w", err)
		}
		logger.Info("affordability search complete",
			zap.String("op", "main.run"),
			zap.Int("evaluated", res.Evaluated),
			zap.Int("feasible", res.Feasible),
		)
		report := output.Search{RunID: runID, Result: *res}
		switch outputFormat {
		case constants.OutputFormatCSV:
			return output.CsvSearch(w, report.Result)
		case constants.OutputFormatJSON:
			return output.JSONFormat(w, report)
		case constants.OutputFormatYAML:
			return output.YAMLFormat(w, report)
		default:
			output.PrettySearch(w, report)
		}

	default:
		req := conf.DealRequest()
		result, decision := runner.Evaluate(req, conf.Policy)
		logger.Info("deal evaluated",
			zap.String("op", "main.run"),
			zap.String("verdict", decision.Verdict.String()),
			zap.Int("reasons", len(decision.Reasons)),
		)
		report := output.Evaluation{RunID: runID, Request: req, Result: result, Decision: decision}
		switch outputFormat {
		case constants.OutputFormatCSV:
			return output.CsvSchedule(w, result.Schedule)
		case constants.OutputFormatJSON:
			return output.JSONFormat(w, report)
		case constants.OutputFormatYAML:
			return output.YAMLFormat(w, report)
		default:
			output.PrettyEvaluation(w, report)
		}
	}
	return nil
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	envFile := flag.String("env-file", constants.DefaultEnvFile, "optional dotenv file with DEALDESK_* overrides")
	modeFlag := flag.String("mode", "", "mode override: evaluate, optimize")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json, yaml")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	envLoaded, err := config.LoadEnvFile(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load env file\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *modeFlag != "" {
		conf.Mode = strings.ToLower(*modeFlag)
	}

	runID := uuid.NewString()
	logger, err := initializeLogger(conf.Logging, *logLevel, runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if envLoaded {
		logger.Debug("loaded environment overrides",
			zap.String("op", "main"),
			zap.String("file", *envFile),
		)
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, conf, outputFormat, runID, os.Stdout); err != nil {
		logger.Fatal("run failed",
			zap.String("op", "main"),
			zap.String("mode", conf.Mode),
			zap.Error(err),
		)
	}
}
