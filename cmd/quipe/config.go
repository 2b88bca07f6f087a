package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/quipe/internal/config"
	"github.com/verte-zerg/quipe/internal/flow"
	"github.com/verte-zerg/quipe/internal/model"
	"github.com/verte-zerg/quipe/internal/quoteapi"
)

// resolveConfig layers the config file under explicitly set flags.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, err
	}

	cfg := model.Config{
		BaseURL:        flagBaseURL,
		Timeout:        flagTimeout,
		FallbackAuthor: flagFallbackAuthor,
		KeepOnError:    flagKeepOnError,
		WarnThreshold:  flagWarnThreshold,
		LogLevel:       flagLogLevel,
		LogFile:        flagLogFile,
		Preferences: model.Preferences{
			Topic: flagTopic,
			Style: flagStyle,
		},
	}
	category := flagCategory

	applyStringConfig(cmd, "base-url", &cfg.BaseURL, fileCfg.API.BaseURL)
	if fileCfg.API.Timeout != nil && !cmd.Flags().Changed("timeout") {
		cfg.Timeout = fileCfg.API.Timeout.Duration
	}
	applyStringConfig(cmd, "category", &category, fileCfg.Quote.Category)
	applyStringConfig(cmd, "topic", &cfg.Preferences.Topic, fileCfg.Quote.Topic)
	applyStringConfig(cmd, "style", &cfg.Preferences.Style, fileCfg.Quote.Style)
	applyStringConfig(cmd, "fallback-author", &cfg.FallbackAuthor, fileCfg.Quote.FallbackAuthor)
	applyBoolConfig(cmd, "keep-on-error", &cfg.KeepOnError, fileCfg.Quote.KeepOnError)
	applyIntConfig(cmd, "warn-threshold", &cfg.WarnThreshold, fileCfg.Quote.WarnThreshold)
	applyStringConfig(cmd, "log-level", &cfg.LogLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &cfg.LogFile, fileCfg.Log.File)

	if category != "" {
		parsed, err := model.ParseCategory(category)
		if err != nil {
			return model.Config{}, err
		}
		cfg.Preferences.Category = parsed
	}

	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# quipe configuration
# Uncomment a value to enable it. CLI flags override config values.

[api]
# base-url = %q   # Quote backend
# timeout = %q               # Request timeout ("0s" waits indefinitely)

[quote]
# category = %q      # One of: %s
# topic = ""                   # Optional, up to %d characters
# style = ""                   # Optional, up to %d characters
# fallback-author = %q        # Shown when the backend omits an author
# keep-on-error = false        # Keep the last quote visible after a failure
# warn-threshold = %d          # Request count that triggers a slow-down warning

[log]
# level = %q                # debug, info, warn, error
# file = %q
`,
		quoteapi.DefaultBaseURL,
		quoteapi.DefaultTimeout.String(),
		model.DefaultCategory,
		model.CategoryList(),
		model.TopicMaxLen,
		model.StyleMaxLen,
		flow.DefaultFallbackAuthor,
		flow.DefaultWarnThreshold,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("--base-url must not be empty")
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("--timeout must be >= 0")
	}
	if cfg.Timeout > 0 && cfg.Timeout < 100*time.Millisecond {
		return fmt.Errorf("--timeout must be 0 or at least 100ms")
	}
	if cfg.WarnThreshold <= 0 {
		return fmt.Errorf("--warn-threshold must be > 0")
	}
	if cfg.FallbackAuthor == "" {
		return fmt.Errorf("--fallback-author must not be empty")
	}
	return cfg.Preferences.Validate()
}
