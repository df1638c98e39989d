package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Output formats.
const (
	formatText = "text"
	formatYAML = "yaml"
	formatFull = "full"
)

// Input types. inputAuto picks the decoder from the file extension.
const (
	inputAuto    = "auto"
	inputJSON    = "json"
	inputYAML    = "yaml"
	inputMsgpack = "msgpack"
	inputBSON    = "bson"
)

// Config is the CLI configuration, read from timings.yaml, TIMINGS_*
// environment variables and flags, in increasing precedence.
type Config struct {
	Format           string `mapstructure:"format"`
	Limit            int    `mapstructure:"limit"`
	InputType        string `mapstructure:"input_type"`
	LenientCallbacks bool   `mapstructure:"lenient_callbacks"`
	Verbose          bool   `mapstructure:"verbose"`
}

// flagKeys maps config keys to the flag names that override them.
var flagKeys = map[string]string{
	"format":            "format",
	"limit":             "limit",
	"input_type":        "input-type",
	"lenient_callbacks": "lenient",
	"verbose":           "verbose",
}

// loadConfig resolves the configuration for cmd.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	v.SetDefault("format", formatText)
	v.SetDefault("limit", 40)
	v.SetDefault("input_type", inputAuto)
	v.SetDefault("lenient_callbacks", false)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("TIMINGS")
	v.AutomaticEnv()

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("timings")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "timings"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, name := range flagKeys {
		if f := lookupFlag(cmd, name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.InheritedFlags().Lookup(name)
}

func validateConfig(cfg *Config) error {
	switch cfg.Format {
	case formatText, formatYAML, formatFull:
	default:
		return fmt.Errorf("invalid format %q (want %s, %s or %s)", cfg.Format, formatText, formatYAML, formatFull)
	}
	switch cfg.InputType {
	case inputAuto, inputJSON, inputYAML, inputMsgpack, inputBSON:
	default:
		return fmt.Errorf("invalid input type %q", cfg.InputType)
	}
	if cfg.Limit < 0 {
		return fmt.Errorf("invalid limit %d", cfg.Limit)
	}
	return nil
}

// newLogger returns a development logger when verbose, else a production
// logger. Logger construction failures fall back to a no-op logger.
func newLogger(verbose bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create logger: %v\n", err)
		return zap.NewNop()
	}
	return logger
}
