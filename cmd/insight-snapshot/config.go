package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/theimaginaryfoundation/insight-snapshot/insight"
)

type Config struct {
	ConfigFile      string
	Model           string
	BaseURL         string
	APIKey          string
	MaxOutputTokens int64
	WordWrap        int
	Verbose         bool
	LogFile         string
}

// fileConfig is the optional YAML config. The API key never comes from it.
type fileConfig struct {
	Model           string `yaml:"model"`
	BaseURL         string `yaml:"base_url"`
	MaxOutputTokens int64  `yaml:"max_output_tokens"`
	WordWrap        int    `yaml:"word_wrap"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("missing --model")
	}
	if c.MaxOutputTokens < 0 {
		return errors.New("max-output-tokens must be >= 0")
	}
	if c.WordWrap < 0 {
		return errors.New("word-wrap must be >= 0")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Model:    insight.DefaultModel,
		WordWrap: 80,
	}
}

func bindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Optional YAML config file (model, base_url, max_output_tokens, word_wrap)")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "Model used for insight generation")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Override the Responses API base URL")
	fs.StringVar(&cfg.APIKey, "api-key", "", "API key (overrides API_KEY / OPENAI_API_KEY env vars)")
	fs.Int64Var(&cfg.MaxOutputTokens, "max-output-tokens", cfg.MaxOutputTokens, "Cap on response tokens (0 = provider default)")
	fs.IntVar(&cfg.WordWrap, "word-wrap", cfg.WordWrap, "Wrap width for rendered snapshots")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Debug logging")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Write logs to this file instead of stderr (the interactive UI logs nowhere without it)")
}

// applyConfigFile fills fields from cfg.ConfigFile that were not set explicitly on the command line.
func applyConfigFile(fs *pflag.FlagSet, cfg *Config) error {
	if cfg.ConfigFile == "" {
		return nil
	}
	b, err := os.ReadFile(cfg.ConfigFile)
	if err != nil {
		return fmt.Errorf("read --config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse --config %s: %w", cfg.ConfigFile, err)
	}

	if fc.Model != "" && !fs.Changed("model") {
		cfg.Model = fc.Model
	}
	if fc.BaseURL != "" && !fs.Changed("base-url") {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.MaxOutputTokens != 0 && !fs.Changed("max-output-tokens") {
		cfg.MaxOutputTokens = fc.MaxOutputTokens
	}
	if fc.WordWrap != 0 && !fs.Changed("word-wrap") {
		cfg.WordWrap = fc.WordWrap
	}
	return nil
}

func (c Config) credential() insight.CredentialSource {
	if strings.TrimSpace(c.APIKey) != "" {
		return insight.StaticCredential(c.APIKey)
	}
	return insight.DefaultCredential
}
