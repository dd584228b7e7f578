// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package config loads and validates kgraph configuration from YAML files
// and KGRAPH_* environment variables.
package config

import (
	"errors"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// Config is the root configuration for kgraph.
type Config struct {
	Data       DataConfig                `mapstructure:"data"`
	Embeddings EmbeddingsConfig          `mapstructure:"embeddings"`
	Providers  map[string]ProviderConfig `mapstructure:"providers"`
	Practice   PracticeConfig            `mapstructure:"practice"`
	Server     ServerConfig              `mapstructure:"server"`
	Timeouts   TimeoutsConfig            `mapstructure:"timeouts"`
}

// DataConfig locates the standards CSV snapshot on disk.
type DataConfig struct {
	// Dir is the directory holding the snapshot CSV files. Commands that
	// need the dataset fail at wiring time when it is unset, so an empty
	// value is not a validation error here.
	Dir string `mapstructure:"dir"`
}

// EmbeddingsConfig selects the embedding store backend and the provider
// model used to populate it.
type EmbeddingsConfig struct {
	// Backend is the persistence backend, "file" or "sqlite".
	Backend string `mapstructure:"backend"`
	// Path overrides the store location. When empty the store lives
	// inside data.dir under a backend-specific file name.
	Path string `mapstructure:"path"`
	// Provider names the embedding provider, "openai" or "google".
	Provider string `mapstructure:"provider"`
	// Model is the embedding model identifier passed to the provider.
	Model string `mapstructure:"model"`
	// Dimensions is the expected vector width. The sqlite backend needs
	// it up front to declare its virtual table.
	Dimensions int `mapstructure:"dimensions"`
}

// ProviderConfig carries the credentials and endpoint for one provider.
// Keys support keyring:// and env:// references resolved at wiring time.
type ProviderConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
	// Model overrides practice.model when this provider generates text.
	Model string `mapstructure:"model"`
}

// PracticeConfig controls practice question generation.
type PracticeConfig struct {
	Provider        string  `mapstructure:"provider"`
	Model           string  `mapstructure:"model"`
	Temperature     float64 `mapstructure:"temperature"`
	QuestionCount   int     `mapstructure:"question_count"`
	Jurisdiction    string  `mapstructure:"jurisdiction"`
	AcademicSubject string  `mapstructure:"academic_subject"`
}

// ServerConfig controls the query API listener.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// TimeoutsConfig bounds individual calls to external providers.
type TimeoutsConfig struct {
	Embed    time.Duration `mapstructure:"embed"`
	Generate time.Duration `mapstructure:"generate"`
}

// SetDefaults registers the default value for every key so that a bare
// `kgraph` invocation works without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.dir", "")
	v.SetDefault("embeddings.backend", "file")
	v.SetDefault("embeddings.path", "")
	v.SetDefault("embeddings.provider", "openai")
	v.SetDefault("embeddings.model", "text-embedding-3-small")
	v.SetDefault("embeddings.dimensions", 1536)
	v.SetDefault("practice.provider", "openai")
	v.SetDefault("practice.model", "gpt-4")
	v.SetDefault("practice.temperature", 0.7)
	v.SetDefault("practice.question_count", 3)
	v.SetDefault("practice.jurisdiction", "Multi-State")
	v.SetDefault("practice.academic_subject", "Mathematics")
	v.SetDefault("server.listen", "127.0.0.1:8791")
	v.SetDefault("timeouts.embed", "30s")
	v.SetDefault("timeouts.generate", "60s")
}

// SetupEnv wires KGRAPH_* environment variables to config keys, with dots
// replaced by underscores (server.listen becomes KGRAPH_SERVER_LISTEN).
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("KGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper unmarshals and validates a fully prepared viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, kgerr.Errorf(kgerr.CodeConfigParseInvalidFormat, "unmarshalling config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue, "invalid configuration: %w", errors.Join(errs...))
	}
	return &cfg, nil
}

// Load reads configuration from the given file path, if any, applies
// environment overrides, and validates the result. An empty path loads
// defaults and environment variables only.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, kgerr.Errorf(kgerr.CodeConfigLoadReadFailure, "reading config file %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// EmbeddingsPath returns the embedding store location, deriving a file
// name inside data.dir when no explicit path is configured.
func (c *Config) EmbeddingsPath() string {
	if c.Embeddings.Path != "" {
		return c.Embeddings.Path
	}
	name := "embeddings.json"
	if c.Embeddings.Backend == "sqlite" {
		name = "embeddings.db"
	}
	return filepath.Join(c.Data.Dir, name)
}

// Validate checks every section and returns all problems found rather
// than stopping at the first.
func (c *Config) Validate() []error {
	var errs []error
	errs = append(errs, c.validateEmbeddings()...)
	errs = append(errs, c.validatePractice()...)
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateTimeouts()...)
	return errs
}

var (
	embeddingBackends  = map[string]bool{"file": true, "sqlite": true}
	embeddingProviders = map[string]bool{"openai": true, "google": true}
	practiceProviders  = map[string]bool{"anthropic": true, "google": true, "openai": true, "openrouter": true}
)

func (c *Config) validateEmbeddings() []error {
	var errs []error

	if !embeddingBackends[c.Embeddings.Backend] {
		errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"embeddings.backend must be one of [file, sqlite], got %q", c.Embeddings.Backend))
	}

	if !embeddingProviders[c.Embeddings.Provider] {
		errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"embeddings.provider must be one of [google, openai], got %q", c.Embeddings.Provider))
	} else if c.Providers != nil {
		if _, ok := c.Providers[c.Embeddings.Provider]; !ok {
			errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
				"embeddings.provider %q has no entry under providers", c.Embeddings.Provider))
		}
	}

	if c.Embeddings.Model == "" {
		errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"embeddings.model must not be empty"))
	}

	if c.Embeddings.Dimensions <= 0 {
		errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"embeddings.dimensions must be greater than 0, got %d", c.Embeddings.Dimensions))
	}

	return errs
}

func (c *Config) validatePractice() []error {
	var errs []error

	if !practiceProviders[c.Practice.Provider] {
		errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"practice.provider must be one of [anthropic, google, openai, openrouter], got %q", c.Practice.Provider))
	} else if c.Providers != nil {
		if _, ok := c.Providers[c.Practice.Provider]; !ok {
			errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
				"practice.provider %q has no entry under providers", c.Practice.Provider))
		}
	}

	if c.Practice.QuestionCount <= 0 {
		errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"practice.question_count must be greater than 0, got %d", c.Practice.QuestionCount))
	}

	if c.Practice.Temperature < 0 || c.Practice.Temperature > 2 {
		errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"practice.temperature must be between 0 and 2, got %g", c.Practice.Temperature))
	}

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	_, port, err := net.SplitHostPort(c.Server.Listen)
	if err != nil {
		errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"server.listen must be host:port, got %q", c.Server.Listen))
		return errs
	}

	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"server.listen port must be between 1 and 65535, got %q", port))
	}

	return errs
}

func (c *Config) validateTimeouts() []error {
	var errs []error

	if c.Timeouts.Embed <= 0 {
		errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"timeouts.embed must be greater than 0, got %s", c.Timeouts.Embed))
	}
	if c.Timeouts.Generate <= 0 {
		errs = append(errs, kgerr.Errorf(kgerr.CodeConfigValidateInvalidValue,
			"timeouts.generate must be greater than 0, got %s", c.Timeouts.Generate))
	}

	return errs
}
