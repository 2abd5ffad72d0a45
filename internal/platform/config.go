package platform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultTokenEnv is the environment variable read for the token when the
// config file names none.
const DefaultTokenEnv = "GITHUB_TOKEN"

// FileConfig is the content of a .ghdb.yaml file. Tokens are never stored
// in the file, only the name of the variable holding one.
type FileConfig struct {
	Owner     string          `yaml:"owner"`
	Repo      string          `yaml:"repo"`
	TokenEnv  string          `yaml:"token_env"`
	BaseURL   string          `yaml:"base_url"`
	Strict    bool            `yaml:"strict"`
	ReadOnly  bool            `yaml:"read_only"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// TelemetryConfig selects the OpenTelemetry exporter.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// LoadConfig reads and parses a config file.
func LoadConfig(path string) (*FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.TokenEnv == "" {
		cfg.TokenEnv = DefaultTokenEnv
	}
	return &cfg, nil
}

// URI returns the "owner/repo" pair.
func (c *FileConfig) URI() string {
	return c.Owner + "/" + c.Repo
}

// Token reads the token from the configured environment variable.
func (c *FileConfig) Token() string {
	env := c.TokenEnv
	if env == "" {
		env = DefaultTokenEnv
	}
	return os.Getenv(env)
}

// Options translates the file into functional options.
func (c *FileConfig) Options() []Option {
	opts := []Option{
		WithStrict(c.Strict),
		WithReadOnly(c.ReadOnly),
	}
	if token := c.Token(); token != "" {
		opts = append(opts, WithToken(token))
	}
	if c.BaseURL != "" {
		opts = append(opts, WithBaseURL(c.BaseURL))
	}
	return opts
}
