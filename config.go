package soundcloudclient

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes a client loaded from a YAML file.
type Config struct {
	BaseURL    string `yaml:"base_url"`
	ClientID   string `yaml:"client_id"`
	OAuthToken string `yaml:"oauth_token"`

	Retry struct {
		MaxAttempts int `yaml:"max_attempts"`
		BackoffMs   int `yaml:"backoff_ms"`
	} `yaml:"retry"`

	// PathMapping extends DefaultPathMapping; entries here win on the same source key.
	PathMapping map[string]string `yaml:"path_mapping"`

	// PathMappingFile is an optional YAML file of extra mappings, applied before PathMapping.
	PathMappingFile string `yaml:"path_mapping_file"`
}

// LoadConfig reads the YAML file at path, applies defaults and
// SOUNDCLOUD_* environment overrides, and validates the result.
// A relative path_mapping_file is resolved against the config file's directory.
func LoadConfig(path string) (*Config, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return nil, err
	}
	if cfg.PathMappingFile != "" && !filepath.IsAbs(cfg.PathMappingFile) {
		cfg.PathMappingFile = filepath.Join(filepath.Dir(path), cfg.PathMappingFile)
	}
	return cfg, nil
}

// ParseConfig is LoadConfig for an in-memory document.
// A relative path_mapping_file is left relative to the working directory.
func ParseConfig(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.BackoffMs <= 0 {
		cfg.Retry.BackoffMs = 200
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("SOUNDCLOUD_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SOUNDCLOUD_CLIENT_ID")); v != "" {
		cfg.ClientID = v
	}
	if v := strings.TrimSpace(os.Getenv("SOUNDCLOUD_OAUTH_TOKEN")); v != "" {
		cfg.OAuthToken = v
	}
	if v := strings.TrimSpace(os.Getenv("SOUNDCLOUD_MAX_ATTEMPTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		}
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.ClientID) == "" && strings.TrimSpace(cfg.OAuthToken) == "" {
		return errors.New("config: client_id or oauth_token is required")
	}
	for from, to := range cfg.PathMapping {
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return fmt.Errorf("config: %w: %q -> %q", ErrInvalidMapping, from, to)
		}
	}
	return nil
}

// Mapping merges DefaultPathMapping, PathMappingFile and PathMapping, later sources winning.
func (cfg *Config) Mapping() (PathMapping, error) {
	merged := DefaultPathMapping.Map()
	if cfg.PathMappingFile != "" {
		fromFile, err := LoadPathMapping(cfg.PathMappingFile)
		if err != nil {
			return PathMapping{}, err
		}
		for from, to := range fromFile.Map() {
			merged[from] = to
		}
	}
	for from, to := range cfg.PathMapping {
		merged[from] = to
	}
	return NewPathMapping(merged)
}

// NewClientFromConfig builds a Client from cfg. opts are applied last.
func NewClientFromConfig(cfg *Config, opts ...ClientOption) (*Client, error) {
	mapping, err := cfg.Mapping()
	if err != nil {
		return nil, err
	}

	base := []ClientOption{
		WithBaseURL(cfg.BaseURL),
		WithRetry(cfg.Retry.MaxAttempts, time.Duration(cfg.Retry.BackoffMs)*time.Millisecond),
		WithPathMapping(mapping),
	}
	if cfg.OAuthToken != "" {
		base = append(base, WithOAuthToken(cfg.OAuthToken))
	}
	return NewClient(cfg.ClientID, append(base, opts...)...), nil
}
