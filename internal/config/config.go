// Package config provides configuration loading and management for the SObject gateway.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/sobject-gateway/internal/telemetry"
)

const (
	// EnvPrefix is the prefix of every environment variable read by the gateway
	EnvPrefix = "SOBJECT_GATEWAY"

	// AccessTokenEnv holds the API access token when no token file is configured
	AccessTokenEnv = EnvPrefix + "_ACCESS_TOKEN"

	// DefaultTimeout is the per-request timeout used when api.timeout is unset
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the retry budget used when api.maxRetries is unset
	DefaultMaxRetries = 3
)

const (
	filterKeyClasses = "classes"
	filterKeyFields  = "fields"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	API       *APIConfig        `yaml:"api,omitempty"`
	Filter    *FilterSection    `yaml:"filter,omitempty"`
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// APIConfig defines how to reach the remote SObject API
type APIConfig struct {
	// InstanceURL is the base URL of the org, e.g. https://example.my.salesforce.com
	InstanceURL string `yaml:"instanceURL"`

	// Version is the REST API version, e.g. "58.0". When empty the latest
	// version advertised by the instance is used.
	Version string `yaml:"version,omitempty"`

	// TokenFile is the path to a file containing an OAuth access token
	TokenFile string `yaml:"tokenFile,omitempty"`

	// Timeout is the per-request timeout (e.g. "10s")
	Timeout string `yaml:"timeout,omitempty"`

	// MaxRetries is the number of retries for transient failures
	MaxRetries *int `yaml:"maxRetries,omitempty"`
}

// FilterSection holds the blacklist and whitelist configurations. When both
// are set the blacklist is applied first.
type FilterSection struct {
	Blacklist *FilterConfig `yaml:"blacklist,omitempty"`
	Whitelist *FilterConfig `yaml:"whitelist,omitempty"`
}

// FilterConfig lists SObject classes and per-class fields. Whether they are
// hidden or exclusively shown depends on the policy the config is given to.
type FilterConfig struct {
	// Classes is the list of SObject names
	Classes []string `yaml:"classes,omitempty"`

	// Fields maps an SObject name to a list of field names
	Fields map[string][]string `yaml:"fields,omitempty"`

	// Extra collects unrecognized keys. They never affect filtering.
	Extra map[string]any `yaml:",inline"`
}

// IsEmpty reports whether the section configures no policy at all
func (s *FilterSection) IsEmpty() bool {
	return s == nil || (s.Blacklist == nil && s.Whitelist == nil)
}

// ClassFields returns the configured fields for className, or nil
func (f *FilterConfig) ClassFields(className string) []string {
	if f == nil || f.Fields == nil {
		return nil
	}
	return f.Fields[className]
}

// Advisories returns non-fatal diagnostics about the shape of the config.
// It reports a config with neither "classes" nor "fields", or one that
// carries other keys which are ignored.
func (f *FilterConfig) Advisories() []string {
	if f == nil {
		return nil
	}
	if f.Classes == nil && f.Fields == nil {
		return []string{fmt.Sprintf("filter config must contain at least a %q or %q key",
			filterKeyFields, filterKeyClasses)}
	}
	if len(f.Extra) > 0 {
		keys := make([]string, 0, len(f.Extra))
		for k := range f.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return []string{fmt.Sprintf("filter config only accepts keys %q and %q, ignoring: %s",
			filterKeyFields, filterKeyClasses, strings.Join(keys, ", "))}
	}
	return nil
}

// ParseFilterConfig decodes a single filter config from YAML or JSON
func ParseFilterConfig(data []byte) (*FilterConfig, error) {
	var fc FilterConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse filter config: %w", err)
	}
	return &fc, nil
}

// GetToken returns the API access token using the following priority:
// 1. Read from TokenFile if specified
// 2. Read from the SOBJECT_GATEWAY_ACCESS_TOKEN environment variable
//
// The token from file will have leading/trailing whitespace trimmed.
func (a *APIConfig) GetToken() (string, error) {
	if a.TokenFile != "" {
		cleanPath := filepath.Clean(a.TokenFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read token from file %s: %w", a.TokenFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if envToken := os.Getenv(AccessTokenEnv); envToken != "" {
		return envToken, nil
	}

	return "", fmt.Errorf("no access token configured: set tokenFile or %s environment variable", AccessTokenEnv)
}

// GetTimeout returns the parsed request timeout, or DefaultTimeout
func (a *APIConfig) GetTimeout() time.Duration {
	if a == nil || a.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// GetMaxRetries returns the retry budget, or DefaultMaxRetries when unset
func (a *APIConfig) GetMaxRetries() int {
	if a == nil || a.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *a.MaxRetries
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// ParseConfig parses and validates configuration from YAML content
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.API != nil {
		if err := validateAPIConfig(c.API); err != nil {
			return err
		}
	}

	if c.Filter != nil {
		if err := validateFilterConfig(c.Filter.Blacklist, "filter.blacklist"); err != nil {
			return err
		}
		if err := validateFilterConfig(c.Filter.Whitelist, "filter.whitelist"); err != nil {
			return err
		}
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}

// validateAPIConfig validates the remote API settings
func validateAPIConfig(api *APIConfig) error {
	if api.InstanceURL == "" {
		return fmt.Errorf("api.instanceURL is required")
	}

	u, err := url.Parse(api.InstanceURL)
	if err != nil {
		return fmt.Errorf("api.instanceURL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.instanceURL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api.instanceURL must include a host")
	}

	if api.Version != "" {
		if _, err := strconv.ParseFloat(strings.TrimPrefix(api.Version, "v"), 64); err != nil {
			return fmt.Errorf("api.version must look like \"58.0\", got %q", api.Version)
		}
	}

	if api.Timeout != "" {
		d, err := time.ParseDuration(api.Timeout)
		if err != nil {
			return fmt.Errorf("api.timeout must be a valid duration (e.g., '10s', '1m'): %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("api.timeout must be positive, got %s", api.Timeout)
		}
	}

	if api.MaxRetries != nil && *api.MaxRetries < 0 {
		return fmt.Errorf("api.maxRetries cannot be negative, got %d", *api.MaxRetries)
	}

	return nil
}

// validateFilterConfig checks that names are non-empty. Names are not checked
// against the remote schema.
func validateFilterConfig(fc *FilterConfig, prefix string) error {
	if fc == nil {
		return nil
	}
	for i, class := range fc.Classes {
		if strings.TrimSpace(class) == "" {
			return fmt.Errorf("%s.classes[%d]: class name cannot be empty", prefix, i)
		}
	}
	for class, fields := range fc.Fields {
		if strings.TrimSpace(class) == "" {
			return fmt.Errorf("%s.fields: class name cannot be empty", prefix)
		}
		for i, field := range fields {
			if strings.TrimSpace(field) == "" {
				return fmt.Errorf("%s.fields.%s[%d]: field name cannot be empty", prefix, class, i)
			}
		}
	}
	return nil
}
