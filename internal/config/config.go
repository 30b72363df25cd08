package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
)

// DefaultPath is the generator configuration file looked up when no --config is given.
const DefaultPath = "nextmod.yaml"

// Config is the generator configuration (nextmod.yaml).
type Config struct {
	// InstanceConfig points at the markdown instance file ("Instance Name" header).
	InstanceConfig string        `yaml:"instance_config"`
	Source         SourceConfig  `yaml:"source"`
	Output         OutputConfig  `yaml:"output"`
	Images         ImagesConfig  `yaml:"images"`
	Cache          CacheConfig   `yaml:"cache"`
	Logging        LoggingConfig `yaml:"logging"`
	Metrics        MetricsConfig `yaml:"metrics"`
	Verify         VerifyConfig  `yaml:"verify"`
}

// SourceConfig selects and configures the repository backend.
type SourceConfig struct {
	Type        SourceType      `yaml:"type"`
	Concurrency int             `yaml:"concurrency"`
	Directory   string          `yaml:"directory"`
	GitLab      GitLabConfig    `yaml:"gitlab"`
	GitHub      GitHubConfig    `yaml:"github"`
	Remotes     []RemoteConfig  `yaml:"remotes"`
	Workspace   WorkspaceConfig `yaml:"workspace"`
	Retry       RetryConfig     `yaml:"retry"`
}

// SourceType names a repository backend.
type SourceType string

const (
	SourceLocal   SourceType = "local"
	SourceGitLab  SourceType = "gitlab"
	SourceGitHub  SourceType = "github"
	SourceRemotes SourceType = "remotes"
)

// GitLabConfig addresses a GitLab group tree: root group, one subgroup per game, one project per mod.
type GitLabConfig struct {
	APIURL string `yaml:"api_url"`
	Group  string `yaml:"group"`
	Ref    string `yaml:"ref"`
	Token  string `yaml:"token"`
}

// GitHubConfig addresses a GitHub organization whose repositories are mods.
type GitHubConfig struct {
	APIURL       string `yaml:"api_url"`
	Organization string `yaml:"organization"`
	Ref          string `yaml:"ref"`
	Token        string `yaml:"token"`
}

// RemoteConfig is one git repository cloned and served as a local mod.
type RemoteConfig struct {
	URL    string `yaml:"url"`
	Name   string `yaml:"name"`
	Branch string `yaml:"branch"`
	Token  string `yaml:"token"`
}

// RetryBackoffMode selects how the delay between API retries grows.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// RetryConfig controls retries of transient GitLab and GitHub API failures.
// Retries are off unless max_retries is set.
type RetryConfig struct {
	Backoff    RetryBackoffMode `yaml:"backoff"`
	Initial    time.Duration    `yaml:"initial"`
	Max        time.Duration    `yaml:"max"`
	MaxRetries int              `yaml:"max_retries"`
}

// WorkspaceConfig controls where remotes are cloned.
type WorkspaceConfig struct {
	Directory string `yaml:"directory"`
	Keep      bool   `yaml:"keep"`
}

// OutputConfig locates the output tree and site inputs.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Templates string `yaml:"templates"`
	Static    string `yaml:"static"`
	About     string `yaml:"about"`
}

// ImagesConfig tunes the image pipeline.
type ImagesConfig struct {
	SkipTranscode bool `yaml:"skip_transcode"`
	ThumbnailSize int  `yaml:"thumbnail_size"`
	JPEGQuality   int  `yaml:"jpeg_quality"`
}

// CacheType selects the backend response cache.
type CacheType string

const (
	CacheNone  CacheType = "none"
	CacheFile  CacheType = "file"
	CacheRedis CacheType = "redis"
)

// CacheConfig configures the response cache used by remote backends.
type CacheConfig struct {
	Type      CacheType     `yaml:"type"`
	Directory string        `yaml:"directory"`
	RedisURL  string        `yaml:"redis_url"`
	TTL       time.Duration `yaml:"ttl"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// VerifyConfig enables the post-build link check.
type VerifyConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from configPath. A missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	var config Config
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		slog.Info("Configuration file not found, using defaults", slog.String("path", configPath))
	case err != nil:
		return nil, errors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
			return nil, errors.ConfigError("failed to parse config file").
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}
	}

	applyDefaults(&config)
	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var c Config
	applyDefaults(&c)
	return &c
}

// Init writes an example configuration and instance file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	example := Default()
	example.Source.GitLab.Token = "${GITLAB_TOKEN}"
	example.Source.GitHub.Token = "${GITHUB_TOKEN}"
	example.Source.Remotes = []RemoteConfig{
		{URL: "https://gitlab.com/nextmod/mod/example/example-mod.git", Branch: "master"},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.InternalError("failed to marshal config").WithCause(err).Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.FileSystemError("failed to write config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}

	if _, err := os.Stat(example.InstanceConfig); err == nil && !force {
		return nil
	}
	instance := []byte("# Instance Name\nNextmod\n")
	if err := os.WriteFile(example.InstanceConfig, instance, 0o600); err != nil {
		return errors.FileSystemError("failed to write instance config").
			WithCause(err).
			WithContext("path", example.InstanceConfig).
			Build()
	}
	return nil
}
