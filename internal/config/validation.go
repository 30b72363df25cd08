package config

import (
	"fmt"

	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
)

// Validate checks a defaulted configuration. Every failure is a fatal config error.
func Validate(c *Config) error {
	switch c.Source.Type {
	case SourceLocal, SourceGitLab, SourceGitHub:
	case SourceRemotes:
		if len(c.Source.Remotes) == 0 {
			return errors.ConfigError("source type remotes requires at least one entry under source.remotes").Build()
		}
		for i, r := range c.Source.Remotes {
			if r.URL == "" {
				return errors.ConfigError(fmt.Sprintf("source.remotes[%d].url is required", i)).Build()
			}
		}
	default:
		return errors.ConfigError("unknown source type").
			WithContext("type", string(c.Source.Type)).
			Build()
	}

	switch c.Source.Retry.Backoff {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
	default:
		return errors.ConfigError("unknown retry backoff").
			WithContext("backoff", string(c.Source.Retry.Backoff)).
			Build()
	}
	if c.Source.Retry.MaxRetries < 0 {
		return errors.ConfigError("source.retry.max_retries cannot be negative").Build()
	}

	switch c.Cache.Type {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.ConfigError("cache type redis requires cache.redis_url").Build()
		}
	default:
		return errors.ConfigError("unknown cache type").
			WithContext("type", string(c.Cache.Type)).
			Build()
	}

	switch c.Logging.Format {
	case "text", "json", "pretty":
	default:
		return errors.ConfigError("unknown log format").
			WithContext("format", c.Logging.Format).
			Build()
	}

	if c.Images.JPEGQuality > 100 {
		return errors.ConfigError("images.jpeg_quality must be between 1 and 100").Build()
	}
	return nil
}

// ApplyOverrides applies CLI flag values on top of the loaded file and revalidates.
func (c *Config) ApplyOverrides(source, output string, skipTranscode bool, concurrency int) error {
	if source != "" {
		c.Source.Type = SourceType(source)
	}
	if output != "" {
		c.Output.Directory = output
	}
	if skipTranscode {
		c.Images.SkipTranscode = true
	}
	if concurrency > 0 {
		c.Source.Concurrency = concurrency
	}
	return Validate(c)
}
