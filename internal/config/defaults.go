package config

import (
	"path"
	"runtime"
	"strings"
	"time"
)

// Default values for a fresh configuration.
const (
	DefaultInstanceConfig = "nextmod-config.md"
	DefaultDirectory      = "../mw"
	DefaultOutput         = "./public"
	DefaultGitLabAPI      = "https://gitlab.com/api/v4"
	DefaultGitLabGroup    = "nextmod/mod"
	DefaultGitHubAPI      = "https://api.github.com"
	DefaultGitHubOrg      = "nextmod"
	DefaultRef            = "master"
	DefaultThumbnailSize  = 360
	DefaultJPEGQuality    = 75
	DefaultCacheTTL       = 15 * time.Minute
	DefaultRetryInitial   = time.Second
	DefaultRetryMax       = 30 * time.Second
	// Remote failures degrade to empty results unless retries are enabled.
	DefaultMaxRetries = 0
)

func applyDefaults(c *Config) {
	if c.InstanceConfig == "" {
		c.InstanceConfig = DefaultInstanceConfig
	}

	s := &c.Source
	if s.Type == "" {
		s.Type = SourceLocal
	}
	if s.Concurrency <= 0 {
		s.Concurrency = min(4, runtime.NumCPU())
	}
	if s.Directory == "" {
		s.Directory = DefaultDirectory
	}
	if s.GitLab.APIURL == "" {
		s.GitLab.APIURL = DefaultGitLabAPI
	}
	if s.GitLab.Group == "" {
		s.GitLab.Group = DefaultGitLabGroup
	}
	if s.GitLab.Ref == "" {
		s.GitLab.Ref = DefaultRef
	}
	if s.GitHub.APIURL == "" {
		s.GitHub.APIURL = DefaultGitHubAPI
	}
	if s.GitHub.Organization == "" {
		s.GitHub.Organization = DefaultGitHubOrg
	}
	for i := range s.Remotes {
		if s.Remotes[i].Branch == "" {
			s.Remotes[i].Branch = DefaultRef
		}
		if s.Remotes[i].Name == "" {
			s.Remotes[i].Name = remoteName(s.Remotes[i].URL)
		}
	}

	if s.Retry.Backoff == "" {
		s.Retry.Backoff = RetryBackoffLinear
	}
	if s.Retry.Initial <= 0 {
		s.Retry.Initial = DefaultRetryInitial
	}
	if s.Retry.Max <= 0 {
		s.Retry.Max = DefaultRetryMax
	}

	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutput
	}

	if c.Images.ThumbnailSize <= 0 {
		c.Images.ThumbnailSize = DefaultThumbnailSize
	}
	if c.Images.JPEGQuality <= 0 {
		c.Images.JPEGQuality = DefaultJPEGQuality
	}

	if c.Cache.Type == "" {
		c.Cache.Type = CacheNone
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
}

// remoteName derives a mod id from a clone URL: the last path element without ".git".
func remoteName(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, ":"); i >= 0 && !strings.Contains(url[i:], "/") {
		url = url[i+1:]
	}
	return strings.TrimSuffix(path.Base(url), ".git")
}
