package forge

import (
	"gitlab.com/nextmod/nextmod/internal/foundation/errors"
)

var (
	// ErrSourceUnsupported signals that the configured source type is not supported.
	ErrSourceUnsupported = errors.ConfigError("unsupported source type").Build()

	// ErrPathEscape signals a repository path that leaves the mod directory.
	ErrPathEscape = errors.SecurityError("repository path escapes the mod directory").WithSeverity(errors.SeverityWarning).Build()
)
