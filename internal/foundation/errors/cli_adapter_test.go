package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad").Build(), expected: 2},
		{name: "auth", err: AuthError("unauthorized").Build(), expected: 5},
		{name: "config", err: ConfigError("missing").Build(), expected: 7},
		{name: "forge", err: ForgeError("api down").Build(), expected: 8},
		{name: "internal", err: InternalError("bug").Build(), expected: 10},
		{name: "render", err: RenderError("template").Build(), expected: 11},
		{name: "security", err: SecurityError("escape").Build(), expected: 13},
		{name: "unclassified", err: errors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := ConfigError("instance config missing").WithContext("path", "nextmod-config.md").Build()

	quiet := NewCLIErrorAdapter(false, slog.Default())
	if got := quiet.FormatError(err); strings.Contains(got, "path:") {
		t.Errorf("non-verbose output should omit context, got %q", got)
	}

	verbose := NewCLIErrorAdapter(true, slog.Default())
	got := verbose.FormatError(err)
	if !strings.Contains(got, "path: nextmod-config.md") {
		t.Errorf("verbose output should include context, got %q", got)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(SecurityError("path escapes output root").Build())

	if code != 13 {
		t.Errorf("expected exit code 13, got %d", code)
	}
	if !strings.Contains(out.String(), "path escapes output root") {
		t.Errorf("expected message on stderr, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "category=security") {
		t.Errorf("expected fatal error to be logged, got %q", logs.String())
	}
}
