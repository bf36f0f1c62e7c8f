package errors

import (
	"context"
	"errors"
	"fmt"
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
		{name: "partial success", err: PartialSuccess(2), expected: 3},
		{name: "validation error", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "config error", err: ConfigError("bad config").Build(), expected: 7},
		{name: "collision", err: CollisionError("hello", "a.md", "b.md").Build(), expected: 11},
		{name: "write error", err: WriteError("public", errors.New("denied")).Build(), expected: 11},
		{name: "wrapped front matter", err: fmt.Errorf("stage: %w", FrontMatterError("a.md", errors.New("x")).Build()), expected: 11},
		{name: "internal", err: InternalError("nil site").Build(), expected: 10},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: 1},
		{name: "plain context canceled", err: context.Canceled, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	msg := adapter.FormatError(TemplateNotFoundError("posts/a.md", "fancy.html").Build())
	if msg != "Error: posts/a.md: template not found" {
		t.Errorf("unexpected message %q", msg)
	}

	msg = adapter.FormatError(WriteError("public", errors.New("read-only file system")).Build())
	if !strings.HasSuffix(msg, "read-only file system") {
		t.Errorf("expected cause in message, got %q", msg)
	}

	if got := adapter.FormatError(PartialSuccess(1)); got != "build completed with 1 issue(s)" {
		t.Errorf("unexpected partial message %q", got)
	}

	if got := adapter.FormatError(errors.New("plain")); got != "Error: plain" {
		t.Errorf("unexpected plain message %q", got)
	}

	verbose := NewCLIErrorAdapter(true, slog.Default())
	err := ConfigError("bad").Build()
	if got := verbose.FormatError(err); got != err.Error() {
		t.Errorf("verbose mode should print full error, got %q", got)
	}
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
