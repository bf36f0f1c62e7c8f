package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "sitebuilder.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "sitebuilder.yaml" {
			t.Errorf("expected context file=sitebuilder.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !IsClassified(err) {
			t.Error("expected error to be classified")
		}
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !HasSeverity(err, SeverityFatal) {
			t.Error("expected error to have fatal severity")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Found through wrapping", func(t *testing.T) {
		inner := EncodingError("posts/a.md", "invalid UTF-8").Build()
		wrapped := fmt.Errorf("load: %w", inner)

		if !HasCategory(wrapped, CategoryEncoding) {
			t.Error("expected wrapped error to keep encoding category")
		}
		got, ok := AsClassified(wrapped)
		if !ok || got.Path() != "posts/a.md" {
			t.Errorf("expected path posts/a.md, got %q", got.Path())
		}
	})

	t.Run("Message includes path", func(t *testing.T) {
		err := MissingFieldError("b.md", "title").Build()
		want := "[missing_field:error] b.md: missing required field"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("disk full")
		err := WrapError(originalErr, CategoryWrite, "write output").
			Fatal().
			WithPath("public/hello/index.html").
			WithContext("attempt", 1).
			Build()

		if err.Category() != CategoryWrite {
			t.Errorf("expected category %s, got %s", CategoryWrite, err.Category())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected error to wrap original error")
		}
		if _, ok := err.Context().Get("attempt"); !ok {
			t.Error("expected attempt context")
		}
	})

	t.Run("WithContext copies context", func(t *testing.T) {
		base := NewError(CategoryTemplateRender, "boom").WithContext("a", 1).Build()
		derived := base.WithContext("b", 2)

		if _, ok := base.Context().Get("b"); ok {
			t.Error("expected base context to stay unchanged")
		}
		if _, ok := derived.Context().Get("a"); !ok {
			t.Error("expected derived context to keep existing keys")
		}
	})

	t.Run("Kind constructors", func(t *testing.T) {
		cases := []struct {
			err      *ClassifiedError
			category ErrorCategory
			fatal    bool
		}{
			{EncodingError("a.md", "bad").Build(), CategoryEncoding, false},
			{FrontMatterError("a.md", errors.New("yaml")).Build(), CategoryFrontMatter, false},
			{MissingFieldError("a.md", "date").Build(), CategoryMissingField, false},
			{CollisionError("hello", "a.md", "b.md").Build(), CategoryPermalinkCollision, true},
			{TemplateNotFoundError("a.md", "x.html").Build(), CategoryTemplateNotFound, false},
			{TemplateRenderError("a.md", "x.html", errors.New("exec")).Build(), CategoryTemplateRender, false},
			{WriteError("out", errors.New("io")).Build(), CategoryWrite, true},
		}
		for _, tc := range cases {
			t.Run(string(tc.category), func(t *testing.T) {
				if tc.err.Category() != tc.category {
					t.Errorf("category = %s, want %s", tc.err.Category(), tc.category)
				}
				if tc.err.IsFatal() != tc.fatal {
					t.Errorf("fatal = %v, want %v", tc.err.IsFatal(), tc.fatal)
				}
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	var c ErrorContext
	c = c.Set("k", "v")
	if v, ok := c.GetString("k"); !ok || v != "v" {
		t.Errorf("GetString(k) = %q, %v", v, ok)
	}

	merged := c.Merge(ErrorContext{"k": "w", "n": 1})
	if v, _ := merged.GetString("k"); v != "w" {
		t.Errorf("expected other to take precedence, got %q", v)
	}
	if v, _ := c.GetString("k"); v != "v" {
		t.Errorf("expected receiver unchanged, got %q", v)
	}
}

func TestIsDocumentCategory(t *testing.T) {
	for _, c := range []ErrorCategory{CategoryEncoding, CategoryFrontMatter, CategoryMissingField} {
		if !IsDocumentCategory(c) {
			t.Errorf("expected %s to be a document category", c)
		}
	}
	if IsDocumentCategory(CategoryWrite) {
		t.Error("write is not a document category")
	}
}
