package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents user-facing configuration and input errors.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// Document errors are attributable to a single source file.
	CategoryEncoding     ErrorCategory = "encoding"
	CategoryFrontMatter  ErrorCategory = "frontmatter"
	CategoryMissingField ErrorCategory = "missing_field"

	// Site and template errors.
	CategoryPermalinkCollision ErrorCategory = "permalink_collision"
	CategoryTemplateNotFound   ErrorCategory = "template_not_found"
	CategoryTemplateRender     ErrorCategory = "template_render"

	// Output and storage errors.
	CategoryWrite   ErrorCategory = "write"
	CategoryHistory ErrorCategory = "history"
	CategoryGit     ErrorCategory = "git"

	// CategoryRuntime represents runtime and infrastructure errors.
	CategoryPartial  ErrorCategory = "partial"
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryCanceled ErrorCategory = "canceled"
	CategoryInternal ErrorCategory = "internal"
)

// IsDocumentCategory reports whether errors of this category belong to one source document.
func IsDocumentCategory(c ErrorCategory) bool {
	switch c {
	case CategoryEncoding, CategoryFrontMatter, CategoryMissingField:
		return true
	default:
		return false
	}
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the whole build
	SeverityError   ErrorSeverity = "error"   // Fails the current document or page
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// Context keys shared by pipeline errors.
const (
	ContextPath      = "path"
	ContextTemplate  = "template"
	ContextField     = "field"
	ContextPermalink = "permalink"
	ContextOffset    = "offset"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext, len(c)+len(other))
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
