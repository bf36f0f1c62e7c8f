package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		cause:    err,
		context:  make(ErrorContext),
	}
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// WithContextMap adds multiple context values.
func (b *ErrorBuilder) WithContextMap(ctx ErrorContext) *ErrorBuilder {
	b.context = b.context.Merge(ctx)
	return b
}

// WithPath records the source or output path the error refers to.
func (b *ErrorBuilder) WithPath(path string) *ErrorBuilder {
	return b.WithContext(ContextPath, path)
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for the pipeline error kinds.

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError creates a validation error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// EncodingError creates an error for source bytes that are not valid text.
func EncodingError(path, message string) *ErrorBuilder {
	return NewError(CategoryEncoding, message).WithPath(path)
}

// FrontMatterError creates an error for a metadata block that cannot be parsed.
func FrontMatterError(path string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryFrontMatter, "malformed front matter").WithPath(path)
}

// MissingFieldError creates an error for absent required metadata keys.
func MissingFieldError(path string, fields ...string) *ErrorBuilder {
	b := NewError(CategoryMissingField, "missing required field").WithPath(path)
	if len(fields) > 0 {
		b.WithContext(ContextField, fields)
	}
	return b
}

// CollisionError creates a fatal error for two pages sharing one permalink.
func CollisionError(permalink string, paths ...string) *ErrorBuilder {
	return NewError(CategoryPermalinkCollision, "permalink collision").
		Fatal().
		WithContext(ContextPermalink, permalink).
		WithContext("sources", paths)
}

// TemplateNotFoundError creates an error for a page whose template does not exist.
func TemplateNotFoundError(path, template string) *ErrorBuilder {
	return NewError(CategoryTemplateNotFound, "template not found").
		WithPath(path).
		WithContext(ContextTemplate, template)
}

// TemplateRenderError creates an error for a failed template execution.
func TemplateRenderError(path, template string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryTemplateRender, "template execution failed").
		WithPath(path).
		WithContext(ContextTemplate, template)
}

// WriteError creates a fatal output error wrapping the I/O cause.
func WriteError(path string, cause error) *ErrorBuilder {
	return WrapError(cause, CategoryWrite, "write output").Fatal().WithPath(path)
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
