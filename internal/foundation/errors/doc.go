// Package errors provides the classified error type shared by every build stage.
//
// Each error carries a category naming its kind (encoding, frontmatter,
// missing_field, permalink_collision, template_not_found, template_render,
// write, ...), a severity deciding whether the build may continue, and a
// context map with the source path, template name or permalink involved.
//
// Example usage:
//
//	err := errors.TemplateNotFoundError(page.SourcePath, "post.html").Build()
//	if errors.HasCategory(err, errors.CategoryTemplateNotFound) {
//		// record and continue with the next page
//	}
package errors
