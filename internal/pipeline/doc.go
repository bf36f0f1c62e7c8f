// Package pipeline orchestrates a site build as a sequence of named stages:
// load_templates, process_documents, assemble_site, render_pages and
// write_output. Per-document and per-page work fans out over a bounded worker
// pool; site assembly is the single-threaded barrier between the two.
package pipeline
