// Package render binds pages to HTML templates.
package render

import (
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/site"
	"git.home.luguber.info/inful/sitebuilder/internal/util/sets"
)

const (
	templateExt      = ".html"
	missingKeyOption = "missingkey=error"
)

// Templates is the parsed template set of one build.
type Templates struct {
	root  string
	set   *template.Template
	names sets.Set[string]
}

// LoadTemplates parses every *.html file below root into one set. Each
// template is named by its slash separated path relative to root, so
// templates can include each other with {{template "partials/head.html" .}}.
func LoadTemplates(root string) (*Templates, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNotFound, "template directory").
			Fatal().
			WithPath(root).
			Build()
	}
	if !info.IsDir() {
		return nil, ferrors.NewError(ferrors.CategoryConfig, "template path is not a directory").
			Fatal().
			WithPath(root).
			Build()
	}

	t := &Templates{
		root:  root,
		set:   template.New("").Funcs(funcMap(site.Settings{})).Option(missingKeyOption),
		names: sets.New[string](),
	}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), templateExt) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := t.set.New(name).Parse(string(raw)); err != nil {
			return ferrors.TemplateRenderError(name, name, err).Fatal().Build()
		}
		t.names.Add(name)
		return nil
	})
	if err != nil {
		if ferrors.IsClassified(err) {
			return nil, err
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryNotFound, "read templates").
			Fatal().
			WithPath(root).
			Build()
	}
	if len(t.names) == 0 {
		slog.Warn("No templates found", logfields.Path(root))
	}
	return t, nil
}

// Names returns the template names in sorted order.
func (t *Templates) Names() []string { return sets.Sorted(t.names) }

// Has reports whether a template with this name was loaded.
func (t *Templates) Has(name string) bool { return t.names.Has(name) }

var kindCandidates = map[site.PageKind][]string{
	site.KindPost:  {"post.html"},
	site.KindPage:  {"page.html", "post.html"},
	site.KindIndex: {"index.html", "list.html"},
	site.KindTags:  {"tags.html", "list.html"},
	site.KindTag:   {"tag.html", "list.html"},
}

// Candidates lists the template names tried for p, in order.
func Candidates(p *site.Page) []string {
	if p.Template != "" {
		name := strings.TrimPrefix(filepath.ToSlash(p.Template), "/")
		if !strings.EqualFold(filepath.Ext(name), templateExt) {
			name += templateExt
		}
		return []string{name}
	}
	return kindCandidates[p.Kind]
}

// Resolve picks the template for p. A page naming its template explicitly
// gets no fallback.
func (t *Templates) Resolve(p *site.Page) (string, error) {
	cands := Candidates(p)
	for _, name := range cands {
		if t.names.Has(name) {
			return name, nil
		}
	}
	if len(cands) == 0 {
		return "", ferrors.TemplateNotFoundError(p.Label(), "").
			WithContext("kind", string(p.Kind)).
			Build()
	}
	return "", ferrors.TemplateNotFoundError(p.Label(), cands[0]).
		WithContext("candidates", cands).
		Build()
}
