package render

import (
	"html/template"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/site"
)

func funcMap(settings site.Settings) template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"absURL": func(path string) string {
			return strings.TrimRight(settings.BaseURL, "/") + relURL(path)
		},
		"relURL": relURL,
		"join": func(sep string, items []string) string {
			return strings.Join(items, sep)
		},
		"lower": strings.ToLower,
	}
}

// formatDate takes the layout first so it works at the end of a pipeline:
// {{ .Page.Date | formatDate "2006-01-02" }}. A zero time formats as "".
func formatDate(layout string, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(layout)
}

func relURL(path string) string {
	return "/" + strings.TrimLeft(path, "/")
}
