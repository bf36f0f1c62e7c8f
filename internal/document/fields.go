package document

import (
	"fmt"
	"slices"
	"strings"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/frontmatter"
)

// extractFields validates recognized keys. Type mismatches are front-matter
// errors; absent required keys are reported together afterwards.
func extractFields(path string, meta frontmatter.Metadata) (Fields, error) {
	f := Fields{Kind: KindPost}
	var missing []string

	if v, ok := meta.Get(KeyTitle); ok {
		s, isStr := v.AsString()
		if !isStr {
			return Fields{}, typeError(path, KeyTitle, "string", v)
		}
		f.Title = strings.TrimSpace(s)
	}
	if f.Title == "" {
		missing = append(missing, KeyTitle)
	}

	if v, ok := meta.Get(KeyDate); ok {
		switch v.Kind() {
		case frontmatter.KindDate:
			f.Date, _ = v.AsDate()
		case frontmatter.KindString:
			s, _ := v.AsString()
			t, valid := frontmatter.ParseDate(s)
			if !valid {
				return Fields{}, ferrors.FrontMatterError(path, fmt.Errorf("key %q: %q is not an ISO-8601 date", KeyDate, s)).
					WithContext(ferrors.ContextField, KeyDate).
					Build()
			}
			f.Date = t
		default:
			return Fields{}, typeError(path, KeyDate, "date", v)
		}
	} else {
		missing = append(missing, KeyDate)
	}

	if v, ok := meta.Get(KeyTags); ok {
		var raw []string
		switch v.Kind() {
		case frontmatter.KindList:
			raw, _ = v.AsList()
		case frontmatter.KindString:
			s, _ := v.AsString()
			raw = []string{s}
		default:
			return Fields{}, typeError(path, KeyTags, "list of strings", v)
		}
		f.Tags = cleanTags(raw)
	}

	if v, ok := meta.Get(KeyDraft); ok {
		b, isBool := v.AsBool()
		if !isBool {
			return Fields{}, typeError(path, KeyDraft, "boolean", v)
		}
		f.Draft = b
	}

	var err error
	if f.Template, err = optionalString(path, meta, KeyTemplate); err != nil {
		return Fields{}, err
	}
	if f.Slug, err = optionalString(path, meta, KeySlug); err != nil {
		return Fields{}, err
	}
	if f.Summary, err = optionalString(path, meta, KeySummary); err != nil {
		return Fields{}, err
	}
	kind, err := optionalString(path, meta, KeyKind)
	if err != nil {
		return Fields{}, err
	}
	if kind != "" {
		k, known := kindNormalizer.Lookup(kind)
		if !known {
			return Fields{}, ferrors.FrontMatterError(path, fmt.Errorf("key %q: unknown kind %q", KeyKind, kind)).
				WithContext(ferrors.ContextField, KeyKind).
				Build()
		}
		f.Kind = k
	}

	if len(missing) > 0 {
		return Fields{}, ferrors.MissingFieldError(path, missing...).Build()
	}
	return f, nil
}

func optionalString(path string, meta frontmatter.Metadata, key string) (string, error) {
	v, ok := meta.Get(key)
	if !ok {
		return "", nil
	}
	s, isStr := v.AsString()
	if !isStr {
		return "", typeError(path, key, "string", v)
	}
	return strings.TrimSpace(s), nil
}

func typeError(path, key, want string, got frontmatter.Value) error {
	return ferrors.FrontMatterError(path, fmt.Errorf("key %q: expected %s, got %s", key, want, got.Kind())).
		WithContext(ferrors.ContextField, key).
		Build()
}

// cleanTags trims tags and drops blanks and exact duplicates, keeping first occurrence order.
func cleanTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
