package frontmatter

import (
	"slices"
	"strings"
	"time"
)

// Kind enumerates the variants a metadata Value can hold.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindDate
	KindList
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is a single front-matter value: a string, a date, a list of strings
// or a boolean. The zero Value is invalid.
type Value struct {
	kind Kind
	str  string
	date time.Time
	list []string
	b    bool
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }

func DateValue(t time.Time) Value { return Value{kind: KindDate, date: t} }

func ListValue(items ...string) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

func (v Value) AsDate() (time.Time, bool) { return v.date, v.kind == KindDate }

// AsList returns a copy of the list items.
func (v Value) AsList() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// String renders the value for display in templates and logs.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindDate:
		return FormatDate(v.date)
	case KindList:
		return strings.Join(v.list, ", ")
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Equal reports whether two values hold the same variant and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindDate:
		return v.date.Equal(o.date)
	case KindList:
		return slices.Equal(v.list, o.list)
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// Metadata maps front-matter keys to values.
type Metadata map[string]Value

// Get returns the value stored under key.
func (m Metadata) Get(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}

// Keys returns the keys in lexicographic order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	// Single-digit fields as accepted by the YAML timestamp grammar.
	"2006-1-2T15:4:5.999999999Z07:00",
	"2006-1-2t15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999",
	"2006-1-2",
}

// ParseDate parses an ISO-8601 date or date-time. Values without a zone are UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders dates at midnight UTC as YYYY-MM-DD and others as RFC 3339.
func FormatDate(t time.Time) string {
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
