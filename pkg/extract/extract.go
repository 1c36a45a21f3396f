// Package extract pulls metadata values out of remote payloads.
//
// Values are located by rules, an ordered list of field sources loaded from
// fields.yaml. A rule names qualifier markers for flat records and
// attribute names (shell-style globs) for attribute lists. Rules are
// applied in order and values are written with first-writer-wins, so the
// order of rules is also the order of precedence inside one payload.
package extract

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gnames/accmeta/pkg/remote"
)

// Extract returns the value called name from a payload.
//
// For a flat record name is a qualifier, it is matched as the `/name=`
// marker. A name that ends with ':' is matched as a `key: value` marker,
// for example "BioSample:" on a DBLINK line. For an attribute list the
// first attribute with a matching harmonized name wins, then the first
// attribute with a matching plain name. Matching is case-insensitive.
func Extract(p remote.Payload, name string) (string, bool) {
	switch v := p.(type) {
	case remote.FlatRecord:
		return flatValue(v.Text, flatMarker(name))
	case *remote.FlatRecord:
		if v == nil {
			return "", false
		}
		return flatValue(v.Text, flatMarker(name))
	case remote.AttributeList:
		return attrValue(v.Attrs, name)
	case *remote.AttributeList:
		if v == nil {
			return "", false
		}
		return attrValue(v.Attrs, name)
	}
	return "", false
}

func flatMarker(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(name, ":") || strings.HasPrefix(name, "/") {
		return name
	}
	return "/" + name + "="
}

// flatValue finds the first line with marker and returns the rest of the
// line. Quoted values may continue on the following lines. A quote that is
// never closed makes the value absent.
func flatValue(text, marker string) (string, bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		idx := indexFold(line, marker)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len(marker):])
		if !strings.HasPrefix(rest, `"`) {
			return clean(rest)
		}

		rest = rest[1:]
		if end := closingQuote(rest); end >= 0 {
			return clean(rest[:end])
		}

		parts := []string{rest}
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if end := closingQuote(next); end >= 0 {
				parts = append(parts, next[:end])
				return clean(strings.Join(parts, " "))
			}
			parts = append(parts, next)
		}
		return "", false
	}
	return "", false
}

// closingQuote returns the index of the first quote that is not doubled.
func closingQuote(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '"' {
			i++
			continue
		}
		return i
	}
	return -1
}

func clean(s string) (string, bool) {
	s = strings.ReplaceAll(s, `""`, `"`)
	s = strings.Trim(strings.TrimSpace(s), `"`)
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "", false
	}
	return s, true
}

func indexFold(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

// attrValue matches pattern against harmonized names first, then against
// plain names.
func attrValue(attrs []remote.Attribute, pattern string) (string, bool) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	for _, a := range attrs {
		if a.HarmonizedName == "" {
			continue
		}
		if nameMatch(pattern, a.HarmonizedName) {
			if v, ok := clean(a.Value); ok {
				return v, true
			}
		}
	}
	for _, a := range attrs {
		if nameMatch(pattern, a.Name) {
			if v, ok := clean(a.Value); ok {
				return v, true
			}
		}
	}
	return "", false
}

func nameMatch(pattern, name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	if pattern == name {
		return true
	}
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
