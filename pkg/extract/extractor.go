package extract

import (
	"strings"

	"github.com/gnames/accmeta/pkg/coord"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/gnames/accmeta/pkg/remote"
	"github.com/gnames/gnuuid"
	"gopkg.in/yaml.v3"
)

// Extractor applies an ordered list of rules to payloads.
type Extractor struct {
	rules []Rule
}

// New creates an Extractor. Empty rules are replaced with DefaultRules.
func New(rules []Rule) *Extractor {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Extractor{rules: rules}
}

// Digest identifies the rules of the Extractor. Extractors with equal
// rules in the same order have equal digests.
func (e *Extractor) Digest() string {
	data, err := yaml.Marshal(rulesFile{Fields: e.rules})
	if err != nil {
		return ""
	}
	return gnuuid.New(string(data)).String()
}

// Apply runs all rules against p and writes found values into rec. Fields
// that are already resolved are left untouched. It returns the number of
// fields written.
func (e *Extractor) Apply(
	p remote.Payload,
	rec *record.MetadataRecord,
	m record.Method,
	order coord.Order,
) int {
	if p == nil {
		return 0
	}

	var res int
	for _, r := range e.rules {
		f := r.RecordField()
		if rec.Resolved(f) {
			continue
		}

		if f == record.Coordinates {
			if pair := coords(p, r, order); pair.Valid && rec.SetCoords(pair, m) {
				res++
			}
			continue
		}

		val, ok := find(p, r)
		if !ok {
			continue
		}
		if r.Transform == CountryPrefix {
			val = countryPrefix(val)
		}
		if rec.Set(f, val, m) {
			res++
		}
	}
	return res
}

func find(p remote.Payload, r Rule) (string, bool) {
	names := r.Attributes
	if isFlat(p) {
		names = r.Flat
	}
	for _, name := range names {
		if v, ok := Extract(p, name); ok && !IsNull(v) {
			return v, true
		}
	}
	return "", false
}

func coords(p remote.Payload, r Rule, order coord.Order) coord.Pair {
	if v, ok := find(p, r); ok {
		if pair := coord.ParseWithOrder(v, order); pair.Valid {
			return pair
		}
	}
	if isFlat(p) || len(r.Latitude) == 0 || len(r.Longitude) == 0 {
		return coord.Absent
	}

	lat, ok := find(p, Rule{Attributes: r.Latitude})
	if !ok {
		return coord.Absent
	}
	lon, ok := find(p, Rule{Attributes: r.Longitude})
	if !ok {
		return coord.Absent
	}
	return coord.ParseWithOrder(lat+" "+lon, coord.OrderLatLon)
}

func isFlat(p remote.Payload) bool {
	switch p.(type) {
	case remote.FlatRecord, *remote.FlatRecord:
		return true
	}
	return false
}

func countryPrefix(s string) string {
	before, _, _ := strings.Cut(s, ":")
	return strings.TrimSpace(before)
}

var nullTerms = map[string]struct{}{
	"missing":           {},
	"not collected":     {},
	"not applicable":    {},
	"not provided":      {},
	"restricted access": {},
	"unknown":           {},
	"n/a":               {},
	"na":                {},
	"none":              {},
	"null":              {},
	"-":                 {},
}

// IsNull checks if a value is a null term used by submitters instead of
// leaving a field empty (for example "missing" or "not collected: lab
// stock").
func IsNull(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return true
	}
	if _, ok := nullTerms[s]; ok {
		return true
	}
	if pre, _, ok := strings.Cut(s, ":"); ok {
		if _, ok := nullTerms[strings.TrimSpace(pre)]; ok {
			return true
		}
	}
	return false
}
