package extract

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/gnames/accmeta/pkg/templates"
	"gopkg.in/yaml.v3"
)

// Transform names a post-processing step of a rule.
type Transform string

const (
	// NoTransform keeps the value as found.
	NoTransform Transform = ""
	// CountryPrefix keeps the part of a geographic location before ':'.
	CountryPrefix Transform = "country_prefix"
)

// Rule describes where to find the value of one field.
type Rule struct {
	// Field is the configuration name of a record.Field.
	Field string `yaml:"field"`

	// Flat lists qualifiers or `key:` markers of flat records.
	Flat []string `yaml:"flat,omitempty"`

	// Attributes lists glob patterns of attribute names.
	Attributes []string `yaml:"attributes,omitempty"`

	// Latitude and Longitude list attributes that keep coordinates split
	// in two values. They are used only for the coordinates field.
	Latitude  []string `yaml:"latitude,omitempty"`
	Longitude []string `yaml:"longitude,omitempty"`

	// Transform is applied to the found value.
	Transform Transform `yaml:"transform,omitempty"`

	field record.Field
}

// RecordField returns the parsed Field of the rule. It is set by
// LoadRules.
func (r Rule) RecordField() record.Field {
	return r.field
}

// RuleLoader provides extraction rules.
type RuleLoader interface {
	Load() ([]Rule, error)
}

type rulesFile struct {
	Fields []Rule `yaml:"fields"`
}

// LoadRules parses rules from YAML and validates them.
func LoadRules(data []byte) ([]Rule, error) {
	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("cannot parse rules: %w", err)
	}
	if len(rf.Fields) == 0 {
		return nil, fmt.Errorf("no rules found")
	}

	res := make([]Rule, 0, len(rf.Fields))
	for i, v := range rf.Fields {
		f, err := record.NewField(v.Field)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		v.field = f

		switch v.Transform {
		case NoTransform, CountryPrefix:
		default:
			return nil, fmt.Errorf("rule %d: unknown transform %q", i+1, v.Transform)
		}

		pats := append(append(append([]string{}, v.Attributes...), v.Latitude...), v.Longitude...)
		for _, p := range pats {
			if !doublestar.ValidatePattern(strings.ToLower(p)) {
				return nil, fmt.Errorf("rule %d: bad attribute pattern %q", i+1, p)
			}
		}

		if len(v.Flat)+len(v.Attributes)+len(v.Latitude) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no sources", i+1, v.Field)
		}
		res = append(res, v)
	}
	return res, nil
}

// DefaultRules returns rules of the embedded fields.yaml.
func DefaultRules() []Rule {
	res, err := LoadRules([]byte(templates.FieldsYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded fields.yaml is broken: %s", err))
	}
	return res
}
