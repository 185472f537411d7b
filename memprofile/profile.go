// Package memprofile loads a validate.Profile from a YAML document: a
// top-level variables: list and a top-level rules: list, in the shape
// documented in SPEC_FULL.md §6. It is a reference implementation of
// the profile collaborator — the engine core has no opinion on profile
// file formats.
package memprofile

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/profileval/engine"
)

type yamlVariable struct {
	Name       string `yaml:"name"`
	TargetType string `yaml:"target_type"`
	Default    string `yaml:"default"`
	Update     string `yaml:"update"`
}

type yamlArgument struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

type yamlRule struct {
	RuleID        string         `yaml:"rule_id"`
	TargetType    string         `yaml:"target_type"`
	Expr          string         `yaml:"expr"`
	Deferred      bool           `yaml:"deferred"`
	Description   string         `yaml:"description"`
	ErrorTemplate string         `yaml:"error_template"`
	Arguments     []yamlArgument `yaml:"arguments"`
}

type document struct {
	Variables []yamlVariable `yaml:"variables"`
	Rules     []yamlRule     `yaml:"rules"`
}

// Profile is a validate.Profile built from a parsed YAML document.
type Profile struct {
	variables       []*validate.Variable
	variablesByType map[string][]*validate.Variable
	rulesByType     map[string][]*validate.Rule
}

var _ validate.Profile = (*Profile)(nil)

// New builds a Profile directly from variables and rules, without going
// through YAML — useful for tests and for profiles assembled
// programmatically.
func New(variables []*validate.Variable, rules []*validate.Rule) *Profile {
	p := &Profile{
		variables:       variables,
		variablesByType: make(map[string][]*validate.Variable),
		rulesByType:     make(map[string][]*validate.Rule),
	}
	for _, v := range variables {
		p.variablesByType[v.TargetType] = append(p.variablesByType[v.TargetType], v)
	}
	for _, r := range rules {
		p.rulesByType[r.TargetType] = append(p.rulesByType[r.TargetType], r)
	}
	return p
}

// Load parses data as a YAML profile document.
func Load(data []byte) (*Profile, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing profile YAML")
	}
	return build(doc), nil
}

// LoadFile reads and parses path as a YAML profile document.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading profile file %q", path)
	}
	return Load(data)
}

func build(doc document) *Profile {
	p := &Profile{
		variablesByType: make(map[string][]*validate.Variable),
		rulesByType:     make(map[string][]*validate.Rule),
	}

	for _, v := range doc.Variables {
		variable := &validate.Variable{
			Name:       v.Name,
			TargetType: v.TargetType,
			Default:    v.Default,
			Update:     v.Update,
		}
		p.variables = append(p.variables, variable)
		p.variablesByType[v.TargetType] = append(p.variablesByType[v.TargetType], variable)
	}

	for _, r := range doc.Rules {
		rule := &validate.Rule{
			RuleID:        r.RuleID,
			TargetType:    r.TargetType,
			Expr:          r.Expr,
			Description:   r.Description,
			ErrorTemplate: r.ErrorTemplate,
			Deferred:      r.Deferred,
		}
		for _, a := range r.Arguments {
			rule.Arguments = append(rule.Arguments, validate.ErrorArgument{Name: a.Name, Expr: a.Expr})
		}
		p.rulesByType[r.TargetType] = append(p.rulesByType[r.TargetType], rule)
	}

	return p
}

func (p *Profile) Variables() []*validate.Variable { return p.variables }

func (p *Profile) VariablesByObjectType(objectType string) []*validate.Variable {
	return p.variablesByType[objectType]
}

func (p *Profile) RulesByObjectType(objectType string) []*validate.Rule {
	return p.rulesByType[objectType]
}
