// Package compliance evaluates DICOM metadata against declarative rule tables.
//
// A RuleSet groups Elements into Modules and Modules into Entities, mirroring
// the Information Entity / Module layout of the DICOM standard. Each Element
// carries a Condition; Evaluate classifies every element of a RuleSet into an
// Outcome for one file's flattened Dataset. RuleSets are immutable after
// construction and safe to share across goroutines.
package compliance

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jpfielding/ophdicom.go/pkg/dicom/tag"
)

// ErrRuleDefinition marks a malformed rule table
var ErrRuleDefinition = errors.New("rule definition error")

// Element is a single rule row
type Element struct {
	Name      string
	Tag       string // 8 uppercase hex digits
	VR        string // descriptive only
	Condition Condition
}

// Module is a named, standards-referenced group of elements
type Module struct {
	Name      string
	Reference string
	Elements  []Element
}

// Entity is a DICOM Information Entity
type Entity struct {
	Name    string
	Modules []Module
}

// RuleSet is one modality's complete rule table
type RuleSet struct {
	Key      string
	Name     string
	Entities []Entity

	tags []string
}

// Ref locates an element inside its rule set
type Ref struct {
	Entity    string
	Module    string
	Reference string
	Element   Element
}

// NewRuleSet validates and normalises a rule table
func NewRuleSet(key, name string, entities ...Entity) (*RuleSet, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: rule set %q has no key", ErrRuleDefinition, name)
	}
	rs := &RuleSet{Key: key, Name: name, Entities: make([]Entity, len(entities))}
	seen := map[string]bool{}
	for i, e := range entities {
		ent := Entity{Name: e.Name, Modules: make([]Module, len(e.Modules))}
		for j, m := range e.Modules {
			mod := Module{Name: m.Name, Reference: m.Reference, Elements: make([]Element, len(m.Elements))}
			for k, el := range m.Elements {
				norm, err := normalizeElement(el)
				if err != nil {
					return nil, fmt.Errorf("%w: %s / %s / %s: %v", ErrRuleDefinition, key, e.Name, m.Name, err)
				}
				mod.Elements[k] = norm
				if !seen[norm.Tag] {
					seen[norm.Tag] = true
					rs.tags = append(rs.tags, norm.Tag)
				}
			}
			ent.Modules[j] = mod
		}
		rs.Entities[i] = ent
	}
	sort.Strings(rs.tags)
	return rs, nil
}

// MustRuleSet is NewRuleSet for package level tables; it panics on a malformed table
func MustRuleSet(key, name string, entities ...Entity) *RuleSet {
	rs, err := NewRuleSet(key, name, entities...)
	if err != nil {
		panic(err)
	}
	return rs
}

func normalizeElement(el Element) (Element, error) {
	t, err := canonicalTag(el.Tag)
	if err != nil {
		return el, fmt.Errorf("element %q: %w", el.Name, err)
	}
	el.Tag = t
	c := el.Condition
	switch c.Kind {
	case KindMustExist, KindAllowEmpty, KindPreferred:
	case KindTagExistsIf, KindExistsWithValueIf:
		if c.Predicate == nil {
			return el, fmt.Errorf("element %q: %s without predicate", el.Name, c.Kind)
		}
		p, err := canonicalTag(c.Premise)
		if err != nil {
			return el, fmt.Errorf("element %q premise: %w", el.Name, err)
		}
		c.Premise = p
		el.Condition = c
	default:
		return el, fmt.Errorf("element %q: unknown condition %s", el.Name, c.Kind)
	}
	return el, nil
}

// canonicalTag requires exactly 8 hex digits and uppercases them
func canonicalTag(s string) (string, error) {
	if len(s) != 8 {
		return "", fmt.Errorf("tag %q: want 8 hex digits", s)
	}
	t, err := tag.Parse(s)
	if err != nil {
		return "", err
	}
	return t.Hex(), nil
}

// Tags returns the sorted, de-duplicated union of element tags. Premise
// tags are included only when they are elements themselves.
func (rs *RuleSet) Tags() []string {
	out := make([]string, len(rs.tags))
	copy(out, rs.tags)
	return out
}

// Premises returns premise tags that are not elements of the rule set
func (rs *RuleSet) Premises() []string {
	own := map[string]bool{}
	for _, t := range rs.tags {
		own[t] = true
	}
	var out []string
	for _, r := range rs.Refs() {
		p := r.Element.Condition.Premise
		if r.Element.Condition.IsConditional() && !own[p] {
			own[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Refs returns every element occurrence in table order
func (rs *RuleSet) Refs() []Ref {
	var out []Ref
	for _, e := range rs.Entities {
		for _, m := range e.Modules {
			for _, el := range m.Elements {
				out = append(out, Ref{Entity: e.Name, Module: m.Name, Reference: m.Reference, Element: el})
			}
		}
	}
	return out
}

func (rs *RuleSet) String() string {
	return fmt.Sprintf("%s (%s)", rs.Name, rs.Key)
}

// Dataset is the evaluator's view of one file: values keyed by canonical tag
type Dataset interface {
	Lookup(tag string) ([]string, bool)
}

// Values is an in-memory Dataset
type Values map[string][]string

// Lookup implements Dataset
func (v Values) Lookup(t string) ([]string, bool) {
	vals, ok := v[strings.ToUpper(t)]
	return vals, ok
}
