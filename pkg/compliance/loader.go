package compliance

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlRuleSet struct {
	Key      string       `yaml:"key"`
	Name     string       `yaml:"name"`
	Entities []yamlEntity `yaml:"entities"`
}

type yamlEntity struct {
	Name    string       `yaml:"name"`
	Modules []yamlModule `yaml:"modules"`
}

type yamlModule struct {
	Name      string        `yaml:"name"`
	Reference string        `yaml:"reference"`
	Elements  []yamlElement `yaml:"elements"`
}

type yamlElement struct {
	Name      string         `yaml:"name"`
	Tag       string         `yaml:"tag"`
	VR        string         `yaml:"vr"`
	Condition string         `yaml:"condition"`
	Premise   string         `yaml:"premise"`
	Predicate *yamlPredicate `yaml:"predicate"`
}

type yamlPredicate struct {
	Op    string `yaml:"op"`
	Value string `yaml:"value"`
}

// LoadRuleSet parses a YAML rule table. The condition of an element is one
// of must_exist (default), allow_empty, preferred, tag_exists_if or
// exists_with_value_if; the conditional kinds take a premise tag and a
// predicate {op, value} with op first_equals, contains, first_contains,
// first_int_gt or not_empty.
func LoadRuleSet(r io.Reader) (*RuleSet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc yamlRuleSet
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuleDefinition, err)
	}
	entities := make([]Entity, 0, len(doc.Entities))
	for _, ye := range doc.Entities {
		ent := Entity{Name: ye.Name}
		for _, ym := range ye.Modules {
			mod := Module{Name: ym.Name, Reference: ym.Reference}
			for _, yel := range ym.Elements {
				cond, err := yel.condition()
				if err != nil {
					return nil, fmt.Errorf("%w: %s / %s / %s: %v", ErrRuleDefinition, doc.Key, ye.Name, ym.Name, err)
				}
				mod.Elements = append(mod.Elements, Element{Name: yel.Name, Tag: yel.Tag, VR: yel.VR, Condition: cond})
			}
			ent.Modules = append(ent.Modules, mod)
		}
		entities = append(entities, ent)
	}
	return NewRuleSet(doc.Key, doc.Name, entities...)
}

// LoadRuleSetFile reads a YAML rule table from disk
func LoadRuleSetFile(path string) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rs, err := LoadRuleSet(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// LoadRuleSetDir loads every *.yaml and *.yml table in dir, ordered by file name
func LoadRuleSetDir(dir string) ([]*RuleSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	var out []*RuleSet
	var errs []error
	for _, n := range names {
		rs, err := LoadRuleSetFile(filepath.Join(dir, n))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, rs)
	}
	return out, errors.Join(errs...)
}

func (y yamlElement) condition() (Condition, error) {
	switch strings.ToLower(y.Condition) {
	case "", "must_exist":
		return MustExist, nil
	case "allow_empty":
		return AllowEmpty, nil
	case "preferred":
		return Preferred, nil
	case "tag_exists_if":
		pred, err := y.Predicate.build()
		if err != nil {
			return Condition{}, fmt.Errorf("element %q: %w", y.Name, err)
		}
		return TagExistsIf(y.Premise, pred), nil
	case "exists_with_value_if":
		pred, err := y.Predicate.build()
		if err != nil {
			return Condition{}, fmt.Errorf("element %q: %w", y.Name, err)
		}
		return ExistsWithValueIf(y.Premise, pred), nil
	default:
		return Condition{}, fmt.Errorf("element %q: unknown condition %q", y.Name, y.Condition)
	}
}

func (p *yamlPredicate) build() (Predicate, error) {
	if p == nil {
		return nil, errors.New("conditional element without predicate")
	}
	switch p.Op {
	case "first_equals":
		return FirstEquals(p.Value), nil
	case "contains":
		return Contains(p.Value), nil
	case "first_contains":
		return FirstContains(p.Value), nil
	case "first_int_gt":
		n, err := strconv.Atoi(p.Value)
		if err != nil {
			return nil, fmt.Errorf("first_int_gt value %q: %w", p.Value, err)
		}
		return FirstIntGreaterThan(n), nil
	case "not_empty":
		return NotEmpty(), nil
	default:
		return nil, fmt.Errorf("unknown predicate op %q", p.Op)
	}
}
