package compliance

import (
	"encoding/json"
	"fmt"
)

// Outcome is the classification of one element for one file
type Outcome int

const (
	OK Outcome = iota
	TagAndValueNeeded
	TagNeeded
	ValueNeeded
	PreferredMissing
)

var outcomeNames = map[Outcome]string{
	OK:                "OK",
	TagAndValueNeeded: "TAG_AND_VALUE_NEEDED",
	TagNeeded:         "TAG_NEEDED",
	ValueNeeded:       "VALUE_NEEDED",
	PreferredMissing:  "PREFERRED",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// IsError reports outcomes that flag a missing tag or value
func (o Outcome) IsError() bool {
	return o == TagAndValueNeeded || o == TagNeeded || o == ValueNeeded
}

// MarshalText implements encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Outcome) UnmarshalText(b []byte) error {
	for k, v := range outcomeNames {
		if v == string(b) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Outcomes maps canonical tags to their classification
type Outcomes map[string]Outcome

// MarshalJSON keeps the tag keyed object form
func (o Outcomes) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]Outcome(o))
}

// Count tallies outcomes by kind
func (o Outcomes) Count() map[Outcome]int {
	out := map[Outcome]int{}
	for _, v := range o {
		out[v]++
	}
	return out
}

type evalConfig struct {
	presentPreferredOK bool
}

// EvalOption adjusts evaluation
type EvalOption func(*evalConfig)

// WithPresentPreferredOK reports PREFERRED elements that are present with a
// value as OK instead of PREFERRED
func WithPresentPreferredOK() EvalOption {
	return func(c *evalConfig) { c.presentPreferredOK = true }
}

// Evaluate classifies every element of rs against ds. Elements sharing a
// tag see the same value; the last occurrence in table order wins.
func Evaluate(rs *RuleSet, ds Dataset, opts ...EvalOption) Outcomes {
	cfg := evalConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	out := Outcomes{}
	for _, ref := range rs.Refs() {
		out[ref.Element.Tag] = evaluateElement(ref.Element, ds, cfg)
	}
	return out
}

func evaluateElement(el Element, ds Dataset, cfg evalConfig) Outcome {
	values, present := ds.Lookup(el.Tag)
	c := el.Condition

	switch c.Kind {
	case KindMustExist:
		return mustExist(present, values)
	case KindAllowEmpty:
		return allowEmpty(present)
	case KindPreferred:
		if cfg.presentPreferredOK && present && len(values) > 0 {
			return OK
		}
		return PreferredMissing
	case KindTagExistsIf, KindExistsWithValueIf:
		premise, ok := ds.Lookup(c.Premise)
		if !ok {
			return PreferredMissing
		}
		if !c.Predicate(premise) {
			return OK
		}
		if c.Kind == KindTagExistsIf {
			return allowEmpty(present)
		}
		return mustExist(present, values)
	}
	return PreferredMissing
}

func mustExist(present bool, values []string) Outcome {
	switch {
	case !present:
		return TagAndValueNeeded
	case len(values) == 0:
		return ValueNeeded
	default:
		return OK
	}
}

func allowEmpty(present bool) Outcome {
	if present {
		return OK
	}
	return TagNeeded
}
