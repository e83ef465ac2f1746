package compliance

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates the closed set of presence conditions
type Kind int

const (
	// KindMustExist - tag present with a non-empty value
	KindMustExist Kind = iota
	// KindAllowEmpty - tag present, value may be empty
	KindAllowEmpty
	// KindPreferred - recommended, never an error
	KindPreferred
	// KindTagExistsIf - tag present when the premise predicate holds
	KindTagExistsIf
	// KindExistsWithValueIf - tag present and non-empty when the premise predicate holds
	KindExistsWithValueIf
)

func (k Kind) String() string {
	switch k {
	case KindMustExist:
		return "MUST_EXIST"
	case KindAllowEmpty:
		return "ALLOW_EMPTY"
	case KindPreferred:
		return "PREFERRED"
	case KindTagExistsIf:
		return "TAG_EXISTS_IF"
	case KindExistsWithValueIf:
		return "EXISTS_WITH_VALUE_IF"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Predicate decides from the premise element's values whether a
// conditional requirement applies. Predicates built by this package return
// false on empty input and never panic.
type Predicate func(values []string) bool

// Condition is the requirement attached to an Element. The zero value is MustExist.
type Condition struct {
	Kind      Kind
	Premise   string    // canonical tag of the premise element, conditional kinds only
	Predicate Predicate // conditional kinds only
}

var (
	MustExist  = Condition{Kind: KindMustExist}
	AllowEmpty = Condition{Kind: KindAllowEmpty}
	Preferred  = Condition{Kind: KindPreferred}
)

// TagExistsIf requires the tag to be present (possibly empty) when pred
// holds on the premise value
func TagExistsIf(premise string, pred Predicate) Condition {
	return Condition{Kind: KindTagExistsIf, Premise: strings.ToUpper(premise), Predicate: Guard(pred)}
}

// ExistsWithValueIf requires the tag to be present and non-empty when pred
// holds on the premise value
func ExistsWithValueIf(premise string, pred Predicate) Condition {
	return Condition{Kind: KindExistsWithValueIf, Premise: strings.ToUpper(premise), Predicate: Guard(pred)}
}

// IsConditional reports the two premise-driven kinds
func (c Condition) IsConditional() bool {
	return c.Kind == KindTagExistsIf || c.Kind == KindExistsWithValueIf
}

func (c Condition) String() string {
	if c.IsConditional() {
		return fmt.Sprintf("%s(%s)", c.Kind, c.Premise)
	}
	return c.Kind.String()
}

// Guard makes pred total: empty input is false and a panic is false
func Guard(pred Predicate) Predicate {
	if pred == nil {
		return nil
	}
	return func(values []string) (ok bool) {
		if len(values) == 0 {
			return false
		}
		defer func() {
			if recover() != nil {
				ok = false
			}
		}()
		return pred(values)
	}
}

// FirstEquals holds when the first value equals want
func FirstEquals(want string) Predicate {
	return func(values []string) bool {
		return len(values) > 0 && strings.TrimSpace(values[0]) == want
	}
}

// FirstContains holds when the first value contains sub
func FirstContains(sub string) Predicate {
	return func(values []string) bool {
		return len(values) > 0 && strings.Contains(values[0], sub)
	}
}

// Contains holds when any value equals want
func Contains(want string) Predicate {
	return func(values []string) bool {
		for _, v := range values {
			if strings.TrimSpace(v) == want {
				return true
			}
		}
		return false
	}
}

// FirstIntGreaterThan holds when the first value parses as an integer above n
func FirstIntGreaterThan(n int) Predicate {
	return func(values []string) bool {
		if len(values) == 0 {
			return false
		}
		i, err := strconv.Atoi(strings.TrimSpace(values[0]))
		return err == nil && i > n
	}
}

// NotEmpty holds when the premise carries any value
func NotEmpty() Predicate {
	return func(values []string) bool {
		return len(values) > 0
	}
}
