package uml

import (
	"regexp"
	"strconv"
	"strings"
)

type CardinalityKind string

const (
	CardinalityExact  CardinalityKind = "exact"
	CardinalityRange  CardinalityKind = "range"
	CardinalityMany   CardinalityKind = "many"
	CardinalityCustom CardinalityKind = "custom"
)

// Cardinality is a relation endpoint multiplicity. Raw always keeps the
// annotation as written; the other fields depend on Kind:
//
//	exact  -> Value
//	range  -> Min, Max (nil means unbounded `*`)
//	custom -> Label
type Cardinality struct {
	Kind  CardinalityKind `json:"type"`
	Raw   string          `json:"raw"`
	Value int             `json:"value,omitempty"`
	Min   *int            `json:"min,omitempty"`
	Max   *int            `json:"max,omitempty"`
	Label string          `json:"label,omitempty"`
}

var (
	exactRe = regexp.MustCompile(`^\d+$`)
	rangeRe = regexp.MustCompile(`^(\d+|\*)\.\.(\d+|\*)$`)
)

// ParseCardinality classifies a raw annotation; blank input yields nil.
func ParseCardinality(raw string) *Cardinality {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	if value == "*" {
		return &Cardinality{Kind: CardinalityMany, Raw: value}
	}

	if exactRe.MatchString(value) {
		n, err := strconv.Atoi(value)
		if err == nil {
			return &Cardinality{Kind: CardinalityExact, Raw: value, Value: n}
		}
	}

	if m := rangeRe.FindStringSubmatch(value); m != nil {
		return &Cardinality{Kind: CardinalityRange, Raw: value, Min: bound(m[1]), Max: bound(m[2])}
	}

	return &Cardinality{Kind: CardinalityCustom, Raw: value, Label: value}
}

func bound(s string) *int {
	if s == "*" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// Decision is the structural shape a cardinality asks for.
type Decision struct {
	Array    bool
	Required bool
	MinItems *int
	MaxItems *int
}

var (
	singleWords = []string{"one", "single", "singular"}
	manyWords   = []string{"many", "multiple", "list", "collection"}
)

// Decide turns the cardinality into a scalar/array and required decision.
// A nil cardinality is a plain optional reference.
func (c *Cardinality) Decide() Decision {
	if c == nil {
		return Decision{}
	}

	switch c.Kind {
	case CardinalityMany:
		return Decision{Array: true}

	case CardinalityExact:
		if c.Value == 1 {
			return Decision{Required: true}
		}
		n := c.Value
		return Decision{Array: true, Required: n > 0, MinItems: intp(n), MaxItems: intp(n)}

	case CardinalityRange:
		lo := 0
		if c.Min != nil {
			lo = *c.Min
		}
		if c.Max != nil && *c.Max == 1 {
			return Decision{Required: lo > 0}
		}
		d := Decision{Array: true, Required: lo > 0}
		if lo > 0 {
			d.MinItems = intp(lo)
		}
		if c.Max != nil {
			d.MaxItems = intp(*c.Max)
		}
		return d

	case CardinalityCustom:
		label := strings.ToLower(c.Raw)
		if containsAny(label, singleWords) {
			return Decision{Required: true}
		}
		if containsAny(label, manyWords) {
			return Decision{Array: true}
		}
		return Decision{}
	}
	return Decision{}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func intp(n int) *int { return &n }
