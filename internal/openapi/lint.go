// openapi/lint.go
package openapi

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"plantapi/internal/uml"
)

const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

type Issue struct {
	Entity   string `json:"entity"`
	Field    string `json:"field,omitempty"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Lint reports what Transform silently drops or degrades. It does not change
// the document; the projection stays permissive.
func Lint(d *uml.Diagram) []Issue {
	issues := []Issue{}
	if d == nil {
		return issues
	}

	components := mapset.NewThreadUnsafeSet[string]()
	classLike := mapset.NewThreadUnsafeSet[string]()
	seen := map[string]int{}

	for _, e := range d.ClassLike() {
		components.Add(e.Name)
		classLike.Add(e.Name)
		seen[e.Name]++
	}
	for _, e := range d.Enums {
		components.Add(e.Name)
		seen[e.Name]++
	}

	// 1) duplicate declarations, in declaration order
	reported := mapset.NewThreadUnsafeSet[string]()
	names := make([]string, 0, len(seen))
	for _, e := range d.ClassLike() {
		names = append(names, e.Name)
	}
	for _, e := range d.Enums {
		names = append(names, e.Name)
	}
	for _, n := range names {
		if seen[n] > 1 && reported.Add(n) {
			issues = append(issues, Issue{
				Entity:   n,
				Code:     "duplicate_component",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%q is declared %d times; declarations are merged or overwritten", n, seen[n]),
			})
		}
	}

	// 2) attribute types that degrade to string
	for _, e := range d.ClassLike() {
		for _, a := range e.Attributes {
			if a.Type == "" || IsPrimitiveType(a.Type) || components.Contains(a.Type) {
				continue
			}
			issues = append(issues, Issue{
				Entity:   e.Name,
				Field:    a.Name,
				Code:     "unknown_type",
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("type %q is neither primitive nor a declared component; emitted as string", a.Type),
			})
		}
	}

	// 3) relations
	for _, r := range d.Relations {
		switch r.Kind {
		case uml.RelationInheritance:
			if !classLike.Contains(r.From) || !classLike.Contains(r.To) {
				issues = append(issues, Issue{
					Entity:   r.To,
					Code:     "inheritance_unknown",
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("%s %s %s: both ends must be declared classes or interfaces", r.From, r.Symbol, r.To),
				})
			}
		case uml.RelationComposition, uml.RelationAggregation, uml.RelationAssociation:
			if !classLike.Contains(r.From) || !components.Contains(r.To) {
				issues = append(issues, Issue{
					Entity:   r.From,
					Field:    PropertyName(r.To),
					Code:     "dangling_endpoint",
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("%s %s %s: relation dropped, endpoint not declared", r.From, r.Symbol, r.To),
				})
			}
		default:
			issues = append(issues, Issue{
				Entity:   r.From,
				Code:     "relation_ignored",
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("%s %s %s: %s relations add no property", r.From, r.Symbol, r.To, r.Kind),
			})
		}
	}
	return issues
}
