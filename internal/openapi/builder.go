package openapi

import (
	"strings"
	"unicode"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"

	"plantapi/internal/uml"
)

const componentRefPrefix = "#/components/schemas/"

type primitive struct {
	typ    string
	format string
}

// primitiveTypes is keyed by the lower-cased attribute type token.
var primitiveTypes = map[string]primitive{
	"string":    {typ: "string"},
	"text":      {typ: "string"},
	"uuid":      {typ: "string", format: "uuid"},
	"date":      {typ: "string", format: "date"},
	"datetime":  {typ: "string", format: "date-time"},
	"date-time": {typ: "string", format: "date-time"},
	"boolean":   {typ: "boolean"},
	"bool":      {typ: "boolean"},
	"int":       {typ: "integer", format: "int32"},
	"integer":   {typ: "integer"},
	"long":      {typ: "integer", format: "int64"},
	"float":     {typ: "number", format: "float"},
	"double":    {typ: "number", format: "double"},
	"number":    {typ: "number"},
	"decimal":   {typ: "number", format: "double"},
	"email":     {typ: "string", format: "email"},
}

// IsPrimitiveType reports whether the type token maps to a primitive schema.
func IsPrimitiveType(token string) bool {
	_, ok := primitiveTypes[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

// draft is the mutable state of one entity schema while relations are applied.
type draft struct {
	properties  map[string]*Schema
	required    []string
	requiredSet mapset.Set[string]
	description string
}

func newDraft() *draft {
	return &draft{
		properties:  map[string]*Schema{},
		requiredSet: mapset.NewThreadUnsafeSet[string](),
	}
}

func (d *draft) require(name string) {
	if d.requiredSet.Add(name) {
		d.required = append(d.required, name)
	}
}

// Builder accumulates component schemas for one diagram. It is not safe for
// concurrent use; every transformation owns its own Builder.
type Builder struct {
	enums      []uml.Enum
	components mapset.Set[string] // classes, interfaces and enums
	drafts     map[string]*draft
	order      []string
	parents    map[string][]string
}

// NewBuilder prepares a builder that knows every component name of d.
func NewBuilder(d *uml.Diagram) *Builder {
	b := &Builder{
		enums:      d.Enums,
		components: mapset.NewThreadUnsafeSet[string](),
		drafts:     map[string]*draft{},
		parents:    map[string][]string{},
	}
	for _, e := range d.ClassLike() {
		b.components.Add(e.Name)
	}
	for _, e := range d.Enums {
		b.components.Add(e.Name)
	}
	return b
}

// BuildSchemas runs the whole builder over d.
func BuildSchemas(d *uml.Diagram) map[string]*Schema {
	b := NewBuilder(d)
	for _, e := range d.ClassLike() {
		b.AddEntity(e)
	}
	for _, r := range d.Relations {
		b.ApplyRelation(r)
	}
	return b.Finalize()
}

func (b *Builder) ensureDraft(name string) *draft {
	if d, ok := b.drafts[name]; ok {
		return d
	}
	d := newDraft()
	b.drafts[name] = d
	b.order = append(b.order, name)
	return d
}

// AddEntity merges the entity's attributes and method summary into its draft.
// Classes and interfaces share one draft per name.
func (b *Builder) AddEntity(e uml.Entity) {
	d := b.ensureDraft(e.Name)
	for _, attr := range e.Attributes {
		d.properties[attr.Name] = b.attributeSchema(attr.Type)
		// visibility decides requiredness
		if attr.Access == uml.AccessPublic {
			d.require(attr.Name)
		}
	}
	if summary := methodSummary(e.Methods); summary != "" {
		if d.description == "" {
			d.description = "Methods: " + summary
		} else {
			d.description += "\nMethods: " + summary
		}
	}
}

func (b *Builder) attributeSchema(token string) *Schema {
	token = strings.TrimSpace(token)
	if token == "" {
		return &Schema{Type: "string"}
	}
	if p, ok := primitiveTypes[strings.ToLower(token)]; ok {
		return &Schema{Type: p.typ, Format: p.format}
	}
	if b.components.Contains(token) {
		return refSchema(token)
	}
	return &Schema{Type: "string"}
}

func methodSummary(methods []uml.Method) string {
	parts := make([]string, 0, len(methods))
	for _, m := range methods {
		s := string(m.Access) + " " + m.Name + "()"
		if m.ReturnType != "" {
			s += ": " + m.ReturnType
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

// ApplyRelation records inheritance or adds a relation-derived property.
// Relations with an unknown endpoint are dropped.
func (b *Builder) ApplyRelation(r uml.Relation) {
	if r.From == "" || r.To == "" {
		return
	}

	switch r.Kind {
	case uml.RelationInheritance:
		// from is the parent, to the child
		if _, ok := b.drafts[r.From]; !ok {
			return
		}
		if _, ok := b.drafts[r.To]; !ok || r.From == r.To {
			return
		}
		for _, p := range b.parents[r.To] {
			if p == r.From {
				return
			}
		}
		b.parents[r.To] = append(b.parents[r.To], r.From)

	case uml.RelationComposition, uml.RelationAggregation, uml.RelationAssociation:
		d, ok := b.drafts[r.From]
		if !ok || !b.components.Contains(r.To) {
			return
		}
		decision := r.ToCardinality.Decide()
		name := PropertyName(r.To)
		d.properties[name] = relationSchema(r.To, decision)
		if decision.Required {
			d.require(name)
		}

	default:
		// dependency and unknown relations are not structural
	}
}

func relationSchema(target string, decision uml.Decision) *Schema {
	if !decision.Array {
		return refSchema(target)
	}
	s := &Schema{Type: "array", Items: refSchema(target)}
	if decision.MinItems != nil {
		s.MinItems = intp(*decision.MinItems)
	}
	if decision.MaxItems != nil {
		s.MaxItems = intp(*decision.MaxItems)
	}
	return s
}

// Finalize produces the component schemas. Drafts are copied, so the result
// does not change if the builder is used afterwards.
func (b *Builder) Finalize() map[string]*Schema {
	schemas := make(map[string]*Schema, len(b.enums)+len(b.drafts))

	for _, e := range b.enums {
		s := &Schema{Type: "string"}
		if len(e.Values) > 0 {
			s.Enum = append([]string(nil), e.Values...)
		}
		schemas[e.Name] = s
	}

	for _, name := range b.order {
		obj := b.drafts[name].object()
		parents := b.parents[name]
		if len(parents) == 0 {
			schemas[name] = obj
			continue
		}
		allOf := make([]*Schema, 0, len(parents)+1)
		for _, p := range parents {
			allOf = append(allOf, refSchema(p))
		}
		schemas[name] = &Schema{AllOf: append(allOf, obj)}
	}
	return schemas
}

func (d *draft) object() *Schema {
	s := &Schema{Type: "object", Description: d.description}
	if len(d.properties) > 0 {
		s.Properties = make(map[string]*Schema, len(d.properties))
		for k, v := range d.properties {
			s.Properties[k] = v
		}
	}
	if len(d.required) > 0 {
		s.Required = append([]string(nil), d.required...)
	}
	return s
}

// PropertyName lower-cases the first letter of an entity name.
func PropertyName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

// Ref returns the component reference for name.
func Ref(name string) string {
	return componentRefPrefix + name
}

func refSchema(name string) *Schema {
	return &Schema{Ref: Ref(name)}
}

func intp(n int) *int { return &n }
