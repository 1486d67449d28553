package uml

// Access is the visibility of a class member.
type Access string

const (
	AccessPublic    Access = "public"
	AccessPrivate   Access = "private"
	AccessProtected Access = "protected"
	AccessPackage   Access = "package"
)

// Attribute describes one field line of a class body.
type Attribute struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"` // raw type token, e.g. UUID, String, Address
	Access Access `json:"access"`
}

// Method describes one operation line of a class body.
type Method struct {
	Name       string `json:"name"`
	ReturnType string `json:"returnType,omitempty"`
	Access     Access `json:"access"`
}

type EntityKind string

const (
	KindClass     EntityKind = "class"
	KindInterface EntityKind = "interface"
)

// Entity is a class or interface block.
type Entity struct {
	Name       string      `json:"name"`
	Kind       EntityKind  `json:"type"`
	Attributes []Attribute `json:"attributes"`
	Methods    []Method    `json:"methods"`
}

// Enum keeps its values in declaration order.
type Enum struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type RelationKind string

const (
	RelationInheritance RelationKind = "inheritance"
	RelationComposition RelationKind = "composition"
	RelationAggregation RelationKind = "aggregation"
	RelationAssociation RelationKind = "association"
	RelationDependency  RelationKind = "dependency"
	RelationUnknown     RelationKind = "unknown"
)

// Relation connects two named endpoints. Cardinalities are nil when the
// endpoint carries no multiplicity annotation.
type Relation struct {
	From            string       `json:"from"`
	To              string       `json:"to"`
	Kind            RelationKind `json:"type"`
	Symbol          string       `json:"symbol"`
	FromCardinality *Cardinality `json:"fromCardinality,omitempty"`
	ToCardinality   *Cardinality `json:"toCardinality,omitempty"`
}

// Diagram is the entity graph of one text input.
type Diagram struct {
	Classes    []Entity   `json:"classes"`
	Interfaces []Entity   `json:"interfaces"`
	Enums      []Enum     `json:"enums"`
	Relations  []Relation `json:"relations"`
}

// ClassLike returns classes followed by interfaces.
func (d *Diagram) ClassLike() []Entity {
	out := make([]Entity, 0, len(d.Classes)+len(d.Interfaces))
	out = append(out, d.Classes...)
	return append(out, d.Interfaces...)
}

// Class looks a class up by name.
func (d *Diagram) Class(name string) (Entity, bool) {
	for _, c := range d.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return Entity{}, false
}

// Interface looks an interface up by name.
func (d *Diagram) Interface(name string) (Entity, bool) {
	for _, c := range d.Interfaces {
		if c.Name == name {
			return c, true
		}
	}
	return Entity{}, false
}

// Enum looks an enum up by name.
func (d *Diagram) Enum(name string) (Enum, bool) {
	for _, e := range d.Enums {
		if e.Name == name {
			return e, true
		}
	}
	return Enum{}, false
}

// Relation returns the first relation between from and to.
func (d *Diagram) Relation(from, to string) (Relation, bool) {
	for _, r := range d.Relations {
		if r.From == from && r.To == to {
			return r, true
		}
	}
	return Relation{}, false
}
