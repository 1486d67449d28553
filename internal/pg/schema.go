package pg

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"plantapi/internal/openapi"
	"plantapi/internal/uml"
)

type OnDeletePolicy string

const (
	OnDeleteRestrict OnDeletePolicy = "RESTRICT"
	OnDeleteSetNull  OnDeletePolicy = "SET NULL"
	OnDeleteCascade  OnDeletePolicy = "CASCADE"
)

// DDL phase keys; ApplyDDL runs them in key order.
const (
	KeyTables      = "000_schema_and_tables"
	KeyForeignKeys = "200_foreign_keys"
)

const DefaultSchema = "public"

var reserved = map[string]struct{}{
	"user": {}, "select": {}, "table": {}, "insert": {}, "update": {}, "delete": {},
	"where": {}, "join": {}, "group": {}, "order": {}, "limit": {}, "offset": {},
	"primary": {}, "foreign": {}, "key": {}, "constraint": {}, "default": {},
	"from": {}, "into": {}, "values": {}, "unique": {}, "index": {}, "create": {},
	"drop": {}, "alter": {}, "schema": {}, "grant": {}, "revoke": {},
}

var snakeBoundaryRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)

func isReserved(s string) bool { _, ok := reserved[strings.ToLower(s)]; return ok }

// TableName reuses the REST resource segment: LineItem -> line_items.
func TableName(entity string) string {
	t := strings.ReplaceAll(openapi.ResourceSegment(entity), "-", "_")
	if isReserved(t) {
		t = "e_" + t
	}
	return t
}

// ColumnName snake-cases a property name: birthDate -> birth_date.
func ColumnName(prop string) string {
	return strings.ToLower(snakeBoundaryRe.ReplaceAllString(prop, "${1}_${2}"))
}

func sqlIdent(s string) string { return `"` + strings.ToLower(s) + `"` }

// sqlTypes is keyed like the schema builder's primitive table.
var sqlTypes = map[string]string{
	"string":    "text",
	"text":      "text",
	"uuid":      "uuid",
	"date":      "date",
	"datetime":  "timestamp with time zone",
	"date-time": "timestamp with time zone",
	"boolean":   "boolean",
	"bool":      "boolean",
	"int":       "integer",
	"integer":   "bigint",
	"long":      "bigint",
	"float":     "real",
	"double":    "double precision",
	"number":    "double precision",
	"decimal":   "numeric",
	"email":     "text",
}

// mapType falls back to text: enums, entity references and unknown tokens all
// store a textual value.
func mapType(token string) string {
	if t, ok := sqlTypes[strings.ToLower(strings.TrimSpace(token))]; ok {
		return t
	}
	return "text"
}

type column struct {
	name    string
	typ     string
	notNull bool
}

type table struct {
	entity  string
	name    string
	columns []column
	index   map[string]int
	// property that produced each column, to detect snake-case collisions
	owner map[string]string
}

func newTable(entity string) *table {
	return &table{
		entity:  entity,
		name:    TableName(entity),
		columns: []column{{name: "id", typ: "text primary key"}},
		index:   map[string]int{"id": 0},
		owner:   map[string]string{"id": "id"},
	}
}

// set adds or replaces a column. A different property mapping onto an existing
// column is an error.
func (t *table) set(prop string, c column) error {
	if i, ok := t.index[c.name]; ok {
		if t.owner[c.name] != prop {
			return fmt.Errorf("%s: properties %q and %q both map to column %q", t.entity, t.owner[c.name], prop, c.name)
		}
		t.columns[i] = c
		return nil
	}
	t.index[c.name] = len(t.columns)
	t.columns = append(t.columns, c)
	t.owner[c.name] = prop
	return nil
}

type fkStmt struct {
	table, name, col, refTable string
	onDelete                   OnDeletePolicy
}

// GenerateDDL projects the classes of d onto Postgres tables inside schema.
// The result maps phase keys to SQL; tables come before foreign keys.
func GenerateDDL(d *uml.Diagram, schema string) (map[string]string, error) {
	out := map[string]string{}
	if d == nil || len(d.Classes) == 0 {
		return out, nil
	}
	if strings.TrimSpace(schema) == "" {
		schema = DefaultSchema
	}

	enums := map[string]struct{}{}
	for _, e := range d.Enums {
		enums[e.Name] = struct{}{}
	}
	interfaces := map[string]struct{}{}
	for _, e := range d.Interfaces {
		interfaces[e.Name] = struct{}{}
	}

	// one table per class name; repeated declarations merge
	tables := map[string]*table{}
	var order []string
	for _, c := range d.Classes {
		t, ok := tables[c.Name]
		if !ok {
			t = newTable(c.Name)
			tables[c.Name] = t
			order = append(order, c.Name)
		}
		for _, a := range c.Attributes {
			col := ColumnName(a.Name)
			if col == "id" {
				continue
			}
			if err := t.set(a.Name, column{name: col, typ: mapType(a.Type), notNull: a.Access == uml.AccessPublic}); err != nil {
				return nil, err
			}
		}
	}

	var fks []fkStmt
	for _, r := range d.Relations {
		switch r.Kind {
		case uml.RelationInheritance:
			parent, okParent := tables[r.From]
			child, okChild := tables[r.To]
			if !okParent || !okChild || r.From == r.To {
				continue
			}
			fks = append(fks, fkStmt{
				table:    child.name,
				name:     child.name + "_" + parent.name + "_parent_fk",
				col:      "id",
				refTable: parent.name,
				onDelete: OnDeleteCascade,
			})

		case uml.RelationComposition, uml.RelationAggregation, uml.RelationAssociation:
			owner, ok := tables[r.From]
			if !ok {
				continue
			}
			_, isEnum := enums[r.To]
			_, isInterface := interfaces[r.To]
			target, isClass := tables[r.To]
			if !isEnum && !isInterface && !isClass {
				continue
			}

			decision := r.ToCardinality.Decide()
			prop := openapi.PropertyName(r.To)
			col := ColumnName(prop)
			switch {
			case decision.Array:
				if err := owner.set(prop, column{name: col, typ: "jsonb", notNull: decision.Required}); err != nil {
					return nil, err
				}
			case isEnum:
				if err := owner.set(prop, column{name: col, typ: "text", notNull: decision.Required}); err != nil {
					return nil, err
				}
			default:
				col += "_id"
				if err := owner.set(prop, column{name: col, typ: "text", notNull: decision.Required}); err != nil {
					return nil, err
				}
				if !isClass {
					// interfaces have no table to reference
					continue
				}
				policy := OnDeleteSetNull
				if decision.Required {
					policy = OnDeleteRestrict
				}
				fks = append(fks, fkStmt{
					table:    owner.name,
					name:     owner.name + "_" + col + "_fk",
					col:      col,
					refTable: target.name,
					onDelete: policy,
				})
			}
		}
	}

	var tablesSb strings.Builder
	fmt.Fprintf(&tablesSb, "create schema if not exists %s;\n", sqlIdent(schema))
	for _, name := range order {
		t := tables[name]
		cols := make([]string, 0, len(t.columns))
		for _, c := range t.columns {
			line := sqlIdent(c.name) + " " + c.typ
			if c.notNull {
				line += " not null"
			}
			cols = append(cols, line)
		}
		fmt.Fprintf(&tablesSb, "create table if not exists %s.%s (\n  %s\n);\n",
			sqlIdent(schema), sqlIdent(t.name), strings.Join(cols, ",\n  "))
	}
	out[KeyTables] = tablesSb.String()

	if len(fks) > 0 {
		var fkSb strings.Builder
		seen := map[string]struct{}{}
		for _, fk := range fks {
			if _, dup := seen[fk.table+"."+fk.name]; dup {
				continue
			}
			seen[fk.table+"."+fk.name] = struct{}{}
			fmt.Fprintf(&fkSb,
				"alter table %s.%s add constraint %s foreign key (%s) references %s.%s(id) on delete %s;\n",
				sqlIdent(schema), sqlIdent(fk.table),
				sqlIdent(fk.name),
				sqlIdent(fk.col),
				sqlIdent(schema), sqlIdent(fk.refTable),
				fk.onDelete,
			)
		}
		out[KeyForeignKeys] = fkSb.String()
	}
	return out, nil
}

// Render joins the phases in apply order.
func Render(ddl map[string]string) string {
	var sb strings.Builder
	for _, k := range sortedKeys(ddl) {
		sb.WriteString(ddl[k])
	}
	return sb.String()
}

func sortedKeys(ddl map[string]string) []string {
	keys := make([]string, 0, len(ddl))
	for k := range ddl {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
