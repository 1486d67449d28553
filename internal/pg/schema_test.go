package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantapi/internal/uml"
)

const accountsDiagram = `
class User {
  +id: UUID
  +email: email
  +birthDate: date
  -note: String
}
class Address {}
class Admin {}
enum Role { ADMIN, USER }
User "1" *-- "1" Address
User --> "1" Role
User <|-- Admin
`

func TestGenerateDDL(t *testing.T) {
	ddl, err := GenerateDDL(uml.Parse(accountsDiagram), "")
	require.NoError(t, err)
	require.Len(t, ddl, 2)

	assert.Equal(t, `create schema if not exists "public";
create table if not exists "public"."users" (
  "id" text primary key,
  "email" text not null,
  "birth_date" date not null,
  "note" text,
  "address_id" text not null,
  "role" text not null
);
create table if not exists "public"."address" (
  "id" text primary key
);
create table if not exists "public"."admins" (
  "id" text primary key
);
`, ddl[KeyTables])

	assert.Equal(t, `alter table "public"."users" add constraint "users_address_id_fk" foreign key ("address_id") references "public"."address"(id) on delete RESTRICT;
alter table "public"."admins" add constraint "admins_users_parent_fk" foreign key ("id") references "public"."users"(id) on delete CASCADE;
`, ddl[KeyForeignKeys])
}

func TestGenerateDDLRelationColumns(t *testing.T) {
	d := uml.Parse(`
class Order {}
class LineItem {}
class Note {}
interface Payable {}
Order "1" -- "1..*" LineItem
Order --> "0..1" Note
Order --> Payable
Order --> Note
Payable --> Order
`)
	ddl, err := GenerateDDL(d, "Shop")
	require.NoError(t, err)

	tables := ddl[KeyTables]
	assert.Contains(t, tables, `create schema if not exists "shop";`)
	assert.Contains(t, tables, `create table if not exists "shop"."orders" (
  "id" text primary key,
  "line_item" jsonb not null,
  "note_id" text,
  "payable_id" text
);`)
	assert.NotContains(t, tables, "payables")

	// the repeated relation yields one constraint
	assert.Equal(t, `alter table "shop"."orders" add constraint "orders_note_id_fk" foreign key ("note_id") references "shop"."notes"(id) on delete SET NULL;
`, ddl[KeyForeignKeys])
}

func TestGenerateDDLEmpty(t *testing.T) {
	ddl, err := GenerateDDL(nil, "public")
	require.NoError(t, err)
	assert.Empty(t, ddl)

	ddl, err = GenerateDDL(uml.Parse("interface Only {}\nenum E { A }"), "public")
	require.NoError(t, err)
	assert.Empty(t, ddl)
	assert.Equal(t, "", Render(ddl))
}

func TestGenerateDDLColumnCollision(t *testing.T) {
	d := uml.Parse("class Box {\n +fooBar: int\n +foo_bar: int\n}")
	_, err := GenerateDDL(d, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"foo_bar"`)
}

func TestGenerateDDLMergesRepeatedClasses(t *testing.T) {
	d := uml.Parse("class Box {\n +size: int\n}\nclass Box {\n +size: long\n -label: String\n}")
	ddl, err := GenerateDDL(d, "")
	require.NoError(t, err)
	assert.Contains(t, ddl[KeyTables], `create table if not exists "public"."boxes" (
  "id" text primary key,
  "size" bigint not null,
  "label" text
);`)
}

func TestTableName(t *testing.T) {
	tests := map[string]string{
		"Order":    "orders",
		"LineItem": "line_items",
		"Category": "categories",
		"Address":  "address",
		"Values":   "e_values",
	}
	for in, want := range tests {
		assert.Equal(t, want, TableName(in), in)
	}
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "birth_date", ColumnName("birthDate"))
	assert.Equal(t, "line_item", ColumnName("lineItem"))
	assert.Equal(t, "id", ColumnName("ID"))
	assert.Equal(t, "plain", ColumnName("plain"))
}

func TestRenderOrdersPhases(t *testing.T) {
	out := Render(map[string]string{
		KeyForeignKeys: "B;\n",
		KeyTables:      "A;\n",
	})
	assert.Equal(t, "A;\nB;\n", out)
}
