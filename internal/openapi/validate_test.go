package openapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGeneratedDocument(t *testing.T) {
	doc := fromLines(
		"class Person {",
		"  +id: UUID",
		"  +name: String",
		"  +greet(): void",
		"}",
		"class Address {}",
		"class Employee {}",
		"enum Gender {",
		"  MALE",
		"  FEMALE",
		"}",
		`Person "1" *-- "1..*" Address`,
		"Person --> Gender",
		"Person <|-- Employee",
	)
	require.NoError(t, Validate(context.Background(), doc))
}

func TestValidateEmptyDocument(t *testing.T) {
	require.NoError(t, Validate(context.Background(), FromText("")))
}

func TestValidateDanglingRef(t *testing.T) {
	doc := FromText("class Holder {}")
	doc.Components.Schemas["Holder"].Properties = map[string]*Schema{
		"missing": {Ref: Ref("Missing")},
	}
	err := Validate(context.Background(), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing")
}
