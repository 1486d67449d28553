package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantapi/internal/uml"
)

func TestResourceSegment(t *testing.T) {
	tests := map[string]string{
		"Order":      "orders",
		"Address":    "address",
		"Box":        "boxes",
		"Buzz":       "buzzes",
		"Match":      "matches",
		"Dish":       "dishes",
		"Category":   "categories",
		"Day":        "days",
		"Key":        "keys",
		"LineItem":   "line-items",
		"HTTPServer": "httpservers",
		"Order Line": "order-lines",
		"Item2Tag":   "item2-tags",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ResourceSegment(in))
		})
	}
}

func TestEnsureErrorSchema(t *testing.T) {
	schemas := map[string]*Schema{}
	ref := EnsureErrorSchema(schemas)
	assert.Equal(t, "#/components/schemas/ApiError", ref)

	apiErr := schemas[ErrorSchemaName]
	require.NotNil(t, apiErr)
	assert.Equal(t, []string{"message"}, apiErr.Required)
	assert.Contains(t, apiErr.Properties, "code")

	// a user-declared ApiError wins
	custom := &Schema{Type: "object", Description: "mine"}
	schemas = map[string]*Schema{ErrorSchemaName: custom}
	EnsureErrorSchema(schemas)
	assert.Same(t, custom, schemas[ErrorSchemaName])
}

func TestBuildPaths(t *testing.T) {
	classes := []uml.Entity{
		{Name: "Order", Kind: uml.KindClass},
		{Name: "Orphan", Kind: uml.KindClass},
	}
	schemas := map[string]*Schema{"Order": {Type: "object"}}
	paths := BuildPaths(classes, schemas, Ref(ErrorSchemaName))

	require.Len(t, paths, 2)
	collection := paths["/orders"]
	require.NotNil(t, collection)
	assert.Equal(t, "Order collection", collection.Summary)
	assert.Nil(t, collection.Put)
	assert.Nil(t, collection.Delete)

	assert.Equal(t, "List Orders", collection.Get.Summary)
	assert.Equal(t, []string{"Order"}, collection.Get.Tags)
	list := collection.Get.Responses["200"].Content["application/json"].Schema
	assert.Equal(t, &Schema{Type: "array", Items: &Schema{Ref: Ref("Order")}}, list)

	assert.Equal(t, "Create Order", collection.Post.Summary)
	require.NotNil(t, collection.Post.RequestBody)
	assert.True(t, collection.Post.RequestBody.Required)
	assert.Contains(t, collection.Post.Responses, "201")
	assert.Equal(t, Ref(ErrorSchemaName), collection.Post.Responses["400"].Content["application/json"].Schema.Ref)

	item := paths["/orders/{id}"]
	require.NotNil(t, item)
	assert.Equal(t, "Order item", item.Summary)
	assert.Nil(t, item.Post)
	for _, op := range []*Operation{item.Get, item.Put, item.Delete} {
		require.Len(t, op.Parameters, 1)
		p := op.Parameters[0]
		assert.Equal(t, "id", p.Name)
		assert.Equal(t, "path", p.In)
		assert.True(t, p.Required)
		assert.Equal(t, "Order identifier", p.Description)
		assert.Contains(t, op.Responses, "404")
	}
	assert.Equal(t, "Delete Order", item.Delete.Summary)
	assert.Nil(t, item.Delete.Responses["204"].Content)
}

func TestBuildPathsSkipsInterfaces(t *testing.T) {
	doc := fromLines(
		"interface Speakable {",
		"  +speak(): void",
		"}",
		"class Dog {}",
	)
	assert.Contains(t, doc.Paths, "/dogs")
	assert.Contains(t, doc.Paths, "/dogs/{id}")
	assert.NotContains(t, doc.Paths, "/speakables")
	assert.Len(t, doc.Paths, 2)
}
