package openapi

import (
	"regexp"
	"strings"

	"plantapi/internal/uml"
)

const (
	ErrorSchemaName = "ApiError"
	jsonMediaType   = "application/json"
)

var (
	camelBoundaryRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	spaceRunRe      = regexp.MustCompile(`\s+`)
	vowelYRe        = regexp.MustCompile(`[aeiou]y$`)
)

// ResourceSegment kebab-cases and pluralises an entity name for a REST path:
// LineItem -> line-items, Box -> boxes, Category -> categories.
// Irregular plurals are not handled.
func ResourceSegment(name string) string {
	kebab := camelBoundaryRe.ReplaceAllString(name, "$1-$2")
	kebab = strings.ToLower(spaceRunRe.ReplaceAllString(kebab, "-"))

	switch {
	case strings.HasSuffix(kebab, "s"):
		return kebab
	case strings.HasSuffix(kebab, "x"), strings.HasSuffix(kebab, "z"),
		strings.HasSuffix(kebab, "ch"), strings.HasSuffix(kebab, "sh"):
		return kebab + "es"
	case strings.HasSuffix(kebab, "y") && !vowelYRe.MatchString(kebab):
		return strings.TrimSuffix(kebab, "y") + "ies"
	default:
		return kebab + "s"
	}
}

// EnsureErrorSchema adds the shared error payload once and returns its $ref.
// An existing component with the same name is reused as is.
func EnsureErrorSchema(schemas map[string]*Schema) string {
	if _, ok := schemas[ErrorSchemaName]; !ok {
		schemas[ErrorSchemaName] = &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"message": {Type: "string"},
				"code":    {Type: "string"},
			},
			Required:    []string{"message"},
			Description: "Standard error payload.",
		}
	}
	return Ref(ErrorSchemaName)
}

// BuildPaths emits collection and item paths for every class that has a
// schema. Interfaces get no paths.
func BuildPaths(classes []uml.Entity, schemas map[string]*Schema, errorRef string) map[string]*PathItem {
	paths := make(map[string]*PathItem, len(classes)*2)

	for _, c := range classes {
		name := c.Name
		if _, ok := schemas[name]; !ok {
			continue
		}

		collection := "/" + ResourceSegment(name)
		item := collection + "/{id}"
		ref := Ref(name)

		paths[collection] = &PathItem{
			Summary: name + " collection",
			Get:     listOperation(name, ref),
			Post:    createOperation(name, ref, errorRef),
		}
		paths[item] = &PathItem{
			Summary: name + " item",
			Get:     getOperation(name, ref, errorRef),
			Put:     updateOperation(name, ref, errorRef),
			Delete:  deleteOperation(name, errorRef),
		}
	}
	return paths
}

func listOperation(tag, ref string) *Operation {
	return &Operation{
		Summary: "List " + tag + "s",
		Tags:    []string{tag},
		Responses: map[string]*Response{
			"200": {
				Description: "List of " + tag + "s",
				Content:     jsonContent(&Schema{Type: "array", Items: &Schema{Ref: ref}}),
			},
		},
	}
}

func createOperation(tag, ref, errorRef string) *Operation {
	return &Operation{
		Summary:     "Create " + tag,
		Tags:        []string{tag},
		RequestBody: jsonBody(ref),
		Responses: map[string]*Response{
			"201": {Description: tag + " created", Content: jsonContent(&Schema{Ref: ref})},
			"400": errorResponse("Invalid payload", errorRef),
		},
	}
}

func getOperation(tag, ref, errorRef string) *Operation {
	return &Operation{
		Summary:    "Get " + tag,
		Tags:       []string{tag},
		Parameters: []Parameter{idParameter(tag)},
		Responses: map[string]*Response{
			"200": {Description: tag + " details", Content: jsonContent(&Schema{Ref: ref})},
			"404": errorResponse(tag+" not found", errorRef),
		},
	}
}

func updateOperation(tag, ref, errorRef string) *Operation {
	return &Operation{
		Summary:     "Update " + tag,
		Tags:        []string{tag},
		Parameters:  []Parameter{idParameter(tag)},
		RequestBody: jsonBody(ref),
		Responses: map[string]*Response{
			"200": {Description: tag + " updated", Content: jsonContent(&Schema{Ref: ref})},
			"404": errorResponse(tag+" not found", errorRef),
		},
	}
}

func deleteOperation(tag, errorRef string) *Operation {
	return &Operation{
		Summary:    "Delete " + tag,
		Tags:       []string{tag},
		Parameters: []Parameter{idParameter(tag)},
		Responses: map[string]*Response{
			"204": {Description: tag + " deleted"},
			"404": errorResponse(tag+" not found", errorRef),
		},
	}
}

func idParameter(tag string) Parameter {
	return Parameter{
		Name:        "id",
		In:          "path",
		Required:    true,
		Schema:      &Schema{Type: "string"},
		Description: tag + " identifier",
	}
}

func jsonContent(s *Schema) map[string]MediaType {
	return map[string]MediaType{jsonMediaType: {Schema: s}}
}

func jsonBody(ref string) *RequestBody {
	return &RequestBody{Required: true, Content: jsonContent(&Schema{Ref: ref})}
}

func errorResponse(description, errorRef string) *Response {
	return &Response{Description: description, Content: jsonContent(&Schema{Ref: errorRef})}
}
