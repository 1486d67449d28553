package openapi

import "plantapi/internal/uml"

const (
	Version         = "3.1.0"
	InfoTitle       = "PlantUML Generated API"
	InfoVersion     = "1.0.0"
	InfoDescription = "OpenAPI schema generated from PlantUML diagram."
)

// Transform projects an entity graph into an API document. A nil or empty
// diagram yields a document with only the error schema.
func Transform(d *uml.Diagram) *Document {
	if d == nil {
		d = &uml.Diagram{}
	}

	schemas := BuildSchemas(d)
	errorRef := EnsureErrorSchema(schemas)
	paths := BuildPaths(d.Classes, schemas, errorRef)

	return &Document{
		OpenAPI: Version,
		Info: Info{
			Title:       InfoTitle,
			Version:     InfoVersion,
			Description: InfoDescription,
		},
		Paths:      paths,
		Components: Components{Schemas: schemas},
	}
}

// FromText parses diagram text and projects it in one call.
func FromText(text string) *Document {
	return Transform(uml.Parse(text))
}
