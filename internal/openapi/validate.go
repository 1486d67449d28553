package openapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// Validate loads the document through kin-openapi, which resolves every $ref,
// and runs its structural validator. The projector only promises a best-effort
// scaffold, so callers treat a failure as a diagnostic.
func Validate(ctx context.Context, doc *Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	t, err := loader.LoadFromData(raw)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if err := t.Validate(ctx); err != nil {
		return fmt.Errorf("validate document: %w", err)
	}
	return nil
}
