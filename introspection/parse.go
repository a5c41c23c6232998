package introspection

import (
	"errors"
	"fmt"

	"github.com/go-json-experiment/json"
)

// Parse decodes an introspection result. It accepts a full GraphQL response
// ({"data":{"__schema":...}}), the data member alone ({"__schema":...}) or the
// bare schema object.
func Parse(data []byte) (*Schema, error) {
	var envelope struct {
		Data *struct {
			Schema *Schema `json:"__schema"`
		} `json:"data"`
		Schema *Schema `json:"__schema"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode introspection result: %w", err)
	}

	switch {
	case envelope.Data != nil && envelope.Data.Schema != nil:
		return envelope.Data.Schema, nil
	case envelope.Schema != nil:
		return envelope.Schema, nil
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decode introspection schema: %w", err)
	}
	if len(schema.Types) == 0 {
		return nil, errors.New("introspection result contains no types")
	}

	return &schema, nil
}
