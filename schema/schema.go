// Package schema infers JSON Schema descriptions from example JSON values.
//
// Matomo exposes no formal response contracts, so schemas are built from
// sample responses: scalars map to primitive types, arrays merge their
// element schemas, and objects union their properties. The result is an
// OpenAPI 3.0 compatible schema fragment.
package schema

// Schema is a JSON Schema node as embedded in an OpenAPI document.
type Schema struct {
	Type                 string             `json:"type"`
	Format               string             `json:"format,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Description          string             `json:"description,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Nullable             bool               `json:"nullable,omitempty"`
	OneOf                []*Schema          `json:"oneOf,omitempty"`
	AnyOf                []*Schema          `json:"anyOf,omitempty"`
}
