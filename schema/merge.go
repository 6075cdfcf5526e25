package schema

// Merge combines a sequence of schemas into one. It is a pure reduction:
// inputs are never mutated.
//
// Rules:
//   - a single schema is returned as-is
//   - same type everywhere, type object: property maps are unioned, a key
//     seen more than once keeps the later schema
//   - same type everywhere, any other type: the first schema wins (no deep
//     merge for scalar or array element schemas)
//   - mixed types: an object-typed anyOf wrapper holding the inputs in
//     order. OpenAPI 3.0 rejects a bare top-level anyOf, hence the object
//     type on the wrapper.
func Merge(schemas []*Schema) *Schema {
	if len(schemas) == 0 {
		return &Schema{Type: "object"}
	}
	if len(schemas) == 1 {
		return schemas[0]
	}

	first := schemas[0].Type
	sameType := true
	for _, s := range schemas[1:] {
		if s.Type != first {
			sameType = false
			break
		}
	}

	if !sameType {
		return &Schema{Type: "object", AnyOf: schemas}
	}

	if first != "object" {
		return schemas[0]
	}

	props := make(map[string]*Schema)
	for _, s := range schemas {
		for key, prop := range s.Properties {
			props[key] = prop
		}
	}
	if len(props) == 0 {
		return &Schema{Type: "object"}
	}
	return &Schema{Type: "object", Properties: props}
}

// AnalyzeResponses merges the schemas of several example responses of the
// same method. Nulls carry no shape information and are skipped.
func AnalyzeResponses(responses []any) *Schema {
	schemas := make([]*Schema, 0, len(responses))
	for _, r := range responses {
		if r == nil {
			continue
		}
		schemas = append(schemas, Infer(r))
	}
	if len(schemas) == 0 {
		return &Schema{Type: "object", Description: "No example responses available"}
	}
	return Merge(schemas)
}
