package catalog

import "github.com/dapperline/deckhand/internal/model"

// maxExampleDepth bounds synthesis over self-referential schema graphs.
// A depth counter is deliberately used instead of visited-node tracking:
// repeated structural patterns are legitimate, cycles are not distinguishable
// from them by identity alone, and the cap is generous relative to realistic
// nesting.
const maxExampleDepth = 5

// additionalPropsKey is the sentinel entry key used for open-ended objects
// that declare no properties of their own.
const additionalPropsKey = "key"

const (
	exampleDateTime = "2030-01-01T00:00:00Z"
	exampleDate     = "2030-01-01"
)

// ExampleValue synthesizes a representative value for a schema. The result
// depends only on the schema and the table, never on external state.
func ExampleValue(schema *model.Schema, table map[string]*model.Schema) any {
	return exampleValue(schema, table, 0)
}

func exampleValue(schema *model.Schema, table map[string]*model.Schema, depth int) any {
	if depth > maxExampleDepth {
		return map[string]any{}
	}

	schema = Resolve(schema, table)
	if schema == nil {
		return "string"
	}

	if schema.Example != nil {
		return schema.Example
	}
	if schema.Default != nil {
		return schema.Default
	}
	if len(schema.Enum) > 0 {
		return schema.Enum[0]
	}

	// Compositions: a single variant is enough for a representative value,
	// the synthesizer never fans out.
	if len(schema.OneOf) > 0 {
		return exampleValue(schema.OneOf[0], table, depth+1)
	}
	if len(schema.AnyOf) > 0 {
		return exampleValue(schema.AnyOf[0], table, depth+1)
	}
	if len(schema.AllOf) > 0 {
		// Members that do not synthesize to an object contribute nothing;
		// a fully non-object allOf yields an empty object.
		merged := map[string]any{}
		for _, member := range schema.AllOf {
			if obj, ok := exampleValue(member, table, depth+1).(map[string]any); ok {
				for k, v := range obj {
					merged[k] = v
				}
			}
		}
		return merged
	}

	if schema.Type == model.TypeObject || len(schema.Properties) > 0 {
		obj := make(map[string]any, len(schema.Properties))
		for _, prop := range schema.Properties {
			obj[prop.Name] = exampleValue(prop.Schema, table, depth+1)
		}
		if len(obj) == 0 && schema.AdditionalProperties != nil {
			obj[additionalPropsKey] = exampleValue(schema.AdditionalProperties, table, depth+1)
		}
		return obj
	}

	switch schema.Type {
	case model.TypeArray:
		return []any{exampleValue(schema.Items, table, depth+1)}
	case model.TypeInteger, model.TypeNumber:
		return 1
	case model.TypeBoolean:
		return true
	default:
		switch schema.Format {
		case "date-time":
			return exampleDateTime
		case "date":
			return exampleDate
		}
		return "string"
	}
}
