package model

// Schema is the structural description of a value as declared by the
// document. A schema may be a named reference into the document's schema
// table instead of (or in addition to) an inline definition.
type Schema struct {
	Name        string
	Description string
	Type        SchemaType
	Format      string
	Nullable    bool
	Deprecated  bool
	Default     any
	Example     any

	// Object properties, in declaration order.
	Properties []Property
	Required   []string

	// Array items
	Items *Schema

	// Enum values, first is canonical.
	Enum []any

	// Composition
	AllOf []*Schema
	OneOf []*Schema
	AnyOf []*Schema

	// Reference into the schema table, e.g. "#/components/schemas/User".
	Ref string

	// Additional properties for open-ended maps.
	AdditionalProperties *Schema
}

type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
	TypeNull    SchemaType = "null"
)

type Property struct {
	Name   string
	Schema *Schema
}

type SecurityScheme struct {
	Name         string
	Type         string
	Description  string
	In           string
	Scheme       string
	BearerFormat string
}
