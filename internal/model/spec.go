package model

type Spec struct {
	Info       Info
	Servers    []Server
	Tags       []Tag
	Operations []Operation
	Schemas    []Schema
	Security   []SecurityScheme
}

// SchemaTable builds the name -> schema lookup used by reference resolution.
// The table aliases the spec's schemas; callers must treat entries as read-only.
func (s *Spec) SchemaTable() map[string]*Schema {
	table := make(map[string]*Schema, len(s.Schemas))
	for i := range s.Schemas {
		table[s.Schemas[i].Name] = &s.Schemas[i]
	}
	return table
}

type Info struct {
	Title       string
	Description string
	Version     string
}

type Server struct {
	URL         string
	Description string
}

type Tag struct {
	Name        string
	Description string
}
