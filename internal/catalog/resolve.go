package catalog

import (
	"strings"

	"github.com/dapperline/deckhand/internal/model"
)

// Resolve follows a schema reference one hop into the document's schema
// table. Direct schemas come back unchanged. Dangling references also come
// back unchanged; downstream consumers treat the unresolved node as an
// untyped value instead of failing the compile.
func Resolve(schema *model.Schema, table map[string]*model.Schema) *model.Schema {
	if schema == nil || schema.Ref == "" {
		return schema
	}

	parts := strings.Split(schema.Ref, "/")
	name := parts[len(parts)-1]
	if resolved, ok := table[name]; ok && resolved != nil {
		return resolved
	}

	return schema
}
