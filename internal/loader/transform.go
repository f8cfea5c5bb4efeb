package loader

import (
	"strings"

	"github.com/dapperline/deckhand/internal/model"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"
	"go.yaml.in/yaml/v4"
)

type transformer struct {
	componentSchemas map[*base.Schema]string
}

// Transform converts a parsed libopenapi model into the immutable document
// model consumed by the catalog compiler.
func Transform(result *Result) (*model.Spec, error) {
	doc := result.Document.Model

	t := &transformer{
		componentSchemas: make(map[*base.Schema]string),
	}

	if doc.Components != nil && doc.Components.Schemas != nil {
		for name, schemaProxy := range doc.Components.Schemas.FromOldest() {
			t.componentSchemas[schemaProxy.Schema()] = "#/components/schemas/" + name
		}
	}

	spec := &model.Spec{
		Info:    transformInfo(doc.Info),
		Servers: transformServers(doc.Servers),
		Tags:    transformTags(doc.Tags),
	}

	if doc.Components != nil && doc.Components.Schemas != nil {
		for name, schemaProxy := range doc.Components.Schemas.FromOldest() {
			schema := t.transformSchema(name, schemaProxy.Schema())
			spec.Schemas = append(spec.Schemas, *schema)
		}
	}

	if doc.Paths != nil {
		for pathStr, pathItem := range doc.Paths.PathItems.FromOldest() {
			spec.Operations = append(spec.Operations, t.transformPath(pathStr, pathItem)...)
		}
	}

	if doc.Components != nil && doc.Components.SecuritySchemes != nil {
		for name, scheme := range doc.Components.SecuritySchemes.FromOldest() {
			spec.Security = append(spec.Security, model.SecurityScheme{
				Name:         name,
				Type:         scheme.Type,
				Description:  scheme.Description,
				In:           scheme.In,
				Scheme:       scheme.Scheme,
				BearerFormat: scheme.BearerFormat,
			})
		}
	}

	return spec, nil
}

func transformInfo(info *base.Info) model.Info {
	if info == nil {
		return model.Info{}
	}
	return model.Info{
		Title:       info.Title,
		Description: info.Description,
		Version:     info.Version,
	}
}

func transformServers(servers []*v3.Server) []model.Server {
	var result []model.Server
	for _, s := range servers {
		result = append(result, model.Server{
			URL:         s.URL,
			Description: s.Description,
		})
	}
	return result
}

func transformTags(tags []*base.Tag) []model.Tag {
	var result []model.Tag
	for _, t := range tags {
		result = append(result, model.Tag{
			Name:        t.Name,
			Description: t.Description,
		})
	}
	return result
}

func (t *transformer) transformPath(pathStr string, pathItem *v3.PathItem) []model.Operation {
	var ops []model.Operation

	// Use a slice for deterministic ordering
	methods := []struct {
		method model.Method
		op     *v3.Operation
	}{
		{model.MethodGet, pathItem.Get},
		{model.MethodPost, pathItem.Post},
		{model.MethodPut, pathItem.Put},
		{model.MethodPatch, pathItem.Patch},
		{model.MethodDelete, pathItem.Delete},
		{model.MethodOptions, pathItem.Options},
		{model.MethodHead, pathItem.Head},
		{model.MethodTrace, pathItem.Trace},
	}

	// Path-level parameter declarations come first so that operation-level
	// declarations can override them during normalization.
	var shared []model.Parameter
	for _, p := range pathItem.Parameters {
		shared = append(shared, t.transformParameter(p))
	}

	for _, m := range methods {
		if m.op == nil {
			continue
		}
		ops = append(ops, t.transformOperation(m.method, pathStr, m.op, shared))
	}

	return ops
}

func (t *transformer) transformOperation(method model.Method, path string, op *v3.Operation, shared []model.Parameter) model.Operation {
	operation := model.Operation{
		ID:          op.OperationId,
		Method:      method,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  boolPtr(op.Deprecated),
	}

	operation.Parameters = append(operation.Parameters, shared...)
	for _, p := range op.Parameters {
		operation.Parameters = append(operation.Parameters, t.transformParameter(p))
	}

	if op.RequestBody != nil {
		operation.RequestBody = t.transformRequestBody(op.RequestBody)
	}

	if op.Responses != nil && op.Responses.Codes != nil {
		for code, resp := range op.Responses.Codes.FromOldest() {
			operation.Responses = append(operation.Responses, t.transformResponse(code, resp))
		}
	}

	for _, secReq := range op.Security {
		for name, scopes := range secReq.Requirements.FromOldest() {
			operation.Security = append(operation.Security, model.SecurityRequirement{
				Name:   name,
				Scopes: scopes,
			})
		}
	}

	return operation
}

func (t *transformer) transformParameter(p *v3.Parameter) model.Parameter {
	param := model.Parameter{
		Name:        p.Name,
		In:          model.ParameterLocation(strings.ToLower(p.In)),
		Description: p.Description,
		Required:    boolPtr(p.Required),
		Deprecated:  p.Deprecated,
		Example:     decodeExample(p.Example, p.Examples),
	}

	if p.Schema != nil {
		param.Schema = t.transformSchemaProxy(p.Schema)
	}

	return param
}

func (t *transformer) transformRequestBody(rb *v3.RequestBody) *model.RequestBody {
	body := &model.RequestBody{
		Description: rb.Description,
		Required:    boolPtr(rb.Required),
	}

	if rb.Content != nil {
		for mediaType, content := range rb.Content.FromOldest() {
			body.Content = append(body.Content, t.transformMediaType(mediaType, content))
		}
	}

	return body
}

func (t *transformer) transformResponse(code string, resp *v3.Response) model.Response {
	response := model.Response{
		StatusCode:  code,
		Description: resp.Description,
	}

	if resp.Content != nil {
		for mediaType, content := range resp.Content.FromOldest() {
			response.Content = append(response.Content, t.transformMediaType(mediaType, content))
		}
	}

	return response
}

func (t *transformer) transformMediaType(mediaType string, content *v3.MediaType) model.MediaTypeContent {
	mtc := model.MediaTypeContent{
		MediaType: mediaType,
		Example:   decodeExample(content.Example, content.Examples),
	}
	if content.Schema != nil {
		mtc.Schema = t.transformSchemaProxy(content.Schema)
	}
	return mtc
}

func (t *transformer) transformSchemaProxy(proxy *base.SchemaProxy) *model.Schema {
	if proxy == nil {
		return nil
	}

	ref := proxy.GetReference()
	if ref == "" {
		if resolved, ok := t.componentSchemas[proxy.Schema()]; ok {
			return &model.Schema{Ref: resolved}
		}
	}
	if ref != "" {
		return &model.Schema{Ref: ref}
	}

	return t.transformSchema("", proxy.Schema())
}

func (t *transformer) transformSchema(name string, s *base.Schema) *model.Schema {
	if s == nil {
		return nil
	}

	schema := &model.Schema{
		Name:        name,
		Description: s.Description,
		Format:      s.Format,
		Nullable:    boolPtr(s.Nullable),
		Deprecated:  boolPtr(s.Deprecated),
		Default:     decodeNode(s.Default),
		Example:     decodeNode(s.Example),
	}

	if len(s.Type) > 0 {
		schema.Type = model.SchemaType(s.Type[0])
	}

	for _, e := range s.Enum {
		schema.Enum = append(schema.Enum, decodeNode(e))
	}

	if s.Properties != nil {
		for propName, propProxy := range s.Properties.FromOldest() {
			propSchema := t.transformSchemaProxy(propProxy)
			if propSchema != nil && propSchema.Name == "" {
				propSchema.Name = propName
			}
			schema.Properties = append(schema.Properties, model.Property{
				Name:   propName,
				Schema: propSchema,
			})
		}
	}

	schema.Required = s.Required

	if s.Items != nil && s.Items.A != nil {
		schema.Items = t.transformSchemaProxy(s.Items.A)
	}

	if s.AdditionalProperties != nil && s.AdditionalProperties.A != nil {
		schema.AdditionalProperties = t.transformSchemaProxy(s.AdditionalProperties.A)
	}

	for _, proxy := range s.AllOf {
		schema.AllOf = append(schema.AllOf, t.transformSchemaProxy(proxy))
	}
	for _, proxy := range s.OneOf {
		schema.OneOf = append(schema.OneOf, t.transformSchemaProxy(proxy))
	}
	for _, proxy := range s.AnyOf {
		schema.AnyOf = append(schema.AnyOf, t.transformSchemaProxy(proxy))
	}

	return schema
}

// decodeNode converts a raw yaml node into a plain Go value so the model
// carries data instead of parser internals.
func decodeNode(node *yaml.Node) any {
	if node == nil {
		return nil
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return nil
	}
	return v
}

// decodeExample prefers a direct example over the first entry of a named
// example set.
func decodeExample(example *yaml.Node, examples *orderedmap.Map[string, *base.Example]) any {
	if example != nil {
		return decodeNode(example)
	}
	if examples != nil {
		for _, ex := range examples.FromOldest() {
			if ex != nil && ex.Value != nil {
				return decodeNode(ex.Value)
			}
		}
	}
	return nil
}

func boolPtr(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
