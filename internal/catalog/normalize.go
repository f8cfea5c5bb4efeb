package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dapperline/deckhand/internal/model"
)

// Parameter is the UI-ready form of a single request parameter.
type Parameter struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Type        string `json:"type"`
	Default     string `json:"default"`
}

// Operation is one callable entry of the compiled catalog.
type Operation struct {
	ID             string      `json:"id"`
	App            string      `json:"app"`
	Tag            string      `json:"tag"`
	Method         string      `json:"method"`
	Path           string      `json:"path"`
	Summary        string      `json:"summary"`
	Description    string      `json:"description,omitempty"`
	RequiresAuth   bool        `json:"requiresAuth"`
	Parameters     []Parameter `json:"parameters"`
	BodyType       string      `json:"bodyType,omitempty"`
	BodyTemplate   string      `json:"bodyTemplate"`
	ResponseCodes  []string    `json:"responseCodes"`
	SuccessExample string      `json:"successExample"`
	ErrorExample   string      `json:"errorExample"`
}

// emptyBodyTemplate is the placeholder shown for body-carrying methods that
// declare no request body.
const emptyBodyTemplate = "{\n}"

type normalizer struct {
	table  map[string]*model.Schema
	groups []Group
}

func (n *normalizer) normalize(op model.Operation) Operation {
	id := op.ID
	if id == "" {
		id = fmt.Sprintf("%s_%s", strings.ToLower(string(op.Method)), op.Path)
	}

	tag := ""
	if len(op.Tags) > 0 {
		tag = op.Tags[0]
	}

	rec := Operation{
		ID:           id,
		App:          InferGroup(n.groups, tag+op.Path+id),
		Tag:          tag,
		Method:       string(op.Method),
		Path:         op.Path,
		Summary:      EnglishText(op.Summary),
		Description:  EnglishText(op.Description),
		RequiresAuth: len(op.Security) > 0,
		Parameters:   n.normalizeParameters(op.Parameters),
	}

	rec.BodyType, rec.BodyTemplate = n.normalizeBody(op)
	rec.ResponseCodes, rec.SuccessExample, rec.ErrorExample = n.normalizeResponses(op.Responses)

	return rec
}

// normalizeParameters deduplicates by the (name, location) pair. Path-level
// declarations arrive first; an operation-level declaration for the same pair
// replaces it in place, so first-seen order is preserved.
func (n *normalizer) normalizeParameters(params []model.Parameter) []Parameter {
	type key struct {
		name string
		in   model.ParameterLocation
	}

	result := make([]Parameter, 0, len(params))
	index := make(map[key]int, len(params))

	for _, p := range params {
		k := key{p.Name, p.In}
		normalized := n.normalizeParameter(p)
		if at, seen := index[k]; seen {
			result[at] = normalized
			continue
		}
		index[k] = len(result)
		result = append(result, normalized)
	}

	return result
}

func (n *normalizer) normalizeParameter(p model.Parameter) Parameter {
	schema := Resolve(p.Schema, n.table)

	typ := string(model.TypeString)
	if schema != nil {
		switch {
		case len(schema.Enum) > 0:
			typ = "enum"
		case schema.Type != "":
			typ = string(schema.Type)
		}
	}

	return Parameter{
		Name:        p.Name,
		In:          string(p.In),
		Description: EnglishText(p.Description),
		Required:    p.Required,
		Type:        typ,
		Default:     parameterDefault(p, schema, typ),
	}
}

// parameterDefault picks the textual default shown in the parameter input:
// parameter example, then schema example, default, first enum value, and
// finally a type-based literal.
func parameterDefault(p model.Parameter, schema *model.Schema, typ string) string {
	if p.Example != nil {
		return valueText(p.Example)
	}
	if schema != nil {
		if schema.Example != nil {
			return valueText(schema.Example)
		}
		if schema.Default != nil {
			return valueText(schema.Default)
		}
		if len(schema.Enum) > 0 {
			return valueText(schema.Enum[0])
		}
	}

	switch typ {
	case string(model.TypeInteger), string(model.TypeNumber):
		return "1"
	case string(model.TypeBoolean):
		return "true"
	}
	return ""
}

func (n *normalizer) normalizeBody(op model.Operation) (bodyType, template string) {
	if op.RequestBody != nil && len(op.RequestBody.Content) > 0 {
		media := op.RequestBody.Content[0]
		example := media.Example
		if example == nil {
			example = ExampleValue(media.Schema, n.table)
		}
		return media.MediaType, renderJSON(example)
	}

	switch op.Method {
	case model.MethodGet, model.MethodHead, model.MethodTrace:
		return "", ""
	}
	return "", emptyBodyTemplate
}

func (n *normalizer) normalizeResponses(responses []model.Response) (codes []string, success, failure string) {
	codes = make([]string, 0, len(responses))
	for _, r := range responses {
		codes = append(codes, r.StatusCode)
	}

	if len(responses) == 0 {
		empty := renderJSON(map[string]any{})
		return codes, empty, empty
	}

	successResp := pickResponse(responses, func(r model.Response) bool { return r.StatusCode == "200" })
	if successResp == nil {
		successResp = &responses[0]
	}

	errorResp := pickResponse(responses, func(r model.Response) bool { return r.StatusCode == "422" })
	if errorResp == nil {
		errorResp = pickResponse(responses, func(r model.Response) bool { return isErrorCode(r.StatusCode) })
	}
	if errorResp == nil {
		errorResp = successResp
	}

	return codes, n.responseExample(*successResp), n.responseExample(*errorResp)
}

func pickResponse(responses []model.Response, match func(model.Response) bool) *model.Response {
	for i := range responses {
		if match(responses[i]) {
			return &responses[i]
		}
	}
	return nil
}

func isErrorCode(code string) bool {
	return len(code) == 3 && (code[0] == '4' || code[0] == '5')
}

func (n *normalizer) responseExample(resp model.Response) string {
	if len(resp.Content) == 0 {
		return renderJSON(map[string]any{})
	}

	media := resp.Content[0]
	if media.Example != nil {
		return renderJSON(media.Example)
	}
	return renderJSON(ExampleValue(media.Schema, n.table))
}

// valueText coerces a synthesized or declared value to its textual form.
func valueText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// renderJSON pretty-prints a value. Map keys are marshaled in sorted order,
// which keeps catalog output byte for byte reproducible.
func renderJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
