package catalog

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/dapperline/deckhand/internal/model"
)

// Catalog is the browsable result of one document compile. It is built once,
// never mutated, and safe to share across any number of readers; a reload
// replaces the whole value.
type Catalog struct {
	Title       string      `json:"title"`
	Version     string      `json:"version"`
	Description string      `json:"description"`
	BaseURLs    []string    `json:"baseUrls"`
	Operations  []Operation `json:"operations"`
}

// baseURLPattern matches the platform's production endpoints inside free-text
// descriptions.
var baseURLPattern = regexp.MustCompile(`https://(?:api|oapi)\.dingtalk\.com[A-Za-z0-9\-._~/]*`)

// DefaultBaseURLs is used when the document description mentions no endpoint.
var DefaultBaseURLs = []string{
	"https://api.dingtalk.com",
	"https://oapi.dingtalk.com",
}

type Option func(*options)

type options struct {
	groups     []Group
	hiddenTags map[string]struct{}
}

// WithGroups overrides the ordered app-grouping table.
func WithGroups(groups []Group) Option {
	return func(o *options) { o.groups = groups }
}

// WithHiddenTags hides operations whose first tag is in the given set.
func WithHiddenTags(tags []string) Option {
	return func(o *options) {
		o.hiddenTags = make(map[string]struct{}, len(tags))
		for _, t := range tags {
			o.hiddenTags[t] = struct{}{}
		}
	}
}

// Compile turns a document model into the catalog consumed by the console.
// The whole pipeline is pure: same document in, byte-identical catalog out.
func Compile(spec *model.Spec, opts ...Option) *Catalog {
	o := &options{groups: DefaultGroups}
	for _, opt := range opts {
		opt(o)
	}

	n := &normalizer{
		table:  spec.SchemaTable(),
		groups: o.groups,
	}

	ops := make([]Operation, 0, len(spec.Operations))
	seen := make(map[string]struct{}, len(spec.Operations))
	for _, op := range spec.Operations {
		rec := n.normalize(op)
		if _, hidden := o.hiddenTags[rec.Tag]; hidden {
			continue
		}
		rec.ID = uniqueID(seen, rec.ID)
		ops = append(ops, rec)
	}

	sort.SliceStable(ops, func(i, j int) bool {
		a, b := ops[i], ops[j]
		if a.Tag != b.Tag {
			return a.Tag < b.Tag
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Method < b.Method
	})

	return &Catalog{
		Title:       EnglishText(spec.Info.Title),
		Version:     spec.Info.Version,
		Description: EnglishText(spec.Info.Description),
		BaseURLs:    baseURLs(spec.Info.Description),
		Operations:  ops,
	}
}

// Operation looks up a catalog entry by id.
func (c *Catalog) Operation(id string) (*Operation, bool) {
	for i := range c.Operations {
		if c.Operations[i].ID == id {
			return &c.Operations[i], true
		}
	}
	return nil, false
}

// uniqueID keeps catalog ids unique. The first occurrence, in document walk
// order, keeps the plain id; later collisions get a numeric suffix.
func uniqueID(seen map[string]struct{}, id string) string {
	candidate := id
	for i := 2; ; i++ {
		if _, taken := seen[candidate]; !taken {
			seen[candidate] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", id, i)
	}
}

// baseURLs extracts candidate endpoints from free text, deduplicated in
// first-occurrence order.
func baseURLs(description string) []string {
	matches := baseURLPattern.FindAllString(description, -1)
	if len(matches) == 0 {
		result := make([]string, len(DefaultBaseURLs))
		copy(result, DefaultBaseURLs)
		return result
	}

	var result []string
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		result = append(result, m)
	}
	return result
}
