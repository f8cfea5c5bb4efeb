package catalog

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dapperline/deckhand/internal/model"
)

// RequestValues carries the user-supplied parameter values for one attempt,
// keyed by parameter name within each location.
type RequestValues struct {
	Path   map[string]string
	Query  map[string]string
	Header map[string]string
	Cookie map[string]string
}

// BuildURL substitutes path placeholders into the operation's path template
// and appends non-empty query parameters, in declared parameter order.
func BuildURL(base string, op *Operation, values RequestValues) string {
	path := op.Path
	for name, value := range values.Path {
		path = strings.ReplaceAll(path, "{"+name+"}", value)
	}

	var query []string
	for _, p := range op.Parameters {
		if p.In != string(model.LocationQuery) {
			continue
		}
		value := values.Query[p.Name]
		if value == "" {
			continue
		}
		query = append(query, p.Name+"="+url.QueryEscape(value))
	}

	full := strings.TrimRight(base, "/") + path
	if len(query) > 0 {
		full += "?" + strings.Join(query, "&")
	}
	return full
}

// BuildHeaders assembles the outbound header set: the bearer credential when
// the operation requires auth, the declared content type when a body type
// exists, user-supplied header parameters, and a single combined cookie
// header with percent-encoded name=value pairs.
func BuildHeaders(op *Operation, bearer string, values RequestValues) http.Header {
	headers := http.Header{}

	if op.RequiresAuth && bearer != "" {
		headers.Set("Authorization", "Bearer "+bearer)
	}
	if op.BodyType != "" {
		headers.Set("Content-Type", op.BodyType)
	}

	var cookies []string
	for _, p := range op.Parameters {
		switch p.In {
		case string(model.LocationHeader):
			if value := values.Header[p.Name]; value != "" {
				headers.Set(p.Name, value)
			}
		case string(model.LocationCookie):
			if value := values.Cookie[p.Name]; value != "" {
				cookies = append(cookies, url.QueryEscape(p.Name)+"="+url.QueryEscape(value))
			}
		}
	}
	if len(cookies) > 0 {
		headers.Set("Cookie", strings.Join(cookies, "; "))
	}

	return headers
}
