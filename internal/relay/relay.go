// Package relay forwards console requests to allow-listed upstream hosts.
// Browsers cannot call the platform APIs directly because of cross-origin
// policy, so the console posts the prepared request here and gets the
// upstream response back verbatim.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type Config struct {
	// AllowedHosts is the fixed set of upstream hosts requests may target.
	AllowedHosts []string
	// Timeout bounds the whole upstream exchange.
	Timeout time.Duration
}

const DefaultTimeout = 30 * time.Second

// Request is the payload posted by the console.
type Request struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
}

type Relay struct {
	client  *resty.Client
	allowed map[string]struct{}

	// allowHTTP relaxes the https-only rule for loopback test servers.
	allowHTTP bool
}

var allowedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// strippedHeaders are never forwarded upstream; the transport owns them.
var strippedHeaders = map[string]struct{}{
	"host":           {},
	"origin":         {},
	"content-length": {},
}

func New(cfg Config) *Relay {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedHosts))
	for _, h := range cfg.AllowedHosts {
		allowed[strings.ToLower(h)] = struct{}{}
	}

	return &Relay{
		client:  resty.New().SetTimeout(timeout),
		allowed: allowed,
	}
}

// Handler serves one forwarded request. Failures are terminal for that
// request only and always come back as an HTTP status.
func (rl *Relay) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload Request
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "malformed relay payload")
			return
		}

		target, err := url.Parse(payload.URL)
		if err != nil || payload.URL == "" {
			writeError(w, http.StatusBadRequest, "malformed target url")
			return
		}

		if !rl.hostAllowed(target) {
			writeError(w, http.StatusForbidden, "target host not allowed")
			return
		}

		method := strings.ToUpper(payload.Method)
		if _, ok := allowedMethods[method]; !ok {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		req := rl.client.R().SetContext(r.Context())
		for name, value := range payload.Headers {
			if _, skip := strippedHeaders[strings.ToLower(name)]; skip {
				continue
			}
			req.SetHeader(name, value)
		}
		if payload.Body != "" {
			req.SetBody(payload.Body)
		}

		resp, err := req.Execute(method, target.String())
		if err != nil {
			if isTimeout(err) {
				writeError(w, http.StatusGatewayTimeout, "upstream timeout")
				return
			}
			slog.Error("upstream request failed", "url", payload.URL, "error", err)
			writeError(w, http.StatusBadGateway, "upstream request failed")
			return
		}

		if ct := resp.Header().Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(resp.StatusCode())
		_, _ = w.Write(resp.Body())
	}
}

func (rl *Relay) hostAllowed(target *url.URL) bool {
	if target.Scheme != "https" && !(rl.allowHTTP && target.Scheme == "http") {
		return false
	}
	_, ok := rl.allowed[strings.ToLower(target.Hostname())]
	return ok
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
