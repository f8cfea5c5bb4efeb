package relay

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRelay(t *testing.T, cfg Config) *Relay {
	t.Helper()
	rl := New(cfg)
	rl.allowHTTP = true
	return rl
}

func post(t *testing.T, handler http.HandlerFunc, payload Request) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/relay", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRelayRejectsMalformedPayload(t *testing.T) {
	rl := newTestRelay(t, Config{AllowedHosts: []string{"127.0.0.1"}})

	req := httptest.NewRequest(http.MethodPost, "/api/relay", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	rl.Handler()(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRelayRejectsBadURL(t *testing.T) {
	rl := newTestRelay(t, Config{AllowedHosts: []string{"127.0.0.1"}})

	rec := post(t, rl.Handler(), Request{URL: "", Method: "GET"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRelayRejectsDisallowedHost(t *testing.T) {
	rl := newTestRelay(t, Config{AllowedHosts: []string{"api.dingtalk.com"}})

	for _, method := range []string{"GET", "POST", "DELETE"} {
		rec := post(t, rl.Handler(), Request{URL: "https://evil.example.com/steal", Method: method})
		require.Equal(t, http.StatusForbidden, rec.Code, "method %s", method)
	}
}

func TestRelayRejectsPlainHTTPByDefault(t *testing.T) {
	rl := New(Config{AllowedHosts: []string{"api.dingtalk.com"}})

	rec := post(t, rl.Handler(), Request{URL: "http://api.dingtalk.com/v1.0/oauth2", Method: "GET"})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRelayRejectsDisallowedMethod(t *testing.T) {
	rl := newTestRelay(t, Config{AllowedHosts: []string{"127.0.0.1"}})

	rec := post(t, rl.Handler(), Request{URL: "http://127.0.0.1/x", Method: "TRACE"})
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRelayForwardsRequest(t *testing.T) {
	var seen *http.Request
	var seenBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(r.Context())
		b, _ := io.ReadAll(r.Body)
		seenBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	u, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	rl := newTestRelay(t, Config{AllowedHosts: []string{u.Hostname()}})

	rec := post(t, rl.Handler(), Request{
		URL:    upstream.URL + "/v1/echo",
		Method: "post",
		Headers: map[string]string{
			"Authorization": "Bearer tok",
			"Origin":        "http://localhost:3000",
			"Host":          "spoofed.example.com",
		},
		Body: `{"hello":"world"}`,
	})

	// Upstream status and body pass through untouched.
	require.Equal(t, http.StatusTeapot, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	require.NotNil(t, seen)
	assert.Equal(t, http.MethodPost, seen.Method)
	assert.Equal(t, "/v1/echo", seen.URL.Path)
	assert.Equal(t, "Bearer tok", seen.Header.Get("Authorization"))
	assert.Empty(t, seen.Header.Get("Origin"))
	assert.JSONEq(t, `{"hello":"world"}`, seenBody)
}

func TestRelayUpstreamTimeout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer upstream.Close()

	u, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	rl := newTestRelay(t, Config{
		AllowedHosts: []string{u.Hostname()},
		Timeout:      50 * time.Millisecond,
	})

	rec := post(t, rl.Handler(), Request{URL: upstream.URL, Method: "GET"})
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestRelayUpstreamUnreachable(t *testing.T) {
	// Reserve a port and close it so nothing is listening there.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := upstream.URL
	upstream.Close()

	u, err := url.Parse(target)
	require.NoError(t, err)

	rl := newTestRelay(t, Config{AllowedHosts: []string{u.Hostname()}})

	rec := post(t, rl.Handler(), Request{URL: target, Method: "GET"})
	require.Equal(t, http.StatusBadGateway, rec.Code)
}
