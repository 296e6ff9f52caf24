package mcpsrv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/qyinm/zodiactui/config"
	"github.com/qyinm/zodiactui/httpx"
	"github.com/qyinm/zodiactui/types"
)

type fakeSource struct {
	entries     []types.Entry
	elements    []string
	cleared     atomic.Bool
	failEntries bool
	failRandom  bool
	failElems   bool
}

func sign(id, name, element string) types.Entry {
	return types.NewEntry(types.EntryFields{
		ID:          id,
		Name:        name,
		Element:     element,
		Personality: []string{"Bold"},
	})
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		entries: []types.Entry{
			sign("1", "Aries", "Fire"),
			sign("2", "Taurus", "Earth"),
			sign("5", "Leo", "Fire"),
			sign("9", "Sagittarius", "Fire"),
			sign("12", "Pisces", "Water"),
		},
		elements: []string{"Earth", "Fire", "Water"},
	}
}

func (f *fakeSource) FetchEntries(context.Context) ([]types.Entry, error) {
	if f.failEntries {
		return nil, types.NewFetchError("fetch entries", errors.New("upstream down"))
	}
	return f.entries, nil
}

func (f *fakeSource) FetchRandomEntry(context.Context) (types.Entry, error) {
	if f.failRandom {
		return types.Entry{}, types.NewFetchError("fetch random entry", errors.New("upstream down"))
	}
	return f.entries[2], nil
}

func (f *fakeSource) FetchElements(context.Context) ([]string, error) {
	if f.failElems {
		return nil, types.NewFetchError("fetch elements", errors.New("upstream down"))
	}
	return f.elements, nil
}

func (f *fakeSource) FetchEntry(_ context.Context, name string) (types.Entry, error) {
	for _, e := range f.entries {
		if strings.EqualFold(e.Name(), name) {
			return e, nil
		}
	}
	return types.Entry{}, fmt.Errorf("%w: %s", types.ErrEntryNotFound, name)
}

func (f *fakeSource) ClearCache() {
	f.cleared.Store(true)
}

func newHandlers(src types.EntrySource) *handlers {
	return &handlers{source: src, logger: zap.NewNop()}
}

func TestZodiacListFilters(t *testing.T) {
	h := newHandlers(newFakeSource())

	tests := []struct {
		name      string
		args      zodiacListArgs
		wantNames []string
		matched   int
	}{
		{"all", zodiacListArgs{}, []string{"Aries", "Taurus", "Leo", "Sagittarius", "Pisces"}, 5},
		{"element", zodiacListArgs{Element: "Fire"}, []string{"Aries", "Leo", "Sagittarius"}, 3},
		{"query and element", zodiacListArgs{Query: " AR ", Element: "Fire"}, []string{"Aries", "Sagittarius"}, 2},
		{"limit", zodiacListArgs{Element: "Fire", Limit: 1}, []string{"Aries"}, 3},
		{"no match", zodiacListArgs{Query: "zzz"}, []string{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, out, err := h.zodiacList(context.Background(), nil, tt.args)
			if err != nil || result != nil {
				t.Fatalf("unexpected failure: result=%v err=%v", result, err)
			}
			if out.Total != 5 || out.Matched != tt.matched {
				t.Fatalf("unexpected counts: total=%d matched=%d", out.Total, out.Matched)
			}
			got := make([]string, 0, len(out.Items))
			for _, it := range out.Items {
				got = append(got, it.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.wantNames, ",") {
				t.Fatalf("got %v, want %v", got, tt.wantNames)
			}
		})
	}
}

func TestZodiacGet(t *testing.T) {
	h := newHandlers(newFakeSource())

	if result, out, _ := h.zodiacGet(context.Background(), nil, zodiacGetArgs{Name: "leo"}); result != nil || out.Item.Name != "Leo" {
		t.Fatalf("expected Leo, got result=%v item=%+v", result, out.Item)
	}
	if result, _, _ := h.zodiacGet(context.Background(), nil, zodiacGetArgs{Name: "  "}); result == nil || !result.IsError {
		t.Fatalf("expected IsError for empty name")
	}
	result, _, _ := h.zodiacGet(context.Background(), nil, zodiacGetArgs{Name: "Ophiuchus"})
	if result == nil || !result.IsError {
		t.Fatalf("expected IsError for unknown sign")
	}
	if text := result.Content[0].(*mcp.TextContent).Text; !strings.Contains(text, "not found") {
		t.Fatalf("unexpected message: %q", text)
	}
}

func TestToolUpstreamFailuresIsError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	src := newFakeSource()
	src.failEntries = true
	src.failRandom = true
	h := &handlers{source: src, logger: zap.New(core)}

	if r, _, _ := h.zodiacList(context.Background(), nil, zodiacListArgs{}); r == nil || !r.IsError {
		t.Fatalf("zodiac_list failure must return IsError")
	}
	if r, _, _ := h.zodiacRandom(context.Background(), nil, struct{}{}); r == nil || !r.IsError {
		t.Fatalf("zodiac_random failure must return IsError")
	}
	if logs.Len() != 2 {
		t.Fatalf("expected 2 warnings, got %d", logs.Len())
	}
}

func TestElementListFallsBackToCatalogue(t *testing.T) {
	src := newFakeSource()
	src.failElems = true
	h := newHandlers(src)

	result, out, err := h.elementList(context.Background(), nil, struct{}{})
	if err != nil || result != nil {
		t.Fatalf("unexpected failure: %v %v", result, err)
	}
	if !out.Derived || strings.Join(out.Items, ",") != "Fire,Earth,Water" {
		t.Fatalf("expected first-seen elements from catalogue, got %+v", out)
	}

	src.failEntries = true
	if result, _, _ := h.elementList(context.Background(), nil, struct{}{}); result == nil || !result.IsError {
		t.Fatalf("expected IsError when both sources fail")
	}
}

func TestElementListFromAPI(t *testing.T) {
	_, out, _ := newHandlers(newFakeSource()).elementList(context.Background(), nil, struct{}{})
	if out.Derived || len(out.Items) != 3 {
		t.Fatalf("expected API elements, got %+v", out)
	}
}

func TestApplyLimit(t *testing.T) {
	items := make([]int, 150)
	if got := len(applyLimit(items, 0)); got != 150 {
		t.Fatalf("zero limit should keep all, got %d", got)
	}
	if got := len(applyLimit(items, 500)); got != maxLimit {
		t.Fatalf("limit should be clamped to %d, got %d", maxLimit, got)
	}
	if got := len(applyLimit(items[:3], 10)); got != 3 {
		t.Fatalf("limit above len should keep all, got %d", got)
	}
}

func TestAdminCacheClearGating(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()

	srvWithout := startTestServer(src, config.MCPConfig{}, &ServerOptions{EnableAdmin: false})
	defer srvWithout.Close()
	sessionWithout := connectTestClient(t, ctx, srvWithout.URL+"/mcp")
	toolsWithout, err := sessionWithout.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools without admin: %v", err)
	}
	sessionWithout.Close()
	if containsTool(toolsWithout.Tools, "cache_clear") {
		t.Fatalf("cache_clear should be absent when admin disabled")
	}

	srvNoKey := startTestServer(src, config.MCPConfig{}, &ServerOptions{EnableAdmin: true})
	defer srvNoKey.Close()
	sessionNoKey := connectTestClient(t, ctx, srvNoKey.URL+"/mcp")
	toolsNoKey, err := sessionNoKey.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools admin without key: %v", err)
	}
	sessionNoKey.Close()
	if containsTool(toolsNoKey.Tools, "cache_clear") {
		t.Fatalf("cache_clear should need an API key")
	}

	srvWith := startTestServer(src, config.MCPConfig{}, &ServerOptions{EnableAdmin: true, APIKey: "secret"})
	defer srvWith.Close()
	sessionWith := connectTestClient(t, ctx, srvWith.URL+"/mcp")
	toolsWith, err := sessionWith.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools with admin: %v", err)
	}
	sessionWith.Close()
	if !containsTool(toolsWith.Tools, "cache_clear") {
		t.Fatalf("cache_clear should be present when admin enabled")
	}
}

func TestAdminCacheClearCallsSource(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	srv := startTestServer(src, config.MCPConfig{}, &ServerOptions{EnableAdmin: true, APIKey: "secret"})
	defer srv.Close()

	session := connectTestClient(t, ctx, srv.URL+"/mcp")
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "cache_clear", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call cache_clear: %v", err)
	}
	if result.IsError {
		t.Fatalf("cache_clear returned tool error")
	}
	if !src.cleared.Load() {
		t.Fatalf("expected source.ClearCache to be called")
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"bearer", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
		{"x-api-key", map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{"malformed bearer", map[string]string{"Authorization": "Bearer"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := startTestServer(newFakeSource(), config.MCPConfig{APIKey: "secret"}, &ServerOptions{})
			defer srv.Close()

			resp, err := postInitialize(srv.URL+"/mcp", tt.headers)
			if err != nil {
				t.Fatalf("initialize request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestOriginAllowlistMiddleware(t *testing.T) {
	srv := startTestServer(newFakeSource(), config.MCPConfig{AllowedOrigins: []string{"https://app.example"}}, &ServerOptions{})
	defer srv.Close()

	for origin, want := range map[string]int{
		"https://evil.example": http.StatusForbidden,
		"https://app.example":  http.StatusOK,
	} {
		resp, err := postInitialize(srv.URL+"/mcp", map[string]string{"Origin": origin})
		if err != nil {
			t.Fatalf("initialize request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Fatalf("origin %s: expected %d, got %d", origin, want, resp.StatusCode)
		}
	}
}

func TestOriginAllowlistPreflight(t *testing.T) {
	srv := startTestServer(newFakeSource(), config.MCPConfig{AllowedOrigins: []string{"https://app.example"}}, &ServerOptions{})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Mcp-Session-Id") {
		t.Fatalf("MCP headers not allowed: %q", got)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	srv := startTestServer(newFakeSource(), config.MCPConfig{RPS: 1, Burst: 1}, &ServerOptions{})
	defer srv.Close()

	resp1, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	defer resp1.Body.Close()
	if resp1.StatusCode != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.StatusCode)
	}

	resp2, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected second request 429, got %d", resp2.StatusCode)
	}
}

func TestStatelessGetMethod(t *testing.T) {
	handler := NewHandler(NewServer(newFakeSource(), "dev", &ServerOptions{}), StreamableOptions(config.MCPConfig{Stateless: true}))
	srv := httptest.NewServer(handler)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestMCPListTools(t *testing.T) {
	ctx := context.Background()
	srv := startTestServer(newFakeSource(), config.MCPConfig{}, &ServerOptions{})
	defer srv.Close()

	session := connectTestClient(t, ctx, srv.URL+"/mcp")
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	for _, name := range []string{"zodiac_list", "zodiac_get", "zodiac_random", "element_list"} {
		if !containsTool(tools.Tools, name) {
			t.Fatalf("missing tool %q", name)
		}
	}
}

func TestMCPCoreTools(t *testing.T) {
	ctx := context.Background()
	srv := startTestServer(newFakeSource(), config.MCPConfig{}, &ServerOptions{})
	defer srv.Close()

	session := connectTestClient(t, ctx, srv.URL+"/mcp")
	defer session.Close()

	cases := []mcp.CallToolParams{
		{Name: "zodiac_list", Arguments: map[string]any{"element": "Fire", "limit": 2}},
		{Name: "zodiac_get", Arguments: map[string]any{"name": "aries"}},
		{Name: "zodiac_random", Arguments: map[string]any{}},
		{Name: "element_list", Arguments: map[string]any{}},
	}

	for _, tc := range cases {
		result, err := session.CallTool(ctx, &tc)
		if err != nil {
			t.Fatalf("call tool %s failed: %v", tc.Name, err)
		}
		if result.IsError {
			t.Fatalf("tool %s returned IsError=true", tc.Name)
		}
	}
}

func TestMCPZodiacListStructuredOutput(t *testing.T) {
	ctx := context.Background()
	srv := startTestServer(newFakeSource(), config.MCPConfig{}, &ServerOptions{})
	defer srv.Close()

	session := connectTestClient(t, ctx, srv.URL+"/mcp")
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "zodiac_list",
		Arguments: map[string]any{"query": "a", "element": "Fire"},
	})
	if err != nil {
		t.Fatalf("call zodiac_list: %v", err)
	}
	b, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out zodiacListOutput
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode structured content: %v", err)
	}
	if out.Matched != 2 || len(out.Items) != 2 || out.Items[1].Name != "Sagittarius" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func startTestServer(source types.EntrySource, cfg config.MCPConfig, opts *ServerOptions) *httptest.Server {
	if cfg.RPS <= 0 {
		cfg.RPS = 100
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 100
	}
	server := NewServer(source, "test", opts)
	mux := http.NewServeMux()
	mux.Handle("/mcp", httpx.Wrap(NewHandler(server, StreamableOptions(cfg)), cfg.HTTPOptions()))
	return httptest.NewServer(mux)
}

func connectTestClient(t *testing.T, ctx context.Context, endpoint string) *mcp.ClientSession {
	t.Helper()
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: endpoint}, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	return session
}

func containsTool(tools []*mcp.Tool, name string) bool {
	for _, tool := range tools {
		if tool != nil && tool.Name == name {
			return true
		}
	}
	return false
}

func postInitialize(url string, headers map[string]string) (*http.Response, error) {
	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": "2025-06-18",
			"capabilities":    map[string]any{},
			"clientInfo": map[string]any{
				"name":    "test",
				"version": "1",
			},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(string(b)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return http.DefaultClient.Do(req)
}

func TestClearCachePeriodically(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := newFakeSource()
	ClearCachePeriodically(ctx, src, 5*time.Millisecond)
	deadline := time.After(2 * time.Second)
	for !src.cleared.Load() {
		select {
		case <-deadline:
			t.Fatalf("cache was never cleared")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Sources without a cache are ignored.
	ClearCachePeriodically(ctx, struct{}{}, time.Millisecond)
}
