package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/observability"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	ts := httptest.NewServer(NewHandler(cfg))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

type problem struct {
	Type     string `json:"type"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

func TestCreateNode(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := post(t, ts, "/v1/nodes", `{
		"id": "ab-1", "x": 10, "y": 20,
		"data": {"nodeType": "ab-test", "owner": "ops", "config": {"branches": [
			{"name": "A", "percentage": 50}, {"name": "B", "percentage": 50}
		]}}
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var spec assemble.Spec
	decodeBody(t, resp, &spec)
	assert.Equal(t, "ab-1", spec.ID)
	assert.Equal(t, assemble.Shape, spec.Shape)
	assert.Equal(t, []string{"A：50%", "B：50%"}, spec.Data.DisplayLines)
	assert.Equal(t, []string{"out-0", "out-1"}, spec.OutputIDs())
	assert.Equal(t, "ops", spec.Data.Extra["owner"])
}

func TestCreateNodeGeneratesID(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := post(t, ts, "/v1/nodes", `{"data": {"nodeType": "end"}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var spec assemble.Spec
	decodeBody(t, resp, &spec)
	assert.NotEmpty(t, spec.ID)
	assert.Empty(t, spec.OutputIDs())
}

func TestCreateNodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		typ    string
	}{
		{"unknown type", `{"id": "x", "data": {"nodeType": "teleport"}}`, http.StatusUnprocessableEntity, "invalid_node_type"},
		{"missing type", `{"id": "x", "data": {}}`, http.StatusBadRequest, "validation_error"},
		{"bad id", `{"id": "a b", "data": {"nodeType": "sms"}}`, http.StatusBadRequest, "validation_error"},
		{"malformed", `{"id": `, http.StatusBadRequest, "malformed_body"},
	}
	ts := newTestServer(t, Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/nodes", tt.body)
			require.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))

			var p problem
			decodeBody(t, resp, &p)
			assert.Equal(t, tt.typ, p.Type)
			assert.Equal(t, "/v1/nodes", p.Instance)
			assert.NotEmpty(t, p.Detail)
		})
	}
}

func TestValidateNode(t *testing.T) {
	ts := newTestServer(t, Config{AbsolutePorts: true})
	resp := post(t, ts, "/v1/nodes/validate", `{"id": "c", "data": {"nodeType": "crowd-split", "config": {"crowdLayers": ["A", "B"]}}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out NodeReport
	decodeBody(t, resp, &out)
	assert.True(t, out.Report.IsValid)
	assert.Empty(t, out.Report.Errors)
	assert.Equal(t, 3, out.Report.Details.OutputPorts)
	assert.Equal(t, "absolute", out.Report.Details.Representation)
	assert.Zero(t, out.Report.Details.MaxDeviation)
}

func TestRunFlow(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := post(t, ts, "/v1/flows", `{
		"name": "welcome",
		"nodes": [
			{"id": "start", "data": {"nodeType": "start"}},
			{"id": "sms", "x": 360, "data": {"nodeType": "sms", "config": {"smsTemplate": "hi"}}},
			{"id": "end", "x": 720, "data": {"nodeType": "end"}}
		],
		"edges": [
			{"source": "start", "target": "sms"},
			{"source": "sms", "sourcePort": "out-3", "target": "end"}
		]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out FlowResult
	decodeBody(t, resp, &out)
	assert.Equal(t, "welcome", out.Name)
	assert.True(t, out.Valid)
	assert.Len(t, out.Specs, 3)
	assert.Len(t, out.Reports, 3)
	require.Len(t, out.EdgeFindings, 1)
	assert.Equal(t, "out-3", out.EdgeFindings[0].PortID)
}

func TestRunFlowRejectsDanglingEdge(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp := post(t, ts, "/v1/flows", `{"nodes": [{"id": "a", "data": {"nodeType": "end"}}], "edges": [{"source": "a", "target": "b"}]}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var p problem
	decodeBody(t, resp, &p)
	assert.Equal(t, "validation_error", p.Type)
}

func TestNodeTypes(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/v1/node-types")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var types []NodeType
	decodeBody(t, resp, &types)
	require.Len(t, types, 11)

	byType := map[string]NodeType{}
	for _, nt := range types {
		byType[string(nt.Type)] = nt
	}
	start := byType["start"]
	assert.False(t, start.IncludeIn)
	require.NotNil(t, start.FixedOutCount)
	assert.Equal(t, 1, *start.FixedOutCount)

	end := byType["end"]
	assert.True(t, end.IncludeIn)
	require.NotNil(t, end.FixedOutCount)
	assert.Equal(t, 0, *end.FixedOutCount)

	split := byType["event-split"]
	assert.True(t, split.Split)
	assert.Nil(t, split.FixedOutCount)
}

func TestStyle(t *testing.T) {
	custom := layout.DefaultStyle()
	custom.Width = 320
	ts := newTestServer(t, Config{Style: custom})

	resp, err := http.Get(ts.URL + "/v1/style")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got layout.Style
	decodeBody(t, resp, &got)
	assert.Equal(t, custom, got)
}

func TestNotFoundAndMethod(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/v1/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))

	resp2, err := http.Get(ts.URL + "/v1/nodes")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := observability.NewPrometheus(reg)
	observability.SetHTTPHooks(p)
	observability.SetAssemblyHooks(p)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, Config{Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	post(t, ts, "/v1/nodes", `{"id": "w", "data": {"nodeType": "wait", "config": {"duration": 2, "unit": "hours"}}}`)

	mresp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	body, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `flowcanvas_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
	assert.Contains(t, string(body), `flowcanvas_nodes_assembled_total{node_type="wait",outcome="ok"} 1`)

	n, err := testutil.GatherAndCount(reg, "flowcanvas_http_requests_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 2)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Build  struct {
			Version string `json:"version"`
		} `json:"build"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Build.Version)
}
