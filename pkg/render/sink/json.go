package sink

import (
	"encoding/json"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/layout"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	name  string
	edges []flow.Edge
	style *layout.Style
}

// WithJSONName records the flow name.
func WithJSONName(name string) JSONOption { return func(r *jsonRenderer) { r.name = name } }

// WithJSONEdges includes edges, with their port ids resolved.
func WithJSONEdges(edges []flow.Edge) JSONOption { return func(r *jsonRenderer) { r.edges = edges } }

// WithJSONStyle records the style the specs were assembled with.
func WithJSONStyle(s layout.Style) JSONOption { return func(r *jsonRenderer) { r.style = &s } }

type jsonOutput struct {
	Name  string          `json:"name,omitempty"`
	Style *layout.Style   `json:"style,omitempty"`
	Nodes []assemble.Spec `json:"nodes"`
	Edges []jsonEdge      `json:"edges,omitempty"`
}

type jsonEdge struct {
	ID     string       `json:"id,omitempty"`
	Source jsonTerminal `json:"source"`
	Target jsonTerminal `json:"target"`
}

type jsonTerminal struct {
	Cell string `json:"cell"`
	Port string `json:"port"`
}

// RenderJSON exports specs as a pretty-printed document that a renderer can
// add to its canvas verbatim. It does not modify specs.
func RenderJSON(specs []assemble.Spec, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{Name: r.name, Style: r.style, Nodes: specs}
	if out.Nodes == nil {
		out.Nodes = []assemble.Spec{}
	}
	for _, e := range r.edges {
		out.Edges = append(out.Edges, jsonEdge{
			ID:     e.ID,
			Source: jsonTerminal{Cell: e.Source, Port: e.ResolvedSourcePort()},
			Target: jsonTerminal{Cell: e.Target, Port: e.ResolvedTargetPort()},
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
