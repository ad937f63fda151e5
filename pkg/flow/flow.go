// Package flow reads flow documents: the nodes of a canvas as creation
// requests plus the edges between their ports.
//
// Documents are YAML or JSON:
//
//	name: welcome-campaign
//	nodes:
//	  - id: start
//	    data: {nodeType: start, config: {taskType: marketing}}
//	  - id: split
//	    x: 360
//	    data:
//	      nodeType: crowd-split
//	      config: {crowdLayers: [新客, 老客]}
//	edges:
//	  - {source: start, sourcePort: out-0, target: split}
package flow

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// Flow is a canvas document.
type Flow struct {
	Name  string             `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []assemble.Request `json:"nodes" yaml:"nodes"`
	Edges []Edge             `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// Edge connects an output port of one node to the input port of another.
type Edge struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	Source     string `json:"source" yaml:"source"`
	SourcePort string `json:"sourcePort,omitempty" yaml:"sourcePort,omitempty"`
	Target     string `json:"target" yaml:"target"`
	TargetPort string `json:"targetPort,omitempty" yaml:"targetPort,omitempty"`
}

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer flow format from %q", path)
}

// Parse decodes a flow document and checks its structure.
func Parse(data []byte, format Format) (*Flow, error) {
	var f Flow
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFlow, err, "decode json flow")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFlow, err, "decode yaml flow")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported flow format: %q", format)
	}
	if err := f.Check(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ReadFile reads and parses the flow document at path.
func ReadFile(path string) (*Flow, error) {
	if err := errors.ValidateFlowPath(path); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "flow file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read flow file %s", path)
	}
	return Parse(data, format)
}

// Check verifies node ids are unique and edges reference existing nodes.
// Ids may be empty when the assembler generates them; such nodes cannot be
// edge endpoints.
func (f *Flow) Check() error {
	seen := make(map[string]bool, len(f.Nodes))
	for i, n := range f.Nodes {
		if n.ID == "" {
			continue
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidFlow, "duplicate node id %q at index %d", n.ID, i)
		}
		seen[n.ID] = true
	}
	for i, e := range f.Edges {
		if !seen[e.Source] {
			return errors.New(errors.ErrCodeInvalidFlow, "edge %d: unknown source node %q", i, e.Source)
		}
		if !seen[e.Target] {
			return errors.New(errors.ErrCodeInvalidFlow, "edge %d: unknown target node %q", i, e.Target)
		}
	}
	return nil
}
