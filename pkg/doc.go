// Package pkg provides the core libraries for Flowcanvas node layout.
//
// # Overview
//
// Flowcanvas turns node creation requests from a marketing flow canvas into
// render-ready node specs whose output ports sit on the content rows they
// belong to, and checks that they do. The pkg directory is organized into
// four areas:
//
//  1. Node content: [node] (types, configs, display lines)
//  2. Geometry: [layout] (style, heights, row bands) and [ports] (port groups and items)
//  3. Assembly and checks: [assemble], [validate], [flow]
//  4. Surfaces: [pipeline], [render], [interaction], [httpapi], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	Flow document (YAML/JSON)
//	         ↓
//	    [flow] package (requests + edges)
//	         ↓
//	    [assemble] package (lines → height → ports → spec)
//	         ↓
//	    [validate] package (port ids, alignment against row anchors)
//	         ↓
//	    [render] packages (SVG/JSON, measured geometry)
//
// # Quick Start
//
// Assemble one node and check its ports:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/flowcanvas/pkg/assemble"
//	    "github.com/matzehuels/flowcanvas/pkg/validate"
//	)
//
//	a := assemble.New()
//	spec, err := a.Assemble(context.Background(), assemble.Request{
//	    ID:   "split-1",
//	    Data: assemble.RequestData{NodeType: "crowd-split", Config: cfg},
//	})
//	if err != nil {
//	    return err
//	}
//	report := validate.Validate(spec.Ports, spec.Data.DisplayLines,
//	    validate.Options{Type: spec.Data.NodeType, Height: spec.Height})
//
// Whole flows go through [pipeline.Runner], which also renders and measures.
//
// [node]: github.com/matzehuels/flowcanvas/pkg/node
// [layout]: github.com/matzehuels/flowcanvas/pkg/layout
// [ports]: github.com/matzehuels/flowcanvas/pkg/ports
// [assemble]: github.com/matzehuels/flowcanvas/pkg/assemble
// [validate]: github.com/matzehuels/flowcanvas/pkg/validate
// [flow]: github.com/matzehuels/flowcanvas/pkg/flow
// [pipeline]: github.com/matzehuels/flowcanvas/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/flowcanvas/pkg/pipeline#Runner
// [render]: github.com/matzehuels/flowcanvas/pkg/render
// [interaction]: github.com/matzehuels/flowcanvas/pkg/interaction
// [httpapi]: github.com/matzehuels/flowcanvas/pkg/httpapi
// [observability]: github.com/matzehuels/flowcanvas/pkg/observability
package pkg
