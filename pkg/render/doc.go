// Package render groups the painters and measurers for assembled node specs.
//
// # Overview
//
// Node specs from [assemble] carry everything a canvas renderer needs. The
// subpackages turn them into artifacts and read geometry back:
//
//   - [sink]: SVG preview and graph JSON writers, plus a static measurer
//     that parses the SVG it wrote
//   - [browser]: a measurer that loads the SVG into headless Chromium and
//     asks the layout engine where rows and ports ended up
//
// Both measurers return [sink.Measurement] values, which satisfy
// [validate.Renderer], so the alignment check is the same whichever one
// produced the numbers.
//
//	svg := sink.RenderSVG(specs, sink.WithEdges(edges))
//	got, err := sink.Static{}.Measure(ctx, svg)
//	report := validate.CheckRendered(spec.Ports, spec.Data.DisplayLines, got[spec.ID],
//	    validate.Options{Type: spec.Data.NodeType, Height: spec.Height})
//
// [assemble]: github.com/matzehuels/flowcanvas/pkg/assemble
// [validate]: github.com/matzehuels/flowcanvas/pkg/validate
// [validate.Renderer]: github.com/matzehuels/flowcanvas/pkg/validate#Renderer
// [sink]: github.com/matzehuels/flowcanvas/pkg/render/sink
// [sink.Measurement]: github.com/matzehuels/flowcanvas/pkg/render/sink#Measurement
// [browser]: github.com/matzehuels/flowcanvas/pkg/render/browser
package render
