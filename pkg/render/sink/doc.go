// Package sink paints assembled node specs for preview and measurement.
//
// [RenderSVG] draws a canvas of nodes and edges. Elements carry the
// semantic annotations the interaction layer and the measurement path rely
// on:
//
//   - data-tag="header" / "content" / "menu-dot" on the node regions
//   - data-row="i" on each painted content row
//   - data-port="id" on each port circle
//
// [ParseSVG] reads those annotations back into per-node measurements that
// implement validate.Renderer, so alignment can be checked against what was
// actually painted rather than against the layout formulas.
//
// [RenderJSON] exports the specs and edges as a pretty-printed document for
// external rendering engines.
package sink
