// Package interaction routes canvas pointer events to UI actions.
//
// A [Controller] owns no mutable state. It classifies each pointer event
// against the target node's geometry ([Classify]) and calls setters on the
// injected [UI], which owns selection, menus, the configuration drawer and
// the node picker. Handlers are idempotent: two rapid clicks produce two
// consistent transitions and nothing needs cancelling.
//
// Classification first trusts a semantic tag the renderer put on the event
// target ([TagMenuDot], [TagHeader], [TagContent]) and falls back to
// geometry. Coordinate transform failures, including panics inside the
// [Graph] adapter, degrade to "no region" instead of propagating.
package interaction
