// Package validate checks that a node's ports line up with its content rows.
//
// Validation is advisory. Findings are aggregated into a [Report] and never
// returned as errors: a node with misaligned ports still renders and stays
// interactive. Reports feed developer logging and tests only.
//
// Alignment is always judged against the row-anchored formula
// ([layout.RowAnchor]), whatever mode the ports were built with.
// [CheckRendered] adds a measurement-grounded check on top, reading painted
// geometry through a [Renderer].
package validate
