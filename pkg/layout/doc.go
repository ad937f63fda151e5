// Package layout computes the geometry of a horizontal flow-canvas node.
//
// All functions in this package are pure. They take an explicit [Style]
// value instead of reading package-level constants, so two canvases with
// different styles can be laid out side by side in the same process.
//
// # Node Anatomy
//
// A node is a fixed-width box split into a header (title and menu dot) and
// a content area holding one display line per row:
//
//	 0 ┌──────────────────────────────┐
//	   │ header title              ⋯  │ HeaderHeight
//	   ├──────────────────────────────┤
//	   │ ContentPadding               │
//	   │ row 0                        ○ out-0
//	 ○ │ row 1                        ○ out-1
//	   │ ...                          │
//	   │ BottomPadding                │
//	   └──────────────────────────────┘ height
//
// Row text is painted BaselineAdjust pixels below the raw content start,
// so [RowAnchor] (the formula ports are judged against) coincides with the
// midpoint of each painted row from [PaintedBand].
package layout
