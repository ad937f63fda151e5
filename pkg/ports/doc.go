// Package ports builds the connection-port layout of a node.
//
// A node has at most one input port, anchored at its vertical center, and
// one output port per display line anchored at the middle of that line's
// row. [Build] produces the [Config] handed to the rendering engine; the
// wire shape mirrors what the canvas renderer expects:
//
//	{
//	  "groups": {"in": {...}, "out": {...}},
//	  "items":  [{"id": "in", "group": "in", "args": {"dy": 0}}, ...]
//	}
//
// Output positions are expressed as a dy offset from the node's vertical
// center by default, or as absolute {x, y} node-local coordinates when
// [Options.Absolute] is set. One invocation never mixes the two.
package ports
