// Package node models flow-canvas node types and derives their display lines.
//
// A node's configuration arrives as a loosely typed [Config] bag edited by
// the surrounding UI. [Decode] turns it into one typed [Content] variant per
// [Type], tolerating missing or partially malformed fields, and
// [BuildLines] renders that variant into the ordered display lines shown in
// the node body. Each display line backs one output port.
//
// Decoding and line building are pure: identical inputs always produce
// identical, freshly allocated results.
package node
