package ports

import "github.com/matzehuels/flowcanvas/pkg/node"

// Policy says which ports a node type carries.
type Policy struct {
	IncludeIn  bool `json:"includeIn"`
	IncludeOut bool `json:"includeOut"`
	OutCount   int  `json:"outCount"`
}

// PolicyFor returns the port policy of a node of type t with lineCount
// display lines. Start nodes have a single forward transition regardless
// of content; end nodes have no output.
func PolicyFor(t node.Type, lineCount int) Policy {
	switch t {
	case node.Start:
		return Policy{IncludeIn: false, IncludeOut: true, OutCount: 1}
	case node.End:
		return Policy{IncludeIn: true, IncludeOut: false, OutCount: 0}
	default:
		return Policy{IncludeIn: true, IncludeOut: true, OutCount: max(0, lineCount)}
	}
}

// OutputCount is the number of output ports a node of type t carries.
func OutputCount(t node.Type, lineCount int) int {
	return PolicyFor(t, lineCount).OutCount
}
