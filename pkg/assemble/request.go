package assemble

import (
	"encoding/json"

	"github.com/matzehuels/flowcanvas/pkg/node"
)

// Request asks for one node spec.
type Request struct {
	ID    string      `json:"id" yaml:"id" validate:"omitempty,max=128"`
	X     float64     `json:"x" yaml:"x"`
	Y     float64     `json:"y" yaml:"y"`
	Label string      `json:"label,omitempty" yaml:"label,omitempty"`
	Data  RequestData `json:"data" yaml:"data"`
}

// RequestData is the node payload. Keys other than the known ones are
// carried through to [SpecData.Extra] untouched.
type RequestData struct {
	NodeType string         `json:"nodeType" yaml:"nodeType" validate:"required,nodetype"`
	Config   node.Config    `json:"config,omitempty" yaml:"config,omitempty"`
	Disabled bool           `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Extra    map[string]any `json:"-" yaml:",inline"`
}

var requestDataKeys = []string{"nodeType", "config", "disabled"}

// UnmarshalJSON keeps unknown keys in Extra.
func (d *RequestData) UnmarshalJSON(b []byte) error {
	type plain RequestData
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, k := range requestDataKeys {
		delete(all, k)
	}
	if len(all) > 0 {
		p.Extra = all
	}
	*d = RequestData(p)
	return nil
}

// MarshalJSON writes Extra alongside the known keys.
func (d RequestData) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+3)
	for k, v := range d.Extra {
		out[k] = v
	}
	out["nodeType"] = d.NodeType
	if d.Config != nil {
		out["config"] = d.Config
	}
	if d.Disabled {
		out["disabled"] = true
	}
	return json.Marshal(out)
}
