package assemble

import (
	"encoding/json"

	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/node"
	"github.com/matzehuels/flowcanvas/pkg/ports"
)

// Shape is the renderer shape every assembled node uses.
const Shape = "horizontal-node"

// ZIndex places nodes above edges.
const ZIndex = 1

// Spec is the render-ready description of one node.
type Spec struct {
	ID     string       `json:"id"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Shape  string       `json:"shape"`
	Data   SpecData     `json:"data"`
	Ports  ports.Config `json:"ports"`
	ZIndex int          `json:"zIndex"`
}

// SpecData is the node data handed to the renderer.
type SpecData struct {
	NodeType     node.Type   `json:"nodeType"`
	HeaderTitle  string      `json:"headerTitle"`
	DisplayLines []string    `json:"displayLines"`
	Disabled     bool        `json:"disabled"`
	Selected     bool        `json:"selected"`
	Hover        bool        `json:"hover"`
	Config       node.Config `json:"config"`

	// Extra holds request data keys this package does not interpret.
	Extra map[string]any `json:"-"`
}

// MarshalJSON flattens Extra into the data object. Known keys win.
func (d SpecData) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+7)
	for k, v := range d.Extra {
		out[k] = v
	}
	out["nodeType"] = d.NodeType
	out["headerTitle"] = d.HeaderTitle
	out["displayLines"] = d.DisplayLines
	out["disabled"] = d.Disabled
	out["selected"] = d.Selected
	out["hover"] = d.Hover
	if d.Config == nil {
		out["config"] = map[string]any{}
	} else {
		out["config"] = d.Config
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (d *SpecData) UnmarshalJSON(b []byte) error {
	type plain SpecData
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, k := range []string{"nodeType", "headerTitle", "displayLines", "disabled", "selected", "hover", "config"} {
		delete(all, k)
	}
	if len(all) > 0 {
		p.Extra = all
	}
	*d = SpecData(p)
	return nil
}

// Block returns the node's bounding box on the canvas.
func (s Spec) Block() layout.Block {
	return layout.NodeBlock(s.ID, s.X, s.Y, s.Width, s.Height)
}

// OutputIDs returns the ids of the output ports in order.
func (s Spec) OutputIDs() []string {
	var ids []string
	for _, it := range s.Ports.ByGroup(ports.GroupOut) {
		ids = append(ids, it.ID)
	}
	return ids
}
