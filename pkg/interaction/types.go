package interaction

import (
	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/node"
)

// Semantic tags a renderer may attach to node elements.
const (
	TagMenuDot = "menu-dot"
	TagHeader  = "header"
	TagContent = "content"
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in client coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is a rendered node as seen by the controller.
type Node interface {
	ID() string
	Type() node.Type
	BBox() layout.Block
	Data() assemble.SpecData
}

// Edge is a rendered edge.
type Edge interface {
	ID() string
}

// Graph adapts the canvas engine.
type Graph interface {
	// ClientToLocal converts client (viewport) coordinates to canvas coordinates.
	ClientToLocal(p Point) (Point, error)
	// LocalToClient converts canvas coordinates to client coordinates.
	LocalToClient(p Point) (Point, error)
	IsSelected(n Node) bool
	Select(n Node)
	Unselect(n Node)
}

// MenuButtonState is the hover "more" button of a node.
type MenuButtonState struct {
	Visible bool   `json:"visible"`
	NodeID  string `json:"nodeId,omitempty"`
}

// ActionsMenuState is the floating action menu of a node.
type ActionsMenuState struct {
	Visible  bool   `json:"visible"`
	Position Point  `json:"position"`
	NodeID   string `json:"nodeId,omitempty"`
}

// UI is the capability set the controller drives. All interaction state
// lives behind it; the controller never reads results back except the
// container rectangle.
type UI interface {
	OpenConfigDrawer(t node.Type, n Node, data assemble.SpecData)
	SetShowNodeSelector(show bool)
	SetNodeSelectorPosition(p Point)
	// SetNodeSelectorSourceNode sets the node a picked node will follow. Nil
	// means the new node is created unconnected.
	SetNodeSelectorSourceNode(n Node)
	SetPendingCreatePoint(p Point)
	// SetPendingInsertionEdge sets the edge a picked node will be inserted
	// into. Nil clears it.
	SetPendingInsertionEdge(e Edge)
	DeleteNodeCascade(nodeID string)
	ContainerRect() Rect
	SetNodeMenuButton(s MenuButtonState)
	SetNodeActionsMenu(s ActionsMenuState)
}

// PointerEvent is a pointer event delivered by the canvas.
type PointerEvent struct {
	ClientX float64
	ClientY float64
	// Tag is the semantic tag of the event target, empty when the target
	// carries none.
	Tag string

	prevented bool
}

// PreventDefault suppresses the host's default action, such as the
// browser context menu.
func (e *PointerEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *PointerEvent) DefaultPrevented() bool { return e.prevented }

// Client returns the event position in client coordinates.
func (e *PointerEvent) Client() Point { return Point{X: e.ClientX, Y: e.ClientY} }
