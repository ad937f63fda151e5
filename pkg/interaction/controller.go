package interaction

import (
	"github.com/matzehuels/flowcanvas/pkg/layout"
)

// Controller turns pointer events into UI calls.
type Controller struct {
	graph        Graph
	ui           UI
	headerHeight float64
}

// New binds a controller to a graph and a UI. The style supplies the
// header height used by geometric classification.
func New(g Graph, ui UI, s layout.Style) *Controller {
	return &Controller{graph: g, ui: ui, headerHeight: s.HeaderHeight}
}

// Classify locates e on n.
func (c *Controller) Classify(e *PointerEvent, n Node) ClickRegion {
	return Classify(e, n, c.graph, c.headerHeight)
}

// HandleBlankClick opens the node picker at the click point for an
// unconnected node.
func (c *Controller) HandleBlankClick(e *PointerEvent) {
	c.closeMenu()
	if local, err := c.safeClientToLocal(e.Client()); err == nil {
		c.ui.SetPendingCreatePoint(local)
	}
	c.ui.SetPendingInsertionEdge(nil)
	c.ui.SetNodeSelectorPosition(c.containerPoint(e.Client()))
	c.ui.SetNodeSelectorSourceNode(nil)
	c.ui.SetShowNodeSelector(true)
}

// HandleNodeClick routes a click by region: the menu dot opens the action
// menu, the header (including the dot area of start and end nodes, which
// have no menu) toggles selection, the content toggles selection and
// opens the configuration drawer.
func (c *Controller) HandleNodeClick(e *PointerEvent, n Node) {
	region := c.Classify(e, n)
	switch {
	case region.InDotArea && !n.Type().IsTerminal():
		c.openMenu(n)
	case region.InHeader:
		c.toggle(n)
	default:
		c.toggle(n)
		if t := n.Type(); t != "" {
			c.ui.OpenConfigDrawer(t, n, n.Data())
		}
	}
}

// HandleNodeMouseDown closes the action menu unless the press lands on the
// menu dot.
func (c *Controller) HandleNodeMouseDown(e *PointerEvent, n Node) {
	if !c.Classify(e, n).InDotArea {
		c.closeMenu()
	}
}

// HandleNodeContextMenu opens the action menu when the right-click targets
// the menu dot of a non-terminal node.
func (c *Controller) HandleNodeContextMenu(e *PointerEvent, n Node) {
	if n.Type().IsTerminal() || !c.Classify(e, n).InDotArea {
		return
	}
	e.PreventDefault()
	c.openMenu(n)
}

// HandleEdgeContextMenu suppresses the host context menu on edges.
func (c *Controller) HandleEdgeContextMenu(e *PointerEvent, _ Edge) {
	e.PreventDefault()
}

// HandleEdgeInsert opens the node picker to insert a node into edge.
func (c *Controller) HandleEdgeInsert(e *PointerEvent, edge Edge) {
	c.closeMenu()
	c.ui.SetPendingInsertionEdge(edge)
	c.ui.SetNodeSelectorSourceNode(nil)
	c.ui.SetNodeSelectorPosition(c.containerPoint(e.Client()))
	c.ui.SetShowNodeSelector(true)
}

// HandleAddNext opens the node picker to append a node after n.
func (c *Controller) HandleAddNext(e *PointerEvent, n Node) {
	c.closeMenu()
	c.ui.SetPendingInsertionEdge(nil)
	c.ui.SetNodeSelectorSourceNode(n)
	c.ui.SetNodeSelectorPosition(c.containerPoint(e.Client()))
	c.ui.SetShowNodeSelector(true)
}

// HandleNodeMouseEnter shows the menu button of a non-terminal node.
func (c *Controller) HandleNodeMouseEnter(n Node) {
	if n.Type().IsTerminal() {
		return
	}
	c.ui.SetNodeMenuButton(MenuButtonState{Visible: true, NodeID: n.ID()})
}

// HandleNodeMouseLeave hides the menu button.
func (c *Controller) HandleNodeMouseLeave(Node) {
	c.ui.SetNodeMenuButton(MenuButtonState{})
}

// DeleteNode closes the menu and deletes n with everything hanging off it.
// Terminal nodes cannot be deleted.
func (c *Controller) DeleteNode(n Node) {
	if n.Type().IsTerminal() {
		return
	}
	c.closeMenu()
	c.ui.DeleteNodeCascade(n.ID())
}

func (c *Controller) toggle(n Node) {
	if c.graph.IsSelected(n) {
		c.graph.Unselect(n)
		return
	}
	c.graph.Select(n)
}

func (c *Controller) closeMenu() {
	c.ui.SetNodeActionsMenu(ActionsMenuState{})
}

// openMenu anchors the action menu at the node's top-right corner, in
// container coordinates.
func (c *Controller) openMenu(n Node) {
	box := n.BBox()
	pos := Point{X: box.Right, Y: box.Top}
	if client, err := c.safeLocalToClient(pos); err == nil {
		pos = c.containerPoint(client)
	}
	c.ui.SetNodeActionsMenu(ActionsMenuState{Visible: true, Position: pos, NodeID: n.ID()})
}

func (c *Controller) containerPoint(client Point) Point {
	r := c.ui.ContainerRect()
	return Point{X: client.X - r.X, Y: client.Y - r.Y}
}

func (c *Controller) safeClientToLocal(p Point) (out Point, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errTransform
		}
	}()
	return c.graph.ClientToLocal(p)
}

func (c *Controller) safeLocalToClient(p Point) (out Point, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errTransform
		}
	}()
	return c.graph.LocalToClient(p)
}
