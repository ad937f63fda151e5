package interaction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/node"
)

type fakeNode struct {
	id  string
	typ node.Type
	box layout.Block
}

func (n *fakeNode) ID() string         { return n.id }
func (n *fakeNode) Type() node.Type    { return n.typ }
func (n *fakeNode) BBox() layout.Block { return n.box }
func (n *fakeNode) Data() assemble.SpecData {
	return assemble.SpecData{NodeType: n.typ, HeaderTitle: n.typ.Label()}
}

type fakeEdge string

func (e fakeEdge) ID() string { return string(e) }

// fakeGraph translates client coordinates by a fixed offset.
type fakeGraph struct {
	offset   Point
	err      error
	panics   bool
	selected map[string]bool
}

func newGraph() *fakeGraph { return &fakeGraph{selected: map[string]bool{}} }

func (g *fakeGraph) ClientToLocal(p Point) (Point, error) {
	if g.panics {
		panic("transform exploded")
	}
	if g.err != nil {
		return Point{}, g.err
	}
	return Point{X: p.X - g.offset.X, Y: p.Y - g.offset.Y}, nil
}

func (g *fakeGraph) LocalToClient(p Point) (Point, error) {
	if g.panics {
		panic("transform exploded")
	}
	if g.err != nil {
		return Point{}, g.err
	}
	return Point{X: p.X + g.offset.X, Y: p.Y + g.offset.Y}, nil
}

func (g *fakeGraph) IsSelected(n Node) bool { return g.selected[n.ID()] }
func (g *fakeGraph) Select(n Node)          { g.selected[n.ID()] = true }
func (g *fakeGraph) Unselect(n Node)        { delete(g.selected, n.ID()) }

type drawerCall struct {
	typ  node.Type
	node string
}

// recordingUI captures the last value passed to each setter.
type recordingUI struct {
	rect         Rect
	drawers      []drawerCall
	showSelector *bool
	selectorPos  *Point
	sourceNode   Node
	sourceSet    bool
	createPoint  *Point
	edge         Edge
	edgeSet      bool
	deleted      []string
	menuButton   *MenuButtonState
	actionsMenu  *ActionsMenuState
}

func (u *recordingUI) OpenConfigDrawer(t node.Type, n Node, _ assemble.SpecData) {
	u.drawers = append(u.drawers, drawerCall{t, n.ID()})
}
func (u *recordingUI) SetShowNodeSelector(show bool)       { u.showSelector = &show }
func (u *recordingUI) SetNodeSelectorPosition(p Point)     { u.selectorPos = &p }
func (u *recordingUI) SetNodeSelectorSourceNode(n Node)    { u.sourceNode, u.sourceSet = n, true }
func (u *recordingUI) SetPendingCreatePoint(p Point)       { u.createPoint = &p }
func (u *recordingUI) SetPendingInsertionEdge(e Edge)      { u.edge, u.edgeSet = e, true }
func (u *recordingUI) DeleteNodeCascade(id string)         { u.deleted = append(u.deleted, id) }
func (u *recordingUI) ContainerRect() Rect                 { return u.rect }
func (u *recordingUI) SetNodeMenuButton(s MenuButtonState) { u.menuButton = &s }
func (u *recordingUI) SetNodeActionsMenu(s ActionsMenuState) { u.actionsMenu = &s }

func setup() (*Controller, *fakeGraph, *recordingUI) {
	g := newGraph()
	ui := &recordingUI{rect: Rect{X: 100, Y: 50, Width: 1000, Height: 800}}
	return New(g, ui, layout.DefaultStyle()), g, ui
}

func smsNode() *fakeNode {
	return &fakeNode{id: "n1", typ: node.SMS, box: layout.NodeBlock("n1", 0, 0, 280, 124)}
}

func TestClassifyGeometry(t *testing.T) {
	s := layout.DefaultStyle()
	g := newGraph()
	n := smsNode()
	w, h := s.Width, s.HeaderHeight

	tests := []struct {
		name string
		x, y float64
		want ClickRegion
	}{
		{"dot area", w - 20, h / 2, ClickRegion{InHeader: true, InDotArea: true}},
		{"dot area left edge", w - 30, h/2 - 8, ClickRegion{InHeader: true, InDotArea: true}},
		{"header left", 10, 10, ClickRegion{InHeader: true}},
		{"header right of dot", w - 4, h / 2, ClickRegion{InHeader: true}},
		{"header below dot band", w - 20, h/2 + 9, ClickRegion{InHeader: true}},
		{"content bottom", 10, 124 - 5, ClickRegion{}},
		{"above node", 10, -1, ClickRegion{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &PointerEvent{ClientX: tt.x, ClientY: tt.y}
			assert.Equal(t, tt.want, Classify(e, n, g, h))
		})
	}
}

func TestClassifyTransformedCanvas(t *testing.T) {
	g := newGraph()
	g.offset = Point{X: 40, Y: 60}
	n := &fakeNode{id: "n", typ: node.Wait, box: layout.NodeBlock("n", 200, 300, 280, 96)}

	e := &PointerEvent{ClientX: 40 + 200 + 260, ClientY: 60 + 300 + 18}
	assert.Equal(t, ClickRegion{InHeader: true, InDotArea: true}, Classify(e, n, g, 36))
}

func TestClassifyTagFastPath(t *testing.T) {
	g := newGraph()
	g.err = errors.New("must not be called")
	n := smsNode()

	assert.Equal(t, ClickRegion{InHeader: true, InDotArea: true}, Classify(&PointerEvent{Tag: TagMenuDot}, n, g, 36))
	assert.Equal(t, ClickRegion{InHeader: true}, Classify(&PointerEvent{Tag: TagHeader}, n, g, 36))
	assert.Equal(t, ClickRegion{}, Classify(&PointerEvent{Tag: TagContent, ClientX: 260, ClientY: 18}, n, g, 36))
}

func TestClassifyDegradesOnFailure(t *testing.T) {
	n := smsNode()
	e := &PointerEvent{ClientX: 260, ClientY: 18}

	g := newGraph()
	g.err = errors.New("detached")
	assert.Equal(t, ClickRegion{}, Classify(e, n, g, 36))

	g = newGraph()
	g.panics = true
	assert.NotPanics(t, func() {
		assert.Equal(t, ClickRegion{}, Classify(e, n, g, 36))
	})

	assert.NotPanics(t, func() {
		assert.Equal(t, ClickRegion{}, Classify(e, nil, newGraph(), 36))
	})
}

func TestHandleBlankClick(t *testing.T) {
	c, g, ui := setup()
	g.offset = Point{X: 10, Y: 20}

	c.HandleBlankClick(&PointerEvent{ClientX: 400, ClientY: 300})

	require.NotNil(t, ui.actionsMenu)
	assert.False(t, ui.actionsMenu.Visible)
	require.NotNil(t, ui.createPoint)
	assert.Equal(t, Point{X: 390, Y: 280}, *ui.createPoint)
	require.NotNil(t, ui.selectorPos)
	assert.Equal(t, Point{X: 300, Y: 250}, *ui.selectorPos)
	assert.True(t, ui.sourceSet)
	assert.Nil(t, ui.sourceNode)
	require.NotNil(t, ui.showSelector)
	assert.True(t, *ui.showSelector)
}

func TestHandleBlankClickTransformFailure(t *testing.T) {
	c, g, ui := setup()
	g.panics = true

	assert.NotPanics(t, func() { c.HandleBlankClick(&PointerEvent{ClientX: 400, ClientY: 300}) })
	assert.Nil(t, ui.createPoint)
	require.NotNil(t, ui.showSelector)
	assert.True(t, *ui.showSelector)
}

func TestHandleNodeClick(t *testing.T) {
	t.Run("menu dot opens menu", func(t *testing.T) {
		c, g, ui := setup()
		n := smsNode()
		c.HandleNodeClick(&PointerEvent{ClientX: 260, ClientY: 18}, n)

		require.NotNil(t, ui.actionsMenu)
		assert.Equal(t, ActionsMenuState{Visible: true, Position: Point{X: 180, Y: -50}, NodeID: "n1"}, *ui.actionsMenu)
		assert.Empty(t, ui.drawers)
		assert.False(t, g.selected["n1"])
	})

	t.Run("dot area on terminal nodes toggles selection", func(t *testing.T) {
		for _, typ := range []node.Type{node.Start, node.End} {
			c, g, ui := setup()
			n := &fakeNode{id: "t", typ: typ, box: layout.NodeBlock("t", 0, 0, 280, 96)}
			c.HandleNodeClick(&PointerEvent{ClientX: 260, ClientY: 18}, n)
			assert.Nil(t, ui.actionsMenu, typ)
			assert.True(t, g.selected["t"], typ)
			assert.Empty(t, ui.drawers, typ)

			c.HandleNodeClick(&PointerEvent{Tag: TagMenuDot}, n)
			assert.False(t, g.selected["t"], typ)
		}
	})

	t.Run("header toggles selection only", func(t *testing.T) {
		c, g, ui := setup()
		n := smsNode()
		c.HandleNodeClick(&PointerEvent{ClientX: 10, ClientY: 10}, n)
		assert.True(t, g.selected["n1"])
		c.HandleNodeClick(&PointerEvent{ClientX: 10, ClientY: 10}, n)
		assert.False(t, g.selected["n1"])
		assert.Empty(t, ui.drawers)
	})

	t.Run("content toggles and opens drawer", func(t *testing.T) {
		c, g, ui := setup()
		n := smsNode()
		c.HandleNodeClick(&PointerEvent{ClientX: 10, ClientY: 80}, n)
		assert.True(t, g.selected["n1"])
		assert.Equal(t, []drawerCall{{node.SMS, "n1"}}, ui.drawers)
	})

	t.Run("content on untyped node skips drawer", func(t *testing.T) {
		c, g, ui := setup()
		n := &fakeNode{id: "x", box: layout.NodeBlock("x", 0, 0, 280, 96)}
		c.HandleNodeClick(&PointerEvent{Tag: TagContent}, n)
		assert.True(t, g.selected["x"])
		assert.Empty(t, ui.drawers)
	})
}

func TestHandleNodeMouseDown(t *testing.T) {
	c, _, ui := setup()
	n := smsNode()

	c.HandleNodeMouseDown(&PointerEvent{Tag: TagMenuDot}, n)
	assert.Nil(t, ui.actionsMenu, "press on the dot must keep the menu")

	c.HandleNodeMouseDown(&PointerEvent{ClientX: 10, ClientY: 80}, n)
	require.NotNil(t, ui.actionsMenu)
	assert.False(t, ui.actionsMenu.Visible)
}

func TestHandleNodeContextMenu(t *testing.T) {
	tests := []struct {
		name        string
		typ         node.Type
		event       PointerEvent
		wantMenu    bool
		wantPrevent bool
	}{
		{"dot on sms", node.SMS, PointerEvent{ClientX: 260, ClientY: 18}, true, true},
		{"content on sms", node.SMS, PointerEvent{ClientX: 10, ClientY: 80}, false, false},
		{"dot on start", node.Start, PointerEvent{Tag: TagMenuDot}, false, false},
		{"dot on end", node.End, PointerEvent{Tag: TagMenuDot}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, ui := setup()
			n := &fakeNode{id: "n", typ: tt.typ, box: layout.NodeBlock("n", 0, 0, 280, 96)}
			e := tt.event
			c.HandleNodeContextMenu(&e, n)
			assert.Equal(t, tt.wantMenu, ui.actionsMenu != nil && ui.actionsMenu.Visible)
			assert.Equal(t, tt.wantPrevent, e.DefaultPrevented())
		})
	}
}

func TestHandleEdgeEvents(t *testing.T) {
	c, _, ui := setup()

	e := &PointerEvent{ClientX: 500, ClientY: 400}
	c.HandleEdgeContextMenu(e, fakeEdge("e1"))
	assert.True(t, e.DefaultPrevented())
	assert.Empty(t, ui.deleted)

	c.HandleEdgeInsert(&PointerEvent{ClientX: 500, ClientY: 400}, fakeEdge("e1"))
	assert.Equal(t, fakeEdge("e1"), ui.edge)
	assert.Nil(t, ui.sourceNode)
	assert.Equal(t, Point{X: 400, Y: 350}, *ui.selectorPos)
	assert.True(t, *ui.showSelector)
}

func TestHandleAddNext(t *testing.T) {
	c, _, ui := setup()
	n := smsNode()
	c.HandleAddNext(&PointerEvent{ClientX: 300, ClientY: 100}, n)
	assert.Equal(t, Node(n), ui.sourceNode)
	assert.True(t, ui.edgeSet)
	assert.Nil(t, ui.edge)
}

func TestHoverMenuButton(t *testing.T) {
	c, _, ui := setup()

	c.HandleNodeMouseEnter(&fakeNode{id: "s", typ: node.Start})
	assert.Nil(t, ui.menuButton)

	c.HandleNodeMouseEnter(smsNode())
	assert.Equal(t, MenuButtonState{Visible: true, NodeID: "n1"}, *ui.menuButton)

	c.HandleNodeMouseLeave(smsNode())
	assert.Equal(t, MenuButtonState{}, *ui.menuButton)
}

func TestDeleteNode(t *testing.T) {
	c, _, ui := setup()
	c.DeleteNode(&fakeNode{id: "e", typ: node.End})
	c.DeleteNode(smsNode())
	assert.Equal(t, []string{"n1"}, ui.deleted)
	assert.False(t, ui.actionsMenu.Visible)
}
