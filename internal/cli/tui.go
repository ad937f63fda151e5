package cli

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowcanvas/pkg/assemble"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/interaction"
	"github.com/matzehuels/flowcanvas/pkg/layout"
	"github.com/matzehuels/flowcanvas/pkg/node"
	"github.com/matzehuels/flowcanvas/pkg/ports"
)

// A terminal cell covers this many canvas pixels.
const (
	cellWidth  = 10.0
	cellHeight = 16.0
	panCells   = 4
)

// newNodeGap is the horizontal gap between a node and one appended after it.
const newNodeGap = 80

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// canvasCommand creates the canvas command for editing a flow in the terminal.
func (c *CLI) canvasCommand() *cobra.Command {
	var opts flowOpts

	cmd := &cobra.Command{
		Use:   "canvas [flow]",
		Short: "Open a flow on an interactive terminal canvas",
		Long: `Canvas draws every node of a flow in the terminal. Click a header to select
a node, click its content to inspect its configuration, right-click the menu
dot for node actions, and click blank space to add a node.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFlow(args[0])
			if err != nil {
				return err
			}
			style, err := loadStyle(opts.stylePath)
			if err != nil {
				return err
			}
			m, err := newCanvasModel(cmd.Context(), f, assemble.New(
				assemble.WithStyle(style),
				assemble.WithAbsolutePorts(opts.absolute),
			))
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	opts.register(cmd)
	return cmd
}

// =============================================================================
// Graph and UI adapters
// =============================================================================

type canvasNode struct{ spec assemble.Spec }

func (n canvasNode) ID() string              { return n.spec.ID }
func (n canvasNode) Type() node.Type         { return n.spec.Data.NodeType }
func (n canvasNode) BBox() layout.Block      { return n.spec.Block() }
func (n canvasNode) Data() assemble.SpecData { return n.spec.Data }

type canvasEdge struct{ edge flow.Edge }

func (e canvasEdge) ID() string {
	if e.edge.ID != "" {
		return e.edge.ID
	}
	return e.edge.Source + "->" + e.edge.Target
}

// drawer is the open configuration drawer.
type drawer struct {
	nodeType node.Type
	nodeID   string
	data     assemble.SpecData
}

// canvasState is both the graph and the UI the controller drives. Client
// coordinates are terminal cells scaled to pixels; the first row holds the
// title bar, so the container starts one row down.
type canvasState struct {
	panX, panY    float64
	width, height int
	top           int

	selected map[string]bool

	menuButton  interaction.MenuButtonState
	actionsMenu interaction.ActionsMenuState

	showSelector bool
	selectorPos  interaction.Point
	sourceNode   interaction.Node
	createPoint  interaction.Point
	insertEdge   interaction.Edge

	drawer  *drawer
	deleted []string
}

func (s *canvasState) ClientToLocal(p interaction.Point) (interaction.Point, error) {
	return interaction.Point{X: p.X + s.panX, Y: p.Y - float64(s.top)*cellHeight + s.panY}, nil
}

func (s *canvasState) LocalToClient(p interaction.Point) (interaction.Point, error) {
	return interaction.Point{X: p.X - s.panX, Y: p.Y + float64(s.top)*cellHeight - s.panY}, nil
}

func (s *canvasState) IsSelected(n interaction.Node) bool { return s.selected[n.ID()] }
func (s *canvasState) Select(n interaction.Node)          { s.selected[n.ID()] = true }
func (s *canvasState) Unselect(n interaction.Node)        { delete(s.selected, n.ID()) }

func (s *canvasState) OpenConfigDrawer(t node.Type, n interaction.Node, data assemble.SpecData) {
	s.drawer = &drawer{nodeType: t, nodeID: n.ID(), data: data}
}

func (s *canvasState) SetShowNodeSelector(show bool)                      { s.showSelector = show }
func (s *canvasState) SetNodeSelectorPosition(p interaction.Point)        { s.selectorPos = p }
func (s *canvasState) SetNodeSelectorSourceNode(n interaction.Node)       { s.sourceNode = n }
func (s *canvasState) SetPendingCreatePoint(p interaction.Point)          { s.createPoint = p }
func (s *canvasState) SetPendingInsertionEdge(e interaction.Edge)         { s.insertEdge = e }
func (s *canvasState) DeleteNodeCascade(id string)                        { s.deleted = append(s.deleted, id) }
func (s *canvasState) SetNodeMenuButton(st interaction.MenuButtonState)   { s.menuButton = st }
func (s *canvasState) SetNodeActionsMenu(st interaction.ActionsMenuState) { s.actionsMenu = st }

func (s *canvasState) ContainerRect() interaction.Rect {
	return interaction.Rect{
		Y:      float64(s.top) * cellHeight,
		Width:  float64(s.width) * cellWidth,
		Height: float64(max(0, s.height-s.top-1)) * cellHeight,
	}
}

// =============================================================================
// Model
// =============================================================================

// canvasModel is the bubbletea model for the terminal canvas.
type canvasModel struct {
	ctx       context.Context
	assembler *assemble.Assembler
	flow      *flow.Flow
	specs     []assemble.Spec
	byEdge    map[string]flow.Edge

	state *canvasState
	ctrl  *interaction.Controller

	hover  string
	cursor int
	status string
}

func newCanvasModel(ctx context.Context, f *flow.Flow, a *assemble.Assembler) (*canvasModel, error) {
	st := &canvasState{selected: map[string]bool{}, top: 1, width: 80, height: 24}
	m := &canvasModel{
		ctx:       ctx,
		assembler: a,
		flow:      f,
		state:     st,
		ctrl:      interaction.New(st, st, a.Style()),
	}
	if err := m.rebuild(); err != nil {
		return nil, err
	}
	return m, nil
}

// rebuild reassembles every node of the flow.
func (m *canvasModel) rebuild() error {
	specs := make([]assemble.Spec, 0, len(m.flow.Nodes))
	for _, req := range m.flow.Nodes {
		s, err := m.assembler.Assemble(m.ctx, req)
		if err != nil {
			return err
		}
		specs = append(specs, s)
	}
	m.specs = specs
	m.byEdge = make(map[string]flow.Edge, len(m.flow.Edges))
	for _, e := range m.flow.Edges {
		m.byEdge[canvasEdge{e}.ID()] = e
	}
	return nil
}

func (m *canvasModel) Init() tea.Cmd {
	return nil
}

func (m *canvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.width, m.state.height = msg.Width, msg.Height
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		if m.state.showSelector {
			return m, m.handleSelectorKey(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *canvasModel) handleMouse(msg tea.MouseMsg) {
	e := &interaction.PointerEvent{
		ClientX: float64(msg.X)*cellWidth + cellWidth/2,
		ClientY: float64(msg.Y)*cellHeight + cellHeight/2,
	}
	n := m.nodeAt(e.Client())

	switch msg.Action {
	case tea.MouseActionMotion:
		id := ""
		if n != nil {
			id = n.ID()
		}
		if id == m.hover {
			return
		}
		if old := m.node(m.hover); old != nil {
			m.ctrl.HandleNodeMouseLeave(old)
		}
		if n != nil {
			m.ctrl.HandleNodeMouseEnter(n)
		}
		m.hover = id
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if m.state.showSelector {
				m.state.showSelector = false
				return
			}
			if n == nil {
				m.cursor = 0
				m.ctrl.HandleBlankClick(e)
				return
			}
			m.ctrl.HandleNodeMouseDown(e, n)
			m.ctrl.HandleNodeClick(e, n)
		case tea.MouseButtonRight:
			if n != nil {
				m.ctrl.HandleNodeContextMenu(e, n)
			}
		}
	}
}

func (m *canvasModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	menu := m.state.actionsMenu
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "esc":
		m.state.drawer = nil
		m.state.actionsMenu = interaction.ActionsMenuState{}
	case "left", "h":
		m.state.panX -= panCells * cellWidth
	case "right", "l":
		m.state.panX += panCells * cellWidth
	case "up", "k":
		m.state.panY -= panCells * cellHeight
	case "down", "j":
		m.state.panY += panCells * cellHeight
	case "a":
		if n := m.node(menu.NodeID); menu.Visible && n != nil {
			m.cursor = 0
			m.ctrl.HandleAddNext(m.menuEvent(), n)
		}
	case "i":
		if !menu.Visible {
			break
		}
		for _, e := range m.flow.Edges {
			if e.Source == menu.NodeID {
				m.cursor = 0
				m.ctrl.HandleEdgeInsert(m.menuEvent(), canvasEdge{e})
				return nil
			}
		}
		m.status = "no outgoing edge to insert into"
	case "d":
		if n := m.node(menu.NodeID); menu.Visible && n != nil {
			m.ctrl.DeleteNode(n)
			m.applyDeletes()
		}
	}
	return nil
}

func (m *canvasModel) handleSelectorKey(msg tea.KeyMsg) tea.Cmd {
	types := node.AllTypes()
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc", "q":
		m.state.showSelector = false
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(types)-1 {
			m.cursor++
		}
	case "enter":
		m.state.showSelector = false
		if err := m.create(types[m.cursor]); err != nil {
			m.status = err.Error()
		}
	}
	return nil
}

// menuEvent is a pointer event at the action menu's anchor.
func (m *canvasModel) menuEvent() *interaction.PointerEvent {
	r := m.state.ContainerRect()
	p := m.state.actionsMenu.Position
	return &interaction.PointerEvent{ClientX: p.X + r.X, ClientY: p.Y + r.Y}
}

// create adds a node of type t where the selector was opened: after the
// source node, inside the pending edge, or at the clicked point.
func (m *canvasModel) create(t node.Type) error {
	st := m.state
	req := assemble.Request{
		ID:   "n-" + uuid.NewString()[:8],
		X:    st.createPoint.X,
		Y:    st.createPoint.Y,
		Data: assemble.RequestData{NodeType: string(t)},
	}
	var edges []flow.Edge
	var split *flow.Edge

	switch {
	case st.insertEdge != nil:
		e, ok := m.byEdge[st.insertEdge.ID()]
		if !ok {
			return fmt.Errorf("edge %s is gone", st.insertEdge.ID())
		}
		src, dst := m.spec(e.Source), m.spec(e.Target)
		if src == nil || dst == nil {
			return fmt.Errorf("edge %s has no endpoints", st.insertEdge.ID())
		}
		req.X = (src.X + dst.X) / 2
		req.Y = (src.Y + dst.Y) / 2
		split = &e
		edges = append(edges, flow.Edge{Source: e.Source, SourcePort: e.SourcePort, Target: req.ID})
	case st.sourceNode != nil:
		src := m.spec(st.sourceNode.ID())
		if src == nil {
			return fmt.Errorf("node %s is gone", st.sourceNode.ID())
		}
		req.X = src.X + src.Width + newNodeGap
		req.Y = src.Y
		port, ok := m.freePort(*src)
		if !ok {
			return fmt.Errorf("node %s has no free output port", src.ID)
		}
		edges = append(edges, flow.Edge{Source: src.ID, SourcePort: port, Target: req.ID})
	}

	spec, err := m.assembler.Assemble(m.ctx, req)
	if err != nil {
		return err
	}
	if split != nil {
		drop := canvasEdge{*split}.ID()
		kept := m.flow.Edges[:0]
		for _, e := range m.flow.Edges {
			if (canvasEdge{e}).ID() != drop {
				kept = append(kept, e)
			}
		}
		m.flow.Edges = kept
		if outs := spec.OutputIDs(); len(outs) > 0 {
			edges = append(edges, flow.Edge{Source: req.ID, SourcePort: outs[0], Target: split.Target, TargetPort: split.TargetPort})
		}
	}
	m.flow.Nodes = append(m.flow.Nodes, req)
	m.flow.Edges = append(m.flow.Edges, edges...)
	st.insertEdge, st.sourceNode = nil, nil
	m.status = fmt.Sprintf("added %s %s", t.Label(), req.ID)
	return m.rebuild()
}

// freePort returns the first output port of s without an edge.
func (m *canvasModel) freePort(s assemble.Spec) (string, bool) {
	used := map[string]bool{}
	for _, e := range m.flow.Edges {
		if e.Source == s.ID {
			used[e.ResolvedSourcePort()] = true
		}
	}
	for _, id := range s.OutputIDs() {
		if !used[id] {
			return id, true
		}
	}
	return "", false
}

// applyDeletes removes the requested nodes and the non-terminal nodes
// reachable from them, with every edge touching a removed node.
func (m *canvasModel) applyDeletes() {
	if len(m.state.deleted) == 0 {
		return
	}
	types := make(map[string]node.Type, len(m.specs))
	for _, s := range m.specs {
		types[s.ID] = s.Data.NodeType
	}
	gone := map[string]bool{}
	queue := append([]string(nil), m.state.deleted...)
	m.state.deleted = nil
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if gone[id] {
			continue
		}
		gone[id] = true
		for _, e := range m.flow.Edges {
			if e.Source == id && !types[e.Target].IsTerminal() {
				queue = append(queue, e.Target)
			}
		}
	}

	nodes := m.flow.Nodes[:0]
	for _, n := range m.flow.Nodes {
		if !gone[n.ID] {
			nodes = append(nodes, n)
		}
	}
	m.flow.Nodes = nodes
	edges := m.flow.Edges[:0]
	for _, e := range m.flow.Edges {
		if !gone[e.Source] && !gone[e.Target] {
			edges = append(edges, e)
		}
	}
	m.flow.Edges = edges
	for id := range gone {
		delete(m.state.selected, id)
	}
	if gone[m.hover] {
		m.hover = ""
		m.state.menuButton = interaction.MenuButtonState{}
	}
	m.status = fmt.Sprintf("deleted %d node(s)", len(gone))
	if err := m.rebuild(); err != nil {
		m.status = err.Error()
	}
}

func (m *canvasModel) spec(id string) *assemble.Spec {
	for i := range m.specs {
		if m.specs[i].ID == id {
			return &m.specs[i]
		}
	}
	return nil
}

func (m *canvasModel) node(id string) interaction.Node {
	if id == "" {
		return nil
	}
	if s := m.spec(id); s != nil {
		return canvasNode{*s}
	}
	return nil
}

// nodeAt returns the topmost node under a client point.
func (m *canvasModel) nodeAt(client interaction.Point) interaction.Node {
	local, _ := m.state.ClientToLocal(client)
	for i := len(m.specs) - 1; i >= 0; i-- {
		if m.specs[i].Block().Contains(local.X, local.Y) {
			return canvasNode{m.specs[i]}
		}
	}
	return nil
}

// =============================================================================
// View
// =============================================================================

func (m *canvasModel) View() string {
	st := m.state
	body := max(0, st.height-st.top-1)
	g := newGrid(st.width, body)

	for _, s := range m.specs {
		m.drawNode(g, s)
	}
	if st.actionsMenu.Visible {
		col, row := int(st.actionsMenu.Position.X/cellWidth), int(st.actionsMenu.Position.Y/cellHeight)
		g.text(col, row, "[a] add next  [i] insert  [d] delete", st.width)
	}
	if st.showSelector {
		m.drawSelector(g)
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.title()))
	b.WriteString("\n")
	b.WriteString(g.String())
	b.WriteString(listDimStyle.Render(m.footer()))
	return b.String()
}

func (m *canvasModel) title() string {
	name := m.flow.Name
	if name == "" {
		name = appName
	}
	return fmt.Sprintf("%s  %d nodes  %d edges  %d selected", name, len(m.specs), len(m.flow.Edges), len(m.state.selected))
}

func (m *canvasModel) footer() string {
	if d := m.state.drawer; d != nil {
		return fmt.Sprintf("%s %s  %s  esc close", d.nodeType.Label(), d.nodeID, configSummary(d.data.Config))
	}
	if m.status != "" {
		return m.status
	}
	return "click header: select  click content: inspect  right-click ⋯: actions  arrows: pan  q: quit"
}

func configSummary(cfg node.Config) string {
	if len(cfg) == 0 {
		return "(no config)"
	}
	return strings.Join(slices.Sorted(maps.Keys(cfg)), ", ")
}

func (m *canvasModel) drawNode(g *grid, s assemble.Spec) {
	st := m.state
	col := func(x float64) int { return int(math.Floor((x - st.panX) / cellWidth)) }
	row := func(y float64) int { return int(math.Floor((y - st.panY) / cellHeight)) }

	c0, c1 := col(s.X), col(s.X+s.Width)-1
	r0, r1 := row(s.Y), row(s.Y+s.Height)-1
	h, v, corners := '─', '│', [4]rune{'┌', '┐', '└', '┘'}
	if st.selected[s.ID] {
		h, v, corners = '═', '║', [4]rune{'╔', '╗', '╚', '╝'}
	}
	for c := c0 + 1; c < c1; c++ {
		g.put(c, r0, h)
		g.put(c, r1, h)
	}
	for r := r0 + 1; r < r1; r++ {
		g.put(c0, r, v)
		g.put(c1, r, v)
	}
	g.put(c0, r0, corners[0])
	g.put(c1, r0, corners[1])
	g.put(c0, r1, corners[2])
	g.put(c1, r1, corners[3])

	inner := c1 - c0 - 3
	g.text(c0+2, r0+1, s.Data.HeaderTitle, inner-2)
	menu := st.menuButton.Visible && st.menuButton.NodeID == s.ID ||
		st.actionsMenu.Visible && st.actionsMenu.NodeID == s.ID
	if menu {
		g.put(col(s.X+s.Width-19), r0+1, '⋯')
	}
	style := m.assembler.Style()
	for i, line := range s.Data.DisplayLines {
		g.text(c0+2, row(s.Y+layout.RowAnchor(i, style)), line, inner)
	}

	for _, it := range s.Ports.Items {
		cy, ok := it.CenterY(s.Height)
		if !ok {
			continue
		}
		if it.Group == ports.GroupIn {
			g.put(c0, row(s.Y+cy), '○')
			continue
		}
		g.put(c1, row(s.Y+cy), '●')
	}
}

func (m *canvasModel) drawSelector(g *grid) {
	col := int(m.state.selectorPos.X / cellWidth)
	row := int(m.state.selectorPos.Y / cellHeight)
	g.text(col, row, "add node (enter, esc)", g.w)
	for i, t := range node.AllTypes() {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		g.text(col, row+1+i, cursor+t.Label(), g.w)
	}
}

// grid is a rune canvas clipped to the viewport.
type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	cells := make([][]rune, h)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(" ", w))
	}
	return &grid{w: w, h: h, cells: cells}
}

func (g *grid) put(col, row int, r rune) {
	if col < 0 || row < 0 || col >= g.w || row >= g.h {
		return
	}
	g.cells[row][col] = r
}

func (g *grid) text(col, row int, s string, limit int) {
	if limit <= 0 {
		return
	}
	rs := []rune(s)
	if len(rs) > limit {
		rs = append(rs[:max(0, limit-1)], '…')
	}
	for i, r := range rs {
		g.put(col+i, row, r)
	}
}

func (g *grid) String() string {
	var b strings.Builder
	for _, line := range g.cells {
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteString("\n")
	}
	return b.String()
}
