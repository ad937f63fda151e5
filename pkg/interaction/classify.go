package interaction

// ClickRegion is where on a node a pointer event landed.
type ClickRegion struct {
	InHeader  bool `json:"inHeader"`
	InDotArea bool `json:"inDotArea"`
}

// Dot area geometry, relative to the node's top-right corner and the
// header's vertical middle.
const (
	dotAreaLeft   = 30
	dotAreaRight  = 8
	dotAreaHalfHt = 8
)

// Classify locates e on n. headerHeight is the node header height.
func Classify(e *PointerEvent, n Node, g Graph, headerHeight float64) ClickRegion {
	switch e.Tag {
	case TagMenuDot:
		return ClickRegion{InHeader: true, InDotArea: true}
	case TagHeader:
		return ClickRegion{InHeader: true}
	case TagContent:
		return ClickRegion{}
	}
	return classifyGeometry(e.Client(), n, g, headerHeight)
}

func classifyGeometry(client Point, n Node, g Graph, headerHeight float64) (r ClickRegion) {
	defer func() {
		if recover() != nil {
			r = ClickRegion{}
		}
	}()

	local, err := g.ClientToLocal(client)
	if err != nil {
		return ClickRegion{}
	}
	box := n.BBox()
	rx, ry := box.Local(local.X, local.Y)
	return RegionAt(rx, ry, box.Width(), headerHeight)
}

// RegionAt classifies a node-local point on a node of width w.
func RegionAt(rx, ry, w, headerHeight float64) ClickRegion {
	inHeader := ry >= 0 && ry <= headerHeight
	dotY := headerHeight / 2
	inDot := inHeader &&
		rx >= w-dotAreaLeft && rx <= w-dotAreaRight &&
		ry >= dotY-dotAreaHalfHt && ry <= dotY+dotAreaHalfHt
	return ClickRegion{InHeader: inHeader, InDotArea: inDot}
}
