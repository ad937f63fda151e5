package layout

// Block is the bounding box of a node on the canvas. Canvas coordinates
// grow rightwards and downwards, so Top <= Bottom.
type Block struct {
	NodeID      string
	Left, Right float64
	Top, Bottom float64
}

// NodeBlock returns the box of a node whose top-left corner is at (x, y).
func NodeBlock(id string, x, y, width, height float64) Block {
	return Block{NodeID: id, Left: x, Right: x + width, Top: y, Bottom: y + height}
}

// Width returns the horizontal span of the block.
func (b Block) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the block.
func (b Block) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center point of the block.
func (b Block) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the block.
func (b Block) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Local converts a canvas point into offsets from the block's top-left corner.
func (b Block) Local(x, y float64) (rx, ry float64) {
	return x - b.Left, y - b.Top
}

// Contains reports whether the canvas point lies inside the block, edges included.
func (b Block) Contains(x, y float64) bool {
	return x >= b.Left && x <= b.Right && y >= b.Top && y <= b.Bottom
}
