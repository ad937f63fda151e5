package layout

import "math"

// ComputeHeight returns the node height for the given number of display
// lines. Zero lines are laid out as one row, and the result never falls
// below s.MinHeight.
func ComputeHeight(lineCount int, s Style) float64 {
	rows := float64(max(1, lineCount))
	h := s.HeaderHeight + s.ContentPadding + rows*s.RowHeight + s.BottomPadding
	return math.Max(s.MinHeight, h)
}

// ContentStart is the y offset, from the node top, where the content rows begin.
func ContentStart(s Style) float64 {
	return s.HeaderHeight + s.ContentPadding
}

// RowAnchor is the y offset of the middle of row i, adjusted for the font
// baseline. It is the reference every output port is aligned against.
func RowAnchor(i int, s Style) float64 {
	return ContentStart(s) + float64(i)*s.RowHeight + math.Floor(s.RowHeight/2) + s.BaselineAdjust
}

// Band is a vertical interval [Start, End] in node-local coordinates.
type Band struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Height returns the extent of the band. Inverted bands have zero height.
func (b Band) Height() float64 { return math.Max(0, b.End-b.Start) }

// Clamp limits v to the band. An inverted band collapses to Start.
func (b Band) Clamp(v float64) float64 {
	return math.Min(math.Max(v, b.Start), math.Max(b.Start, b.End))
}

// ContentBand is the raw content band: rowCount rows (at least one)
// starting right below the header padding.
func ContentBand(rowCount int, s Style) Band {
	start := ContentStart(s)
	return Band{Start: start, End: start + float64(max(1, rowCount))*s.RowHeight}
}

// PaintedBand is the band the text rows are actually painted in. It is
// ContentBand shifted down by the baseline adjustment, so slicing it evenly
// gives slice centers equal to [RowAnchor].
func PaintedBand(rowCount int, s Style) Band {
	b := ContentBand(rowCount, s)
	b.Start += s.BaselineAdjust
	b.End += s.BaselineAdjust
	return b
}

// RowBand returns the painted extent of row i.
func RowBand(i int, s Style) Band {
	top := ContentStart(s) + s.BaselineAdjust + float64(i)*s.RowHeight
	return Band{Start: top, End: top + s.RowHeight}
}
