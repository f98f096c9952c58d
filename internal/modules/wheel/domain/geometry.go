package domain

import "math"

// Geometry is the card layout in track units (terminal cells in the TUI).
// MarkerOffset is the track coordinate of the marker. Renderers draw that
// coordinate under their marker column (the centre column in the TUI), so it
// is a calibration offset from the centre, not a derived constant.
type Geometry struct {
	CardWidth    float64
	Gap          float64
	MarkerOffset float64
}

func (g Geometry) ItemSize() float64 {
	return g.CardWidth + g.Gap
}

// TargetPosition is the track position that centres card index under the
// marker.
func (g Geometry) TargetPosition(index int) float64 {
	s := g.ItemSize()
	return -(float64(index) * s) - s/2 + g.Gap/2 + g.MarkerOffset
}

// PassedIndex is how many whole cards have scrolled past the origin.
func (g Geometry) PassedIndex(position float64) int {
	s := g.ItemSize()
	if s <= 0 {
		return 0
	}
	return int(math.Floor(math.Abs(position) / s))
}
