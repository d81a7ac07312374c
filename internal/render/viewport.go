package render

// Viewport is the scrollable window onto a grid's pocket rows. Offsets and
// heights are in terminal rows.
type Viewport struct {
	Offset  int // first content row shown
	Height  int // rows visible on screen
	Content int // total content rows
}

// MaxOffset is the largest offset that still fills the viewport.
func (v *Viewport) MaxOffset() int {
	return max(v.Content-v.Height, 0)
}

// Clamp keeps the offset inside [0, MaxOffset].
func (v *Viewport) Clamp() {
	v.Offset = min(max(v.Offset, 0), v.MaxOffset())
}

// Scroll moves the viewport by dy rows and reports whether it moved.
func (v *Viewport) Scroll(dy int) bool {
	before := v.Offset
	v.Offset += dy
	v.Clamp()
	return v.Offset != before
}

// Resize updates the visible and content heights and re-clamps the offset.
func (v *Viewport) Resize(height, content int) {
	v.Height = max(height, 0)
	v.Content = max(content, 0)
	v.Clamp()
}

// ContentToScreen converts a content row to a row relative to the top of the
// viewport. visible is false when the row is scrolled out.
func (v *Viewport) ContentToScreen(cy int) (sy int, visible bool) {
	sy = cy - v.Offset
	return sy, sy >= 0 && sy < v.Height
}

// ScreenToContent converts a viewport-relative row to a content row.
func (v *Viewport) ScreenToContent(sy int) int { return sy + v.Offset }

// VisibleFraction returns how much of the rows [top, top+height) is inside
// the viewport, from 0 to 1.
func (v *Viewport) VisibleFraction(top, height int) float64 {
	if height <= 0 {
		return 0
	}
	lo := max(top, v.Offset)
	hi := min(top+height, v.Offset+v.Height)
	if hi <= lo {
		return 0
	}
	return float64(hi-lo) / float64(height)
}
