package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Renderer draws inventory grids onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Screen returns the underlying screen.
func (r *Renderer) Screen() tcell.Screen { return r.screen }

// Clear paints the whole screen with the overlay background.
func (r *Renderer) Clear() {
	r.screen.SetStyle(tcell.StyleDefault.Background(ColorBackground.Tcell()))
	r.screen.Clear()
}

// Show flushes the frame.
func (r *Renderer) Show() { r.screen.Show() }

// putText writes text at (x, y), clipped so nothing is drawn at or past
// maxX. Wide runes take two columns. Returns the column after the last rune.
func (r *Renderer) putText(x, y, maxX int, text string, style tcell.Style) int {
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		if w == 2 {
			r.screen.SetContent(x+1, y, ' ', nil, style)
		}
		x += w
	}
	return x
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at (x, y) and
// returns its width in columns.
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) int {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return 0
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	w := runewidth.StringWidth(glyph)
	if w == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
	return w
}

// fill paints rect with ch.
func (r *Renderer) fill(rect Rect, ch rune, style tcell.Style) {
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			r.screen.SetContent(x, y, ch, nil, style)
		}
	}
}

// truncate shortens s to fit width columns.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
