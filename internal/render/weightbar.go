package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// BoxCount is the fixed number of boxes in a weight meter.
const BoxCount = 10

// PartialOpacity is the opacity of the transitional box.
const PartialOpacity = 0.5

// BoxKind is the fill state of one weight box.
type BoxKind uint8

const (
	BoxFilled BoxKind = iota
	BoxPartial
	BoxEmpty
)

// Class returns the style hook of the box, e.g. "weight-bar-box filled".
func (k BoxKind) Class() string {
	switch k {
	case BoxFilled:
		return "weight-bar-box filled"
	case BoxPartial:
		return "weight-bar-box partial"
	}
	return "weight-bar-box empty"
}

// Box is one cell of the weight meter.
type Box struct {
	Kind    BoxKind
	Fill    float64 // fraction of the box covered by color; 1 for filled boxes
	Opacity float64
	Border  RGB
	// BorderAlpha is the border's own alpha before Opacity applies.
	BorderAlpha float64
}

// Bar is the computed geometry of a weight or durability meter.
type Bar struct {
	Percent    float64
	Durability bool
	Color      RGB
	Boxes      []Box // weight mode only
}

// Class returns "durability-bar" or "weight-bar".
func (b Bar) Class() string {
	if b.Durability {
		return "durability-bar"
	}
	return "weight-bar"
}

// StripWidth returns the durability strip width for a track of the given
// size. It is not clamped: percents above 100 overflow the track.
func (b Bar) StripWidth(track int) int {
	return int(math.Round(b.Percent / 100 * float64(track)))
}

// FullBoxes counts filled boxes.
func (b Bar) FullBoxes() int { return b.count(BoxFilled) }

// EmptyBoxes counts empty boxes.
func (b Bar) EmptyBoxes() int { return b.count(BoxEmpty) }

// HasPartial reports whether the meter has a transitional box.
func (b Bar) HasPartial() bool { return b.count(BoxPartial) > 0 }

func (b Bar) count(k BoxKind) int {
	n := 0
	for _, box := range b.Boxes {
		if box.Kind == k {
			n++
		}
	}
	return n
}

// BuildBar computes a meter for percent. percent is used as given.
func BuildBar(percent float64, durability bool) Bar {
	bar := Bar{
		Percent:    percent,
		Durability: durability,
		Color:      BarColor(percent, durability),
	}
	if durability {
		return bar
	}

	scaled := percent / 100 * BoxCount
	full := int(math.Floor(scaled))
	remaining := scaled - float64(full)

	for range max(full, 0) {
		bar.Boxes = append(bar.Boxes, Box{
			Kind: BoxFilled, Fill: 1, Opacity: 1,
			Border: ColorFilledBorder, BorderAlpha: 1,
		})
	}
	partial := 0
	if remaining > 0 {
		partial = 1
		bar.Boxes = append(bar.Boxes, Box{
			Kind: BoxPartial, Fill: remaining, Opacity: PartialOpacity,
			Border: ColorFilledBorder, BorderAlpha: 1,
		})
	}
	for i := range max(BoxCount-full-partial, 0) {
		bar.Boxes = append(bar.Boxes, Box{
			Kind:        BoxEmpty,
			Opacity:     1 - math.Pow(float64(i)/float64(BoxCount), 2),
			Border:      ColorEmptyBorder,
			BorderAlpha: EmptyBorderAlpha,
		})
	}
	return bar
}

// boxWidth is the number of terminal columns per weight box: two border
// cells around one fill cell.
const boxWidth = 3

// WeightBarWidth is the number of columns DrawBar uses in weight mode.
const WeightBarWidth = BoxCount * boxWidth

// eighths fills a cell left to right in 1/8 steps.
var eighths = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// DrawBar paints bar at (x, y). Durability strips use width columns; weight
// meters always use WeightBarWidth.
func (r *Renderer) DrawBar(x, y, width int, bar Bar) {
	bg := ColorBackground
	if bar.Durability {
		style := tcell.StyleDefault.Foreground(bar.Color.Tcell()).Background(bg.Tcell())
		n := bar.StripWidth(width)
		for i := range min(max(n, 0), width) {
			r.screen.SetContent(x+i, y, '█', nil, style)
		}
		// A strip wider than its track ends in an overflow marker.
		if n > width && width > 0 {
			r.screen.SetContent(x+width-1, y, '+', nil, style)
		}
		return
	}

	for i, box := range bar.Boxes {
		bx := x + i*boxWidth
		border := box.Border.Over(bg, box.BorderAlpha*box.Opacity)
		bstyle := tcell.StyleDefault.Foreground(border.Tcell()).Background(bg.Tcell())
		fill := bar.Color.Over(bg, box.Opacity)
		fstyle := tcell.StyleDefault.Foreground(fill.Tcell()).Background(bg.Tcell())

		r.screen.SetContent(bx, y, '[', nil, bstyle)
		r.screen.SetContent(bx+1, y, eighths[eighthIndex(box.Fill)], nil, fstyle)
		r.screen.SetContent(bx+2, y, ']', nil, bstyle)
	}
}

// eighthIndex maps a fill fraction to an index into eighths. Any non-zero
// fill shows at least one eighth.
func eighthIndex(fill float64) int {
	if fill <= 0 {
		return 0
	}
	if fill >= 1 {
		return len(eighths) - 1
	}
	return max(int(fill*8), 1)
}
