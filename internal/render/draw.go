package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Slot cell size in terminal cells, borders included.
const (
	SlotWidth  = 16
	SlotHeight = 4
)

// headerRows covers title, label and weight bar plus a blank line.
const headerRows = 4

// DrawOptions carries per-frame viewer state into DrawGrid.
type DrawOptions struct {
	Focused  bool
	Selected string // key of the highlighted slot
}

// SlotHit is the on-screen area of a drawn slot.
type SlotHit struct {
	Rect Rect
	Slot *SlotView
}

// GridLayout describes where DrawGrid put things.
type GridLayout struct {
	Area      Rect
	Container Rect
	Slots     []SlotHit

	// SentinelFraction is the visible fraction of the sentinel slot inside
	// the container. HasSentinel is false when no sentinel is rendered.
	SentinelFraction float64
	HasSentinel      bool
}

// SlotAt returns the slot drawn at (x, y).
func (l GridLayout) SlotAt(x, y int) (*SlotView, bool) {
	for _, h := range l.Slots {
		if h.Rect.Contains(x, y) {
			return h.Slot, true
		}
	}
	return nil, false
}

// cell is a pocket position in slot units.
type cell struct{ row, col int }

// pocketCells places n pockets into cols columns. The secret pocket, when
// present, always sits alone on the row after the others.
func pocketCells(n, cols int, secret bool) (cells []cell, rows int) {
	cells = make([]cell, n)
	regular := n
	if secret && n > 0 {
		regular = n - 1
	}
	for i := range regular {
		cells[i] = cell{i / cols, i % cols}
	}
	rows = (regular + cols - 1) / cols
	if regular < n {
		cells[n-1] = cell{rows, 0}
		rows++
	}
	return cells, rows
}

// DrawGrid paints g inside area. vp is the pocket viewport of this grid; its
// heights are updated to the new layout before drawing.
func (r *Renderer) DrawGrid(g *GridView, area Rect, vp *Viewport, opts DrawOptions) GridLayout {
	layout := GridLayout{Area: area}
	right := area.X + area.W

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(ColorBackground.Tcell()).Bold(true)
	if opts.Focused {
		titleStyle = titleStyle.Foreground(ColorAccent.Tcell())
	}
	text := tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(ColorBackground.Tcell())
	label := tcell.StyleDefault.Foreground(tcell.ColorGray).Background(ColorBackground.Tcell())

	// Header.
	y := area.Y
	r.putText(area.X, y, right, "Inventory", titleStyle)
	if !g.Interactive {
		r.putText(area.X+len("Inventory")+1, y, right, "(busy)", label)
	}
	r.putText(area.X, y+1, right, truncate(g.Label, area.W), text)
	if g.Capacity != "" {
		x := max(right-len(g.Capacity), area.X)
		r.putText(x, y+1, right, g.Capacity, text)
	}
	r.DrawBar(max(right-WeightBarWidth, area.X), y+2, WeightBarWidth, g.Bar)
	y += headerRows

	// Hotbar.
	if g.Player {
		r.putText(area.X, y, right, "Hotbar", label)
		y++
		cols := max(area.W/SlotWidth, 1)
		for i := range g.Hotbar {
			sv := &g.Hotbar[i]
			x := area.X + (i%cols)*SlotWidth
			top := y + (i/cols)*SlotHeight
			r.drawSlot(x, sv, opts.Selected == sv.Key, !g.Interactive, func(row int) (int, bool) {
				return top + row, true
			})
			layout.Slots = append(layout.Slots, SlotHit{Rect: Rect{x, top, SlotWidth, SlotHeight}, Slot: sv})
		}
		y += (len(g.Hotbar) + cols - 1) / cols * SlotHeight
		r.putText(area.X, y, right, "Pockets", label)
		y++
	}

	// Pockets.
	container := Rect{X: area.X, Y: y, W: area.W, H: max(area.Y+area.H-y, 0)}
	layout.Container = container
	cols := max(container.W/SlotWidth, 1)
	secret := len(g.Main) > 0 && g.Main[len(g.Main)-1].SecretPocket
	cells, rows := pocketCells(len(g.Main), cols, secret)
	vp.Resize(container.H, rows*SlotHeight)

	if len(g.Main) == 0 && container.H > 0 {
		r.putText(container.X, container.Y, right, "(empty)", label)
	}
	for i := range g.Main {
		sv := &g.Main[i]
		c := cells[i]
		x := container.X + c.col*SlotWidth
		top := c.row * SlotHeight
		if sv.Sentinel {
			layout.HasSentinel = true
			layout.SentinelFraction = vp.VisibleFraction(top, SlotHeight)
		}
		if vp.VisibleFraction(top, SlotHeight) == 0 {
			continue
		}
		r.drawSlot(x, sv, opts.Selected == sv.Key, !g.Interactive, func(row int) (int, bool) {
			sy, ok := vp.ContentToScreen(top + row)
			return container.Y + sy, ok
		})
		lo := max(top, vp.Offset)
		hi := min(top+SlotHeight, vp.Offset+vp.Height)
		layout.Slots = append(layout.Slots, SlotHit{
			Rect: Rect{x, container.Y + lo - vp.Offset, SlotWidth, hi - lo},
			Slot: sv,
		})
	}
	return layout
}

// drawSlot paints one slot. rowY maps a slot row (0..SlotHeight-1) to a
// screen row and reports whether that row is visible.
func (r *Renderer) drawSlot(x int, sv *SlotView, selected, dim bool, rowY func(row int) (int, bool)) {
	const inner = SlotWidth - 2
	bg := ColorBackground.Tcell()
	border := tcell.StyleDefault.Foreground(tcell.ColorGray).Background(bg)
	text := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(bg)
	faint := tcell.StyleDefault.Foreground(tcell.ColorGray).Background(bg)
	if sv.SecretPocket {
		border = border.Foreground(ColorAccent.Tcell())
	}
	if selected {
		border = border.Foreground(tcell.ColorAqua).Bold(true)
	}
	if dim {
		border = border.Dim(true)
		text = text.Dim(true)
		faint = faint.Dim(true)
	}
	it := sv.Item

	for row := range SlotHeight {
		y, ok := rowY(row)
		if !ok {
			continue
		}
		switch row {
		case 0:
			r.screen.SetContent(x, y, '┌', nil, border)
			r.fill(Rect{x + 1, y, inner, 1}, '─', border)
			r.screen.SetContent(x+inner+1, y, '┐', nil, border)
			tag := ""
			switch {
			case sv.SecretPocket:
				tag = SecretPocketLabel
			case sv.Hotbar:
				tag = strconv.Itoa(sv.Index + 1)
			}
			if tag != "" {
				r.putText(x+1, y, x+1+inner, truncate(tag, inner), border)
			}
		case SlotHeight - 1:
			r.screen.SetContent(x, y, '└', nil, border)
			r.fill(Rect{x + 1, y, inner, 1}, '─', border)
			r.screen.SetContent(x+inner+1, y, '┘', nil, border)
			if bars := sv.Node.Find("durability-bar"); len(bars) > 0 {
				r.DrawBar(x+1, y, inner, *bars[0].Bar)
			}
		default:
			r.screen.SetContent(x, y, '│', nil, border)
			r.fill(Rect{x + 1, y, inner, 1}, ' ', text)
			r.screen.SetContent(x+inner+1, y, '│', nil, border)
			if it.IsEmpty() {
				continue
			}
			if row == 1 {
				cx := x + 1 + r.putGlyph(x+1, y, it.Glyph, text)
				if it.Count > 1 {
					cx = r.putText(cx, y, x+1+inner, fmt.Sprintf("x%d", it.Count), faint)
				}
				w := formatGrams(it.Weight)
				if wx := x + 1 + inner - len(w); wx > cx {
					r.putText(wx, y, x+1+inner, w, faint)
				}
			} else {
				r.putText(x+1, y, x+1+inner, truncate(it.DisplayName(), inner), text)
			}
		}
	}
}

// formatGrams renders a weight in g below a kilogram and in kg above.
func formatGrams(g float64) string {
	if g < 1000 {
		return strconv.FormatFloat(g, 'f', 0, 64) + "g"
	}
	return strings.TrimSuffix(strconv.FormatFloat(g/1000, 'f', 1, 64), ".0") + "kg"
}
