// Package overlay runs the interactive inventory viewer on a tcell screen.
// One Viewer serves one terminal: it owns the pagination cursors and scroll
// positions of its grids, while snapshots and the busy flag come from a
// shared inventory.Store.
package overlay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"emoji-inventory/internal/inventory"
	"emoji-inventory/internal/render"

	"github.com/gdamore/tcell/v2"
)

// Options configures a Viewer.
type Options struct {
	Variant  render.Variant
	PageSize int
	// AllowReload lets the 'r' key reload the store's snapshot file.
	AllowReload bool
}

// statusRows is the height of the hint/status area at the bottom.
const statusRows = 2

// wheelStep is how many rows one mouse-wheel notch scrolls.
const wheelStep = 2

// Source supplies snapshots and the busy flag. *inventory.Store implements it.
type Source interface {
	inventory.BusySignal
	Snapshot() inventory.Snapshot
	Reload() error
	Subscribe() <-chan struct{}
	Unsubscribe(<-chan struct{})
}

// pane is one grid on screen.
type pane struct {
	side   render.Side
	pager  *inventory.Pager
	vp     render.Viewport
	view   render.GridView
	layout render.GridLayout
	shown  bool
}

// Viewer draws the snapshot of a Source and reacts to input.
type Viewer struct {
	screen tcell.Screen
	r      *render.Renderer
	store  Source
	opts   Options
	logger *slog.Logger

	panes    [2]*pane
	focus    int
	selected string
	status   string

	// reloading is set from the 'r' key until the started reload returns.
	reloading atomic.Bool
}

// NewViewer creates a Viewer. Pagination starts at the first page and is
// never reset for the lifetime of the Viewer.
func NewViewer(screen tcell.Screen, store Source, opts Options, logger *slog.Logger) *Viewer {
	v := &Viewer{
		screen: screen,
		r:      render.NewRenderer(screen),
		store:  store,
		opts:   opts,
		logger: logger,
	}
	for i, side := range []render.Side{render.SideLeft, render.SideRight} {
		v.panes[i] = &pane{side: side, pager: inventory.NewPager(opts.PageSize)}
	}
	return v
}

// Run draws the viewer and processes input until the user quits, the screen
// closes or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	v.screen.EnableMouse()
	updates := v.store.Subscribe()
	defer v.store.Unsubscribe(updates)

	done := make(chan struct{})
	defer close(done)
	eventCh := make(chan tcell.Event, 32)
	go forwardEvents(v.screen.PollEvent, eventCh, done)

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-eventCh:
			if !ok {
				return nil
			}
			if v.HandleEvent(ev) {
				return nil
			}
		case <-updates:
		}
		v.Draw()
	}
}

// forwardEvents feeds polled events into out until poll returns nil, which
// closes out, or done is closed.
func forwardEvents(poll func() tcell.Event, out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := poll()
		if ev == nil {
			close(out)
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

// HandleEvent applies one input event. It returns true when the viewer should
// close. Callers redraw afterwards.
func (v *Viewer) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	}
	return false
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	p := v.focused()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab, tcell.KeyBacktab:
		v.toggleFocus()
	case tcell.KeyUp:
		p.vp.Scroll(-1)
	case tcell.KeyDown:
		p.vp.Scroll(1)
	case tcell.KeyPgUp:
		p.vp.Scroll(-max(p.vp.Height, 1))
	case tcell.KeyPgDn:
		p.vp.Scroll(max(p.vp.Height, 1))
	case tcell.KeyHome:
		p.vp.Scroll(-p.vp.Content)
	case tcell.KeyEnd:
		p.vp.Scroll(p.vp.Content)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'k':
			p.vp.Scroll(-1)
		case 'j':
			p.vp.Scroll(1)
		case 'g':
			p.vp.Scroll(-p.vp.Content)
		case 'G':
			p.vp.Scroll(p.vp.Content)
		case 'v', 'V':
			v.toggleVariant()
		case 'r', 'R':
			v.reload()
		}
	}
	return false
}

// handleMouse scrolls and selects slots. Pointer input is dropped entirely
// while the store is busy.
func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	if v.store.Busy() {
		return
	}
	x, y := ev.Position()
	p, idx := v.paneAt(x, y)
	if p == nil {
		return
	}
	btn := ev.Buttons()
	switch {
	case btn&tcell.WheelUp != 0:
		p.vp.Scroll(-wheelStep)
	case btn&tcell.WheelDown != 0:
		p.vp.Scroll(wheelStep)
	case btn&tcell.Button1 != 0:
		v.focus = idx
		if sv, ok := p.layout.SlotAt(x, y); ok {
			v.selected = sv.Key
			v.status = describe(sv)
		}
	}
}

func (v *Viewer) paneAt(x, y int) (*pane, int) {
	for i, p := range v.panes {
		if p.shown && p.layout.Area.Contains(x, y) {
			return p, i
		}
	}
	return nil, 0
}

func (v *Viewer) focused() *pane {
	if !v.panes[v.focus].shown {
		v.focus = 0
	}
	return v.panes[v.focus]
}

func (v *Viewer) toggleFocus() {
	next := 1 - v.focus
	if v.panes[next].shown {
		v.focus = next
	}
}

func (v *Viewer) toggleVariant() {
	if v.opts.Variant == render.Full {
		v.opts.Variant = render.Windowed
	} else {
		v.opts.Variant = render.Full
	}
	v.status = "Pockets: " + v.opts.Variant.String()
	v.logger.Debug("grid variant changed", "variant", v.opts.Variant)
}

func (v *Viewer) reload() {
	if !v.opts.AllowReload {
		return
	}
	if v.store.Busy() || !v.reloading.CompareAndSwap(false, true) {
		v.status = "Reload already in progress."
		return
	}
	v.status = "Reloading snapshot..."
	go func() {
		defer v.reloading.Store(false)
		if err := v.store.Reload(); err != nil {
			v.logger.Warn("reload from viewer failed", "error", err)
		}
	}()
}

// Draw renders the current snapshot. Whenever a grid's sentinel slot is at
// least half visible the grid reveals its next page and is drawn again.
func (v *Viewer) Draw() {
	snap := v.store.Snapshot()
	sw, sh := v.screen.Size()
	gridH := max(sh-statusRows, 0)

	invs := [2]*inventory.Inventory{snap.Left, snap.Right}
	areas := [2]render.Rect{{X: 0, Y: 0, W: sw, H: gridH}}
	if snap.Right != nil {
		half := sw / 2
		areas[0] = render.Rect{X: 0, Y: 0, W: half - 1, H: gridH}
		areas[1] = render.Rect{X: half + 1, Y: 0, W: sw - half - 1, H: gridH}
	}

	for {
		v.r.Clear()
		advanced := false
		for i, p := range v.panes {
			p.shown = invs[i] != nil
			if !p.shown {
				continue
			}
			p.view = render.BuildGrid(invs[i], p.side, p.pager, v.opts.Variant, v.store)
			p.layout = v.r.DrawGrid(&p.view, areas[i], &p.vp, render.DrawOptions{
				Focused:  i == v.focus,
				Selected: v.selected,
			})
			if v.opts.Variant == render.Windowed && p.layout.HasSentinel && p.pager.Observe(p.layout.SentinelFraction) {
				v.logger.Debug("pocket window grew", "side", p.side, "page", p.pager.Page())
				advanced = true
			}
		}
		if !advanced {
			break
		}
	}
	if snap.Right != nil {
		v.drawDivider(sw/2, gridH)
	}
	v.drawStatus(sh - statusRows)
	v.r.Show()
}

func (v *Viewer) drawDivider(x, h int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray).Background(render.ColorBackground.Tcell())
	for y := range h {
		v.screen.SetContent(x, y, '│', nil, style)
	}
}

func (v *Viewer) drawStatus(y int) {
	sw, _ := v.screen.Size()
	bg := render.ColorBackground.Tcell()
	gray := tcell.StyleDefault.Foreground(tcell.ColorGray).Background(bg)
	green := tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(bg)
	for x := range sw {
		v.screen.SetContent(x, y, '─', nil, gray)
	}
	hints := "[j/k] Scroll  [PgUp/PgDn] Page  [Tab] Switch  [v] Variant  [click] Inspect  [q] Close"
	if v.opts.AllowReload {
		hints += "  [r] Reload"
	}
	msg := v.status
	if v.store.Busy() {
		msg = "Inventory busy..."
	}
	putText(v.screen, 0, y+1, msg, green)
	if len(hints)+len(msg)+2 < sw {
		putText(v.screen, sw-len(hints), y+1, hints, gray)
	}
}

// describe formats the details line for an inspected slot.
func describe(sv *render.SlotView) string {
	it := sv.Item
	if it.IsEmpty() {
		return fmt.Sprintf("Slot %d is empty.", it.Slot)
	}
	parts := []string{fmt.Sprintf("%s %s", it.Glyph, it.DisplayName())}
	if it.Count > 1 {
		parts = append(parts, fmt.Sprintf("x%d", it.Count))
	}
	parts = append(parts, fmt.Sprintf("%gkg", it.Weight/1000))
	if it.Durability != nil {
		parts = append(parts, fmt.Sprintf("durability %.0f%%", *it.Durability))
	}
	if sv.SecretPocket {
		parts = append(parts, render.SecretPocketLabel)
	}
	parts = append(parts, fmt.Sprintf("slot %d", it.Slot))
	return strings.Join(parts, " · ")
}

// putText writes s at (x, y), stopping at the right edge of the screen.
func putText(scr tcell.Screen, x, y int, s string, st tcell.Style) {
	sw, _ := scr.Size()
	for _, r := range s {
		if x >= sw {
			break
		}
		scr.SetContent(x, y, r, nil, st)
		x++
	}
}
