package overlay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"emoji-inventory/internal/inventory"
	"emoji-inventory/internal/render"

	"github.com/gdamore/tcell/v2"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

func newSimScreen(w, h int) tcell.Screen {
	ss := tcell.NewSimulationScreen("UTF-8")
	_ = ss.Init()
	ss.SetSize(w, h)
	return ss
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func capacity(v float64) *float64 { return &v }

func makeInventory(kind string, n int) *inventory.Inventory {
	inv := &inventory.Inventory{Type: kind, ID: "1", Label: kind, MaxWeight: capacity(50000)}
	for i := range n {
		inv.Items = append(inv.Items, inventory.Item{
			Slot: i + 1, Name: fmt.Sprintf("thing%d", i+1), Glyph: "🍞", Count: 2, Weight: 200,
		})
	}
	return inv
}

func newTestViewer(w, h int, snap inventory.Snapshot, opts Options) (*Viewer, *inventory.Store) {
	store := inventory.NewStaticStore(snap, testLogger())
	return NewViewer(newSimScreen(w, h), store, opts, testLogger()), store
}

// busySource overrides the busy flag of a Source.
type busySource struct {
	Source
	flag *inventory.BusyFlag
}

func (b busySource) Busy() bool { return b.flag.Busy() }

// slowSource blocks every Reload until release is closed and records the
// highest number of reloads running at once.
type slowSource struct {
	Source
	started chan struct{}
	release chan struct{}
	active  atomic.Int32
	peak    atomic.Int32
}

func (s *slowSource) Reload() error {
	n := s.active.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	s.started <- struct{}{}
	<-s.release
	s.active.Add(-1)
	return nil
}

func key(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func screenContains(s tcell.Screen, text string) bool {
	w, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mainc, _, _, width := s.GetContent(x, y)
			b.WriteRune(mainc)
			if width == 2 {
				x++
			}
		}
		b.WriteByte('\n')
	}
	return strings.Contains(b.String(), text)
}

// ─── drawing ──────────────────────────────────────────────────────────────────

func TestDrawShowsBothSides(t *testing.T) {
	snap := inventory.Snapshot{
		Left:  makeInventory(inventory.TypePlayer, 8),
		Right: makeInventory("stash", 3),
	}
	v, _ := newTestViewer(120, 40, snap, Options{})
	v.Draw()

	if !v.panes[0].shown || !v.panes[1].shown {
		t.Fatal("both panes should be shown")
	}
	if v.panes[0].layout.Area.X != 0 || v.panes[1].layout.Area.X <= v.panes[0].layout.Area.W {
		t.Errorf("areas overlap: %+v / %+v", v.panes[0].layout.Area, v.panes[1].layout.Area)
	}
	if !screenContains(v.screen, "Hotbar") || !screenContains(v.screen, "thing8") {
		t.Error("player grid not drawn")
	}
}

func TestDrawLeftOnlyUsesFullWidth(t *testing.T) {
	v, _ := newTestViewer(100, 30, inventory.Snapshot{Left: makeInventory("stash", 4)}, Options{})
	v.Draw()
	if v.panes[1].shown {
		t.Error("right pane should be hidden")
	}
	if got := v.panes[0].layout.Area.W; got != 100 {
		t.Errorf("left width = %d, want 100", got)
	}
}

// ─── pagination ───────────────────────────────────────────────────────────────

func TestScrollingToSentinelGrowsWindow(t *testing.T) {
	// 80 columns fit 5 pockets per row; 24 rows leave a short container so
	// the first page does not fit on screen.
	v, _ := newTestViewer(80, 24, inventory.Snapshot{Left: makeInventory("stash", 100)}, Options{PageSize: 30})
	v.Draw()
	p := v.panes[0]
	if got := len(p.view.Main); got != 30 {
		t.Fatalf("initial pockets = %d, want 30", got)
	}

	v.HandleEvent(key('G'))
	v.Draw()
	if got := len(p.view.Main); got != 60 {
		t.Errorf("pockets after scrolling to the end = %d, want 60", got)
	}
	if p.pager.Page() != 1 {
		t.Errorf("page = %d, want 1", p.pager.Page())
	}

	// Scrolling back up never shrinks the window.
	v.HandleEvent(key('g'))
	v.Draw()
	if got := len(p.view.Main); got != 60 {
		t.Errorf("pockets after scrolling back = %d, want 60", got)
	}
}

func TestTallScreenRevealsUntilSentinelHidden(t *testing.T) {
	// Every page of 5 pockets fits on screen, so the window keeps growing
	// until the list is exhausted.
	v, _ := newTestViewer(80, 60, inventory.Snapshot{Left: makeInventory("stash", 12)}, Options{PageSize: 5})
	v.Draw()
	p := v.panes[0]
	if got := len(p.view.Main); got != 12 {
		t.Errorf("pockets = %d, want all 12", got)
	}
	if _, ok := p.view.Sentinel(); ok {
		t.Error("no sentinel should remain once the list is exhausted")
	}
}

func TestFullVariantIgnoresPager(t *testing.T) {
	v, _ := newTestViewer(80, 24, inventory.Snapshot{Left: makeInventory(inventory.TypePlayer, 70)}, Options{Variant: render.Full})
	v.Draw()
	p := v.panes[0]
	if got := len(p.view.Main); got != 65 {
		t.Errorf("full variant pockets = %d, want 65", got)
	}
	if p.pager.Page() != 0 {
		t.Errorf("full variant advanced the pager to %d", p.pager.Page())
	}
	if !p.view.Main[64].SecretPocket {
		t.Error("last pocket should be the secret pocket")
	}
}

func TestToggleVariant(t *testing.T) {
	v, _ := newTestViewer(80, 24, inventory.Snapshot{Left: makeInventory(inventory.TypePlayer, 70)}, Options{})
	v.Draw()
	if got := len(v.panes[0].view.Main); got != 30 {
		t.Fatalf("windowed pockets = %d, want 30", got)
	}
	v.HandleEvent(key('v'))
	v.Draw()
	if got := len(v.panes[0].view.Main); got != 65 {
		t.Errorf("pockets after toggle = %d, want 65", got)
	}
}

// ─── input ────────────────────────────────────────────────────────────────────

func TestQuitKeys(t *testing.T) {
	v, _ := newTestViewer(80, 24, inventory.Snapshot{Left: makeInventory("stash", 1)}, Options{})
	cases := []tcell.Event{
		key('q'),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
	}
	for _, ev := range cases {
		if !v.HandleEvent(ev) {
			t.Errorf("%v should quit", ev)
		}
	}
	if v.HandleEvent(key('j')) {
		t.Error("j should not quit")
	}
}

func TestTabSwitchesFocusOnlyWithTwoPanes(t *testing.T) {
	v, _ := newTestViewer(120, 30, inventory.Snapshot{Left: makeInventory("stash", 1)}, Options{})
	v.Draw()
	v.HandleEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	if v.focus != 0 {
		t.Errorf("focus = %d with a single pane, want 0", v.focus)
	}

	v, _ = newTestViewer(120, 30, inventory.Snapshot{Left: makeInventory("stash", 1), Right: makeInventory("stash", 1)}, Options{})
	v.Draw()
	v.HandleEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	if v.focus != 1 {
		t.Errorf("focus = %d, want 1", v.focus)
	}
}

func TestClickSelectsSlot(t *testing.T) {
	v, _ := newTestViewer(80, 30, inventory.Snapshot{Left: makeInventory("stash", 3)}, Options{})
	v.Draw()
	hit := v.panes[0].layout.Slots[1]
	v.HandleEvent(tcell.NewEventMouse(hit.Rect.X+2, hit.Rect.Y+1, tcell.Button1, tcell.ModNone))
	if v.selected != hit.Slot.Key {
		t.Errorf("selected = %q, want %q", v.selected, hit.Slot.Key)
	}
	if !strings.Contains(v.status, "thing2") || !strings.Contains(v.status, "x2") {
		t.Errorf("status = %q", v.status)
	}
}

func TestBusyDropsPointerInput(t *testing.T) {
	v, _ := newTestViewer(80, 24, inventory.Snapshot{Left: makeInventory("stash", 100)}, Options{})
	busy := &inventory.BusyFlag{}
	busy.Set(true)
	v.store = busySource{Source: v.store, flag: busy}
	v.Draw()

	if v.panes[0].view.Interactive {
		t.Error("grid should not be interactive while busy")
	}
	hit := v.panes[0].layout.Slots[0]
	v.HandleEvent(tcell.NewEventMouse(hit.Rect.X+1, hit.Rect.Y+1, tcell.Button1, tcell.ModNone))
	if v.selected != "" {
		t.Error("click while busy selected a slot")
	}
	v.HandleEvent(tcell.NewEventMouse(hit.Rect.X+1, hit.Rect.Y+1, tcell.WheelDown, tcell.ModNone))
	if v.panes[0].vp.Offset != 0 {
		t.Error("wheel while busy scrolled the grid")
	}
	if !screenContains(v.screen, "(busy)") {
		t.Error("busy marker not drawn")
	}
}

func TestWheelScrollsPaneUnderPointer(t *testing.T) {
	v, _ := newTestViewer(80, 24, inventory.Snapshot{Left: makeInventory("stash", 100)}, Options{})
	v.Draw()
	c := v.panes[0].layout.Container
	v.HandleEvent(tcell.NewEventMouse(c.X+1, c.Y+1, tcell.WheelDown, tcell.ModNone))
	if got := v.panes[0].vp.Offset; got != wheelStep {
		t.Errorf("offset = %d, want %d", got, wheelStep)
	}
}

func TestReloadKeyRunsOneReloadAtATime(t *testing.T) {
	v, _ := newTestViewer(80, 24, inventory.Snapshot{Left: makeInventory("stash", 3)}, Options{AllowReload: true})
	src := &slowSource{Source: v.store, started: make(chan struct{}, 4), release: make(chan struct{})}
	v.store = src

	v.HandleEvent(key('r'))
	select {
	case <-src.started:
	case <-time.After(time.Second):
		t.Fatal("reload not started")
	}
	v.HandleEvent(key('r'))
	v.HandleEvent(key('r'))
	if !strings.Contains(v.status, "already in progress") {
		t.Errorf("status = %q", v.status)
	}
	select {
	case <-src.started:
		t.Fatal("second reload started while the first was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(src.release)
	deadline := time.Now().Add(time.Second)
	for v.reloading.Load() {
		if time.Now().After(deadline) {
			t.Fatal("reload never finished")
		}
		time.Sleep(time.Millisecond)
	}
	v.HandleEvent(key('r'))
	select {
	case <-src.started:
	case <-time.After(time.Second):
		t.Fatal("reload after completion not started")
	}
	if got := src.peak.Load(); got != 1 {
		t.Errorf("peak concurrent reloads = %d, want 1", got)
	}
}

func TestForwardEventsStopsWhenDone(t *testing.T) {
	// Nobody reads out, so the first send blocks until done closes.
	out := make(chan tcell.Event)
	done := make(chan struct{})
	poll := func() tcell.Event { return key('j') }

	returned := make(chan struct{})
	go func() {
		forwardEvents(poll, out, done)
		close(returned)
	}()
	close(done)
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("forwardEvents kept blocking after done was closed")
	}
}

func TestForwardEventsClosesOnNil(t *testing.T) {
	out := make(chan tcell.Event, 1)
	forwardEvents(func() tcell.Event { return nil }, out, make(chan struct{}))
	if _, ok := <-out; ok {
		t.Error("out should be closed when polling ends")
	}
}

func TestDescribe(t *testing.T) {
	d := 64.0
	sv := &render.SlotView{Item: inventory.Item{Slot: 3, Name: "sword", Label: "Crystal Sword", Glyph: "🗡️", Count: 1, Weight: 3200, Durability: &d}}
	got := describe(sv)
	for _, want := range []string{"Crystal Sword", "3.2kg", "durability 64%", "slot 3"} {
		if !strings.Contains(got, want) {
			t.Errorf("describe = %q, missing %q", got, want)
		}
	}
	if got := describe(&render.SlotView{Item: inventory.Item{Slot: 9}}); got != "Slot 9 is empty." {
		t.Errorf("empty describe = %q", got)
	}
}

// ─── loop ─────────────────────────────────────────────────────────────────────

func TestRunQuitsOnKey(t *testing.T) {
	v, _ := newTestViewer(80, 24, inventory.Snapshot{Left: makeInventory("stash", 3)}, Options{})
	sim := v.screen.(tcell.SimulationScreen)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	if err := v.Run(context.Background()); err != nil {
		t.Errorf("Run = %v, want nil", err)
	}
	sim.Fini()
}

func TestRunStopsOnCancel(t *testing.T) {
	v, _ := newTestViewer(80, 24, inventory.Snapshot{Left: makeInventory("stash", 3)}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := v.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	v.screen.Fini()
}
