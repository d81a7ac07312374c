package render

import (
	"strings"
	"testing"

	"emoji-inventory/internal/inventory"

	"github.com/gdamore/tcell/v2"
)

func newSimScreen(w, h int) tcell.Screen {
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(w, h)
	_ = ss.Init()
	return ss
}

// rowText reads screen row y as a string, skipping the padding cell after
// wide runes.
func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, _, _, width := s.GetContent(x, y)
		b.WriteRune(mainc)
		if width == 2 {
			x++
		}
	}
	return b.String()
}

func screenText(s tcell.Screen) string {
	_, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		b.WriteString(rowText(s, y))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestDrawGridPlayer(t *testing.T) {
	screen := newSimScreen(80, 40)
	r := NewRenderer(screen)
	inv := testInventory(inventory.TypePlayer, 12)
	g := BuildGrid(inv, SideLeft, inventory.NewPager(0), Windowed, inventory.NotBusy{})

	vp := &Viewport{}
	layout := r.DrawGrid(&g, Rect{0, 0, 80, 40}, vp, DrawOptions{Focused: true})
	r.Show()

	out := screenText(screen)
	for _, want := range []string{"Inventory", "Bag", "1.2/10kg", "Hotbar", "Pockets", "item1", "item12"} {
		if !strings.Contains(out, want) {
			t.Errorf("screen missing %q:\n%s", want, out)
		}
	}
	if len(layout.Slots) != 12 {
		t.Errorf("drawn slots = %d, want 12", len(layout.Slots))
	}
	if layout.HasSentinel {
		t.Error("12 items should not render a sentinel")
	}
	// 80 columns hold 5 pockets per row; 7 pockets need 2 rows.
	if vp.Content != 2*SlotHeight {
		t.Errorf("viewport content = %d rows, want %d", vp.Content, 2*SlotHeight)
	}
}

func TestDrawGridSentinelVisibility(t *testing.T) {
	screen := newSimScreen(80, 20)
	r := NewRenderer(screen)
	inv := testInventory("stash", 100)
	p := inventory.NewPager(inventory.PageSize)
	g := BuildGrid(inv, SideRight, p, Windowed, inventory.NotBusy{})

	vp := &Viewport{}
	area := Rect{0, 0, 80, 20}
	layout := r.DrawGrid(&g, area, vp, DrawOptions{})
	if !layout.HasSentinel {
		t.Fatal("expected a sentinel")
	}
	if layout.SentinelFraction != 0 {
		t.Errorf("sentinel fraction at top = %v, want 0", layout.SentinelFraction)
	}

	// 5 columns: sentinel (index 29) sits on pocket row 5.
	vp.Offset = 5*SlotHeight + SlotHeight/2 - vp.Height
	vp.Clamp()
	layout = r.DrawGrid(&g, area, vp, DrawOptions{})
	if layout.SentinelFraction != 0.5 {
		t.Errorf("sentinel fraction = %v, want 0.5", layout.SentinelFraction)
	}
	if !p.Observe(layout.SentinelFraction) {
		t.Error("half-visible sentinel should advance the pager")
	}
	g = BuildGrid(inv, SideRight, p, Windowed, inventory.NotBusy{})
	if len(g.Main) != 60 {
		t.Errorf("pockets after intersection = %d, want 60", len(g.Main))
	}
}

func TestDrawGridSecretPocketAlone(t *testing.T) {
	screen := newSimScreen(80, 40)
	r := NewRenderer(screen)
	inv := testInventory(inventory.TypePlayer, 11)
	g := BuildGrid(inv, SideLeft, nil, Full, inventory.NotBusy{})

	layout := r.DrawGrid(&g, Rect{0, 0, 80, 40}, &Viewport{}, DrawOptions{})
	var secret, prev SlotHit
	for _, h := range layout.Slots {
		if h.Slot.SecretPocket {
			secret = h
		} else if !h.Slot.Hotbar {
			prev = h
		}
	}
	if secret.Slot == nil {
		t.Fatal("secret pocket not drawn")
	}
	if secret.Rect.X != 0 || secret.Rect.Y <= prev.Rect.Y {
		t.Errorf("secret pocket at %+v, previous pocket at %+v", secret.Rect, prev.Rect)
	}
	if !strings.Contains(rowText(screen, secret.Rect.Y), "Secret Pocket") {
		t.Errorf("secret pocket label missing: %q", rowText(screen, secret.Rect.Y))
	}
	if s, ok := layout.SlotAt(secret.Rect.X+1, secret.Rect.Y+1); !ok || s != secret.Slot {
		t.Error("SlotAt did not hit the secret pocket")
	}
}

func TestDrawGridEmpty(t *testing.T) {
	screen := newSimScreen(60, 20)
	r := NewRenderer(screen)
	inv := &inventory.Inventory{Type: "stash", ID: "x", Label: "Crate"}
	g := BuildGrid(inv, SideRight, inventory.NewPager(0), Windowed, inventory.NotBusy{})
	layout := r.DrawGrid(&g, Rect{0, 0, 60, 20}, &Viewport{}, DrawOptions{})
	if len(layout.Slots) != 0 {
		t.Errorf("slots = %d, want 0", len(layout.Slots))
	}
	if !strings.Contains(screenText(screen), "(empty)") {
		t.Error("empty marker missing")
	}
}

func TestDrawBarWeightBoxes(t *testing.T) {
	screen := newSimScreen(40, 2)
	r := NewRenderer(screen)
	r.DrawBar(0, 0, WeightBarWidth, BuildBar(45, false))
	got := rowText(screen, 0)
	want := "[█][█][█][█][▌][ ][ ][ ][ ][ ]"
	if !strings.HasPrefix(got, want) {
		t.Errorf("row = %q, want prefix %q", got, want)
	}
}

func TestDrawBarDurabilityStrip(t *testing.T) {
	screen := newSimScreen(20, 1)
	r := NewRenderer(screen)
	r.DrawBar(0, 0, 10, BuildBar(30, true))
	got := rowText(screen, 0)
	if !strings.HasPrefix(got, "███ ") {
		t.Errorf("row = %q, want three filled cells", got)
	}
}

func TestDrawBarDurabilityStripStaysInTrack(t *testing.T) {
	screen := newSimScreen(20, 1)
	r := NewRenderer(screen)
	bar := BuildBar(150, true)
	if got := bar.StripWidth(10); got != 15 {
		t.Fatalf("StripWidth = %d, want 15", got)
	}
	r.DrawBar(0, 0, 10, bar)
	got := []rune(rowText(screen, 0))
	if want := "█████████+"; string(got[:10]) != want {
		t.Errorf("track = %q, want %q", string(got[:10]), want)
	}
	if got[10] != ' ' {
		t.Errorf("cell after the track = %q, want blank", got[10])
	}
}

func TestDrawGridOverfullDurabilityKeepsBorder(t *testing.T) {
	screen := newSimScreen(40, 12)
	r := NewRenderer(screen)
	inv := &inventory.Inventory{Type: "stash", ID: "x", Label: "Crate", Items: []inventory.Item{
		{Slot: 1, Name: "blade", Glyph: "🗡", Count: 1, Weight: 3200, Durability: ptr(150)},
	}}
	g := BuildGrid(inv, SideLeft, inventory.NewPager(0), Windowed, inventory.NotBusy{})
	layout := r.DrawGrid(&g, Rect{0, 0, 40, 12}, &Viewport{}, DrawOptions{})
	if len(layout.Slots) != 1 {
		t.Fatalf("slots = %d, want 1", len(layout.Slots))
	}

	rect := layout.Slots[0].Rect
	bottom := rect.Y + rect.H - 1
	if c, _, _, _ := screen.GetContent(rect.X, bottom); c != '└' {
		t.Errorf("bottom-left corner = %q, want '└'", c)
	}
	if c, _, _, _ := screen.GetContent(rect.X+SlotWidth-1, bottom); c != '┘' {
		t.Errorf("bottom-right corner = %q, want '┘'", c)
	}
	if c, _, _, _ := screen.GetContent(rect.X+SlotWidth, bottom); c != ' ' {
		t.Errorf("cell beyond the slot = %q, want blank", c)
	}
}

func TestFormatGrams(t *testing.T) {
	cases := map[float64]string{
		0:    "0g",
		250:  "250g",
		1000: "1kg",
		3200: "3.2kg",
	}
	for in, want := range cases {
		if got := formatGrams(in); got != want {
			t.Errorf("formatGrams(%v) = %q, want %q", in, got, want)
		}
	}
}
