package render

import (
	"fmt"

	"emoji-inventory/internal/inventory"
)

// Side is the half of the overlay a grid occupies.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Variant selects how pockets are rendered.
type Variant uint8

const (
	// Windowed reveals pockets a page at a time as the last revealed slot
	// scrolls into view.
	Windowed Variant = iota
	// Full renders every pocket and tags the last one of a player inventory
	// as the secret pocket.
	Full
)

func (v Variant) String() string {
	if v == Full {
		return "full"
	}
	return "windowed"
}

// ParseVariant accepts "windowed" or "full".
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "windowed", "":
		return Windowed, nil
	case "full":
		return Full, nil
	}
	return Windowed, fmt.Errorf("unknown grid variant %q", s)
}

// SecretPocketLabel is shown on the last pocket in the Full variant.
const SecretPocketLabel = "Secret Pocket"

// SlotView is one rendered slot.
type SlotView struct {
	Key          string // "<type>-<id>-<slot>", unique per snapshot
	Item         inventory.Item
	Index        int // position within its section
	Hotbar       bool
	Sentinel     bool
	SecretPocket bool

	InventoryType string
	InventoryID   inventory.ID
	Groups        map[string]int

	Node *Node
}

// GridView is the pure result of rendering one inventory: the visual tree
// plus the derived values the drawer and tests need.
type GridView struct {
	Root *Node

	Side        Side
	Variant     Variant
	Label       string
	Player      bool
	Interactive bool

	Weight   float64
	Capacity string // empty when the container has no capacity
	Bar      Bar

	Hotbar    []SlotView
	Main      []SlotView // pockets actually rendered
	MainCount int        // all pockets, rendered or not
}

// Sentinel returns the pocket whose visibility grows the window.
func (g *GridView) Sentinel() (*SlotView, bool) {
	for i := range g.Main {
		if g.Main[i].Sentinel {
			return &g.Main[i], true
		}
	}
	return nil, false
}

// BuildGrid renders inv for the given side. pager supplies the current page in
// the Windowed variant and is only read. busy disables interaction for the
// whole grid.
func BuildGrid(inv *inventory.Inventory, side Side, pager *inventory.Pager, variant Variant, busy inventory.BusySignal) GridView {
	g := GridView{
		Side:        side,
		Variant:     variant,
		Label:       inv.Label,
		Player:      inv.IsPlayer(),
		Interactive: !busy.Busy(),
		Weight:      inv.Weight(),
	}
	bar := BuildBar(inv.Percent(), false)
	g.Bar = bar
	g.Capacity, _ = inv.CapacityText()

	hotbar, main := inventory.Partition(inv)
	g.MainCount = len(main)

	g.Root = &Node{Class: fmt.Sprintf("inventory-grid-wrapper %s-inventory", side)}
	header := &Node{Class: "inventory-grid-header-wrapper"}
	header.add(&Node{Class: "inventory-grid-title", Text: inv.Label})
	if g.Capacity != "" {
		header.add(&Node{Class: "inventory-grid-weight", Text: g.Capacity})
	}
	g.Root.add(header, &Node{Class: bar.Class(), Bar: &bar})

	if g.Player {
		slots := &Node{Class: "hotbar-slots"}
		for i, it := range hotbar {
			sv := newSlotView(inv, it, i)
			sv.Hotbar = true
			slots.add(sv.Node)
			g.Hotbar = append(g.Hotbar, sv)
		}
		g.Root.add(
			&Node{Class: "section-label", Text: "Hotbar"},
			(&Node{Class: "hotbar-section"}).add(slots),
			&Node{Class: "section-label", Text: "Pockets"},
		)
	}

	visible := main
	sentinel := -1
	if variant == Windowed && pager != nil {
		visible = main[:pager.Window(len(main))]
		if idx, ok := pager.Sentinel(len(main)); ok {
			sentinel = idx
		}
	}

	container := &Node{Class: "inventory-grid-container"}
	for i, it := range visible {
		sv := newSlotView(inv, it, i)
		sv.Sentinel = i == sentinel
		sv.SecretPocket = variant == Full && g.Player && i == len(visible)-1
		if sv.SecretPocket {
			sv.Node.Class += " secret-pocket"
			sv.Node.Text = SecretPocketLabel
		}
		container.add(sv.Node)
		g.Main = append(g.Main, sv)
	}
	g.Root.add(container)
	return g
}

func newSlotView(inv *inventory.Inventory, it inventory.Item, index int) SlotView {
	item := it
	node := &Node{Class: "inventory-slot", Item: &item}
	if it.Durability != nil && !it.IsEmpty() {
		bar := BuildBar(*it.Durability, true)
		node.add(&Node{Class: bar.Class(), Bar: &bar})
	}
	return SlotView{
		Key:           fmt.Sprintf("%s-%s-%d", inv.Type, inv.ID, it.Slot),
		Item:          it,
		Index:         index,
		InventoryType: inv.Type,
		InventoryID:   inv.ID,
		Groups:        inv.Groups,
		Node:          node,
	}
}
