// Package catalog holds the item templates used to generate demo snapshots.
package catalog

import (
	"fmt"
	"math/rand"

	"emoji-inventory/internal/inventory"
)

// Emoji constants used as item glyphs.
const (
	GlyphHyperflask    = "🧪"
	GlyphPrismShard    = "💎"
	GlyphNullCloak     = "🫥"
	GlyphTesseract     = "📦"
	GlyphMemoryScroll  = "📜"
	GlyphSporeDraught  = "🍄"
	GlyphResonanceCoil = "🌀"
	GlyphVoidEssence   = "🌑"
	GlyphNanoSyringe   = "💉"
	GlyphPhaseRod      = "🪄"
	GlyphApexCore      = "🔮"
	GlyphCrystalHelm   = "⛑️"
	GlyphFrostWeave    = "🧥"
	GlyphFluxTreads    = "🥾"
	GlyphShardBlade    = "🗡️"
	GlyphResonanceMaul = "🔨"
	GlyphPhaseMirror   = "🪞"
	GlyphBread         = "🍞"
	GlyphLantern       = "🏮"
	GlyphCoin          = "🪙"
)

// Template describes one kind of item. Weight is grams per unit.
type Template struct {
	Name     string
	Label    string
	Glyph    string
	Weight   float64
	MaxStack int
	// Durable items carry a durability value instead of stacking.
	Durable bool
}

// Templates is the ordered item catalog.
var Templates = []Template{
	// Consumables
	{Name: "hyperflask", Label: "Hyperflask", Glyph: GlyphHyperflask, Weight: 250, MaxStack: 5},
	{Name: "prism_shard", Label: "Prism Shard", Glyph: GlyphPrismShard, Weight: 40, MaxStack: 20},
	{Name: "null_cloak", Label: "Null Cloak", Glyph: GlyphNullCloak, Weight: 600, MaxStack: 1},
	{Name: "tesseract", Label: "Tesseract Cube", Glyph: GlyphTesseract, Weight: 1500, MaxStack: 1},
	{Name: "memory_scroll", Label: "Memory Scroll", Glyph: GlyphMemoryScroll, Weight: 50, MaxStack: 10},
	{Name: "spore_draught", Label: "Spore Draught", Glyph: GlyphSporeDraught, Weight: 300, MaxStack: 5},
	{Name: "resonance_coil", Label: "Resonance Coil", Glyph: GlyphResonanceCoil, Weight: 450, MaxStack: 3},
	{Name: "void_essence", Label: "Void Essence", Glyph: GlyphVoidEssence, Weight: 120, MaxStack: 10},
	{Name: "nano_syringe", Label: "Nano-Syringe", Glyph: GlyphNanoSyringe, Weight: 30, MaxStack: 10},
	{Name: "apex_core", Label: "Apex Core", Glyph: GlyphApexCore, Weight: 2000, MaxStack: 1},
	{Name: "bread", Label: "Bread", Glyph: GlyphBread, Weight: 150, MaxStack: 10},
	{Name: "coin", Label: "Coin", Glyph: GlyphCoin, Weight: 10, MaxStack: 100},
	// Equipment
	{Name: "crystal_helm", Label: "Crystal Helm", Glyph: GlyphCrystalHelm, Weight: 1800, Durable: true},
	{Name: "frost_weave", Label: "Frost Weave", Glyph: GlyphFrostWeave, Weight: 2500, Durable: true},
	{Name: "flux_treads", Label: "Flux Treads", Glyph: GlyphFluxTreads, Weight: 1200, Durable: true},
	{Name: "shard_blade", Label: "Shard Blade", Glyph: GlyphShardBlade, Weight: 3200, Durable: true},
	{Name: "resonance_maul", Label: "Resonance Maul", Glyph: GlyphResonanceMaul, Weight: 7500, Durable: true},
	{Name: "phase_mirror", Label: "Phase Mirror", Glyph: GlyphPhaseMirror, Weight: 900, Durable: true},
	{Name: "phase_rod", Label: "Phase Rod", Glyph: GlyphPhaseRod, Weight: 1100, Durable: true},
	{Name: "lantern", Label: "Lantern", Glyph: GlyphLantern, Weight: 700, Durable: true},
}

// Lookup returns the template with the given item name.
func Lookup(name string) (Template, bool) {
	for _, t := range Templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// Item makes one slot's worth of t. Count is ignored for durable items.
func (t Template) Item(slot, count int, durability float64) inventory.Item {
	it := inventory.Item{
		Slot:   slot,
		Name:   t.Name,
		Label:  t.Label,
		Glyph:  t.Glyph,
		Count:  count,
		Weight: t.Weight * float64(count),
	}
	if t.Durable {
		it.Count = 1
		it.Weight = t.Weight
		it.Durability = &durability
	}
	return it
}

// emptyChance is the probability that a generated slot is left empty.
const emptyChance = 0.2

// Fill generates n slots from the catalog. Roughly one slot in five is empty.
func Fill(rng *rand.Rand, n int) []inventory.Item {
	items := make([]inventory.Item, 0, n)
	for i := range n {
		slot := i + 1
		if rng.Float64() < emptyChance {
			items = append(items, inventory.Item{Slot: slot})
			continue
		}
		t := Templates[rng.Intn(len(Templates))]
		count := 1
		if t.MaxStack > 1 {
			count = 1 + rng.Intn(t.MaxStack)
		}
		items = append(items, t.Item(slot, count, float64(rng.Intn(101))))
	}
	return items
}

// Demo builds a snapshot with a player inventory of pockets slots and a
// stash of half as many. The same seed always yields the same snapshot.
func Demo(seed int64, pockets int) inventory.Snapshot {
	rng := rand.New(rand.NewSource(seed))
	maxWeight := 24000.0
	player := &inventory.Inventory{
		Type:      inventory.TypePlayer,
		ID:        inventory.ID(fmt.Sprint(seed)),
		Label:     "Wanderer",
		MaxWeight: &maxWeight,
		Items:     Fill(rng, inventory.HotbarSize+pockets),
	}
	stash := &inventory.Inventory{
		Type:  "stash",
		ID:    "demo",
		Label: "Emberveil Stash",
		Items: Fill(rng, max(pockets/2, 1)),
	}
	return inventory.Snapshot{Left: player, Right: stash}
}
