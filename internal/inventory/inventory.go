package inventory

import (
	"encoding/json"
	"math"
	"strconv"
)

// TypePlayer marks the player's own inventory. Only player inventories get a
// hotbar and pocket labels.
const TypePlayer = "player"

// HotbarSize is the number of leading items shown in the hotbar row.
const HotbarSize = 5

// ID identifies an inventory. Snapshots may carry it as a JSON string or number.
type ID string

// UnmarshalJSON accepts both "stash-1" and 42.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Item is one slot record of a snapshot. Weight is the contribution of the
// whole stack in grams.
type Item struct {
	Slot       int      `json:"slot" jsonschema:"description=Stable slot index used as the rendering key"`
	Name       string   `json:"name,omitempty" jsonschema:"description=Item name; empty means the slot is empty"`
	Label      string   `json:"label,omitempty"`
	Glyph      string   `json:"glyph,omitempty" jsonschema:"description=Emoji drawn in the slot"`
	Count      int      `json:"count,omitempty"`
	Weight     float64  `json:"weight,omitempty" jsonschema:"description=Weight of the whole stack in grams"`
	Durability *float64 `json:"durability,omitempty" jsonschema:"description=Item condition 0-100; omitted for items without wear"`
}

// IsEmpty reports whether the slot holds nothing.
func (i Item) IsEmpty() bool { return i.Name == "" }

// DisplayName prefers the label over the internal item name.
func (i Item) DisplayName() string {
	if i.Label != "" {
		return i.Label
	}
	return i.Name
}

// Inventory is an externally owned snapshot. Nothing in this module writes to it.
type Inventory struct {
	Type      string         `json:"type" jsonschema:"description=Container kind; \"player\" enables the hotbar"`
	ID        ID             `json:"id"`
	Label     string         `json:"label"`
	MaxWeight *float64       `json:"maxWeight,omitempty" jsonschema:"description=Capacity in grams; omitted hides the capacity meter"`
	Items     []Item         `json:"items"`
	Groups    map[string]int `json:"groups,omitempty" jsonschema:"description=Opaque permission groups passed through to slots"`
}

// IsPlayer reports whether inv is the player's own inventory.
func (inv *Inventory) IsPlayer() bool { return inv.Type == TypePlayer }

// TotalWeight sums the weight of every occupied slot.
func TotalWeight(items []Item) float64 {
	total := 0.0
	for _, it := range items {
		if it.IsEmpty() {
			continue
		}
		total += it.Weight
	}
	return total
}

// Weight returns the carried weight truncated to three decimals. Containers
// without a capacity always report 0.
func (inv *Inventory) Weight() float64 {
	if inv.MaxWeight == nil {
		return 0
	}
	return math.Floor(TotalWeight(inv.Items)*1000) / 1000
}

// Percent returns the fill level of the weight meter. A missing or zero
// capacity yields 0. The result is not clamped.
func (inv *Inventory) Percent() float64 {
	if inv.MaxWeight == nil || *inv.MaxWeight == 0 {
		return 0
	}
	return inv.Weight() / *inv.MaxWeight * 100
}

// CapacityText formats "weight/capacity" in kilograms, e.g. "1.5/24kg".
// ok is false when the container has no (or a zero) capacity.
func (inv *Inventory) CapacityText() (text string, ok bool) {
	if inv.MaxWeight == nil || *inv.MaxWeight == 0 {
		return "", false
	}
	return formatKg(inv.Weight()/1000) + "/" + formatKg(*inv.MaxWeight/1000) + "kg", true
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Partition splits inv into hotbar and main storage. The hotbar is the first
// HotbarSize items by position (not by slot number) and only exists for
// player inventories. Both results alias inv.Items.
func Partition(inv *Inventory) (hotbar, main []Item) {
	if !inv.IsPlayer() {
		return nil, inv.Items
	}
	n := min(HotbarSize, len(inv.Items))
	return inv.Items[:n], inv.Items[n:]
}

// DuplicateSlots returns slot keys that occur more than once, in order of
// their second occurrence. Duplicates break rendering identity; callers only
// log them.
func DuplicateSlots(inv *Inventory) []int {
	seen := make(map[int]int, len(inv.Items))
	var dups []int
	for _, it := range inv.Items {
		seen[it.Slot]++
		if seen[it.Slot] == 2 {
			dups = append(dups, it.Slot)
		}
	}
	return dups
}
