// Package items defines the loot item model and the weapon table used by
// combat range and damage calculations.
package items

// Item is a single inventory entry. Stackable items carry a quantity.
type Item struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Rarity   string `json:"rarity" yaml:"rarity"`
	Value    int    `json:"value" yaml:"value"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// Normalize fills in the defaults a loot drop is expected to carry.
func (i Item) Normalize() Item {
	if i.Rarity == "" {
		i.Rarity = "Common"
	}
	if i.Value == 0 {
		i.Value = 10
	}
	if i.Quantity == 0 {
		i.Quantity = 1
	}
	return i
}

// StarterKit returns the fixed item set granted to a new player, and used to
// backstop an empty inventory before a death-loot computation.
func StarterKit() []Item {
	return []Item{
		{ID: 201, Name: "bronze_sword", Rarity: "Common", Value: 15, Quantity: 1},
		{ID: 202, Name: "bow", Rarity: "Common", Value: 20, Quantity: 1},
		{ID: 203, Name: "arrows", Rarity: "Common", Value: 1, Quantity: 100},
	}
}
