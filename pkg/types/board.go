package types

import "fmt"

// Board is the complete ranked-list document: tier order is rank (top to
// bottom), pool order is insertion order.
//
// A Board is a plain value with no locking. Mutation is owned by a single
// service; renderers and stores receive Clone snapshots.
type Board struct {
	Tiers []Tier `json:"tiers"`
	Pool  []Item `json:"pool"`
}

// DefaultBoard returns a fresh board with the S..F tiers and an empty pool.
func DefaultBoard() *Board {
	b := &Board{
		Tiers: make([]Tier, len(defaultTiers)),
		Pool:  []Item{},
	}
	for i, t := range defaultTiers {
		t.Items = []Item{}
		b.Tiers[i] = t
	}
	return b
}

// Clone returns a deep copy. Nil slices in the receiver come back as empty
// slices so encoded snapshots always carry arrays.
func (b *Board) Clone() *Board {
	out := &Board{
		Tiers: make([]Tier, len(b.Tiers)),
		Pool:  cloneItems(b.Pool),
	}
	for i, t := range b.Tiers {
		t.Items = cloneItems(t.Items)
		out.Tiers[i] = t
	}
	return out
}

// Normalize replaces nil item slices with empty ones in place.
func (b *Board) Normalize() {
	if b.Tiers == nil {
		b.Tiers = []Tier{}
	}
	if b.Pool == nil {
		b.Pool = []Item{}
	}
	for i := range b.Tiers {
		if b.Tiers[i].Items == nil {
			b.Tiers[i].Items = []Item{}
		}
	}
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Validate checks the id invariants: every tier id and item id is non-empty
// and unique across the whole board, and no tier uses the reserved pool id.
func (b *Board) Validate() error {
	tierIDs := make(map[string]bool, len(b.Tiers))
	itemIDs := make(map[string]bool)

	checkItem := func(it Item) error {
		if it.ID == "" {
			return fmt.Errorf("item: %w", ErrInvalidID)
		}
		if itemIDs[it.ID] {
			return fmt.Errorf("item %q: %w", it.ID, ErrDuplicateID)
		}
		itemIDs[it.ID] = true
		return nil
	}

	for _, t := range b.Tiers {
		if t.ID == "" || t.ID == PoolID {
			return fmt.Errorf("tier %q: %w", t.ID, ErrInvalidID)
		}
		if tierIDs[t.ID] {
			return fmt.Errorf("tier %q: %w", t.ID, ErrDuplicateID)
		}
		tierIDs[t.ID] = true
		for _, it := range t.Items {
			if err := checkItem(it); err != nil {
				return err
			}
		}
	}
	for _, it := range b.Pool {
		if err := checkItem(it); err != nil {
			return err
		}
	}
	return nil
}

// TierIndex returns the index of the tier with the given id, or -1.
func (b *Board) TierIndex(id string) int {
	for i := range b.Tiers {
		if b.Tiers[i].ID == id {
			return i
		}
	}
	return -1
}

// Tier returns the tier with the given id, or nil.
func (b *Board) Tier(id string) *Tier {
	if i := b.TierIndex(id); i >= 0 {
		return &b.Tiers[i]
	}
	return nil
}

// Locate scans the pool, then each tier in order, and returns the id of the
// container holding itemID and the item's index within it. Returns
// ErrNotFound when no container holds the item.
func (b *Board) Locate(itemID string) (containerID string, index int, err error) {
	for i, it := range b.Pool {
		if it.ID == itemID {
			return PoolID, i, nil
		}
	}
	for _, t := range b.Tiers {
		for i, it := range t.Items {
			if it.ID == itemID {
				return t.ID, i, nil
			}
		}
	}
	return "", -1, ErrNotFound
}

// Item returns a copy of the item with the given id.
func (b *Board) Item(itemID string) (Item, error) {
	containerID, idx, err := b.Locate(itemID)
	if err != nil {
		return Item{}, err
	}
	return b.Container(containerID)[idx], nil
}

// Container returns the item sequence for a container id: the pool for PoolID,
// otherwise the matching tier's items. Unknown ids return nil.
func (b *Board) Container(id string) []Item {
	if id == PoolID {
		return b.Pool
	}
	if t := b.Tier(id); t != nil {
		return t.Items
	}
	return nil
}

// ItemCount returns the number of items across the pool and every tier.
func (b *Board) ItemCount() int {
	n := len(b.Pool)
	for _, t := range b.Tiers {
		n += len(t.Items)
	}
	return n
}
