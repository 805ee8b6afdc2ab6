package drag

// HitKind classifies what lies under a coordinate.
type HitKind int

// Hit kinds.
const (
	HitNone        HitKind = iota
	HitItem                // an item, in the pool or in a tier
	HitTierHandle          // the drag affordance of a tier row
	HitTierLabel           // the label cell of a tier row
	HitTierContent         // empty space in a tier's item area
	HitPool                // empty space in the pool
)

// Hit describes the element under a coordinate.
type Hit struct {
	Kind   HitKind
	ItemID string

	// TierID and TierIndex identify the enclosing tier row for any hit
	// inside one (handle, label, content, or an item in the tier).
	TierID    string
	TierIndex int

	// Zone is the enclosing drop-zone container: types.PoolID or a tier id.
	// Empty outside drop zones (handles, labels, chrome).
	Zone string
}

// Locator resolves coordinates to the element beneath them.
type Locator interface {
	HitAt(x, y int) Hit
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(x, y int) Hit

// HitAt calls f(x, y).
func (f LocatorFunc) HitAt(x, y int) Hit { return f(x, y) }
