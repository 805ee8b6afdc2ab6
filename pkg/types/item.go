package types

// PoolID is the container id of the unranked pool. Tier ids never take this
// value.
const PoolID = "pool"

// Item is a rankable entry. It is owned by exactly one container (the pool or
// one tier) at any time. At least one of Text and Image is expected to be set;
// the model does not enforce it.
type Item struct {
	ID    string `json:"id"`
	Text  string `json:"text,omitempty"`
	Image string `json:"img,omitempty"` // URL or data URI, opaque to the model.
}

// Label returns the human-readable name for the item: its text when present,
// otherwise a placeholder for image-only items.
func (i Item) Label() string {
	if i.Text != "" {
		return i.Text
	}
	if i.Image != "" {
		return "[image]"
	}
	return i.ID
}
