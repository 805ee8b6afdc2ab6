package types

// Tier is a named, colored bucket. Items order is the visible left-to-right
// rank within the tier.
type Tier struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
	Items []Item `json:"items"`
}

// Default label and color for tiers created without explicit values.
const (
	DefaultTierLabel = "NEW"
	DefaultTierColor = "#cccccc"
)

// defaultTiers is the S..F ladder every fresh board starts with.
var defaultTiers = []Tier{
	{ID: "t1", Label: "S", Color: "#ff7f7f"},
	{ID: "t2", Label: "A", Color: "#ffbf7f"},
	{ID: "t3", Label: "B", Color: "#ffdf7f"},
	{ID: "t4", Label: "C", Color: "#ffff7f"},
	{ID: "t5", Label: "D", Color: "#bfff7f"},
	{ID: "t6", Label: "F", Color: "#7fff7f"},
}

// ValidateColor accepts CSS-style hex colors in #rgb or #rrggbb form.
func ValidateColor(c string) error {
	if (len(c) != 4 && len(c) != 7) || c[0] != '#' {
		return ErrInvalidColor
	}
	for _, r := range c[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return ErrInvalidColor
		}
	}
	return nil
}
