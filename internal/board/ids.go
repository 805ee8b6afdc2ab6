package board

import "github.com/google/uuid"

// Id prefixes for generated entities.
const (
	ItemPrefix = "i_"
	TierPrefix = "t_"
)

// NewID returns prefix followed by a UUID v7. v7 ids are time-ordered and
// carry random bits, so ids minted in the same millisecond do not collide.
func NewID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 reads the clock and the random source; v4 needs only the latter.
		return prefix + uuid.New().String()
	}
	return prefix + id.String()
}
