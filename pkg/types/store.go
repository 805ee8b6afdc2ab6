package types

import "context"

// Store is the persistence port. It loads and saves the whole Board as one
// blob; partial updates are never written.
type Store interface {
	// Load returns the stored board. Returns ErrNoBoard when nothing has been
	// saved and an error wrapping ErrMalformed when stored data cannot be
	// decoded.
	Load(ctx context.Context) (*Board, error)

	// Save replaces the stored board with b.
	Save(ctx context.Context, b *Board) error

	// Clear removes the stored board. Clearing an empty store succeeds.
	Clear(ctx context.Context) error

	// Close releases backend resources. Idempotent.
	Close() error
}
