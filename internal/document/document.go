// Package document reads and writes the portable board document used for
// export and import.
package document

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// wire requires both top-level keys to be present on decode.
type wire struct {
	Tiers *[]types.Tier `json:"tiers"`
	Pool  *[]types.Item `json:"pool"`
}

// Encode renders b as an indented JSON document.
func Encode(b *types.Board) ([]byte, error) {
	if b == nil {
		b = &types.Board{}
	}
	out := b.Clone()
	data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode board: %w", err)
	}
	return data, nil
}

// Decode parses a board document. The document must carry both "tiers" and
// "pool", and the resulting board must pass validation.
func Decode(data []byte) (*types.Board, error) {
	var w wire
	if err := sonic.ConfigStd.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDocument, err)
	}
	if w.Tiers == nil || w.Pool == nil {
		return nil, fmt.Errorf("%w: tiers and pool are required", types.ErrInvalidDocument)
	}

	b := &types.Board{Tiers: *w.Tiers, Pool: *w.Pool}
	b.Normalize()
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidDocument, err)
	}
	return b, nil
}

// Filename returns the export file name for a document written at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("tierlist_%d.json", now.UnixMilli())
}
