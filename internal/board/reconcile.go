package board

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// MoveItem moves itemID to the end of the target container. targetID is
// types.PoolID or a tier id; an unknown tier id falls back to the pool. An
// item dropped onto its own container becomes that container's last item.
// A stale item id is a silent no-op.
func (s *Service) MoveItem(ctx context.Context, itemID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !moveItem(s.board, itemID, targetID) {
		s.log.WithField("item", itemID).Debug("move of unknown item ignored")
		return nil
	}
	s.log.WithFields(log.Fields{"item": itemID, "target": targetID}).Debug("item moved")
	s.commitLocked(ctx)
	return nil
}

// MoveTier removes tierID from the tier sequence and reinserts it at
// targetIndex of the shortened sequence, so it lands where the tier at
// targetIndex used to be. targetIndex is clamped to the valid range. Moving a
// tier onto its own position, or an unknown tier, is a no-op.
func (s *Service) MoveTier(ctx context.Context, tierID string, targetIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !moveTier(s.board, tierID, targetIndex) {
		return nil
	}
	s.log.WithFields(log.Fields{"tier": tierID, "index": targetIndex}).Debug("tier moved")
	s.commitLocked(ctx)
	return nil
}

// moveItem applies the item move to b and reports whether anything changed.
// Removal and insertion happen back to back with no early return between
// them.
func moveItem(b *types.Board, itemID, targetID string) bool {
	item, ok := takeItem(b, itemID)
	if !ok {
		return false
	}
	if t := b.Tier(targetID); t != nil {
		t.Items = append(t.Items, item)
		return true
	}
	b.Pool = append(b.Pool, item)
	return true
}

// takeItem removes itemID from whichever container holds it.
func takeItem(b *types.Board, itemID string) (types.Item, bool) {
	containerID, idx, err := b.Locate(itemID)
	if err != nil {
		return types.Item{}, false
	}
	if containerID == types.PoolID {
		item := b.Pool[idx]
		b.Pool = removeAt(b.Pool, idx)
		return item, true
	}
	t := b.Tier(containerID)
	item := t.Items[idx]
	t.Items = removeAt(t.Items, idx)
	return item, true
}

func removeAt(items []types.Item, idx int) []types.Item {
	out := make([]types.Item, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

// moveTier applies the tier reorder to b and reports whether anything changed.
func moveTier(b *types.Board, tierID string, targetIndex int) bool {
	from := b.TierIndex(tierID)
	if from < 0 {
		return false
	}
	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex > len(b.Tiers)-1 {
		targetIndex = len(b.Tiers) - 1
	}
	if targetIndex == from {
		return false
	}

	moved := b.Tiers[from]
	rest := make([]types.Tier, 0, len(b.Tiers))
	rest = append(rest, b.Tiers[:from]...)
	rest = append(rest, b.Tiers[from+1:]...)

	out := make([]types.Tier, 0, len(b.Tiers))
	out = append(out, rest[:targetIndex]...)
	out = append(out, moved)
	out = append(out, rest[targetIndex:]...)
	b.Tiers = out
	return true
}
