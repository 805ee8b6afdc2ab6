package board

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// AddTier appends a new tier at the bottom of the board. An empty label or
// color takes the defaults.
func (s *Service) AddTier(ctx context.Context, label, color string) (types.Tier, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = types.DefaultTierLabel
	}
	color = strings.TrimSpace(color)
	if color == "" {
		color = types.DefaultTierColor
	}
	if err := types.ValidateColor(color); err != nil {
		return types.Tier{}, fmt.Errorf("tier color %q: %w", color, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tier := types.Tier{ID: s.newID(TierPrefix), Label: label, Color: color, Items: []types.Item{}}
	s.board.Tiers = append(s.board.Tiers, tier)
	s.commitLocked(ctx)
	return tier, nil
}

// DeleteTier removes a tier. Its items are appended to the pool in their
// tier order; items are never deleted with their tier. Unknown ids are a
// no-op.
func (s *Service) DeleteTier(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.board.TierIndex(id)
	if idx < 0 {
		return nil
	}
	tiers := make([]types.Tier, 0, len(s.board.Tiers)-1)
	tiers = append(tiers, s.board.Tiers[:idx]...)
	tiers = append(tiers, s.board.Tiers[idx+1:]...)

	s.board.Pool = append(s.board.Pool, s.board.Tiers[idx].Items...)
	s.board.Tiers = tiers
	s.commitLocked(ctx)
	return nil
}

// UpdateTier renames and recolors a tier. An empty label or color keeps the
// current value. Returns ErrNotFound for unknown ids.
func (s *Service) UpdateTier(ctx context.Context, id, label, color string) error {
	label = strings.TrimSpace(label)
	color = strings.TrimSpace(color)
	if color != "" {
		if err := types.ValidateColor(color); err != nil {
			return fmt.Errorf("tier color %q: %w", color, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.board.Tier(id)
	if t == nil {
		return fmt.Errorf("tier %q: %w", id, types.ErrNotFound)
	}
	if label != "" {
		t.Label = label
	}
	if color != "" {
		t.Color = color
	}
	s.commitLocked(ctx)
	return nil
}

// ClearTier moves every item of a tier to the end of the pool and keeps the
// tier. Returns ErrNotFound for unknown ids.
func (s *Service) ClearTier(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.board.Tier(id)
	if t == nil {
		return fmt.Errorf("tier %q: %w", id, types.ErrNotFound)
	}
	s.board.Pool = append(s.board.Pool, t.Items...)
	t.Items = []types.Item{}
	s.commitLocked(ctx)
	return nil
}

// CreateItem adds a manually entered item to the pool. Returns ErrEmptyItem
// when both text and image are blank.
func (s *Service) CreateItem(ctx context.Context, text, image string) (types.Item, error) {
	text = strings.TrimSpace(text)
	image = strings.TrimSpace(image)
	if text == "" && image == "" {
		return types.Item{}, types.ErrEmptyItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := types.Item{ID: s.newID(ItemPrefix), Text: text, Image: image}
	s.board.Pool = append(s.board.Pool, item)
	s.commitLocked(ctx)
	return item, nil
}

// DeleteItem removes exactly one item from whichever container holds it.
// Unknown ids are a no-op.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := takeItem(s.board, id); !ok {
		return nil
	}
	s.commitLocked(ctx)
	return nil
}

// ClearPool deletes every unranked item.
func (s *Service) ClearPool(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.board.Pool = []types.Item{}
	s.commitLocked(ctx)
	return nil
}

// AppendToPool adds a batch of items to the end of the pool with a single
// save and projection. Items whose ids collide with existing ones are
// rejected as a whole batch with ErrDuplicateID, leaving the board untouched.
// An empty batch is a no-op.
func (s *Service) AppendToPool(ctx context.Context, items []types.Item) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := &types.Board{Tiers: s.board.Tiers, Pool: append(s.board.Pool[:len(s.board.Pool):len(s.board.Pool)], items...)}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("append to pool: %w", err)
	}
	s.board.Pool = next.Pool
	s.log.WithField("count", len(items)).Debug("items appended to pool")
	s.commitLocked(ctx)
	return nil
}

// Replace swaps the whole board for b after validating it. The service keeps
// its own copy.
func (s *Service) Replace(ctx context.Context, b *types.Board) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("replace board: %w", err)
	}
	next := b.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.board = next
	s.log.WithFields(log.Fields{"tiers": len(next.Tiers), "items": next.ItemCount()}).Info("board replaced")
	s.commitLocked(ctx)
	return nil
}

// Reset discards the stored board and returns to the default tiers with an
// empty pool. The default board is not saved until the next mutation.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Clear(ctx); err != nil {
			s.log.WithError(err).Error("failed to clear stored board")
		}
	}
	s.board = types.DefaultBoard()
	s.projectLocked()
	return nil
}
