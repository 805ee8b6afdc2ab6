package cli

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// maxRefDistance is the largest edit distance accepted for a fuzzy match.
const maxRefDistance = 2

type candidate struct {
	id    string
	label string
}

// resolveRef matches ref against candidates: exact id first, then the one
// case-insensitive label match, then the unique closest label within
// maxRefDistance edits. Several equal matches at any step are ambiguous.
func resolveRef(ref string, cands []candidate) (string, bool) {
	for _, c := range cands {
		if c.id == ref {
			return c.id, true
		}
	}
	exact := ""
	for _, c := range cands {
		if !strings.EqualFold(c.label, ref) {
			continue
		}
		if exact != "" {
			return "", false
		}
		exact = c.id
	}
	if exact != "" {
		return exact, true
	}

	best, bestDist, tie := "", maxRefDistance+1, false
	needle := strings.ToLower(ref)
	for _, c := range cands {
		if c.label == "" {
			continue
		}
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c.label))
		switch {
		case d < bestDist:
			best, bestDist, tie = c.id, d, false
		case d == bestDist:
			tie = true
		}
	}
	if best == "" || tie {
		return "", false
	}
	return best, true
}

// resolveTier returns the id of the tier ref names.
func resolveTier(b *types.Board, ref string) (string, error) {
	cands := make([]candidate, len(b.Tiers))
	for i, t := range b.Tiers {
		cands[i] = candidate{id: t.ID, label: t.Label}
	}
	id, ok := resolveRef(ref, cands)
	if !ok {
		return "", userError("tier %q: %w", ref, types.ErrNotFound)
	}
	return id, nil
}

// resolveContainer accepts "pool" or a tier reference.
func resolveContainer(b *types.Board, ref string) (string, error) {
	if strings.EqualFold(ref, types.PoolID) {
		return types.PoolID, nil
	}
	return resolveTier(b, ref)
}

// resolveItem returns the id of the item ref names.
func resolveItem(b *types.Board, ref string) (string, error) {
	var cands []candidate
	add := func(items []types.Item) {
		for _, it := range items {
			cands = append(cands, candidate{id: it.ID, label: it.Text})
		}
	}
	add(b.Pool)
	for _, t := range b.Tiers {
		add(t.Items)
	}
	id, ok := resolveRef(ref, cands)
	if !ok {
		return "", userError("item %q: %w", ref, types.ErrNotFound)
	}
	return id, nil
}
