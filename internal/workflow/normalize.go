package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/vidaleve/sofia/internal/normalize"
)

// NormalizeNode returns a state node that canonicalizes the detected
// candidates against the nutrient catalog and, when a refiner is configured,
// asks the language model to reattempt names the catalog could not resolve.
func NormalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		d, err := extractDetection(s)
		if err != nil {
			return s, fmt.Errorf("normalize: %w: %w", ErrNormalizeFailed, err)
		}

		items := rt.Normalizer.Normalize(d.Items)
		if rt.Refiner != nil {
			items = rt.Refiner.Refine(ctx, rt.Normalizer, items)
		}

		resolved := 0
		for i := range items {
			if items[i].Resolved() {
				resolved++
			}
		}

		rt.Logger.InfoContext(
			ctx, "normalize node complete",
			"candidates", len(d.Items),
			"items", len(items),
			"resolved", resolved,
		)

		s = s.Set(KeyItems, items)
		return s, nil
	})
}

func extractItems(s state.State) ([]normalize.Item, error) {
	val, ok := s.Get(KeyItems)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyItems)
	}

	items, ok := val.([]normalize.Item)
	if !ok {
		return nil, fmt.Errorf("%s is not []normalize.Item", KeyItems)
	}

	return items, nil
}
