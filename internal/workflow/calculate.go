package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/vidaleve/sofia/internal/normalize"
	"github.com/vidaleve/sofia/internal/nutrition"
)

// CalculateNode returns a state node that converts normalized items into
// gram quantities and runs the nutrition calculator. In defaults portion
// mode it first fills missing quantities from the portion table; in strict
// mode items without usable quantities are excluded so no values are
// invented. When strict mode leaves nothing usable the node stores no totals
// and the respond node emits the needs-quantities outcome.
func CalculateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		items, err := extractItems(s)
		if err != nil {
			return s, fmt.Errorf("calculate: %w: %w", ErrCalculateFailed, err)
		}

		if rt.Options.PortionMode == PortionModeDefaults {
			items = fillDefaultPortions(rt, items)
			s = s.Set(KeyItems, items)
		}

		usable := usableItems(rt, items)
		if len(usable) == 0 && rt.Options.StrictMode {
			rt.Logger.InfoContext(ctx, "calculate node skipped, no usable quantities")
			return s, nil
		}

		totals := nutrition.Calculate(rt.Catalog, toNutritionItems(rt, usable))

		rt.Logger.InfoContext(
			ctx, "calculate node complete",
			"grams_total", totals.GramsTotal,
			"kcal", totals.Totals.Kcal,
			"flags", totals.Flags,
			"missing", len(totals.Missing),
		)

		s = s.Set(KeyTotals, &totals)
		return s, nil
	})
}

// fillDefaultPortions assigns table defaults to items lacking quantities.
// Unresolved items keep their zero quantities; there is no default to apply
// without a canonical key.
func fillDefaultPortions(rt *Runtime, items []normalize.Item) []normalize.Item {
	for i := range items {
		if items[i].Grams > 0 || items[i].Milliliters > 0 || !items[i].Resolved() {
			continue
		}
		portion := rt.Catalog.DefaultPortion(items[i].Key, items[i].Liquid)
		if items[i].Liquid {
			items[i].Milliliters = portion
		} else {
			items[i].Grams = portion
		}
	}
	return items
}

// usableItems filters to items whose quantities can drive calculation.
// Quantities estimated below the minimum portion confidence are discarded in
// strict mode rather than trusted.
func usableItems(rt *Runtime, items []normalize.Item) []normalize.Item {
	usable := make([]normalize.Item, 0, len(items))
	for _, item := range items {
		if item.Grams <= 0 && item.Milliliters <= 0 {
			continue
		}
		if rt.Options.StrictMode && item.Confidence < rt.Options.MinPortionConfidence {
			continue
		}
		usable = append(usable, item)
	}
	return usable
}

// toNutritionItems converts to calculator input, collapsing liquids to grams
// through the profile density when known and 1 g/ml otherwise.
func toNutritionItems(rt *Runtime, items []normalize.Item) []nutrition.Item {
	out := make([]nutrition.Item, len(items))
	for i, item := range items {
		grams := item.Grams
		if grams == 0 && item.Milliliters > 0 {
			grams = item.Milliliters
			if profile, ok := rt.Catalog.Profile(item.Key); ok && profile.Density != nil {
				grams = item.Milliliters * *profile.Density
			}
		}
		out[i] = nutrition.Item{Name: item.Name, Grams: grams}
	}
	return out
}

func extractTotals(s state.State) *nutrition.Totals {
	val, ok := s.Get(KeyTotals)
	if !ok {
		return nil
	}

	totals, ok := val.(*nutrition.Totals)
	if !ok {
		return nil
	}

	return totals
}
