package workflow

import (
	"testing"

	"github.com/vidaleve/sofia/internal/normalize"
)

func TestFillDefaultPortions(t *testing.T) {
	rt := testRuntime(t, Options{PortionMode: PortionModeDefaults})

	items := []normalize.Item{
		{Name: "arroz branco cozido", Key: "arroz_branco_cozido"},
		{Name: "frango grelhado", Key: "frango_grelhado", Grams: 200},
		{Name: "suco de laranja", Key: "suco_de_laranja", Liquid: true},
		{Name: "comida misteriosa"},
	}

	got := fillDefaultPortions(rt, items)

	if got[0].Grams != 120 {
		t.Errorf("rice default = %v, want 120", got[0].Grams)
	}
	if got[1].Grams != 200 {
		t.Errorf("existing quantity = %v, want 200 untouched", got[1].Grams)
	}
	if got[2].Milliliters == 0 {
		t.Error("liquid default should fill milliliters")
	}
	if got[2].Grams != 0 {
		t.Errorf("liquid should not receive grams, got %v", got[2].Grams)
	}
	if got[3].Grams != 0 || got[3].Milliliters != 0 {
		t.Error("unresolved item should keep zero quantities")
	}
}

func TestUsableItems(t *testing.T) {
	items := []normalize.Item{
		{Name: "arroz", Grams: 120, Confidence: 0.8},
		{Name: "sem quantidade", Confidence: 0.9},
		{Name: "duvidoso", Grams: 50, Confidence: 0.2},
		{Name: "suco", Milliliters: 200, Confidence: 0.7},
	}

	t.Run("strict drops low confidence", func(t *testing.T) {
		rt := testRuntime(t, Options{StrictMode: true, MinPortionConfidence: 0.5})
		got := usableItems(rt, items)
		if len(got) != 2 {
			t.Fatalf("usable = %d items, want 2", len(got))
		}
		if got[0].Name != "arroz" || got[1].Name != "suco" {
			t.Errorf("usable = %v", got)
		}
	})

	t.Run("lenient keeps low confidence", func(t *testing.T) {
		rt := testRuntime(t, Options{StrictMode: false, MinPortionConfidence: 0.5})
		got := usableItems(rt, items)
		if len(got) != 3 {
			t.Fatalf("usable = %d items, want 3", len(got))
		}
	})

	t.Run("quantity-less item always dropped", func(t *testing.T) {
		rt := testRuntime(t, Options{StrictMode: false})
		for _, item := range usableItems(rt, items) {
			if item.Grams <= 0 && item.Milliliters <= 0 {
				t.Errorf("item %q has no quantity but survived the filter", item.Name)
			}
		}
	})
}

func TestToNutritionItems(t *testing.T) {
	rt := testRuntime(t, Options{})

	items := []normalize.Item{
		{Name: "arroz branco cozido", Key: "arroz_branco_cozido", Grams: 120},
		{Name: "suco de laranja", Key: "suco_de_laranja", Milliliters: 200, Liquid: true},
		{Name: "agua", Key: "agua", Milliliters: 250, Liquid: true},
	}

	got := toNutritionItems(rt, items)
	if len(got) != 3 {
		t.Fatalf("converted %d items, want 3", len(got))
	}

	if got[0].Grams != 120 {
		t.Errorf("solid grams = %v, want 120", got[0].Grams)
	}

	juice, ok := rt.Catalog.Profile("suco_de_laranja")
	if !ok || juice.Density == nil {
		t.Fatal("suco_de_laranja should carry a density")
	}
	want := 200 * *juice.Density
	if got[1].Grams != want {
		t.Errorf("juice grams = %v, want %v via density", got[1].Grams, want)
	}

	if got[2].Grams != 250 {
		t.Errorf("water grams = %v, want 250 at 1 g/ml", got[2].Grams)
	}
}
