package detect

import "testing"

func TestMergePortionsQuantities(t *testing.T) {
	d := &Detection{
		IsFood:     true,
		Confidence: 0.8,
		Items: []Candidate{
			{Name: "arroz", Confidence: 0.8},
			{Name: "frango", Confidence: 0.8},
		},
	}

	mergePortions(d, []portionItem{
		{Name: "Arroz", Grams: 120, Preparation: "cozido", Confidence: 0.7},
		{Name: "farofa", Grams: 30, Confidence: 0.6},
	})

	if len(d.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(d.Items))
	}

	arroz := d.Items[0]
	if arroz.Grams == nil || *arroz.Grams != 120 {
		t.Errorf("arroz grams = %v, want 120", arroz.Grams)
	}
	if arroz.Preparation != "cozido" {
		t.Errorf("arroz preparation = %q, want %q", arroz.Preparation, "cozido")
	}
	if arroz.Confidence != 0.8 {
		t.Errorf("arroz confidence = %v, want 0.8", arroz.Confidence)
	}

	if d.Items[1].Grams != nil {
		t.Errorf("frango grams = %v, want nil", d.Items[1].Grams)
	}

	farofa := d.Items[2]
	if farofa.Name != "farofa" || farofa.Grams == nil || *farofa.Grams != 30 {
		t.Errorf("appended item = %+v, want farofa at 30g", farofa)
	}
}

func TestMergePortionsRaisesOverallConfidence(t *testing.T) {
	d := &Detection{
		IsFood:     true,
		Confidence: 0.45,
		Items:      []Candidate{{Name: "feijoada", Confidence: 0.45}},
	}

	mergePortions(d, []portionItem{
		{Name: "feijoada", Grams: 250, Confidence: 0.9},
	})

	if d.Confidence != 0.9 {
		t.Errorf("overall confidence = %v, want 0.9", d.Confidence)
	}
	if !d.Confident(0.5) {
		t.Error("detection should clear the floor after the detailed pass")
	}
}

func TestMergePortionsKeepsHigherCoarseConfidence(t *testing.T) {
	d := &Detection{
		IsFood:     true,
		Confidence: 0.85,
		Items:      []Candidate{{Name: "pizza", Confidence: 0.85}},
	}

	mergePortions(d, []portionItem{
		{Name: "pizza", Grams: 180, Confidence: 0.6},
	})

	if d.Confidence != 0.85 {
		t.Errorf("overall confidence = %v, want 0.85", d.Confidence)
	}
}
