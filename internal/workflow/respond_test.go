package workflow

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vidaleve/sofia/internal/detect"
	"github.com/vidaleve/sofia/internal/foods"
	"github.com/vidaleve/sofia/internal/normalize"
	"github.com/vidaleve/sofia/internal/nutrition"
)

func testRuntime(t *testing.T, opts Options) *Runtime {
	t.Helper()

	cat, err := foods.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Runtime{
		Detector:   detect.NewChain(0.5, logger),
		Normalizer: normalize.New(cat),
		Catalog:    cat,
		Logger:     logger,
		Options:    opts,
	}
}

func TestClassifyOutcome(t *testing.T) {
	rt := testRuntime(t, Options{StrictMode: true, PortionMode: PortionModeAIStrict})

	tests := []struct {
		name   string
		result Result
		want   Outcome
	}{
		{
			name:   "no food detected",
			result: Result{Detection: detect.Detection{IsFood: false, Confidence: 0.9}},
			want:   OutcomeNotFood,
		},
		{
			name:   "food below confidence floor",
			result: Result{Detection: detect.Detection{IsFood: true, Confidence: 0.3}},
			want:   OutcomeNotFood,
		},
		{
			name:   "food without totals",
			result: Result{Detection: detect.Detection{IsFood: true, Confidence: 0.8}},
			want:   OutcomeNeedsQuantities,
		},
		{
			name: "food with totals",
			result: Result{
				Detection: detect.Detection{IsFood: true, Confidence: 0.8},
				Totals:    &nutrition.Totals{GramsTotal: 270},
			},
			want: OutcomeAnalyzed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyOutcome(rt, &tt.result); got != tt.want {
				t.Errorf("classifyOutcome = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComposeMessageNotFood(t *testing.T) {
	rt := testRuntime(t, Options{})
	r := &Result{Outcome: OutcomeNotFood}

	msg := composeMessage(rt, r, "Maria", "")
	if !strings.HasPrefix(msg, "Oi, Maria!") {
		t.Errorf("message should greet by name, got %q", msg)
	}
	if !strings.Contains(msg, "Não consegui identificar comida") {
		t.Errorf("message should explain no food was found, got %q", msg)
	}

	msg = composeMessage(rt, r, "", "")
	if !strings.HasPrefix(msg, "Oi!") {
		t.Errorf("anonymous greeting = %q, want Oi!", msg)
	}
}

func TestComposeMessageNeedsQuantities(t *testing.T) {
	rt := testRuntime(t, Options{})
	r := &Result{
		Outcome: OutcomeNeedsQuantities,
		Items: []normalize.Item{
			{Name: "arroz branco cozido"},
			{Name: "frango grelhado"},
		},
	}

	msg := composeMessage(rt, r, "", "")
	if !strings.Contains(msg, "arroz branco cozido e frango grelhado") {
		t.Errorf("message should list items joined with e, got %q", msg)
	}
	if !strings.Contains(msg, "quantos gramas") {
		t.Errorf("message should ask for gram quantities, got %q", msg)
	}
	for _, anchor := range []string{"30g", "50g", "80g", "100g", "150g"} {
		if !strings.Contains(msg, anchor) {
			t.Errorf("message should suggest %s, got %q", anchor, msg)
		}
	}
}

func TestComposeMessageAnalyzed(t *testing.T) {
	rt := testRuntime(t, Options{})
	r := &Result{
		Outcome: OutcomeAnalyzed,
		Items: []normalize.Item{
			{Name: "arroz branco cozido", Key: "arroz_branco_cozido", Grams: 120},
		},
		Totals: &nutrition.Totals{
			GramsTotal: 270,
			Totals:     nutrition.Macro{Kcal: 401, Protein: 49.5, Carbs: 33.7, Fat: 5.6},
		},
	}

	msg := composeMessage(rt, r, "João", "almoço")
	if !strings.Contains(msg, "Oi, João!") {
		t.Errorf("message should greet by name, got %q", msg)
	}
	if !strings.Contains(msg, "almoço") {
		t.Errorf("message should mention the meal, got %q", msg)
	}
	if !strings.Contains(msg, "401 kcal") {
		t.Errorf("message should state the kcal estimate, got %q", msg)
	}
	if !strings.Contains(msg, "Confirma") {
		t.Errorf("message should ask for confirmation, got %q", msg)
	}
}

func TestComposeMessageAnalyzedWithMissing(t *testing.T) {
	rt := testRuntime(t, Options{})
	r := &Result{
		Outcome: OutcomeAnalyzed,
		Items:   []normalize.Item{{Name: "arroz branco cozido"}},
		Totals: &nutrition.Totals{
			GramsTotal: 100,
			Totals:     nutrition.Macro{Kcal: 128},
			Missing:    []string{"pamonha especial"},
		},
	}

	msg := composeMessage(rt, r, "", "")
	if !strings.Contains(msg, "pamonha especial") {
		t.Errorf("message should surface missing items, got %q", msg)
	}
}

func TestItemList(t *testing.T) {
	tests := []struct {
		name  string
		items []normalize.Item
		want  string
	}{
		{"empty", nil, "alguns alimentos"},
		{"single", []normalize.Item{{Name: "arroz"}}, "arroz"},
		{
			"pair",
			[]normalize.Item{{Name: "arroz"}, {Name: "feijao"}},
			"arroz e feijao",
		},
		{
			"three",
			[]normalize.Item{{Name: "arroz"}, {Name: "feijao"}, {Name: "farofa"}},
			"arroz, feijao e farofa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := itemList(tt.items); got != tt.want {
				t.Errorf("itemList = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResultEstimatedKcal(t *testing.T) {
	r := &Result{
		Detection: detect.Detection{EstimatedKcal: 350},
	}
	if got := r.EstimatedKcal(); got != 350 {
		t.Errorf("EstimatedKcal = %d, want detector estimate 350", got)
	}

	r.Totals = &nutrition.Totals{GramsTotal: 270, Totals: nutrition.Macro{Kcal: 401}}
	if got := r.EstimatedKcal(); got != 401 {
		t.Errorf("EstimatedKcal = %d, want computed 401", got)
	}

	r.Totals = &nutrition.Totals{GramsTotal: 0, Totals: nutrition.Macro{Kcal: 0}}
	if got := r.EstimatedKcal(); got != 350 {
		t.Errorf("EstimatedKcal with zero grams = %d, want fallback 350", got)
	}
}
