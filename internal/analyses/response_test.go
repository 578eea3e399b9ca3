package analyses

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/vidaleve/sofia/internal/detect"
	"github.com/vidaleve/sofia/internal/normalize"
	"github.com/vidaleve/sofia/internal/nutrition"
	"github.com/vidaleve/sofia/internal/workflow"
)

func analyzedResult() *workflow.Result {
	return &workflow.Result{
		AnalysisID: uuid.New(),
		Outcome:    workflow.OutcomeAnalyzed,
		Detection: detect.Detection{
			IsFood:     true,
			Confidence: 0.85,
			MealType:   "almoço",
		},
		Items: []normalize.Item{
			{Name: "arroz branco cozido", Key: "arroz_branco_cozido", Grams: 120},
			{Name: "frango grelhado", Key: "frango_grelhado", Grams: 150},
		},
		Totals: &nutrition.Totals{
			GramsTotal: 270,
			Totals:     nutrition.Macro{Kcal: 401, Protein: 49.5, Carbs: 33.7, Fat: 5.6},
		},
		Message: "Oi! Analisei seu almoço.",
	}
}

func TestResponseFromResultAnalyzed(t *testing.T) {
	result := analyzedResult()
	resp := responseFromResult(result)

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if !resp.RequiresConfirmation {
		t.Error("RequiresConfirmation = false, want true")
	}
	if resp.AnalysisID != result.AnalysisID.String() {
		t.Errorf("AnalysisID = %q, want %q", resp.AnalysisID, result.AnalysisID)
	}
	if resp.Message != "" {
		t.Errorf("Message = %q, want empty on the analyzed path", resp.Message)
	}

	sa := resp.SofiaAnalysis
	if sa == nil {
		t.Fatal("SofiaAnalysis is nil")
	}
	if sa.Personality != "sofia" {
		t.Errorf("Personality = %q, want sofia", sa.Personality)
	}
	if sa.Analysis != result.Message {
		t.Errorf("Analysis = %q, want the composed message", sa.Analysis)
	}
	if sa.EstimatedCalories != 401 {
		t.Errorf("EstimatedCalories = %d, want 401", sa.EstimatedCalories)
	}
	if !sa.ConfirmationRequired {
		t.Error("ConfirmationRequired = false, want true")
	}
	if len(sa.FoodsDetected) != 2 {
		t.Errorf("FoodsDetected = %v, want 2 entries", sa.FoodsDetected)
	}

	fd := resp.FoodDetection
	if fd == nil {
		t.Fatal("FoodDetection is nil")
	}
	if !fd.IsFood {
		t.Error("IsFood = false, want true")
	}
	if fd.MealType != "almoço" {
		t.Errorf("MealType = %q, want almoço", fd.MealType)
	}
	if fd.NutritionTotals == nil {
		t.Error("NutritionTotals is nil, want totals attached")
	}
}

func TestResponseFromResultNotFood(t *testing.T) {
	result := &workflow.Result{
		AnalysisID: uuid.New(),
		Outcome:    workflow.OutcomeNotFood,
		Detection:  detect.Detection{IsFood: false, Confidence: 0.2},
		Message:    "Não consegui identificar comida nessa foto.",
	}

	resp := responseFromResult(result)
	if resp.Success {
		t.Error("Success = true, want false for not-food")
	}
	if resp.RequiresConfirmation {
		t.Error("RequiresConfirmation = true, want false")
	}
	if resp.SofiaAnalysis != nil {
		t.Error("SofiaAnalysis should be absent for not-food")
	}
	if resp.Message != result.Message {
		t.Errorf("Message = %q, want the composed message", resp.Message)
	}
	if resp.FoodDetection == nil || resp.FoodDetection.IsFood {
		t.Error("FoodDetection should be present and report no food")
	}
}

func TestResponseFromResultNeedsQuantities(t *testing.T) {
	result := &workflow.Result{
		AnalysisID: uuid.New(),
		Outcome:    workflow.OutcomeNeedsQuantities,
		Detection:  detect.Detection{IsFood: true, Confidence: 0.7, EstimatedKcal: 300},
		Items:      []normalize.Item{{Name: "arroz branco cozido"}},
		Message:    "Me diz quantos gramas?",
	}

	resp := responseFromResult(result)
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if !resp.RequiresConfirmation {
		t.Error("RequiresConfirmation = false, want true")
	}
	if resp.Message != result.Message {
		t.Errorf("Message = %q, want the quantities prompt", resp.Message)
	}
	if resp.SofiaAnalysis == nil {
		t.Fatal("SofiaAnalysis is nil")
	}
	if resp.SofiaAnalysis.EstimatedCalories != 300 {
		t.Errorf(
			"EstimatedCalories = %d, want detector fallback 300",
			resp.SofiaAnalysis.EstimatedCalories,
		)
	}
	if resp.SofiaAnalysis.NutritionTotals != nil {
		t.Error("NutritionTotals should be nil when quantities are missing")
	}
}

func TestFailureResponse(t *testing.T) {
	resp := failureResponse(errors.New("vision provider timeout"))
	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.Message == "" {
		t.Error("Message should carry the user-facing apology")
	}
	if resp.Error != "vision provider timeout" {
		t.Errorf("Error = %q, want the raw diagnostic", resp.Error)
	}

	resp = failureResponse(nil)
	if resp.Error != "" {
		t.Errorf("Error = %q, want empty for nil error", resp.Error)
	}
}

func TestAnalyzeResponseJSONShape(t *testing.T) {
	raw, err := json.Marshal(responseFromResult(analyzedResult()))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	body := string(raw)
	for _, field := range []string{
		`"success":true`,
		`"requires_confirmation":true`,
		`"analysis_id"`,
		`"sofia_analysis"`,
		`"food_detection"`,
		`"personality":"sofia"`,
		`"estimated_calories":401`,
	} {
		if !strings.Contains(body, field) {
			t.Errorf("response JSON missing %s: %s", field, body)
		}
	}
	if strings.Contains(body, `"message"`) {
		t.Errorf("analyzed response should omit message, got %s", body)
	}
	if strings.Contains(body, `"error"`) {
		t.Errorf("successful response should omit error, got %s", body)
	}
}

func TestAnalyzeCommandGuest(t *testing.T) {
	tests := []struct {
		userID string
		want   bool
	}{
		{"", true},
		{"guest", true},
		{"user-123", false},
	}

	for _, tt := range tests {
		cmd := AnalyzeCommand{UserID: tt.userID}
		if got := cmd.Guest(); got != tt.want {
			t.Errorf("Guest(%q) = %v, want %v", tt.userID, got, tt.want)
		}
	}
}
