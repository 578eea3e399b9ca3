package analyses

import (
	"github.com/vidaleve/sofia/internal/nutrition"
	"github.com/vidaleve/sofia/internal/workflow"
)

// Personality tag carried in every analysis response so clients can render
// the assistant consistently.
const personality = "sofia"

const apologyMessage = "Desculpa, não consegui analisar essa imagem agora. " +
	"Pode tentar de novo em instantes, ou me contar por texto o que você comeu?"

// AnalyzeResponse is the external contract for the analysis endpoint. The
// response is HTTP 200 in every case; Success distinguishes a usable
// analysis from a failure, and Message carries the user-facing text on the
// failure and terminal-outcome paths. Error is operator diagnostics only.
type AnalyzeResponse struct {
	Success              bool           `json:"success"`
	RequiresConfirmation bool           `json:"requires_confirmation,omitempty"`
	AnalysisID           string         `json:"analysis_id,omitempty"`
	SofiaAnalysis        *SofiaAnalysis `json:"sofia_analysis,omitempty"`
	FoodDetection        *FoodDetection `json:"food_detection,omitempty"`
	Message              string         `json:"message,omitempty"`
	Error                string         `json:"error,omitempty"`
}

// SofiaAnalysis is the assistant-voiced portion of the response.
type SofiaAnalysis struct {
	Analysis             string            `json:"analysis"`
	Personality          string            `json:"personality"`
	FoodsDetected        []string          `json:"foods_detected"`
	Confidence           float64           `json:"confidence"`
	EstimatedCalories    int               `json:"estimated_calories"`
	NutritionTotals      *nutrition.Totals `json:"nutrition_totals"`
	ConfirmationRequired bool              `json:"confirmation_required"`
}

// FoodDetection is the raw detection portion of the response.
type FoodDetection struct {
	FoodsDetected     []string          `json:"foods_detected"`
	IsFood            bool              `json:"is_food"`
	Confidence        float64           `json:"confidence"`
	EstimatedCalories int               `json:"estimated_calories"`
	NutritionTotals   *nutrition.Totals `json:"nutrition_totals"`
	MealType          string            `json:"meal_type"`
}

// failureResponse is the generic apologetic answer for any pipeline failure.
// The raw error never reaches the user; it rides in Error for operators.
func failureResponse(err error) *AnalyzeResponse {
	resp := &AnalyzeResponse{
		Success: false,
		Message: apologyMessage,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// responseFromResult maps a pipeline result onto the external contract.
func responseFromResult(result *workflow.Result) *AnalyzeResponse {
	detection := &FoodDetection{
		FoodsDetected:     result.FoodNames(),
		IsFood:            result.Detection.IsFood,
		Confidence:        result.Detection.Confidence,
		EstimatedCalories: result.EstimatedKcal(),
		NutritionTotals:   result.Totals,
		MealType:          result.Detection.MealType,
	}

	switch result.Outcome {
	case workflow.OutcomeNotFood:
		return &AnalyzeResponse{
			Success:       false,
			FoodDetection: detection,
			Message:       result.Message,
		}

	case workflow.OutcomeNeedsQuantities:
		return &AnalyzeResponse{
			Success:              true,
			RequiresConfirmation: true,
			AnalysisID:           result.AnalysisID.String(),
			SofiaAnalysis:        sofiaAnalysis(result),
			FoodDetection:        detection,
			Message:              result.Message,
		}

	default:
		return &AnalyzeResponse{
			Success:              true,
			RequiresConfirmation: true,
			AnalysisID:           result.AnalysisID.String(),
			SofiaAnalysis:        sofiaAnalysis(result),
			FoodDetection:        detection,
		}
	}
}

func sofiaAnalysis(result *workflow.Result) *SofiaAnalysis {
	return &SofiaAnalysis{
		Analysis:             result.Message,
		Personality:          personality,
		FoodsDetected:        result.FoodNames(),
		Confidence:           result.Detection.Confidence,
		EstimatedCalories:    result.EstimatedKcal(),
		NutritionTotals:      result.Totals,
		ConfirmationRequired: true,
	}
}
