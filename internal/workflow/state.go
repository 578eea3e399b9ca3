package workflow

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vidaleve/sofia/internal/detect"
	"github.com/vidaleve/sofia/internal/normalize"
	"github.com/vidaleve/sofia/internal/nutrition"
)

// State bag keys.
const (
	KeyAnalysisID = "analysis_id"
	KeySource     = "source"
	KeyUserName   = "user_name"
	KeyMeal       = "current_meal"
	KeyImage      = "image"
	KeyDetection  = "detection"
	KeyItems      = "items"
	KeyTotals     = "totals"
	KeyResult     = "result"
)

var (
	ErrFetchFailed     = errors.New("image fetch failed")
	ErrDetectFailed    = errors.New("food detection failed")
	ErrNormalizeFailed = errors.New("normalization failed")
	ErrCalculateFailed = errors.New("nutrition calculation failed")
	ErrRespondFailed   = errors.New("response assembly failed")
)

// Outcome classifies how a pipeline run terminated.
type Outcome string

const (
	// OutcomeAnalyzed means food was detected and totals were computed.
	OutcomeAnalyzed Outcome = "analyzed"
	// OutcomeNotFood means no strategy found food above the confidence floor.
	OutcomeNotFood Outcome = "not_food"
	// OutcomeNeedsQuantities means food was found but strict mode blocked
	// calculation for lack of usable quantities.
	OutcomeNeedsQuantities Outcome = "needs_quantities"
)

// Result is the terminal output of one pipeline execution.
type Result struct {
	AnalysisID  uuid.UUID         `json:"analysis_id"`
	Outcome     Outcome           `json:"outcome"`
	Detection   detect.Detection  `json:"detection"`
	Items       []normalize.Item  `json:"items"`
	Totals      *nutrition.Totals `json:"totals,omitempty"`
	Message     string            `json:"message"`
	ImageRef    string            `json:"image_ref"`
	CompletedAt time.Time         `json:"completed_at"`
}

// Analyzed reports whether the run produced a nutrition estimate.
func (r *Result) Analyzed() bool {
	return r.Outcome == OutcomeAnalyzed
}

// FoodNames returns the detected item names for persistence and display.
func (r *Result) FoodNames() []string {
	names := make([]string, len(r.Items))
	for i, item := range r.Items {
		names[i] = item.Name
	}
	return names
}

// EstimatedKcal returns the computed total when available, falling back to
// the detector's coarse estimate.
func (r *Result) EstimatedKcal() int {
	if r.Totals != nil && r.Totals.GramsTotal > 0 {
		return int(r.Totals.Totals.Kcal)
	}
	return r.Detection.EstimatedKcal
}
