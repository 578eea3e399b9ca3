// Package analyses implements the meal analysis domain for Sofia.
// It provides types, data access, and business logic for running the image
// analysis pipeline, storing its results, and handling user confirmation of
// the detected meal.
package analyses

import (
	"time"

	"github.com/google/uuid"

	"github.com/vidaleve/sofia/internal/nutrition"
)

// Confirmation statuses for a stored analysis.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
)

// GuestUser is the user reference for anonymous requests. Guest analyses are
// computed and returned but never persisted.
const GuestUser = "guest"

// Analysis represents a stored meal analysis result. It mirrors the analyses
// table schema with flattened pipeline metadata. Rows are created once per
// image submission and mutated only by confirmation or rejection.
type Analysis struct {
	ID                uuid.UUID         `json:"id"`
	UserRef           string            `json:"user_ref"`
	ImageRef          string            `json:"image_ref"`
	FoodsDetected     []string          `json:"foods_detected"`
	EstimatedCalories int               `json:"estimated_calories"`
	Confidence        float64           `json:"confidence"`
	MealType          string            `json:"meal_type"`
	Strategy          string            `json:"strategy"`
	Message           string            `json:"message"`
	Status            string            `json:"status"`
	AnnotationTaskID  *string           `json:"annotation_task_id"`
	Totals            *nutrition.Totals `json:"totals"`
	ModelName         string            `json:"model_name"`
	ProviderName      string            `json:"provider_name"`
	AnalyzedAt        time.Time         `json:"analyzed_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// UserContext carries optional personalization hints from the caller.
type UserContext struct {
	UserName    string `json:"user_name,omitempty"`
	CurrentMeal string `json:"current_meal,omitempty"`
}

// AnalyzeCommand carries the data needed to analyze a meal image.
type AnalyzeCommand struct {
	ImageURL    string       `json:"image_url"`
	UserID      string       `json:"user_id"`
	UserContext *UserContext `json:"user_context,omitempty"`
}

// Guest reports whether the command comes from an anonymous user.
func (c *AnalyzeCommand) Guest() bool {
	return c.UserID == "" || c.UserID == GuestUser
}

// ConfirmItem is one user-corrected food entry.
type ConfirmItem struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
}

// ConfirmCommand carries the user-corrected item list for confirmation.
// An empty Items list confirms the analysis as Sofia reported it.
type ConfirmCommand struct {
	Items []ConfirmItem `json:"items"`
}
