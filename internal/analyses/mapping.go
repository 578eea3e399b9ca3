package analyses

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/vidaleve/sofia/pkg/query"
	"github.com/vidaleve/sofia/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "analyses", "a").
	Project("id", "ID").
	Project("user_ref", "UserRef").
	Project("image_ref", "ImageRef").
	Project("foods_detected", "FoodsDetected").
	Project("estimated_calories", "EstimatedCalories").
	Project("confidence", "Confidence").
	Project("meal_type", "MealType").
	Project("strategy", "Strategy").
	Project("message", "Message").
	Project("status", "Status").
	Project("annotation_task_id", "AnnotationTaskID").
	Project("totals", "Totals").
	Project("model_name", "ModelName").
	Project("provider_name", "ProviderName").
	Project("analyzed_at", "AnalyzedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "AnalyzedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for analysis queries.
// Nil fields are ignored. Statuses matches any of the given values; the
// remaining fields use exact matching.
type Filters struct {
	UserRef  *string  `json:"user_ref,omitempty"`
	Statuses []string `json:"statuses,omitempty"`
	MealType *string  `json:"meal_type,omitempty"`
	Strategy *string  `json:"strategy,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	statuses := make([]any, len(f.Statuses))
	for i, s := range f.Statuses {
		statuses[i] = s
	}

	return b.
		WhereEquals("UserRef", f.UserRef).
		WhereIn("Status", statuses).
		WhereEquals("MealType", f.MealType).
		WhereEquals("Strategy", f.Strategy)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// The status parameter accepts a comma-separated list.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if u := values.Get("user_ref"); u != "" {
		f.UserRef = &u
	}

	if s := values.Get("status"); s != "" {
		for _, status := range strings.Split(s, ",") {
			if trimmed := strings.TrimSpace(status); trimmed != "" {
				f.Statuses = append(f.Statuses, trimmed)
			}
		}
	}

	if m := values.Get("meal_type"); m != "" {
		f.MealType = &m
	}

	if st := values.Get("strategy"); st != "" {
		f.Strategy = &st
	}

	return f
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var a Analysis
	var foodsRaw, totalsRaw []byte

	err := s.Scan(
		&a.ID,
		&a.UserRef,
		&a.ImageRef,
		&foodsRaw,
		&a.EstimatedCalories,
		&a.Confidence,
		&a.MealType,
		&a.Strategy,
		&a.Message,
		&a.Status,
		&a.AnnotationTaskID,
		&totalsRaw,
		&a.ModelName,
		&a.ProviderName,
		&a.AnalyzedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		return a, err
	}

	if len(foodsRaw) > 0 {
		if err := json.Unmarshal(foodsRaw, &a.FoodsDetected); err != nil {
			return a, fmt.Errorf("unmarshal foods_detected: %w", err)
		}
	}

	if a.FoodsDetected == nil {
		a.FoodsDetected = []string{}
	}

	if len(totalsRaw) > 0 {
		if err := json.Unmarshal(totalsRaw, &a.Totals); err != nil {
			return a, fmt.Errorf("unmarshal totals: %w", err)
		}
	}

	return a, nil
}
