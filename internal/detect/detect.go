// Package detect identifies foods in meal images through an ordered chain of
// detection strategies. Each strategy produces candidates with a confidence
// score; the chain returns the first detection that clears the confidence
// floor, falling back to the best result seen when none does.
package detect

import (
	"context"
	"errors"

	"github.com/vidaleve/sofia/internal/fetch"
)

// Detection chain defaults. ObjectMinScore filters individual object
// localization annotations; ConfidenceFloor gates whole detections.
const (
	ObjectMinScore  = 0.35
	ConfidenceFloor = 0.5
)

var (
	ErrNoStrategies = errors.New("no detection strategies configured")
)

// Candidate is a single food or drink identified in an image. Grams and
// Milliliters are nil when the strategy produced no quantity estimate;
// exactly one of them is set when it did.
type Candidate struct {
	Name        string   `json:"name"`
	Grams       *float64 `json:"grams,omitempty"`
	Milliliters *float64 `json:"milliliters,omitempty"`
	Preparation string   `json:"preparation,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// Liquid reports whether the candidate carries a volume estimate.
func (c *Candidate) Liquid() bool {
	return c.Milliliters != nil && c.Grams == nil
}

// Detection is the outcome of one strategy run against one image.
type Detection struct {
	IsFood        bool        `json:"is_food"`
	Confidence    float64     `json:"confidence"`
	Items         []Candidate `json:"items"`
	EstimatedKcal int         `json:"estimated_calories"`
	MealType      string      `json:"meal_type,omitempty"`
	Strategy      string      `json:"strategy"`
}

// Confident reports whether the detection found food and clears the floor.
func (d *Detection) Confident(floor float64) bool {
	return d.IsFood && d.Confidence >= floor
}

// Strategy is a single food detection approach. Detect returns (nil, nil)
// when the strategy is unavailable (not configured, dependency down); the
// chain skips it and moves on. A non-nil error is logged and treated the
// same way.
type Strategy interface {
	Name() string
	Detect(ctx context.Context, img *fetch.Image) (*Detection, error)
}
