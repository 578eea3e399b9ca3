package detect

import (
	"context"
	"log/slog"

	"github.com/vidaleve/sofia/internal/fetch"
)

// Chain runs strategies in registration order. The first detection that finds
// food at or above the floor short-circuits the chain; otherwise the highest
// confidence result seen is returned so callers can still report what little
// was found.
type Chain struct {
	strategies []Strategy
	floor      float64
	logger     *slog.Logger
}

// NewChain creates a detection chain with the given confidence floor.
// A floor of 0 uses ConfidenceFloor.
func NewChain(floor float64, logger *slog.Logger, strategies ...Strategy) *Chain {
	if floor <= 0 {
		floor = ConfidenceFloor
	}
	return &Chain{
		strategies: strategies,
		floor:      floor,
		logger:     logger,
	}
}

// Floor returns the confidence floor the chain gates detections with.
func (c *Chain) Floor() float64 {
	return c.floor
}

// Detect runs the chain against an image. Strategy errors and unavailability
// degrade to the next strategy rather than failing the detection; only a
// fully empty chain returns an error. When every strategy is unavailable the
// result is a not-food detection with zero confidence.
func (c *Chain) Detect(ctx context.Context, img *fetch.Image) (*Detection, error) {
	if len(c.strategies) == 0 {
		return nil, ErrNoStrategies
	}

	var best *Detection
	for _, strat := range c.strategies {
		d, err := strat.Detect(ctx, img)
		if err != nil {
			c.logger.WarnContext(
				ctx, "detection strategy failed",
				"strategy", strat.Name(),
				"error", err,
			)
			continue
		}
		if d == nil {
			c.logger.DebugContext(
				ctx, "detection strategy unavailable",
				"strategy", strat.Name(),
			)
			continue
		}

		d.Strategy = strat.Name()
		if d.Confident(c.floor) {
			c.logger.InfoContext(
				ctx, "detection accepted",
				"strategy", strat.Name(),
				"confidence", d.Confidence,
				"items", len(d.Items),
			)
			return d, nil
		}

		if best == nil || d.Confidence > best.Confidence {
			best = d
		}
	}

	if best == nil {
		best = &Detection{Strategy: "none"}
	}

	c.logger.InfoContext(
		ctx, "no strategy cleared confidence floor",
		"strategy", best.Strategy,
		"confidence", best.Confidence,
		"floor", c.floor,
	)
	return best, nil
}
