package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/vidaleve/sofia/internal/detect"
	"github.com/vidaleve/sofia/internal/fetch"
)

// DetectNode returns a state node that runs the detection chain against the
// fetched image. Strategy-level failures never surface here; the chain
// degrades internally and the decision gate downstream handles low
// confidence results.
func DetectNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		img, err := extractImage(s)
		if err != nil {
			return s, fmt.Errorf("detect: %w", err)
		}

		d, err := rt.Detector.Detect(ctx, img)
		if err != nil {
			return s, fmt.Errorf("detect: %w: %w", ErrDetectFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "detect node complete",
			"strategy", d.Strategy,
			"is_food", d.IsFood,
			"confidence", d.Confidence,
			"items", len(d.Items),
		)

		s = s.Set(KeyDetection, d)
		return s, nil
	})
}

func extractImage(s state.State) (*fetch.Image, error) {
	val, ok := s.Get(KeyImage)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in state", ErrDetectFailed, KeyImage)
	}

	img, ok := val.(*fetch.Image)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not *fetch.Image", ErrDetectFailed, KeyImage)
	}

	return img, nil
}

func extractDetection(s state.State) (*detect.Detection, error) {
	val, ok := s.Get(KeyDetection)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyDetection)
	}

	d, ok := val.(*detect.Detection)
	if !ok {
		return nil, fmt.Errorf("%s is not *detect.Detection", KeyDetection)
	}

	return d, nil
}

// foodDetected is the edge condition gating the rest of the pipeline on the
// detection result clearing the confidence floor.
func foodDetected(rt *Runtime) func(state.State) bool {
	return func(s state.State) bool {
		d, err := extractDetection(s)
		if err != nil {
			return false
		}
		return d.Confident(rt.Detector.Floor())
	}
}
