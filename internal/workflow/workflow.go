package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Request carries the caller-supplied inputs for one analysis run.
type Request struct {
	Source      string
	UserName    string
	CurrentMeal string
}

// Execute runs the analysis pipeline for a single image. It builds the state
// graph (fetch → detect → normalize → calculate → respond, with not-food
// short-circuiting straight to respond), executes it, and extracts the
// Result from the final state. The returned Result carries terminal outcomes
// like not-food as data; an error here means the pipeline itself could not
// run, image fetch failure included.
func Execute(ctx context.Context, rt *Runtime, req Request) (*Result, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyAnalysisID, uuid.New())
	initialState = initialState.Set(KeySource, req.Source)
	initialState = initialState.Set(KeyUserName, req.UserName)
	initialState = initialState.Set(KeyMeal, req.CurrentMeal)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("sofia-analyze")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("fetch", FetchNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("detect", DetectNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("normalize", NormalizeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("calculate", CalculateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("respond", RespondNode(rt)); err != nil {
		return nil, err
	}

	// fetch → detect (unconditional)
	if err := graph.AddEdge("fetch", "detect", nil); err != nil {
		return nil, err
	}

	confident := foodDetected(rt)

	// detect → normalize (when the detection clears the confidence floor)
	if err := graph.AddEdge("detect", "normalize", confident); err != nil {
		return nil, err
	}

	// detect → respond (not-food terminal outcome)
	if err := graph.AddEdge("detect", "respond", state.Not(confident)); err != nil {
		return nil, err
	}

	// normalize → calculate → respond (unconditional)
	if err := graph.AddEdge("normalize", "calculate", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("calculate", "respond", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("fetch"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("respond"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State) (*Result, error) {
	val, ok := s.Get(KeyResult)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyResult)
	}

	result, ok := val.(Result)
	if !ok {
		return nil, fmt.Errorf("%s is not Result", KeyResult)
	}

	return &result, nil
}
