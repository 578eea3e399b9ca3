package detect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/vidaleve/sofia/internal/fetch"
	"github.com/vidaleve/sofia/internal/foods"
	"github.com/vidaleve/sofia/internal/prompts"
	"github.com/vidaleve/sofia/pkg/formatting"
)

// PromptSource resolves tunable instructions and immutable response
// specifications for a pipeline stage. Satisfied by prompts.System.
type PromptSource interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
	Spec(ctx context.Context, stage prompts.Stage) (string, error)
}

type coarseResponse struct {
	IsFood            bool     `json:"is_food"`
	Confidence        float64  `json:"confidence"`
	FoodsDetected     []string `json:"foods_detected"`
	LiquidsDetected   []string `json:"liquids_detected"`
	EstimatedCalories int      `json:"estimated_calories"`
	MealType          string   `json:"meal_type"`
}

type portionsResponse struct {
	Items []portionItem `json:"items"`
}

type portionItem struct {
	Name        string  `json:"name"`
	Grams       float64 `json:"grams"`
	Milliliters float64 `json:"milliliters"`
	Preparation string  `json:"preparation"`
	Confidence  float64 `json:"confidence"`
}

// VisionLangStrategy detects foods with a vision-language model in two
// passes. The first pass answers the coarse question (is this food, what is
// visible); the second pass runs only when food was found and estimates per
// item portions. A fresh agent is created per pass so provider sessions never
// leak between requests.
type VisionLangStrategy struct {
	cfg     gaconfig.AgentConfig
	prompts PromptSource
	logger  *slog.Logger
}

// NewVisionLangStrategy creates the vision-language strategy from a go-agents
// agent configuration.
func NewVisionLangStrategy(cfg gaconfig.AgentConfig, ps PromptSource, logger *slog.Logger) *VisionLangStrategy {
	return &VisionLangStrategy{cfg: cfg, prompts: ps, logger: logger}
}

func (s *VisionLangStrategy) Name() string {
	return "vision-language"
}

func (s *VisionLangStrategy) Detect(ctx context.Context, img *fetch.Image) (*Detection, error) {
	coarse, err := s.detectPass(ctx, img)
	if err != nil {
		return nil, err
	}

	d := &Detection{
		IsFood:        coarse.IsFood,
		Confidence:    coarse.Confidence,
		EstimatedKcal: coarse.EstimatedCalories,
		MealType:      coarse.MealType,
	}

	for _, name := range coarse.FoodsDetected {
		d.Items = append(d.Items, Candidate{Name: name, Confidence: coarse.Confidence})
	}
	for _, name := range coarse.LiquidsDetected {
		ml := 0.0
		d.Items = append(d.Items, Candidate{Name: name, Milliliters: &ml, Confidence: coarse.Confidence})
	}

	if !d.IsFood {
		return d, nil
	}

	portions, err := s.portionsPass(ctx, img)
	if err != nil {
		// The coarse result is still usable; portion estimation is an
		// enrichment, not a requirement.
		s.logger.WarnContext(ctx, "portions pass failed", "error", err)
		return d, nil
	}

	mergePortions(d, portions.Items)
	return d, nil
}

// detectPass runs the coarse pass. A model response that cannot be parsed is
// treated as a not-food answer rather than an error so the chain does not
// fall through on flaky model output.
func (s *VisionLangStrategy) detectPass(ctx context.Context, img *fetch.Image) (*coarseResponse, error) {
	resp, err := s.vision(ctx, prompts.StageDetect, img)
	if err != nil {
		return nil, err
	}

	parsed, err := formatting.Parse[coarseResponse](resp)
	if err != nil {
		if errors.Is(err, formatting.ErrParseFailed) {
			s.logger.WarnContext(ctx, "unparseable detect response, treating as not food")
			return &coarseResponse{}, nil
		}
		return nil, err
	}

	return &parsed, nil
}

func (s *VisionLangStrategy) portionsPass(ctx context.Context, img *fetch.Image) (*portionsResponse, error) {
	resp, err := s.vision(ctx, prompts.StagePortions, img)
	if err != nil {
		return nil, err
	}

	parsed, err := formatting.Parse[portionsResponse](resp)
	if err != nil {
		return nil, fmt.Errorf("parse portions response: %w", err)
	}

	return &parsed, nil
}

func (s *VisionLangStrategy) vision(ctx context.Context, stage prompts.Stage, img *fetch.Image) (string, error) {
	prompt, err := composePrompt(ctx, s.prompts, stage)
	if err != nil {
		return "", err
	}

	a, err := agent.New(&s.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Vision(ctx, prompt, []string{img.DataURI()})
	if err != nil {
		return "", fmt.Errorf("vision call for %s: %w", stage, err)
	}

	return resp.Content(), nil
}

func composePrompt(ctx context.Context, ps PromptSource, stage prompts.Stage) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	return instructions + "\n\n" + spec, nil
}

// mergePortions folds portion estimates into the coarse candidate list,
// matching by accent-folded name. Quantities from the portions pass replace
// unset ones; confidence keeps the higher of the two. Items the portions pass
// saw but the coarse pass missed are appended. Overall confidence ends up as
// the max of both passes.
func mergePortions(d *Detection, items []portionItem) {
	index := map[string]int{}
	for i := range d.Items {
		index[foods.Fold(d.Items[i].Name)] = i
	}

	for _, item := range items {
		c := candidateFromPortion(item)

		if i, ok := index[foods.Fold(item.Name)]; ok {
			existing := &d.Items[i]
			if existing.Grams == nil && c.Grams != nil {
				existing.Grams = c.Grams
				existing.Milliliters = nil
			}
			if existing.Grams == nil && c.Milliliters != nil {
				existing.Milliliters = c.Milliliters
			}
			if existing.Preparation == "" {
				existing.Preparation = c.Preparation
			}
			if c.Confidence > existing.Confidence {
				existing.Confidence = c.Confidence
			}
			continue
		}

		index[foods.Fold(item.Name)] = len(d.Items)
		d.Items = append(d.Items, c)
	}

	for i := range d.Items {
		if d.Items[i].Confidence > d.Confidence {
			d.Confidence = d.Items[i].Confidence
		}
	}
}

func candidateFromPortion(item portionItem) Candidate {
	c := Candidate{
		Name:        item.Name,
		Preparation: item.Preparation,
		Confidence:  item.Confidence,
	}
	if item.Grams > 0 {
		g := item.Grams
		c.Grams = &g
	} else if item.Milliliters > 0 {
		ml := item.Milliliters
		c.Milliliters = &ml
	}
	return c
}
