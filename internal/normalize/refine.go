package normalize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/vidaleve/sofia/internal/detect"
	"github.com/vidaleve/sofia/internal/prompts"
	"github.com/vidaleve/sofia/pkg/formatting"
)

type refineResponse struct {
	Items []refineItem `json:"items"`
}

type refineItem struct {
	Name string `json:"name"`
}

// Refiner asks a language model for a second opinion on food names that did
// not resolve against the catalog. The model result is advisory only: a
// suggested name is adopted when it resolves, and any model failure keeps the
// local normalization untouched.
type Refiner struct {
	cfg     gaconfig.AgentConfig
	prompts detect.PromptSource
	logger  *slog.Logger
}

func NewRefiner(cfg gaconfig.AgentConfig, ps detect.PromptSource, logger *slog.Logger) *Refiner {
	return &Refiner{cfg: cfg, prompts: ps, logger: logger}
}

// Refine re-resolves unresolved items through the model. The prompt receives
// only names and the response must carry the same count in the same order;
// anything else is discarded.
func (r *Refiner) Refine(ctx context.Context, n *Normalizer, items []Item) []Item {
	var unresolved []int
	for i := range items {
		if !items[i].Resolved() {
			unresolved = append(unresolved, i)
		}
	}
	if len(unresolved) == 0 {
		return items
	}

	names := make([]string, len(unresolved))
	for i, idx := range unresolved {
		names[i] = items[idx].Input
	}

	suggested, err := r.suggest(ctx, names)
	if err != nil {
		r.logger.WarnContext(ctx, "name refinement failed, keeping local normalization", "error", err)
		return items
	}
	if len(suggested) != len(unresolved) {
		r.logger.WarnContext(
			ctx, "name refinement returned mismatched item count",
			"expected", len(unresolved),
			"received", len(suggested),
		)
		return items
	}

	for i, idx := range unresolved {
		key, ok := n.catalog.Resolve(suggested[i])
		if !ok {
			continue
		}
		items[idx].Key = key
		items[idx].Name = strings.ReplaceAll(key, "_", " ")
	}

	return items
}

func (r *Refiner) suggest(ctx context.Context, names []string) ([]string, error) {
	instructions, err := r.prompts.Instructions(ctx, prompts.StageNormalize)
	if err != nil {
		return nil, err
	}

	spec, err := r.prompts.Spec(ctx, prompts.StageNormalize)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\nItems to canonicalize:\n")
	for _, name := range names {
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}

	a, err := agent.New(&r.cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, sb.String())
	if err != nil {
		return nil, fmt.Errorf("chat call: %w", err)
	}

	parsed, err := formatting.Parse[refineResponse](resp.Content())
	if err != nil {
		return nil, fmt.Errorf("parse refine response: %w", err)
	}

	out := make([]string, len(parsed.Items))
	for i, item := range parsed.Items {
		out[i] = item.Name
	}
	return out, nil
}
