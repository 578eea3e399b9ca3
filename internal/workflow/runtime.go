package workflow

import (
	"log/slog"

	"github.com/vidaleve/sofia/internal/detect"
	"github.com/vidaleve/sofia/internal/fetch"
	"github.com/vidaleve/sofia/internal/foods"
	"github.com/vidaleve/sofia/internal/normalize"
	"github.com/vidaleve/sofia/internal/prompts"
	"github.com/vidaleve/sofia/pkg/storage"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Portion estimation modes. In ai_strict mode only model-estimated quantities
// are used and missing ones block calculation; defaults mode fills gaps from
// the portion defaults table.
const (
	PortionModeAIStrict = "ai_strict"
	PortionModeDefaults = "defaults"
)

// Options carries the pipeline tuning knobs resolved from configuration.
type Options struct {
	StrictMode           bool
	PortionMode          string
	MinPortionConfidence float64
}

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
// Refiner and Storage are optional; nil disables name refinement and image
// archiving respectively.
type Runtime struct {
	Agent      gaconfig.AgentConfig
	Fetcher    *fetch.Fetcher
	Detector   *detect.Chain
	Normalizer *normalize.Normalizer
	Refiner    *normalize.Refiner
	Catalog    *foods.Catalog
	Storage    storage.System
	Prompts    prompts.System
	Logger     *slog.Logger
	Options    Options
}
