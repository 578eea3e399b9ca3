package api

import (
	"context"

	"github.com/vidaleve/sofia/internal/analyses"
	"github.com/vidaleve/sofia/internal/annotation"
	"github.com/vidaleve/sofia/internal/config"
	"github.com/vidaleve/sofia/internal/conversations"
	"github.com/vidaleve/sofia/internal/detect"
	"github.com/vidaleve/sofia/internal/fetch"
	"github.com/vidaleve/sofia/internal/normalize"
	"github.com/vidaleve/sofia/internal/prompts"
	"github.com/vidaleve/sofia/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses      analyses.System
	Conversations conversations.System
	Prompts       prompts.System
}

// NewDomain creates all domain systems from the API runtime. The detection
// chain is assembled here: the object-detection strategy joins only when
// enabled and its client initializes; the vision-language strategy is always
// present.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	conversationsSystem := conversations.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	detector := buildDetector(cfg, runtime, promptsSystem)

	var refiner *normalize.Refiner
	if cfg.Pipeline.RefineUnresolvedNames {
		refiner = normalize.NewRefiner(runtime.Agent, promptsSystem, runtime.Logger)
	}

	var annotator *annotation.Client
	if cfg.Annotation.Enabled {
		annotator = annotation.New(
			cfg.Annotation.Endpoint,
			cfg.Annotation.Token,
			cfg.Annotation.Project,
			cfg.Annotation.TimeoutDuration(),
			runtime.Logger,
		)
	}

	analysesSystem := analyses.New(analyses.Dependencies{
		DB:            runtime.Database.Connection(),
		Agent:         runtime.Agent,
		Logger:        runtime.Logger,
		Pagination:    runtime.Pagination,
		Storage:       runtime.Storage,
		Prompts:       promptsSystem,
		Conversations: conversationsSystem,
		Catalog:       runtime.Catalog,
		Fetcher: fetch.New(
			cfg.Pipeline.FetchTimeoutDuration(),
			cfg.Pipeline.FetchUserAgent,
			cfg.Pipeline.MaxImageBytes(),
		),
		Detector:   detector,
		Refiner:    refiner,
		Annotation: annotator,
		Options: workflow.Options{
			StrictMode:           cfg.Pipeline.Strict(),
			PortionMode:          cfg.Pipeline.PortionMode,
			MinPortionConfidence: cfg.Pipeline.MinPortionConfidence,
		},
	})

	return &Domain{
		Analyses:      analysesSystem,
		Conversations: conversationsSystem,
		Prompts:       promptsSystem,
	}
}

func buildDetector(cfg *config.Config, runtime *Runtime, ps prompts.System) *detect.Chain {
	var strategies []detect.Strategy

	if cfg.Detector.Enabled {
		objects, err := detect.NewObjectStrategy(
			context.Background(),
			cfg.Detector.CredentialsFile,
			cfg.Detector.MinScore,
		)
		if err != nil {
			runtime.Logger.Warn("object detection strategy unavailable", "error", err)
		} else {
			strategies = append(strategies, objects)
		}
	}

	strategies = append(
		strategies,
		detect.NewVisionLangStrategy(runtime.Agent, ps, runtime.Logger),
	)

	return detect.NewChain(cfg.Pipeline.ConfidenceFloor, runtime.Logger, strategies...)
}
