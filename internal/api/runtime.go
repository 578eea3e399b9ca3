package api

import (
	"github.com/vidaleve/sofia/internal/config"
	"github.com/vidaleve/sofia/internal/infrastructure"
	"github.com/vidaleve/sofia/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Agent:     cfg.Agent,
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Catalog:   infra.Catalog,
		},
		Pagination: cfg.API.Pagination,
	}
}
