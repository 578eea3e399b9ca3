package api

import (
	"net/http"

	"github.com/vidaleve/sofia/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Analyses.Handler().Routes(),
	)

	routes.Register(
		mux,
		domain.Conversations.Handler().Routes(),
	)

	routes.Register(
		mux,
		domain.Prompts.Handler().Routes(),
	)

	sh := newStorageHandler(runtime.Storage, runtime.Logger)
	routes.Register(mux, sh.routes())
}
