package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/viz-backend/internal/handlers"
	"github.com/GregMSThompson/viz-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	vh := handlers.NewVisualizationHandlers(deps)
	ch := handlers.NewCatalogHandlers(deps)

	r.Get("/healthz", handlers.Healthz)
	r.Mount("/visualizations", vh.VisualizationRoutes())
	r.Mount("/catalog", ch.CatalogRoutes())
	return r
}
