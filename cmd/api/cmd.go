package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/GregMSThompson/viz-backend/internal/bootstrap"
	"github.com/GregMSThompson/viz-backend/internal/config"
	"github.com/GregMSThompson/viz-backend/internal/handlers"
	"github.com/GregMSThompson/viz-backend/internal/response"
	"github.com/GregMSThompson/viz-backend/internal/router"
	"github.com/GregMSThompson/viz-backend/internal/services"
	"github.com/GregMSThompson/viz-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	vstore := store.NewVisualizationStore()

	// services
	vserv := services.NewVisualizationService(bs.Generator, vstore, cfg.GenerationTimeout)

	// response handler
	rh := response.New(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.VisualizationSvc = vserv

	// router
	r := router.NewRouter(deps)
	bs.Log.Info("server listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
