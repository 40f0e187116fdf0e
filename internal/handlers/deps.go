package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/viz-backend/internal/response"
)

type Deps struct {
	Log              *slog.Logger
	ResponseHandler  response.ResponseHandler
	VisualizationSvc visualizationService
}
