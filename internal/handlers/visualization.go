package handlers

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/viz-backend/internal/dto"
	"github.com/GregMSThompson/viz-backend/internal/errs"
	"github.com/GregMSThompson/viz-backend/internal/models"
	"github.com/GregMSThompson/viz-backend/internal/response"
)

const maxBodyBytes = 1 << 20

type visualizationService interface {
	GenerateVisualization(ctx context.Context, userText, componentHint string) (*models.Visualization, error)
	ListVisualizations(ctx context.Context) []models.Visualization
	GetVisualization(ctx context.Context, id string) (*models.Visualization, error)
	RemoveVisualization(ctx context.Context, id string)
	ClearVisualizations(ctx context.Context)
	RenderVisualization(ctx context.Context, id string) (dto.RenderInstruction, error)
	RenderAll(ctx context.Context) []dto.RenderInstruction
	ExportVisualization(ctx context.Context, id string) (string, []byte, error)
	ImportVisualization(ctx context.Context, raw string) (*models.Visualization, error)
}

type visualizationHandlers struct {
	ResponseHandler  response.ResponseHandler
	VisualizationSvc visualizationService
}

func NewVisualizationHandlers(deps *Deps) *visualizationHandlers {
	return &visualizationHandlers{
		ResponseHandler:  deps.ResponseHandler,
		VisualizationSvc: deps.VisualizationSvc,
	}
}

func (h *visualizationHandlers) VisualizationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListVisualizations)
	r.Post("/", h.GenerateVisualization)
	r.Delete("/", h.ClearVisualizations)
	r.Get("/render", h.RenderAll) // must be before /{visualizationId}
	r.Post("/import", h.ImportVisualization)
	r.Get("/{visualizationId}", h.GetVisualization)
	r.Delete("/{visualizationId}", h.RemoveVisualization)
	r.Get("/{visualizationId}/render", h.RenderVisualization)
	r.Get("/{visualizationId}/export", h.ExportVisualization)
	return r
}

func (h *visualizationHandlers) GenerateVisualization(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateVisualizationRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	viz, err := h.VisualizationSvc.GenerateVisualization(r.Context(), req.Prompt, req.Component)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, viz)
}

func (h *visualizationHandlers) ListVisualizations(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.VisualizationSvc.ListVisualizations(r.Context()))
}

func (h *visualizationHandlers) ClearVisualizations(w http.ResponseWriter, r *http.Request) {
	h.VisualizationSvc.ClearVisualizations(r.Context())
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *visualizationHandlers) GetVisualization(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "visualizationId")
	viz, err := h.VisualizationSvc.GetVisualization(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, viz)
}

// RemoveVisualization succeeds whether or not the id exists.
func (h *visualizationHandlers) RemoveVisualization(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "visualizationId")
	h.VisualizationSvc.RemoveVisualization(r.Context(), id)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *visualizationHandlers) RenderVisualization(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "visualizationId")
	ri, err := h.VisualizationSvc.RenderVisualization(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, ri)
}

func (h *visualizationHandlers) RenderAll(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.VisualizationSvc.RenderAll(r.Context()))
}

// ExportVisualization streams the stored document as a JSON attachment.
func (h *visualizationHandlers) ExportVisualization(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "visualizationId")
	name, body, err := h.VisualizationSvc.ExportVisualization(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *visualizationHandlers) ImportVisualization(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	viz, err := h.VisualizationSvc.ImportVisualization(r.Context(), string(raw))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, viz)
}
