package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/GregMSThompson/viz-backend/internal/dto"
	"github.com/GregMSThompson/viz-backend/internal/errs"
	"github.com/GregMSThompson/viz-backend/internal/models"
	"github.com/GregMSThompson/viz-backend/pkg/logger"
)

// generator is the generative-text transport. It returns text or fails.
type generator interface {
	Generate(ctx context.Context, instruction string) (string, error)
}

// visualizationStore is the ordered in-memory collection.
type visualizationStore interface {
	Add(ctx context.Context, spec models.VisualizationSpec) string
	Get(ctx context.Context, id string) (*models.Visualization, error)
	Remove(ctx context.Context, id string)
	Clear(ctx context.Context)
	List(ctx context.Context) []models.Visualization
}

type visualizationService struct {
	gen     generator
	store   visualizationStore
	timeout time.Duration
}

func NewVisualizationService(gen generator, store visualizationStore, timeout time.Duration) *visualizationService {
	return &visualizationService{gen: gen, store: store, timeout: timeout}
}

// GenerateVisualization runs the prompt-to-visualization pipeline and stores the result.
//
// Any generation or parsing failure is replaced by models.FallbackSpec so the caller
// always receives a renderable visualization. Only an empty prompt or an unknown
// component hint is reported as an error, and neither reaches the generator.
func (s *visualizationService) GenerateVisualization(ctx context.Context, userText, componentHint string) (*models.Visualization, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(userText) == "" {
		return nil, errs.NewValidationError("prompt is required")
	}
	hint, err := parseHint(componentHint)
	if err != nil {
		return nil, err
	}

	log.Info("generating visualization", "hint", string(hint), "prompt_length", len(userText))

	spec, err := s.generateSpec(ctx, userText, hint)
	if err != nil {
		log.Warn("visualization generation failed, using fallback",
			"kind", errs.Kind(err),
			"error", err.Error())
		spec = models.FallbackSpec()
	}

	id := s.store.Add(ctx, spec)
	log, _ = logger.With(ctx, "visualization_id", id)
	log.Info("visualization stored", "type", spec.Type)

	return &models.Visualization{VisualizationSpec: spec, ID: id}, nil
}

// generateSpec is the fallible stage of the pipeline; GenerateVisualization maps
// every error it returns to the fallback.
func (s *visualizationService) generateSpec(ctx context.Context, userText string, hint models.ComponentKind) (models.VisualizationSpec, error) {
	instruction := BuildPrompt(userText, hint)

	// An abandoned request still completes and stores its result.
	callCtx := context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, s.timeout)
		defer cancel()
	}

	raw, err := s.gen.Generate(callCtx, instruction)
	if err != nil {
		var genErr *errs.GenerationError
		if !errors.As(err, &genErr) {
			genErr = errs.NewGenerationError("unknown", errors.Is(err, context.DeadlineExceeded), err.Error(), err)
		}
		log := logger.FromContext(ctx)
		log.Warn("generation service call failed", "service", genErr.Service, "transient", genErr.Transient)
		return models.VisualizationSpec{}, genErr
	}

	if logger.IsDebugEnabled(ctx) {
		logger.FromContext(ctx).Debug("generator returned", "bytes", len(raw), "preview", preview(raw))
	}

	spec, dropped, err := parseSpec(raw)
	if dropped > 0 {
		logger.FromContext(ctx).Debug("dropped invalid data points", "count", dropped)
	}
	if err != nil {
		return models.VisualizationSpec{}, err
	}
	return spec, nil
}

// preview shortens s to at most 200 bytes without splitting a rune.
func preview(s string) string {
	const n = 200
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func parseHint(hint string) (models.ComponentKind, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" || hint == models.ComponentAuto {
		return "", nil
	}
	kind, ok := models.ParseComponentKind(hint)
	if !ok {
		return "", errs.NewValidationError(fmt.Sprintf("unknown component %q", hint))
	}
	return kind, nil
}

func (s *visualizationService) ListVisualizations(ctx context.Context) []models.Visualization {
	return s.store.List(ctx)
}

func (s *visualizationService) GetVisualization(ctx context.Context, id string) (*models.Visualization, error) {
	return s.store.Get(ctx, id)
}

func (s *visualizationService) RemoveVisualization(ctx context.Context, id string) {
	s.store.Remove(ctx, id)
}

func (s *visualizationService) ClearVisualizations(ctx context.Context) {
	s.store.Clear(ctx)
}

func (s *visualizationService) RenderVisualization(ctx context.Context, id string) (dto.RenderInstruction, error) {
	v, err := s.store.Get(ctx, id)
	if err != nil {
		return dto.RenderInstruction{}, err
	}
	return Resolve(*v), nil
}

// RenderAll resolves every stored visualization in collection order.
func (s *visualizationService) RenderAll(ctx context.Context) []dto.RenderInstruction {
	list := s.store.List(ctx)
	out := make([]dto.RenderInstruction, len(list))
	for i, v := range list {
		out[i] = Resolve(v)
	}
	return out
}

// ExportVisualization serializes a stored visualization for download.
func (s *visualizationService) ExportVisualization(ctx context.Context, id string) (string, []byte, error) {
	v, err := s.store.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("encode visualization %s: %w", id, err)
	}
	return ExportFilename(*v), body, nil
}

func ExportFilename(v models.Visualization) string {
	title := v.Title
	if title == "" {
		title = "visualization"
	}
	return fmt.Sprintf("%s-%s.json", title, v.ID)
}

// ImportVisualization validates a spec document, such as a previous export,
// and adds it under a fresh id. Validation errors are returned to the caller.
func (s *visualizationService) ImportVisualization(ctx context.Context, raw string) (*models.Visualization, error) {
	spec, dropped, err := parseSpec(raw)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		logger.FromContext(ctx).Debug("dropped invalid data points", "count", dropped)
	}
	id := s.store.Add(ctx, spec)
	logger.FromContext(ctx).Info("visualization imported", "visualization_id", id, "type", spec.Type)
	return &models.Visualization{VisualizationSpec: spec, ID: id}, nil
}
