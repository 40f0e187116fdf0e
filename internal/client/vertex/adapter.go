package vertexclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/viz-backend/internal/dto"
	"github.com/GregMSThompson/viz-backend/internal/errs"
)

const serviceName = "vertex"

type Adapter struct {
	client      *genai.Client
	model       string
	temperature *float32
	log         *slog.Logger
}

func NewAdapter(ctx context.Context, log *slog.Logger, projectID, region, model string, temperature *float32) (*Adapter, error) {
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client:      client,
		model:       model,
		temperature: temperature,
		log:         log,
	}, nil
}

func (a *Adapter) Close() error {
	err := a.client.Close()
	if err != nil && a.log != nil {
		a.log.Error("vertex adapter close failed", "error", err)
	}
	return err
}

// Generate sends a single instruction and returns the raw model text.
func (a *Adapter) Generate(ctx context.Context, instruction string) (string, error) {
	resp, err := a.GenerateContent(ctx, dto.VertexGenerateRequest{
		UserMessage:      instruction,
		ResponseMIMEType: "application/json",
		Temperature:      a.temperature,
	})
	if err != nil {
		return "", toGenerationError(err)
	}
	if resp.Text == "" {
		return "", errs.NewGenerationError(serviceName, false,
			fmt.Sprintf("vertex returned no text (finish reason %q)", resp.FinishReason), nil)
	}
	return resp.Text, nil
}

func (a *Adapter) GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	out := dto.VertexGenerateResponse{}

	modelName := req.Model
	if modelName == "" {
		modelName = a.model
	}
	if modelName == "" {
		return out, fmt.Errorf("vertex model is required")
	}
	if req.UserMessage == "" {
		return out, fmt.Errorf("vertex generate request has no content")
	}

	model := a.client.GenerativeModel(modelName)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}
	if req.ResponseMIMEType != "" {
		model.ResponseMIMEType = req.ResponseMIMEType
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.MaxOutputTokens != nil {
		model.SetMaxOutputTokens(*req.MaxOutputTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserMessage))
	if err != nil {
		return out, err
	}

	out.Raw = resp
	out.Text, out.FinishReason = parseContentResponse(resp)
	return out, nil
}

func parseContentResponse(resp *genai.GenerateContentResponse) (string, string) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ""
	}

	var text string
	candidate := resp.Candidates[0]
	if candidate == nil {
		return "", ""
	}
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if p, ok := part.(genai.Text); ok {
				text += string(p)
			}
		}
	}

	return text, candidate.FinishReason.String()
}

func toGenerationError(err error) *errs.GenerationError {
	var genErr *errs.GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	return errs.NewGenerationError(serviceName, isTransient(err), err.Error(), err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch status.Code(err) {
	case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded, codes.Aborted:
		return true
	}
	return false
}
