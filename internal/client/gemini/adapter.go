package geminiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/GregMSThompson/viz-backend/internal/errs"
)

const (
	serviceName     = "gemini"
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
)

// Adapter calls the Gemini generateContent REST endpoint with an API key.
type Adapter struct {
	endpoint    string
	model       string
	apiKey      string
	temperature *float32
	client      *http.Client
	log         *slog.Logger
}

func NewAdapter(log *slog.Logger, client *http.Client, endpoint, model, apiKey string, temperature *float32) *Adapter {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Adapter{
		endpoint:    strings.TrimSuffix(endpoint, "/"),
		model:       model,
		apiKey:      apiKey,
		temperature: temperature,
		client:      client,
		log:         log,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string   `json:"responseMimeType,omitempty"`
	Temperature      *float32 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends a single instruction and returns the raw model text.
func (a *Adapter) Generate(ctx context.Context, instruction string) (string, error) {
	if a.apiKey == "" {
		return "", errs.NewGenerationError(serviceName, false, "gemini api key is not configured", nil)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: instruction}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			Temperature:      a.temperature,
		},
	})
	if err != nil {
		return "", errs.NewGenerationError(serviceName, false, "failed to marshal request", err)
	}

	reqURL := fmt.Sprintf("%s/%s:generateContent", a.endpoint, url.PathEscape(a.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", errs.NewGenerationError(serviceName, false, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		transient := errors.Is(err, context.DeadlineExceeded)
		return "", errs.NewGenerationError(serviceName, transient, "gemini request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.NewGenerationError(serviceName, true, "failed to read gemini response", err)
	}

	if resp.StatusCode != http.StatusOK {
		transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", errs.NewGenerationError(serviceName, transient,
			fmt.Sprintf("gemini returned %d: %s", resp.StatusCode, truncate(string(raw), 200)), nil)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", errs.NewGenerationError(serviceName, false, "failed to decode gemini response", err)
	}
	if out.Error != nil {
		return "", errs.NewGenerationError(serviceName, false,
			fmt.Sprintf("gemini error %d: %s", out.Error.Code, out.Error.Message), nil)
	}
	if len(out.Candidates) == 0 {
		return "", errs.NewGenerationError(serviceName, false, "gemini returned no candidates", nil)
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return "", errs.NewGenerationError(serviceName, false,
			fmt.Sprintf("gemini returned no text (finish reason %q)", out.Candidates[0].FinishReason), nil)
	}

	if a.log != nil {
		a.log.Debug("gemini generation completed", "model", a.model, "bytes", text.Len())
	}
	return text.String(), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
