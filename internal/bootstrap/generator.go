package bootstrap

import (
	"context"
	"errors"
	"net/http"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	geminiclient "github.com/GregMSThompson/viz-backend/internal/client/gemini"
	vertexclient "github.com/GregMSThompson/viz-backend/internal/client/vertex"
	"github.com/GregMSThompson/viz-backend/internal/config"
	"github.com/GregMSThompson/viz-backend/internal/store"
)

func (bs *Bootstrap) initVertex(ctx context.Context, cfg *config.Config) (*vertexclient.Adapter, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, errors.New("PROJECTID and REGION are required for the vertex generator")
	}
	adapter, err := vertexclient.NewAdapter(ctx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel, cfg.Temperature)
	if err != nil {
		return nil, err
	}
	bs.closers = append(bs.closers, adapter.Close)
	return adapter, nil
}

func (bs *Bootstrap) initGemini(ctx context.Context, cfg *config.Config, client *http.Client) (*geminiclient.Adapter, error) {
	apiKey, err := bs.geminiAPIKey(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return geminiclient.NewAdapter(bs.Log, client, cfg.GeminiEndpoint, cfg.GeminiModel, apiKey, cfg.Temperature), nil
}

// geminiAPIKey prefers a key set directly in the environment over one held in Secret Manager.
func (bs *Bootstrap) geminiAPIKey(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.GeminiAPIKey != "" {
		return cfg.GeminiAPIKey, nil
	}
	if cfg.GeminiAPIKeySecret == "" {
		return "", errors.New("GEMINIAPIKEY or GEMINIAPIKEYSECRET is required for the gemini generator")
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	return store.NewSecretsStore(client, cfg.ProjectID).GetSecret(ctx, cfg.GeminiAPIKeySecret)
}
