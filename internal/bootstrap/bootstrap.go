package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/viz-backend/internal/config"
	"github.com/GregMSThompson/viz-backend/internal/dto"
	"github.com/GregMSThompson/viz-backend/pkg/logger"
)

// Generator is the text generation backend selected by config.
type Generator interface {
	Generate(ctx context.Context, instruction string) (string, error)
}

type Bootstrap struct {
	Log       *slog.Logger
	Generator Generator

	closers []func() error
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)

	switch cfg.Generator {
	case dto.GeneratorGemini:
		gemini, err := bs.initGemini(applicationCtx, cfg, http.DefaultClient)
		if err != nil {
			return bs, err
		}
		bs.Generator = gemini
	case dto.GeneratorVertex:
		vertex, err := bs.initVertex(applicationCtx, cfg)
		if err != nil {
			return bs, err
		}
		bs.Generator = vertex
	default:
		return bs, fmt.Errorf("unknown generator %q", cfg.Generator)
	}

	bs.Log.Info("bootstrap complete", "generator", string(cfg.Generator))
	return bs, nil
}

// Close releases clients in reverse order of creation.
func (bs *Bootstrap) Close() {
	for i := len(bs.closers) - 1; i >= 0; i-- {
		if err := bs.closers[i](); err != nil {
			bs.Log.Error("bootstrap close failed", "error", err)
		}
	}
	bs.closers = nil
}
