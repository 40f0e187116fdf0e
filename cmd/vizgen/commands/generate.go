package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/GregMSThompson/viz-backend/internal/bootstrap"
	"github.com/GregMSThompson/viz-backend/internal/config"
	"github.com/GregMSThompson/viz-backend/internal/models"
	"github.com/GregMSThompson/viz-backend/internal/services"
	"github.com/GregMSThompson/viz-backend/internal/store"
	"github.com/GregMSThompson/viz-backend/pkg/logger"
)

var (
	componentHint string
	outDir        string
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generates one visualization and prints how it renders",
	Long: `generate sends the prompt to the configured generator, validates the result
and prints the render instruction. A failed generation prints the sample
fallback visualization instead. With --out the export document is written
to that directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.New()
		bs, err := bootstrap.Run(cfg)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		defer bs.Close()

		ctx := logger.ToContext(cmd.Context(), bs.Log)
		svc := services.NewVisualizationService(bs.Generator, store.NewVisualizationStore(), cfg.GenerationTimeout)

		viz, err := svc.GenerateVisualization(ctx, args[0], componentHint)
		if err != nil {
			return err
		}
		ri, err := svc.RenderVisualization(ctx, viz.ID)
		if err != nil {
			return err
		}

		printHeading("%s", displayTitle(viz))
		printField("id", viz.ID)
		printField("type", viz.Type)
		printField("widget", ri.Widget)
		printField("points", len(viz.Data))
		if ri.Fallback {
			color.Yellow("  unrecognized type, rendered as %s", ri.Widget)
		}

		props, err := json.MarshalIndent(ri.Props, "  ", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("  %s\n", props)

		if outDir == "" {
			return nil
		}
		name, body, err := svc.ExportVisualization(ctx, viz.ID)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		color.Green("  exported to %s", path)
		return nil
	},
}

func displayTitle(v *models.Visualization) string {
	if v.Title == "" {
		return "(untitled)"
	}
	return v.Title
}

func init() {
	AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&componentHint, "component", "c", models.ComponentAuto, "Component hint: Auto or one of the component kinds")
	generateCmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to write the export document to")
}
