package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/viz-backend/internal/models"
	"github.com/GregMSThompson/viz-backend/internal/services"
)

var promptHint string

var promptCmd = &cobra.Command{
	Use:   "prompt <request>",
	Short: "Prints the instruction that would be sent to the generator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var hint models.ComponentKind
		if promptHint != "" && promptHint != models.ComponentAuto {
			kind, ok := models.ParseComponentKind(promptHint)
			if !ok {
				return fmt.Errorf("unknown component %q", promptHint)
			}
			hint = kind
		}
		fmt.Fprintln(cmd.OutOrStdout(), services.BuildPrompt(args[0], hint))
		return nil
	},
}

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "Lists the component kinds",
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range models.ComponentKinds() {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
	},
}

func init() {
	AddCommand(promptCmd)
	AddCommand(componentsCmd)
	promptCmd.Flags().StringVarP(&promptHint, "component", "c", "", "Component hint: Auto or one of the component kinds")
}
