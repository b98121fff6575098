package cli

import (
	"github.com/liquidity-rails/rails-deploy/internal/cli/render"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [path]",
		Short: "Validate a plan and show its deployment order",
		Long: `Load a deployment plan, apply the selected variant and print the order in
which its contracts would be deployed. Nothing is sent to any network.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ShowPlanParams{}
			if len(args) > 0 {
				params.PlanPath = args[0]
			}

			result, err := app.ShowPlan.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewPlanRenderer(cmd.OutOrStdout()).RenderPlan(result)
		},
	}

	return cmd
}
