package cli

import (
	"github.com/liquidity-rails/rails-deploy/internal/cli/render"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [plan-name]",
		Short: "Show the last recorded run of a plan",
		Long: `Show the journal of the last run of a plan: its state, the contracts it
deployed and the role grants it applied. Failed runs are recorded too, so this
is the place to look before re-running a deployment that stopped halfway.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.RunStatusParams{}
			if len(args) > 0 {
				params.Plan = args[0]
			}

			result, err := app.RunStatus.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewStatusRenderer(cmd.OutOrStdout()).RenderStatus(result)
		},
	}

	return cmd
}
