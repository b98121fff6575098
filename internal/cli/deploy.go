package cli

import (
	"os"

	"github.com/liquidity-rails/rails-deploy/internal/app"
	"github.com/liquidity-rails/rails-deploy/internal/cli/render"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy every contract of the plan and apply its role grants",
		Long: `Deploy the contracts of a plan in dependency order, wait for each creation
to be confirmed, apply the plan's role grants and write the deployment manifest.

Broadcasting to a network that is not local asks for confirmation first,
unless --yes or --non-interactive is given. When the plan declares variants
and no --variant is given, an interactive picker is shown.`,
		Example: `  # Deploy to the built-in simulated network
  rails-deploy deploy

  # Deploy a variant to a configured network
  rails-deploy deploy --network sepolia --variant pool-v2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			variant, err := pickVariant(cmd, app)
			if err != nil {
				return err
			}

			result, err := app.DeployPlan.Run(cmd.Context(), usecase.DeployPlanParams{Variant: variant})
			if err != nil {
				renderer := render.NewDeployRenderer(cmd.ErrOrStderr())
				renderer.RenderFailure(err, journalPath(cmd, app, err))
				return &reportedError{err: err}
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderResult(result)
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Broadcast without asking for confirmation")

	return cmd
}

// pickVariant shows the variant picker when the plan has variants and none
// was selected on the command line.
func pickVariant(cmd *cobra.Command, app *app.App) (string, error) {
	if app.Config.Variant != "" || !isInteractive(app) {
		return app.Config.Variant, nil
	}

	preview, err := app.ShowPlan.Run(cmd.Context(), usecase.ShowPlanParams{})
	if err != nil || len(preview.Variants) == 0 {
		// plan errors are reported by the deployment itself
		return "", nil
	}

	return SelectVariant(preview.Plan)
}

// journalPath locates the run record of a failed run that reached the chain
func journalPath(cmd *cobra.Command, app *app.App, err error) string {
	if domain.IsLocalError(err) {
		return ""
	}
	status, statusErr := app.RunStatus.Run(cmd.Context(), usecase.RunStatusParams{})
	if statusErr != nil {
		return ""
	}
	return status.Path
}

func isInteractive(app *app.App) bool {
	if app.Config.NonInteractive {
		return false
	}
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}
