package cli

import (
	"github.com/liquidity-rails/rails-deploy/internal/cli/render"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewManifestCmd creates the manifest command
func NewManifestCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Show the deployment manifest of the last successful run",
		Long: `Print the network, deployer and contract addresses recorded in the
deployment manifest. With --check, every address is looked up on the
manifest's network to confirm that code is deployed there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowManifest.Run(cmd.Context(), usecase.ShowManifestParams{Check: check})
			if err != nil {
				return err
			}

			return render.NewManifestRenderer(cmd.OutOrStdout()).RenderManifest(result)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check that every contract has code on chain")

	return cmd
}
