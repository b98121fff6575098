package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/liquidity-rails/rails-deploy/internal/adapters/progress"
	"github.com/liquidity-rails/rails-deploy/internal/app"
	"github.com/liquidity-rails/rails-deploy/internal/cli/render"
	"github.com/liquidity-rails/rails-deploy/internal/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// cancelKey is the context key for the command timeout release
	cancelKey contextKey = "cancel"
)

// skipsApp lists the commands that run without a wired app
var skipsApp = map[string]bool{
	"version":    true,
	"help":       true,
	"completion": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rails-deploy",
		Short: "Deploy the liquidity rails contract suite",
		Long: `rails-deploy deploys a set of interdependent contracts from a declarative
plan: contracts are created in dependency order, role grants are applied once
every contract is confirmed, and the resulting addresses are written to a
deployment manifest.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp[cmd.Name()] {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink = usecase.NopProgress{}
			if cmd.Name() == "deploy" {
				sink = progress.NewDeployProgress(cmd.OutOrStdout())
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				ctx = context.WithValue(ctx, cancelKey, cancel)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (default \"simulated\")")
	rootCmd.PersistentFlags().StringP("plan", "p", "", "Deployment plan file (default from rails.toml)")
	rootCmd.PersistentFlags().String("variant", "", "Plan variant to apply")
	rootCmd.PersistentFlags().String("manifest", "", "Deployment manifest path (default from rails.toml)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	planCmd := NewPlanCmd()
	planCmd.GroupID = "main"
	rootCmd.AddCommand(planCmd)

	manifestCmd := NewManifestCmd()
	manifestCmd.GroupID = "management"
	rootCmd.AddCommand(manifestCmd)

	statusCmd := NewStatusCmd()
	statusCmd.GroupID = "management"
	rootCmd.AddCommand(statusCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// reportedError marks an error the command already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Execute runs the root command and returns the process exit code
func Execute() int {
	return run(NewRootCmd(), os.Stderr)
}

func run(rootCmd *cobra.Command, stderr io.Writer) int {
	cmd, err := rootCmd.ExecuteC()
	release(cmd)
	if err == nil {
		return 0
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(stderr, render.FormatError(err.Error()))
		if hint := render.Hint(err); hint != "" {
			fmt.Fprintf(stderr, "   %s\n", hint)
		}
	}
	return 1
}

// release cancels the timeout context of an executed command, whether or
// not it succeeded.
func release(cmd *cobra.Command) {
	if cmd == nil || cmd.Context() == nil {
		return
	}
	if cancel, ok := cmd.Context().Value(cancelKey).(context.CancelFunc); ok {
		cancel()
	}
}
