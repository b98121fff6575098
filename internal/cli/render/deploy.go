package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
)

// DeployRenderer renders the outcome of a deployment run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// RenderResult prints the address summary, the grants and, for live
// networks, one verification command per contract.
func (r *DeployRenderer) RenderResult(result *usecase.RunResult) error {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s to %s in %s",
		plural(len(result.Deployed), "contract"), result.Network, result.Duration.Round(time.Millisecond))))
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, r.addressTable(result.Deployed))

	if len(result.Grants) > 0 {
		fmt.Fprintln(r.out)
		color.New(color.Bold).Fprintln(r.out, "Role grants:")
		for _, g := range result.Grants {
			fmt.Fprintf(r.out, "  %s %s.%s -> %s\n",
				color.GreenString("✓"),
				g.Grant.On,
				color.New(color.FgMagenta).Sprint(g.Grant.Role),
				g.Grant.Grantee)
		}
	}

	if result.Manifest != nil {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "Run ID: %s\n", color.New(color.Faint).Sprint(result.RunID))
	}

	r.renderVerification(result)
	return nil
}

func (r *DeployRenderer) addressTable(deployed []*domain.DeployedContract) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"Contract", "Address", "Artifact", "Block"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})

	for _, d := range deployed {
		artifact := ""
		if d.Artifact != d.Name {
			artifact = d.Artifact
		}
		block := ""
		if d.Receipt != nil {
			block = fmt.Sprint(d.Receipt.BlockNumber)
		}
		t.AppendRow(table.Row{
			color.New(color.FgYellow, color.Bold).Sprint(d.Name),
			d.Address.Hex(),
			artifact,
			block,
		})
	}
	return t.Render()
}

func (r *DeployRenderer) renderVerification(result *usecase.RunResult) {
	if result.LocalNetwork {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "%s is a local network, skipping verification commands\n", result.Network)
		return
	}
	if len(result.Verification) == 0 {
		return
	}

	fmt.Fprintln(r.out)
	color.New(color.Bold).Fprintln(r.out, "Verify on the block explorer:")
	for _, v := range result.Verification {
		fmt.Fprintf(r.out, "  %s\n", v.Command(result.Network))
	}
}

// RenderFailure prints a failed run: the cause, what reached the chain
// before it and where to look for recovery.
func (r *DeployRenderer) RenderFailure(err error, journalPath string) {
	var runErr *domain.RunError
	if !errors.As(err, &runErr) {
		fmt.Fprintln(r.out, FormatError(err.Error()))
		if hint := Hint(err); hint != "" {
			fmt.Fprintf(r.out, "   %s\n", hint)
		}
		return
	}

	fmt.Fprintln(r.out, FormatError(fmt.Sprintf("deployment failed while %s", runErr.State.Description())))
	fmt.Fprintf(r.out, "   Cause: %v\n", runErr.Cause)
	if hint := Hint(runErr.Cause); hint != "" {
		fmt.Fprintf(r.out, "   %s\n", hint)
	}

	if !runErr.OnChainEffects() {
		fmt.Fprintf(r.out, "   On-chain state: %s\n", color.GreenString("none"))
		return
	}

	fmt.Fprintf(r.out, "   On-chain state: %s\n", color.New(color.FgYellow, color.Bold).Sprint("partial"))
	if len(runErr.Deployed) > 0 {
		fmt.Fprintf(r.out, "   Deployed before the failure: %s\n", strings.Join(runErr.Deployed, ", "))
	}
	if runErr.Granted > 0 {
		fmt.Fprintf(r.out, "   Role grants applied: %d\n", runErr.Granted)
	}
	if journalPath != "" {
		fmt.Fprintf(r.out, "   Addresses and transactions are recorded in %s\n", journalPath)
	}
	fmt.Fprintln(r.out, "   No manifest was written. Inspect with 'rails-deploy status' before re-running.")
}

// Hint returns a "did you mean" line for errors that name an unknown thing
func Hint(err error) string {
	var (
		refErr     *domain.UnknownReferenceError
		variantErr *domain.UnknownVariantError
		networkErr *domain.UnknownNetworkError
	)

	var input string
	var known []string
	switch {
	case errors.As(err, &refErr):
		input, known = refErr.Reference, refErr.Known
	case errors.As(err, &variantErr):
		input, known = variantErr.Name, variantErr.Known
	case errors.As(err, &networkErr):
		input, known = networkErr.Name, networkErr.Known
		if s := Suggest(input, known); s != "" {
			return fmt.Sprintf("Did you mean '%s'? Configured networks: %s", s, strings.Join(known, ", "))
		}
		return fmt.Sprintf("Configured networks: %s", strings.Join(known, ", "))
	case errors.Is(err, domain.ErrNoSigner):
		return "Set the deployer private key in the environment or in .env"
	default:
		return ""
	}

	if s := Suggest(input, known); s != "" {
		return fmt.Sprintf("Did you mean '%s'?", s)
	}
	return ""
}
