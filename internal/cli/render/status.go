package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
)

// StatusRenderer renders the run journal
type StatusRenderer struct {
	out io.Writer
}

// NewStatusRenderer creates a new status renderer
func NewStatusRenderer(out io.Writer) *StatusRenderer {
	return &StatusRenderer{out: out}
}

// RenderStatus prints the last run of a plan, including the partial state
// a failed run left behind.
func (r *StatusRenderer) RenderStatus(result *usecase.RunStatusResult) error {
	rec := result.Record

	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "Last run of %s\n", rec.Plan)
	fmt.Fprintf(r.out, "  Run ID:   %s\n", rec.RunID)
	fmt.Fprintf(r.out, "  Network:  %s\n", rec.Network)
	if rec.Variant != "" {
		fmt.Fprintf(r.out, "  Variant:  %s\n", rec.Variant)
	}
	if rec.Deployer != "" {
		fmt.Fprintf(r.out, "  Deployer: %s\n", rec.Deployer)
	}
	fmt.Fprintf(r.out, "  Started:  %s\n", rec.StartedAt.UTC().Format(domain.ManifestTimeLayout))
	fmt.Fprintf(r.out, "  Updated:  %s\n", rec.UpdatedAt.UTC().Format(domain.ManifestTimeLayout))
	fmt.Fprintf(r.out, "  State:    %s\n", stateLabel(rec))
	fmt.Fprintf(r.out, "  Journal:  %s\n", result.Path)

	if rec.State == domain.StateFailed {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "  Error: %s\n", color.RedString(rec.Error))
		if rec.OnChainEffects {
			fmt.Fprintf(r.out, "  On-chain state: %s\n", color.New(color.FgYellow, color.Bold).Sprint("partial"))
		} else {
			fmt.Fprintf(r.out, "  On-chain state: %s\n", color.GreenString("none"))
		}
	}

	if p := rec.Pending; p != nil {
		fmt.Fprintln(r.out)
		color.New(color.FgYellow).Fprintf(r.out, "Unconfirmed creation of %s\n", p.Name)
		fmt.Fprintf(r.out, "  Address: %s\n", p.Address.Hex())
		fmt.Fprintf(r.out, "  Tx:      %s\n", p.TxHash.Hex())
	}

	if len(rec.Deployed) > 0 {
		fmt.Fprintln(r.out)
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.Style().Options.DrawBorder = false
		t.Style().Options.SeparateColumns = false
		t.AppendHeader(table.Row{"Contract", "Address", "Tx"})
		for _, d := range rec.Deployed {
			tx := ""
			if d.Receipt != nil {
				tx = d.Receipt.TxHash.Hex()
			}
			t.AppendRow(table.Row{d.Name, d.Address.Hex(), tx})
		}
		fmt.Fprintln(r.out, t.Render())
	}

	if len(rec.Grants) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Role grants applied:")
		for _, g := range rec.Grants {
			fmt.Fprintf(r.out, "  %s\n", g.Grant)
		}
	}
	return nil
}

func stateLabel(rec *domain.RunRecord) string {
	switch rec.State {
	case domain.StateComplete:
		return color.GreenString(Title(rec.State.Description()))
	case domain.StateFailed:
		return color.RedString("Failed while %s", rec.FailedAt.Description())
	default:
		return color.YellowString("%s (interrupted)", Title(rec.State.Description()))
	}
}
