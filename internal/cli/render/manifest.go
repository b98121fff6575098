package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/samber/lo"
)

// ManifestRenderer renders a persisted deployment manifest
type ManifestRenderer struct {
	out io.Writer
}

// NewManifestRenderer creates a new manifest renderer
func NewManifestRenderer(out io.Writer) *ManifestRenderer {
	return &ManifestRenderer{out: out}
}

// RenderManifest prints the manifest header and its addresses. When the
// addresses were checked, a code column is added.
func (r *ManifestRenderer) RenderManifest(result *usecase.ShowManifestResult) error {
	m := result.Manifest

	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "Manifest: %s\n", result.Location)
	fmt.Fprintf(r.out, "  Network:  %s", m.Network)
	if m.ChainID != 0 {
		fmt.Fprintf(r.out, " (chain %d)", m.ChainID)
	}
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  Deployer: %s\n", m.Deployer)
	fmt.Fprintf(r.out, "  Deployed: %s\n", m.Timestamp)
	if m.RunID != "" {
		fmt.Fprintf(r.out, "  Run ID:   %s\n", m.RunID)
	}
	fmt.Fprintln(r.out)

	checks := lo.KeyBy(result.Checks, func(c domain.ContractCheck) string { return c.Name })

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	if result.Checks != nil {
		t.AppendHeader(table.Row{"Contract", "Address", "Code"})
	} else {
		t.AppendHeader(table.Row{"Contract", "Address"})
	}

	for _, name := range m.ContractNames() {
		row := table.Row{name, m.Contracts[name]}
		if result.Checks != nil {
			check, ok := checks[name]
			switch {
			case !ok:
				row = append(row, "")
			case check.HasCode:
				row = append(row, color.GreenString("✓"))
			default:
				row = append(row, color.RedString("✗ %s", check.Reason))
			}
		}
		t.AppendRow(row)
	}
	fmt.Fprintln(r.out, t.Render())

	if result.Checks != nil {
		missing := lo.CountBy(result.Checks, func(c domain.ContractCheck) bool { return !c.HasCode })
		fmt.Fprintln(r.out)
		if missing == 0 {
			fmt.Fprintln(r.out, FormatSuccess("All manifest addresses hold code"))
		} else {
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s without code on %s", plural(missing, "address"), m.Network)))
		}
	}
	return nil
}
