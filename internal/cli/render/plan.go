package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/samber/lo"
)

// PlanRenderer renders a validated plan
type PlanRenderer struct {
	out io.Writer
}

// NewPlanRenderer creates a new plan renderer
func NewPlanRenderer(out io.Writer) *PlanRenderer {
	return &PlanRenderer{out: out}
}

// RenderPlan prints the deployment order, constructor args and grants
func (r *PlanRenderer) RenderPlan(result *usecase.ShowPlanResult) error {
	plan := result.Plan

	title := plan.Name
	if plan.Variant != "" {
		title = fmt.Sprintf("%s (variant %s)", plan.Name, plan.Variant)
	}
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "Plan: %s\n", title)
	fmt.Fprintf(r.out, "File: %s\n\n", result.Path)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"#", "Contract", "Artifact", "Constructor args"})
	for i, spec := range result.Order {
		artifact := spec.ArtifactName()
		if artifact == spec.Name {
			artifact = ""
		}
		args := lo.Map(spec.Args, func(a domain.ConstructorArg, _ int) string { return a.String() })
		t.AppendRow(table.Row{i + 1, spec.Name, artifact, strings.Join(args, ", ")})
	}
	fmt.Fprintln(r.out, t.Render())

	if len(plan.Grants) > 0 {
		fmt.Fprintln(r.out)
		color.New(color.Bold).Fprintln(r.out, "Role grants (after all deployments):")
		for _, g := range plan.Grants {
			fmt.Fprintf(r.out, "  %s\n", g)
		}
	}

	if len(result.Variants) > 0 {
		fmt.Fprintln(r.out)
		color.New(color.Bold).Fprintln(r.out, "Variants:")
		for _, name := range result.Variants {
			marker := " "
			if name == plan.Variant {
				marker = color.GreenString("*")
			}
			line := fmt.Sprintf("  %s %s", marker, name)
			if d := plan.Variants[name].Description; d != "" {
				line += color.New(color.Faint).Sprintf(" - %s", d)
			}
			fmt.Fprintln(r.out, line)
		}
	}
	return nil
}
