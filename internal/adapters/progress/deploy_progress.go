package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/liquidity-rails/rails-deploy/internal/cli/render"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
)

// DeployProgress prints the run as it happens: the start-of-run banner, one
// line per confirmed deployment or grant and a spinner while waiting for
// confirmations.
type DeployProgress struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *spinnerLine
}

// NewDeployProgress creates a progress sink writing to out
func NewDeployProgress(out io.Writer) *DeployProgress {
	return &DeployProgress{out: out, spinner: newSpinnerLine(out)}
}

// OnProgress handles progress events of a deployment run
func (p *DeployProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch event.Stage {
	case usecase.StageRunStarted:
		if info, ok := event.Metadata.(usecase.RunStartedInfo); ok {
			p.banner(info)
		}

	case usecase.StageStateChanged:
		if state, ok := event.Metadata.(domain.RunState); ok && state == domain.StateGrantingRoles {
			p.spinner.Stop()
			fmt.Fprintln(p.out)
		}

	case usecase.StageDeploying, usecase.StageGranting:
		p.spinner.Start(fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message))

	case usecase.StageDeploySubmitted, usecase.StageGrantSubmitted:
		if info, ok := event.Metadata.(usecase.SubmittedInfo); ok {
			p.spinner.Start(fmt.Sprintf("[%d/%d] %s (tx %s)", event.Current, event.Total, event.Message, shortHash(info.TxHash.Hex())))
		}

	case usecase.StageDeployed:
		p.spinner.Stop()
		if d, ok := event.Metadata.(*domain.DeployedContract); ok {
			fmt.Fprintf(p.out, "  %s [%d/%d] %s deployed at %s\n",
				color.GreenString("✓"), event.Current, event.Total,
				color.New(color.FgYellow, color.Bold).Sprint(d.Name), d.Address.Hex())
		}

	case usecase.StageGranted:
		p.spinner.Stop()
		if g, ok := event.Metadata.(*domain.AppliedGrant); ok {
			fmt.Fprintf(p.out, "  %s [%d/%d] granted %s to %s on %s\n",
				color.GreenString("✓"), event.Current, event.Total,
				color.New(color.FgMagenta).Sprint(g.Grant.Role), g.Grant.Grantee, g.Grant.On)
		}

	case usecase.StageManifestWritten:
		p.spinner.Stop()

	case usecase.StageRunCompleted, usecase.StageRunFailed:
		p.spinner.Stop()

	default:
		if event.Spinner {
			p.spinner.Start(event.Message)
		}
	}
}

func (p *DeployProgress) banner(info usecase.RunStartedInfo) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	plan := info.Plan
	if info.Variant != "" {
		plan = fmt.Sprintf("%s (variant %s)", info.Plan, info.Variant)
	}

	color.New(color.FgCyan, color.Bold).Fprintf(p.out, "Deploying %s\n", plan)
	fmt.Fprintf(p.out, "  %s %s (chain %d)\n", faint.Sprint("Network: "), bold.Sprint(info.Network), info.ChainID)
	if info.Signer != nil {
		fmt.Fprintf(p.out, "  %s %s\n", faint.Sprint("Deployer:"), info.Signer.Address.Hex())
		fmt.Fprintf(p.out, "  %s %s ETH\n", faint.Sprint("Balance: "), render.FormatEther(info.Signer.Balance))
	}
	fmt.Fprintf(p.out, "  %s %s\n", faint.Sprint("Order:   "), strings.Join(info.Order, " → "))
	fmt.Fprintf(p.out, "  %s %s\n", faint.Sprint("Run:     "), info.RunID)
	fmt.Fprintln(p.out)
}

// Info prints an info message
func (p *DeployProgress) Info(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	resume := p.spinner.Pause()
	color.New(color.FgCyan).Fprintln(p.out, message)
	resume()
}

// Error prints an error message
func (p *DeployProgress) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	resume := p.spinner.Pause()
	color.New(color.FgRed).Fprintln(p.out, message)
	resume()
}

func shortHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:8] + "…" + hash[len(hash)-4:]
}

// Ensure DeployProgress implements ProgressSink
var _ usecase.ProgressSink = (*DeployProgress)(nil)
