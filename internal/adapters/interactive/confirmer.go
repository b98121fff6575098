package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/liquidity-rails/rails-deploy/internal/cli/render"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/liquidity-rails/rails-deploy/internal/domain/config"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
	"github.com/manifoldco/promptui"
)

// BroadcastConfirmerAdapter asks the operator on the terminal before any
// transaction is sent to a live network.
type BroadcastConfirmerAdapter struct {
	config *config.RuntimeConfig
	in     io.ReadCloser
	out    io.Writer

	// prompt asks a yes/no question; replaced in tests
	prompt func(label string) (bool, error)
}

// NewBroadcastConfirmerAdapter creates a confirmer bound to the process terminal
func NewBroadcastConfirmerAdapter(cfg *config.RuntimeConfig) *BroadcastConfirmerAdapter {
	return NewBroadcastConfirmer(cfg, os.Stdin, os.Stdout)
}

// NewBroadcastConfirmer creates a confirmer reading from in and writing to out
func NewBroadcastConfirmer(cfg *config.RuntimeConfig, in io.ReadCloser, out io.Writer) *BroadcastConfirmerAdapter {
	a := &BroadcastConfirmerAdapter{config: cfg, in: in, out: out}
	a.prompt = a.confirmPrompt
	return a
}

// ConfirmBroadcast prints what is about to be sent and asks for approval.
// Interrupting the prompt aborts the run.
func (a *BroadcastConfirmerAdapter) ConfirmBroadcast(ctx context.Context, summary usecase.BroadcastSummary) (bool, error) {
	if a.config.NonInteractive {
		return false, fmt.Errorf("broadcasting to %s needs confirmation, rerun with --yes", summary.Network)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	a.printSummary(summary)

	label := fmt.Sprintf("Broadcast %d deployments and %d role grants to %s", summary.Contracts, summary.Grants, summary.Network)
	return a.prompt(label)
}

func (a *BroadcastConfirmerAdapter) printSummary(s usecase.BroadcastSummary) {
	yellow := color.New(color.FgYellow, color.Bold)
	label := color.New(color.Faint)

	fmt.Fprintln(a.out)
	yellow.Fprintf(a.out, "About to broadcast to a live network\n")
	fmt.Fprintf(a.out, "  %s %s\n", label.Sprint("Plan:    "), planLabel(s.Plan, s.Variant))
	fmt.Fprintf(a.out, "  %s %s (chain %d)\n", label.Sprint("Network: "), s.Network, s.ChainID)
	fmt.Fprintf(a.out, "  %s %s\n", label.Sprint("Deployer:"), s.Deployer.Hex())
	fmt.Fprintf(a.out, "  %s %s ETH\n", label.Sprint("Balance: "), render.FormatEther(s.Balance))
	fmt.Fprintln(a.out)
}

func planLabel(plan, variant string) string {
	if variant == "" {
		return plan
	}
	return fmt.Sprintf("%s (variant %s)", plan, variant)
}

func (a *BroadcastConfirmerAdapter) confirmPrompt(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     a.in,
		Stdout:    nopWriteCloser{a.out},
	}

	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		return false, domain.ErrAborted
	default:
		return false, err
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Ensure the adapter implements the interface
var _ usecase.BroadcastConfirmer = (*BroadcastConfirmerAdapter)(nil)
