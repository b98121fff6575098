package render

import (
	"fmt"
	"io"
	"net/url"

	"github.com/fatih/color"
	"github.com/liquidity-rails/rails-deploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the list of networks
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		current := "  "
		if network.Name == result.Current {
			current = color.GreenString("* ")
		}

		switch {
		case network.Error != nil:
			fmt.Fprintf(r.out, "%s❌ %s - no RPC URL configured\n", current, network.Name)
		case network.Simulated:
			fmt.Fprintf(r.out, "%s✅ %s - in-memory, chain ID %d [local]\n", current, network.Name, network.ChainID)
		default:
			line := fmt.Sprintf("%s✅ %s - %s", current, network.Name, redactURL(network.RPCURL))
			if network.ChainID != 0 {
				line += fmt.Sprintf(", chain ID %d", network.ChainID)
			}
			if network.Local {
				line += " [local]"
			}
			fmt.Fprintln(r.out, line)
		}
	}

	return nil
}

// redactURL keeps scheme and host so API keys in paths or queries are not printed
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "(configured)"
	}
	if u.Path == "" && u.RawQuery == "" && u.User == nil {
		return raw
	}
	return u.Scheme + "://" + u.Host + "/..."
}
