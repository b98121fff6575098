package config

import "strings"

// EnvReference reports whether a raw rails.toml value is exactly one
// ${NAME} reference and returns NAME.
func EnvReference(raw string) (string, bool) {
	inner, ok := strings.CutPrefix(raw, "${")
	if !ok {
		return "", false
	}
	name, ok := strings.CutSuffix(inner, "}")
	if !ok || !isEnvName(name) {
		return "", false
	}
	return name, true
}

func isEnvName(name string) bool {
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return false
	}
	for _, c := range name {
		if c != '_' && (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// RPCEnvVar is the variable checked for a network's RPC URL when rails.toml
// has none: sepolia -> SEPOLIA_RPC_URL, arbitrum-sepolia -> ARBITRUM_SEPOLIA_RPC_URL.
func RPCEnvVar(network string) string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(strings.ToUpper(network)) + "_RPC_URL"
}
