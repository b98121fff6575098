package render

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/fatih/color"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var weiPerEther = new(big.Float).SetInt(big.NewInt(1e18))

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatEther renders a wei amount in ether with up to 6 decimals
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerEther)
	out := ether.Text('f', 6)
	out = strings.TrimRight(out, "0")
	return strings.TrimSuffix(out, ".")
}

// Title capitalises every word ("deploying contracts" -> "Deploying Contracts")
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

// Suggest returns the candidate closest to input, or "" when nothing matches
func Suggest(input string, candidates []string) string {
	if input == "" || len(candidates) == 0 {
		return ""
	}

	lower := strings.ToLower(input)
	for _, c := range candidates {
		if strings.ToLower(c) == lower {
			return c
		}
	}

	if matches := fuzzy.Find(input, candidates); len(matches) > 0 {
		return matches[0].Str
	}

	// Typos drop or swap letters, so also match the candidates against the input
	best, bestScore := "", 0
	for _, c := range candidates {
		if m := fuzzy.Find(c, []string{input}); len(m) > 0 && (best == "" || m[0].Score > bestScore) {
			best, bestScore = c, m[0].Score
		}
	}
	if best != "" {
		return best
	}

	for _, c := range candidates {
		if commonPrefix(strings.ToLower(c), lower) >= 3 {
			return c
		}
	}
	return ""
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// plural formats a count with its noun ("1 contract", "2 contracts")
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	if strings.HasSuffix(noun, "s") {
		return fmt.Sprintf("%d %ses", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
