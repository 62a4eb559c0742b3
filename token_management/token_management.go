package token_management

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/meysamhadeli/codepack/constants/lipgloss"
	"github.com/meysamhadeli/codepack/token_management/contracts"
)

// tokenEstimator approximates language-model token usage from character
// counts. The estimate is a size proxy only, never an exact tokenization.
type tokenEstimator struct {
	warningThreshold int
}

// NewTokenEstimator creates a token estimator with the given soft threshold.
func NewTokenEstimator(warningThreshold int) contracts.ITokenEstimator {
	return &tokenEstimator{warningThreshold: warningThreshold}
}

// EstimateTokens returns ceil(len(content) / 4).
func (tm *tokenEstimator) EstimateTokens(content string) int {
	return (len(content) + 3) / 4
}

// ExceedsThreshold reports whether the count is past the soft warning
// threshold. Advisory only; it never blocks an operation.
func (tm *tokenEstimator) ExceedsThreshold(tokenCount int) bool {
	return tokenCount > tm.warningThreshold
}

// DisplayTokens prints the token usage summary for a packed source.
func (tm *tokenEstimator) DisplayTokens(source string, tokenCount int) {
	tokenInfo := fmt.Sprintf("Tokens: %d - Source: %s", tokenCount, source)
	if tm.ExceedsThreshold(tokenCount) {
		pterm.Println(lipgloss.Yellow.Render(tokenInfo + " (exceeds recommended limit)"))
		return
	}
	pterm.Println(lipgloss.BoxStyle.Render(tokenInfo))
}
