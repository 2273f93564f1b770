package validation

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Shared rule limits.
var (
	// MaxTransactionAmount caps transaction and budget magnitudes.
	MaxTransactionAmount = decimal.RequireFromString("999999.99")
	// MaxAccountBalance caps a directly written account balance.
	MaxAccountBalance = decimal.RequireFromString("9999999.99")
	// OverdraftLimit is the lowest directly writable balance.
	OverdraftLimit = decimal.RequireFromString("-10000")
)

// Date-window rules, in days.
const (
	TransactionMaxPastDays   = 730
	TransactionMaxFutureDays = 1
	BudgetStartWindowDays    = 365
	BudgetMaxPeriodDays      = 366
)

// TitleCase normalizes a name the way category names are stored: each
// space-separated word capitalized, the rest lowered.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
