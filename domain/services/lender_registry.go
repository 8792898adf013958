package services

import (
	"strings"

	"underwriter/domain/interfaces"
)

// knownLenderRegistry matches normalized merchant names against a table
// of lender aliases by substring
type knownLenderRegistry struct {
	// alias (normalized) -> canonical lender name
	aliases map[string]string
}

// NewLenderRegistry creates a registry from an alias table mapping
// merchant-name substrings to canonical lender names. Aliases are
// normalized on construction.
func NewLenderRegistry(aliases map[string]string) interfaces.LenderRegistry {
	normalized := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		normalized[NormalizeMerchantName(alias)] = canonical
	}
	return &knownLenderRegistry{aliases: normalized}
}

// NewDefaultLenderRegistry creates a registry seeded with the common MCA
// and small-business lenders seen in merchant bank statements
func NewDefaultLenderRegistry() interfaces.LenderRegistry {
	return NewLenderRegistry(map[string]string{
		"ONDECK":            "OnDeck",
		"ON DECK":           "OnDeck",
		"KABBAGE":           "Kabbage",
		"FORWARD FINANCING": "Forward Financing",
		"FORA FINANCIAL":    "Fora Financial",
		"RAPID FINANCE":     "Rapid Finance",
		"CAN CAPITAL":       "CAN Capital",
		"CREDIBLY":          "Credibly",
		"FUNDBOX":           "Fundbox",
		"BLUEVINE":          "BlueVine",
		"NATIONAL FUNDING":  "National Funding",
		"RELIANT FUNDING":   "Reliant Funding",
		"EXPANSION CAPITAL": "Expansion Capital",
		"KNIGHT CAPITAL":    "Knight Capital",
		"LIBERTAS":          "Libertas Funding",
		"VADER":             "Vader Servicing",
		"CFG MERCHANT":      "CFG Merchant Solutions",
		"SQUARE CAPITAL":    "Square Capital",
		"PAYPAL WORKING":    "PayPal Working Capital",
		"STRIPE CAPITAL":    "Stripe Capital",
	})
}

func (r *knownLenderRegistry) Match(normalizedName string) (string, bool) {
	if normalizedName == "" {
		return "", false
	}
	for alias, canonical := range r.aliases {
		if strings.Contains(normalizedName, alias) {
			return canonical, true
		}
	}
	return "", false
}
