package services

import (
	"strings"

	"underwriter/domain/entities"
	"underwriter/domain/interfaces"
)

// Keyword lists for the default classifier. Matched against uppercased
// transaction names and category hints.
var (
	depositKeywords = []string{
		"DEPOSIT", "PAYMENT RECEIVED", "SQUARE", "STRIPE", "PAYPAL",
		"CLOVER", "TOAST", "MERCHANT SETTLEMENT", "CREDIT CARD BATCH",
		"ACH CREDIT", "INVOICE",
	}
	nsfKeywords = []string{
		"NSF", "INSUFFICIENT FUNDS", "OVERDRAFT", "RETURNED ITEM",
		"OD FEE", "UNPAID ITEM",
	}
	transferKeywords = []string{
		"TRANSFER", "XFER", "ZELLE", "INTERNAL TRF", "SWEEP",
	}
)

// keywordClassifier is the default TransactionClassifier: a keyword
// heuristic over transaction names and provider category hints. Tenants
// with richer categorization plug in their own strategy.
type keywordClassifier struct {
	lenders interfaces.LenderRegistry
}

// NewKeywordClassifier creates the default keyword-based transaction classifier
func NewKeywordClassifier(lenders interfaces.LenderRegistry) interfaces.TransactionClassifier {
	return &keywordClassifier{lenders: lenders}
}

func (c *keywordClassifier) IsDeposit(tx *entities.Transaction) bool {
	if !tx.IsInflow() || tx.Pending {
		return false
	}
	if c.IsTransfer(tx) {
		return false
	}
	return true
}

func (c *keywordClassifier) IsWithdrawal(tx *entities.Transaction) bool {
	if !tx.IsOutflow() || tx.Pending {
		return false
	}
	return !c.IsNSFFee(tx) && !c.IsTransfer(tx)
}

func (c *keywordClassifier) IsNSFFee(tx *entities.Transaction) bool {
	if !tx.IsOutflow() {
		return false
	}
	return matchesAny(tx, nsfKeywords)
}

func (c *keywordClassifier) IsLenderPayment(tx *entities.Transaction) bool {
	if !tx.IsOutflow() {
		return false
	}
	_, ok := c.lenders.Match(NormalizeMerchantName(tx.Name))
	return ok
}

func (c *keywordClassifier) IsTransfer(tx *entities.Transaction) bool {
	return matchesAny(tx, transferKeywords)
}

// matchesAny checks the transaction name and category hints against a
// keyword list
func matchesAny(tx *entities.Transaction, keywords []string) bool {
	name := strings.ToUpper(tx.Name)
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	for _, hint := range tx.CategoryHints {
		upper := strings.ToUpper(hint)
		for _, kw := range keywords {
			if strings.Contains(upper, kw) {
				return true
			}
		}
	}
	return false
}

// NormalizeMerchantName collapses a raw transaction name into a stable
// grouping key: uppercased, digits and punctuation stripped, whitespace
// collapsed
func NormalizeMerchantName(name string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
