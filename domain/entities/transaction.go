package entities

import (
	"errors"
	"time"
)

// ErrNoSuitableAccount is returned by feature extraction when the feed
// contains no account to analyze. This is the only fatal extraction error.
var ErrNoSuitableAccount = errors.New("no suitable account found in bank feed")

// AccountType represents the top-level account classification reported
// by the bank-data provider
type AccountType string

const (
	AccountTypeDepository AccountType = "depository"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeInvestment AccountType = "investment"
)

// Transaction represents a single bank transaction from the provider feed.
// Amounts follow the provider convention: negative = inflow (deposit),
// positive = outflow (withdrawal/debit).
type Transaction struct {
	ID            string
	AccountID     string
	Date          time.Time
	Amount        float64
	Name          string
	CategoryHints []string
	Pending       bool
}

// IsInflow returns true if the transaction moved money into the account
func (t *Transaction) IsInflow() bool {
	return t.Amount < 0
}

// IsOutflow returns true if the transaction moved money out of the account
func (t *Transaction) IsOutflow() bool {
	return t.Amount > 0
}

// InflowAmount returns the deposit amount as a positive number, or 0 for outflows
func (t *Transaction) InflowAmount() float64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return 0
}

// AccountBalances holds the balance snapshot reported with an account
type AccountBalances struct {
	Current   float64
	Available float64
}

// Account represents a bank account from the provider feed
type Account struct {
	AccountID string
	Name      string
	Type      AccountType
	Subtype   string
	Balances  AccountBalances
}

// IsChecking returns true if the account is a depository checking account,
// the preferred primary account for underwriting
func (a *Account) IsChecking() bool {
	return a.Type == AccountTypeDepository && a.Subtype == "checking"
}

// BankFeed is the unit returned by a bank-data provider: the raw
// transaction and account lists for one linked institution
type BankFeed struct {
	AccountRef   string
	Transactions []Transaction
	Accounts     []Account
	RetrievedAt  time.Time
}

// AnalysisWindow bounds the period of transaction history under analysis
type AnalysisWindow struct {
	Start time.Time
	End   time.Time
}

// TotalDays returns the inclusive length of the window in days
func (w AnalysisWindow) TotalDays() int {
	days := int(w.End.Sub(w.Start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Contains reports whether a date falls inside the window
func (w AnalysisWindow) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

// WindowForLastDays builds an analysis window covering the trailing n days
// ending at the given time
func WindowForLastDays(end time.Time, days int) AnalysisWindow {
	return AnalysisWindow{
		Start: end.AddDate(0, 0, -(days - 1)),
		End:   end,
	}
}
