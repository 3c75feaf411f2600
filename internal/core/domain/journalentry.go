package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSameAccount is returned when an entry debits and credits the same account.
	ErrSameAccount = errors.New("debited and credited accounts must differ")
	// ErrNonPositiveAmount is returned when an entry amount is zero or negative.
	ErrNonPositiveAmount = errors.New("journal entry amount must be positive")
)

// JournalEntry is one atomic debit/credit movement between two accounts.
// Entries are append-only and immutable once stored; reversal is achieved
// only by a new compensating entry. Amount is a positive scaled integer with
// CurrencyDecimals fractional digits. Pending selects which balance pair of
// the two accounts the entry affects.
type JournalEntry struct {
	ID                string `json:"id"`
	OwnerID           string `json:"ownerId"` // correlation tag, e.g. a transfer id; may be empty
	CurrencyCode      string `json:"currencyCode"`
	CurrencyDecimals  int    `json:"currencyDecimals"`
	Amount            int64  `json:"amount"`
	Pending           bool   `json:"pending"`
	DebitedAccountID  string `json:"debitedAccountId"`
	CreditedAccountID string `json:"creditedAccountId"`
	Timestamp         int64  `json:"timestamp"` // unix ms
}

// Validate checks the structural invariants of the entry.
func (e *JournalEntry) Validate() error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: got %d", ErrNonPositiveAmount, e.Amount)
	}
	if e.DebitedAccountID == "" || e.CreditedAccountID == "" {
		return errors.New("debited and credited account ids are required")
	}
	if e.DebitedAccountID == e.CreditedAccountID {
		return ErrSameAccount
	}
	return nil
}
