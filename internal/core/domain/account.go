package domain

// AccountState is the lifecycle state of a ledger account.
// Accounts are never physically deleted; deletion is a state transition.
type AccountState string

const (
	AccountStateActive   AccountState = "ACTIVE"
	AccountStateInactive AccountState = "INACTIVE"
	AccountStateDeleted  AccountState = "DELETED"
)

// AccountType is the scheme role of a ledger account.
type AccountType string

const (
	AccountTypePosition                AccountType = "POSITION"
	AccountTypeLiquidity               AccountType = "LIQUIDITY"
	AccountTypeSettlement              AccountType = "SETTLEMENT"
	AccountTypeFee                     AccountType = "FEE"
	AccountTypeHubReconciliation       AccountType = "HUB_RECONCILIATION"
	AccountTypeHubMultilateralSettlement AccountType = "HUB_MULTILATERAL_SETTLEMENT"
)

// ValidAccountType reports whether t is one of the closed set of account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypePosition, AccountTypeLiquidity, AccountTypeSettlement,
		AccountTypeFee, AccountTypeHubReconciliation, AccountTypeHubMultilateralSettlement:
		return true
	default:
		return false
	}
}

// Account is a ledger account. All four balances are scaled integers in the
// account's currency (CurrencyDecimals fractional digits) and must stay >= 0
// at every observable instant. CurrencyDecimals is fixed at creation.
type Account struct {
	ID                        string       `json:"id"`
	State                     AccountState `json:"state"`
	Type                      AccountType  `json:"type"`
	CurrencyCode              string       `json:"currencyCode"`
	CurrencyDecimals          int          `json:"currencyDecimals"`
	PostedDebitBalance        int64        `json:"postedDebitBalance"`
	PostedCreditBalance       int64        `json:"postedCreditBalance"`
	PendingDebitBalance       int64        `json:"pendingDebitBalance"`
	PendingCreditBalance      int64        `json:"pendingCreditBalance"`
	TimestampLastJournalEntry *int64       `json:"timestampLastJournalEntry"` // unix ms, nil until first entry
}

// DebitBalance returns the pending or posted debit balance.
func (a *Account) DebitBalance(pending bool) int64 {
	if pending {
		return a.PendingDebitBalance
	}
	return a.PostedDebitBalance
}

// CreditBalance returns the pending or posted credit balance.
func (a *Account) CreditBalance(pending bool) int64 {
	if pending {
		return a.PendingCreditBalance
	}
	return a.PostedCreditBalance
}

// SetDebitBalance overwrites the pending or posted debit balance.
func (a *Account) SetDebitBalance(pending bool, balance int64) {
	if pending {
		a.PendingDebitBalance = balance
	} else {
		a.PostedDebitBalance = balance
	}
}

// SetCreditBalance overwrites the pending or posted credit balance.
func (a *Account) SetCreditBalance(pending bool, balance int64) {
	if pending {
		a.PendingCreditBalance = balance
	} else {
		a.PostedCreditBalance = balance
	}
}
