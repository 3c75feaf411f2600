package dto

import (
	"github.com/clearstream/hubledger/internal/core/domain"
	"github.com/clearstream/hubledger/internal/utils/moneycodec"
)

// CreateAccountRequest describes one account to create. RequestedID is
// optional; when it is taken the ledger silently attributes a fresh random id
// and reports it in the mapping.
type CreateAccountRequest struct {
	RequestedID  string `json:"requestedId" binding:"omitempty,uuid"`
	Type         string `json:"type" binding:"required,accounttype"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,uppercase"`
}

// AccountIDMapping reports which id a created account ended up with.
type AccountIDMapping struct {
	RequestedID  string `json:"requestedId"`
	AttributedID string `json:"attributedId"`
}

// AccountResponse renders an account with balances back in decimal form.
type AccountResponse struct {
	ID                        string `json:"id"`
	State                     string `json:"state"`
	Type                      string `json:"type"`
	CurrencyCode              string `json:"currencyCode"`
	CurrencyDecimals          int    `json:"currencyDecimals"`
	PostedDebitBalance        string `json:"postedDebitBalance"`
	PostedCreditBalance       string `json:"postedCreditBalance"`
	PendingDebitBalance       string `json:"pendingDebitBalance"`
	PendingCreditBalance      string `json:"pendingCreditBalance"`
	TimestampLastJournalEntry *int64 `json:"timestampLastJournalEntry"`
}

// ChangeAccountStatesRequest lists the accounts for a bulk state transition.
type ChangeAccountStatesRequest struct {
	AccountIDs []string `json:"accountIds" binding:"required,min=1,dive,required"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:                        a.ID,
		State:                     string(a.State),
		Type:                      string(a.Type),
		CurrencyCode:              a.CurrencyCode,
		CurrencyDecimals:          a.CurrencyDecimals,
		PostedDebitBalance:        moneycodec.IntToString(a.PostedDebitBalance, a.CurrencyDecimals),
		PostedCreditBalance:       moneycodec.IntToString(a.PostedCreditBalance, a.CurrencyDecimals),
		PendingDebitBalance:       moneycodec.IntToString(a.PendingDebitBalance, a.CurrencyDecimals),
		PendingCreditBalance:      moneycodec.IntToString(a.PendingCreditBalance, a.CurrencyDecimals),
		TimestampLastJournalEntry: a.TimestampLastJournalEntry,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
