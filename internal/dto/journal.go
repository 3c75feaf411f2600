package dto

import (
	"github.com/clearstream/hubledger/internal/core/domain"
	"github.com/clearstream/hubledger/internal/utils/moneycodec"
)

// CreateJournalEntryRequest describes one journal entry to create. Amount is
// a decimal string in the entry's currency.
type CreateJournalEntryRequest struct {
	OwnerID           string `json:"ownerId" binding:"omitempty"`
	CurrencyCode      string `json:"currencyCode" binding:"required,len=3,uppercase"`
	Amount            string `json:"amount" binding:"required"`
	Pending           bool   `json:"pending"`
	DebitedAccountID  string `json:"debitedAccountId" binding:"required"`
	CreditedAccountID string `json:"creditedAccountId" binding:"required"`
}

// CreateJournalEntriesRequest is the payload of the batch endpoint.
type CreateJournalEntriesRequest struct {
	Entries []CreateJournalEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// JournalEntryResponse renders a stored entry with the amount back in
// decimal form.
type JournalEntryResponse struct {
	ID                string `json:"id"`
	OwnerID           string `json:"ownerId,omitempty"`
	CurrencyCode      string `json:"currencyCode"`
	Amount            string `json:"amount"`
	Pending           bool   `json:"pending"`
	DebitedAccountID  string `json:"debitedAccountId"`
	CreditedAccountID string `json:"creditedAccountId"`
	Timestamp         int64  `json:"timestamp"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its response DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		ID:                e.ID,
		OwnerID:           e.OwnerID,
		CurrencyCode:      e.CurrencyCode,
		Amount:            moneycodec.IntToString(e.Amount, e.CurrencyDecimals),
		Pending:           e.Pending,
		DebitedAccountID:  e.DebitedAccountID,
		CreditedAccountID: e.CreditedAccountID,
		Timestamp:         e.Timestamp,
	}
}

// ToJournalEntryResponses converts a slice of entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToJournalEntryResponse(&entries[i])
	}
	return responses
}
