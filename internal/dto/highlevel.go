package dto

import (
	"fmt"

	"github.com/clearstream/hubledger/internal/apperrors"
	"github.com/clearstream/hubledger/internal/core/domain"
)

// HighLevelRequest is the wire shape of one protocol request. RequestType
// selects the variant; the optional fields each variant needs are validated
// in ToDomain, not by binding tags, so a malformed request is reported in its
// own batch response entry instead of rejecting the whole payload.
type HighLevelRequest struct {
	RequestID               string `json:"requestId" binding:"required"`
	RequestType             string `json:"requestType" binding:"required"`
	TransferID              string `json:"transferId" binding:"required"`
	PayerPositionAccountID  string `json:"payerPositionAccountId"`
	PayerLiquidityAccountID string `json:"payerLiquidityAccountId"`
	PayeePositionAccountID  string `json:"payeePositionAccountId"`
	HubAccountID            string `json:"hubAccountId"`
	Amount                  string `json:"amount"`
	CurrencyCode            string `json:"currencyCode"`
	PayerNetDebitCap        string `json:"payerNetDebitCap"`
}

// HighLevelBatchRequest is the payload of the batch endpoint.
type HighLevelBatchRequest struct {
	Requests []HighLevelRequest `json:"requests" binding:"required,min=1"`
}

// ToDomain converts the wire shape to the closed domain sum type, checking
// that the fields the selected variant requires are present.
func (r *HighLevelRequest) ToDomain() (domain.HighLevelRequest, error) {
	switch domain.HighLevelRequestType(r.RequestType) {
	case domain.HighLevelCheckLiquidAndReserve:
		if err := requireFields(map[string]string{
			"payerPositionAccountId":  r.PayerPositionAccountID,
			"payerLiquidityAccountId": r.PayerLiquidityAccountID,
			"hubAccountId":            r.HubAccountID,
			"amount":                  r.Amount,
			"currencyCode":            r.CurrencyCode,
			"payerNetDebitCap":        r.PayerNetDebitCap,
		}); err != nil {
			return nil, err
		}
		return domain.CheckLiquidAndReserve{
			ID:                      r.RequestID,
			TransferID:              r.TransferID,
			PayerPositionAccountID:  r.PayerPositionAccountID,
			PayerLiquidityAccountID: r.PayerLiquidityAccountID,
			HubAccountID:            r.HubAccountID,
			Amount:                  r.Amount,
			CurrencyCode:            r.CurrencyCode,
			PayerNetDebitCap:        r.PayerNetDebitCap,
		}, nil
	case domain.HighLevelCancelReservationAndCommit:
		if err := requireFields(map[string]string{
			"payerPositionAccountId": r.PayerPositionAccountID,
			"payeePositionAccountId": r.PayeePositionAccountID,
			"hubAccountId":           r.HubAccountID,
			"amount":                 r.Amount,
			"currencyCode":           r.CurrencyCode,
		}); err != nil {
			return nil, err
		}
		return domain.CancelReservationAndCommit{
			ID:                     r.RequestID,
			TransferID:             r.TransferID,
			PayerPositionAccountID: r.PayerPositionAccountID,
			PayeePositionAccountID: r.PayeePositionAccountID,
			HubAccountID:           r.HubAccountID,
			Amount:                 r.Amount,
			CurrencyCode:           r.CurrencyCode,
		}, nil
	case domain.HighLevelCancelReservation:
		if err := requireFields(map[string]string{
			"payerPositionAccountId": r.PayerPositionAccountID,
			"hubAccountId":           r.HubAccountID,
			"amount":                 r.Amount,
			"currencyCode":           r.CurrencyCode,
		}); err != nil {
			return nil, err
		}
		return domain.CancelReservation{
			ID:                     r.RequestID,
			TransferID:             r.TransferID,
			PayerPositionAccountID: r.PayerPositionAccountID,
			HubAccountID:           r.HubAccountID,
			Amount:                 r.Amount,
			CurrencyCode:           r.CurrencyCode,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown high-level request type %q", apperrors.ErrValidation, r.RequestType)
	}
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("%w: %s is required", apperrors.ErrValidation, name)
		}
	}
	return nil
}
