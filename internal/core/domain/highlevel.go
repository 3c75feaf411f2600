package domain

// HighLevelRequestType tags the three operations of the transfer protocol.
type HighLevelRequestType string

const (
	HighLevelCheckLiquidAndReserve      HighLevelRequestType = "checkLiquidAndReserve"
	HighLevelCancelReservationAndCommit HighLevelRequestType = "cancelReservationAndCommit"
	HighLevelCancelReservation          HighLevelRequestType = "cancelReservation"
)

// HighLevelRequest is the closed sum of the three protocol requests. The
// sealed marker keeps the set of variants fixed to the payload structs below;
// dispatchers switch on the concrete type and treat anything else as a bug.
type HighLevelRequest interface {
	RequestID() string
	Type() HighLevelRequestType
	sealedHighLevelRequest()
}

// CheckLiquidAndReserve asks the ledger to gate a transfer on the payer's
// liquidity and, if allowed, reserve the amount as pending exposure against
// the payer position account.
type CheckLiquidAndReserve struct {
	ID                      string // request id, for per-request batch reporting
	TransferID              string
	PayerPositionAccountID  string
	PayerLiquidityAccountID string
	HubAccountID            string
	Amount                  string // decimal string, converted via the money codec
	CurrencyCode            string
	PayerNetDebitCap        string // decimal string
}

func (r CheckLiquidAndReserve) RequestID() string          { return r.ID }
func (r CheckLiquidAndReserve) Type() HighLevelRequestType { return HighLevelCheckLiquidAndReserve }
func (r CheckLiquidAndReserve) sealedHighLevelRequest()    {}

// CancelReservationAndCommit releases the pending reservation for a transfer
// and posts the settlement leg from payer to payee position.
type CancelReservationAndCommit struct {
	ID                     string
	TransferID             string
	PayerPositionAccountID string
	PayeePositionAccountID string
	HubAccountID           string
	Amount                 string
	CurrencyCode           string
}

func (r CancelReservationAndCommit) RequestID() string { return r.ID }
func (r CancelReservationAndCommit) Type() HighLevelRequestType {
	return HighLevelCancelReservationAndCommit
}
func (r CancelReservationAndCommit) sealedHighLevelRequest() {}

// CancelReservation releases the pending reservation for a transfer without
// settling it.
type CancelReservation struct {
	ID                     string
	TransferID             string
	PayerPositionAccountID string
	HubAccountID           string
	Amount                 string
	CurrencyCode           string
}

func (r CancelReservation) RequestID() string          { return r.ID }
func (r CancelReservation) Type() HighLevelRequestType { return HighLevelCancelReservation }
func (r CancelReservation) sealedHighLevelRequest()    {}

// HighLevelResponse reports the per-request outcome of a batch. A liquidity
// rejection or business-rule failure is Success=false with ErrorMessage set;
// it is an expected outcome, not an error.
type HighLevelResponse struct {
	RequestID    string               `json:"requestId"`
	RequestType  HighLevelRequestType `json:"requestType"`
	Success      bool                 `json:"success"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
}
