// Package accounting holds the pure balance arithmetic shared by the ledger
// service and its tests.
package accounting

import "github.com/clearstream/hubledger/internal/core/domain"

// CheckLiquidity reports whether a reservation of amount may proceed.
// All inputs are same-currency scaled integers. With payer position balances
// Dp (posted debit), dp (pending debit), Cp (posted credit), payer liquidity
// balances Cl (posted credit), Dl (posted debit) and net debit cap N, the
// reservation is allowed iff
//
//	Dp + dp - Cp + amount <= (Cl - Dl) - N
func CheckLiquidity(payerPosition, payerLiquidity *domain.Account, amount, netDebitCap int64) bool {
	exposure := payerPosition.PostedDebitBalance + payerPosition.PendingDebitBalance - payerPosition.PostedCreditBalance
	liquidity := payerLiquidity.PostedCreditBalance - payerLiquidity.PostedDebitBalance
	return exposure+amount <= liquidity-netDebitCap
}
