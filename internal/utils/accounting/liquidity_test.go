package accounting_test

import (
	"testing"

	"github.com/clearstream/hubledger/internal/core/domain"
	"github.com/clearstream/hubledger/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
)

func TestCheckLiquidity(t *testing.T) {
	testCases := []struct {
		name        string
		position    domain.Account
		liquidity   domain.Account
		amount      int64
		netDebitCap int64
		want        bool
	}{
		{
			name:      "fresh position within pledged liquidity",
			position:  domain.Account{},
			liquidity: domain.Account{PostedCreditBalance: 10000},
			amount:    5000,
			want:      true,
		},
		{
			name:      "amount equal to available liquidity",
			position:  domain.Account{},
			liquidity: domain.Account{PostedCreditBalance: 10000},
			amount:    10000,
			want:      true,
		},
		{
			name:      "amount exceeds available liquidity",
			position:  domain.Account{},
			liquidity: domain.Account{PostedCreditBalance: 10000},
			amount:    10001,
			want:      false,
		},
		{
			name:      "pending exposure counts against liquidity",
			position:  domain.Account{PendingDebitBalance: 6000},
			liquidity: domain.Account{PostedCreditBalance: 10000},
			amount:    5000,
			want:      false,
		},
		{
			name:      "posted credits offset exposure",
			position:  domain.Account{PostedDebitBalance: 8000, PostedCreditBalance: 4000},
			liquidity: domain.Account{PostedCreditBalance: 10000},
			amount:    5000,
			want:      true,
		},
		{
			name:        "net debit cap shrinks headroom",
			position:    domain.Account{},
			liquidity:   domain.Account{PostedCreditBalance: 10000},
			amount:      5000,
			netDebitCap: 6000,
			want:        false,
		},
		{
			name:      "liquidity debits shrink headroom",
			position:  domain.Account{},
			liquidity: domain.Account{PostedCreditBalance: 10000, PostedDebitBalance: 7000},
			amount:    5000,
			want:      false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := accounting.CheckLiquidity(&tc.position, &tc.liquidity, tc.amount, tc.netDebitCap)
			assert.Equal(t, tc.want, got)
		})
	}
}
