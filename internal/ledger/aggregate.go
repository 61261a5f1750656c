package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mlefebvre/enveloppe/internal/models"
)

// AggregateBalance computes the displayed balance of the aggregate account:
// the sum of all pocket raw balances, rounded to 2 decimals. This value
// always overrides whatever raw balance is stored on the aggregate account's
// own record; the stored value persists but is dead data for display.
func AggregateBalance(pockets []models.Container) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pockets {
		total = total.Add(p.Balance)
	}
	return Round2(total)
}

// NetWorth is the primary account's raw balance plus the aggregate account's
// computed balance, rounded to 2 decimals. A pure display aggregate; debts do
// not enter into it.
func NetWorth(primaryRaw decimal.Decimal, pockets []models.Container) decimal.Decimal {
	return Round2(primaryRaw.Add(AggregateBalance(pockets)))
}
