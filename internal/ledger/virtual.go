package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mlefebvre/enveloppe/internal/models"
)

// VirtualBalance computes a container's true available balance: the raw
// stored balance adjusted by every outstanding debt referencing the
// container's name. Money the container lent out (BorrowFrom == name) is
// added back; money it owes (ToFund == name) is subtracted.
//
// All matching debts apply independently; there is no netting between a pair
// of containers, and a debt can match the same container on both sides. Debts
// naming unknown containers simply never match and are inert. The result may
// legitimately be negative: the container is overdrawn once debts are
// honored, and that information must not be suppressed.
func VirtualBalance(name string, raw decimal.Decimal, debts []models.Debt) decimal.Decimal {
	balance := raw
	for _, d := range debts {
		if d.BorrowFrom == name {
			balance = balance.Add(d.Amount)
		}
		if d.ToFund == name {
			balance = balance.Sub(d.Amount)
		}
	}
	return Round2(balance)
}
