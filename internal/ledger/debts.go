package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlefebvre/enveloppe/internal/models"
)

// ErrMissingContainer is returned when a debt is created without both
// container names.
var ErrMissingContainer = errors.New("debt needs both a lender and a borrower")

// AddDebt returns a new debt list with a freshly created debt prepended
// (debt history is newest first). The amount is rounded to 2 decimals and the
// record gets a UUID and the current date. The input list is not mutated.
//
// Negative amounts are rejected; zero is allowed.
func AddDebt(debts []models.Debt, borrowFrom, toFund string, amount decimal.Decimal, note string) ([]models.Debt, error) {
	if borrowFrom == "" || toFund == "" {
		return nil, ErrMissingContainer
	}
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	debt := models.Debt{
		ID:         uuid.New().String(),
		Date:       time.Now().Format("2006-01-02"),
		BorrowFrom: borrowFrom,
		ToFund:     toFund,
		Amount:     Round2(amount),
		Note:       note,
	}

	out := make([]models.Debt, 0, len(debts)+1)
	out = append(out, debt)
	out = append(out, debts...)
	return out, nil
}

// RemoveDebt returns a new debt list without the entry matching id,
// preserving order. An absent id is a no-op, not an error.
func RemoveDebt(debts []models.Debt, id string) []models.Debt {
	out := make([]models.Debt, 0, len(debts))
	for _, d := range debts {
		if d.ID == id {
			continue
		}
		out = append(out, d)
	}
	return out
}
