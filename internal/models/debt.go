package models

import "github.com/shopspring/decimal"

// Debt represents an informal IOU between two containers: ToFund owes Amount
// to BorrowFrom. BorrowFrom's true available money is increased by Amount (it
// lent money out) and ToFund's is decreased by Amount.
//
// Debts are immutable once created except for deletion; there is no partial
// settlement, only full removal. Debt lists are ordered newest first.
type Debt struct {
	// ID is the unique identifier for the debt (UUID format).
	ID string

	// Date is the creation date in YYYY-MM-DD form.
	Date string

	// BorrowFrom is the name of the container the money was taken from
	// (the lender; its virtual balance goes up by Amount).
	BorrowFrom string

	// ToFund is the name of the container the money went to (the borrower;
	// its virtual balance goes down by Amount).
	ToFund string

	// Amount is the debt amount, rounded to 2 decimals. Zero is allowed
	// (harmless); negative amounts are rejected at creation.
	Amount decimal.Decimal

	// Note is an optional free-form description.
	Note string
}
