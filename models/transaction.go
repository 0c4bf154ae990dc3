package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

type Transaction struct {
	ID          int             `json:"id" db:"id"`
	UserID      int             `json:"user_id" db:"user_id"`
	CategoryID  *int            `json:"category_id,omitempty" db:"category_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Date        time.Time       `json:"date" db:"transaction_date"`
	Type        string          `json:"type" db:"type"` // Возможные значения: "income", "expense"
	Description string          `json:"description" db:"description"`
}
