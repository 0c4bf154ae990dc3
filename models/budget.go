package models

import "github.com/shopspring/decimal"

type Budget struct {
	ID           int             `json:"id" db:"id"`
	UserID       int             `json:"user_id" db:"user_id"`
	CategoryID   *int            `json:"category_id,omitempty" db:"category_id"`
	CategoryName string          `json:"category_name,omitempty" db:"-"`
	Name         string          `json:"name" db:"name"`
	Month        int             `json:"month" db:"month"`
	Year         int             `json:"year" db:"year"`
	MaxAmount    decimal.Decimal `json:"max_amount" db:"max_amount"`
	SpentAmount  decimal.Decimal `json:"spent_amount" db:"spent_amount"` // вычисляемое поле, пишется только пересчетом
}

func (b *Budget) RemainingAmount() decimal.Decimal {
	return b.MaxAmount.Sub(b.SpentAmount)
}

func (b *Budget) SpentPercentage() decimal.Decimal {
	if b.MaxAmount.IsZero() {
		return decimal.Zero
	}
	return b.SpentAmount.Div(b.MaxAmount).Mul(decimal.NewFromInt(100))
}

// IsExceeded — строго больше лимита, равенство превышением не считается
func (b *Budget) IsExceeded() bool {
	return b.SpentAmount.GreaterThan(b.MaxAmount)
}

func (b *Budget) StatusColor() string {
	if b.IsExceeded() {
		return "red"
	}
	if b.SpentPercentage().GreaterThanOrEqual(decimal.NewFromInt(90)) {
		return "yellow"
	}
	return "green"
}
