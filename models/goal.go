package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Goal struct {
	ID            int             `json:"id" db:"id"`
	UserID        int             `json:"user_id" db:"user_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	CurrentAmount decimal.Decimal `json:"current_amount" db:"current_amount"`
	TargetDate    time.Time       `json:"target_date" db:"target_date"`
	Name          string          `json:"name" db:"name"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	Status        string          `json:"status" db:"status"` // "active" или "completed"
}

func (g *Goal) RemainingAmount() decimal.Decimal {
	return g.Amount.Sub(g.CurrentAmount)
}

// Обновляет статус цели, если она достигнута
func (g *Goal) UpdateGoalStatus() {
	if g.CurrentAmount.GreaterThanOrEqual(g.Amount) {
		g.Status = "completed"
	}
}
