package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/models"
)

func TestRemainingAmount(t *testing.T) {
	budget := &models.Budget{
		MaxAmount:   decimal.RequireFromString("100.00"),
		SpentAmount: decimal.RequireFromString("35.50"),
	}

	remaining := budget.RemainingAmount()
	if !remaining.Equal(decimal.RequireFromString("64.50")) {
		t.Errorf("остаток не совпадает: получили %s, хотели 64.50", remaining)
	}
}

func TestSpentPercentage(t *testing.T) {
	budget := &models.Budget{
		MaxAmount:   decimal.RequireFromString("200.00"),
		SpentAmount: decimal.RequireFromString("95.00"),
	}

	percentage := budget.SpentPercentage()
	if !percentage.Equal(decimal.RequireFromString("47.5")) {
		t.Errorf("процент расхода не совпадает: получили %s, хотели 47.5", percentage)
	}
}

func TestSpentPercentageZeroLimit(t *testing.T) {
	budget := &models.Budget{
		MaxAmount:   decimal.Zero,
		SpentAmount: decimal.RequireFromString("10.00"),
	}

	if !budget.SpentPercentage().IsZero() {
		t.Errorf("при нулевом лимите процент должен быть нулевым, получили %s", budget.SpentPercentage())
	}
}

func TestIsExceeded(t *testing.T) {
	// Равенство лимиту превышением не считается
	budget := &models.Budget{
		MaxAmount:   decimal.RequireFromString("100.00"),
		SpentAmount: decimal.RequireFromString("100.00"),
	}
	if budget.IsExceeded() {
		t.Errorf("бюджет с расходом равным лимиту не должен считаться превышенным")
	}

	budget.SpentAmount = decimal.RequireFromString("100.01")
	if !budget.IsExceeded() {
		t.Errorf("бюджет с расходом 100.01 при лимите 100.00 должен считаться превышенным")
	}
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		spent string
		want  string
	}{
		{"50.00", "green"},
		{"89.99", "green"},
		{"90.00", "yellow"}, // фиксированный порог отображения, не зависит от настроек пользователя
		{"100.00", "yellow"},
		{"100.01", "red"},
	}

	for _, tt := range tests {
		budget := &models.Budget{
			MaxAmount:   decimal.RequireFromString("100.00"),
			SpentAmount: decimal.RequireFromString(tt.spent),
		}
		if got := budget.StatusColor(); got != tt.want {
			t.Errorf("цвет статуса при расходе %s не совпадает: получили %s, хотели %s", tt.spent, got, tt.want)
		}
	}
}
