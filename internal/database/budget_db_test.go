package database_test

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// testPool подключается к тестовой БД; без настроенного окружения тесты пропускаются
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load()
	if os.Getenv("DB_HOST") == "" {
		t.Skip("БД не настроена, пропускаем интеграционный тест")
	}
	pool, err := database.ConnectDB()
	if err != nil {
		t.Fatalf("ошибка подключения к БД: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func validBudget() *models.Budget {
	return &models.Budget{
		UserID:    1,
		Name:      "Продукты",
		Month:     3,
		Year:      2024,
		MaxAmount: decimal.RequireFromString("500.00"),
	}
}

// Валидация срабатывает до любого обращения к БД, поэтому пул здесь не нужен
func TestCreateBudgetValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.Budget)
		wantField string
	}{
		{"короткое название", func(b *models.Budget) { b.Name = "A" }, "name"},
		{"нулевой месяц", func(b *models.Budget) { b.Month = 0 }, "month"},
		{"тринадцатый месяц", func(b *models.Budget) { b.Month = 13 }, "month"},
		{"год до диапазона", func(b *models.Budget) { b.Year = 2019 }, "year"},
		{"год после диапазона", func(b *models.Budget) { b.Year = 2031 }, "year"},
		{"нулевой лимит", func(b *models.Budget) { b.MaxAmount = decimal.Zero }, "max_amount"},
		{"отрицательный лимит", func(b *models.Budget) { b.MaxAmount = decimal.RequireFromString("-1") }, "max_amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := validBudget()
			tt.mutate(budget)

			err := database.CreateBudget(nil, budget)
			var validationErr *models.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("ожидали ошибку валидации, получили: %v", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("ошибка не в том поле: получили %q, хотели %q", validationErr.Field, tt.wantField)
			}
		})
	}
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		year, month int
		wantStart   string
		wantEnd     string
	}{
		{2024, 3, "2024-03-01", "2024-03-31"},
		{2024, 2, "2024-02-01", "2024-02-29"},
		{2023, 2, "2023-02-01", "2023-02-28"},
		{2024, 12, "2024-12-01", "2024-12-31"},
	}

	for _, tt := range tests {
		start, end := database.MonthBounds(tt.year, tt.month)
		if got := start.Format("2006-01-02"); got != tt.wantStart {
			t.Errorf("начало месяца %d.%d: получили %s, хотели %s", tt.month, tt.year, got, tt.wantStart)
		}
		if got := end.Format("2006-01-02"); got != tt.wantEnd {
			t.Errorf("конец месяца %d.%d: получили %s, хотели %s", tt.month, tt.year, got, tt.wantEnd)
		}
	}
}

func TestCreateBudgetDuplicateScope(t *testing.T) {
	pool := testPool(t)

	budget := validBudget()
	budget.Name = fmt.Sprintf("Тестовый бюджет %d", time.Now().UnixNano())

	if err := database.CreateBudget(pool, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}
	t.Cleanup(func() {
		_ = database.DeleteBudget(pool, budget.ID, budget.UserID)
	})

	duplicate := validBudget()
	duplicate.Name = "Дубликат периода"
	err := database.CreateBudget(pool, duplicate)
	if !errors.Is(err, database.ErrBudgetScopeExists) {
		t.Fatalf("ожидали ErrBudgetScopeExists, получили: %v", err)
	}
}

func TestUpdateSpentAmountsIdempotent(t *testing.T) {
	pool := testPool(t)

	budget := validBudget()
	budget.Name = fmt.Sprintf("Тестовый бюджет %d", time.Now().UnixNano())
	if err := database.CreateBudget(pool, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}
	t.Cleanup(func() {
		_ = database.DeleteBudget(pool, budget.ID, budget.UserID)
	})

	if err := database.UpdateSpentAmounts(pool, budget.UserID, budget.Year, budget.Month); err != nil {
		t.Fatalf("ошибка пересчета: %v", err)
	}
	first, err := database.GetBudgetByID(pool, budget.ID, budget.UserID)
	if err != nil {
		t.Fatalf("ошибка получения бюджета: %v", err)
	}

	if err := database.UpdateSpentAmounts(pool, budget.UserID, budget.Year, budget.Month); err != nil {
		t.Fatalf("ошибка повторного пересчета: %v", err)
	}
	second, err := database.GetBudgetByID(pool, budget.ID, budget.UserID)
	if err != nil {
		t.Fatalf("ошибка получения бюджета: %v", err)
	}

	if !first.SpentAmount.Equal(second.SpentAmount) {
		t.Errorf("повторный пересчет изменил сумму: %s -> %s", first.SpentAmount, second.SpentAmount)
	}
}

func TestGetBudgetByIDOwnership(t *testing.T) {
	pool := testPool(t)

	budget := validBudget()
	budget.Name = fmt.Sprintf("Тестовый бюджет %d", time.Now().UnixNano())
	if err := database.CreateBudget(pool, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}
	t.Cleanup(func() {
		_ = database.DeleteBudget(pool, budget.ID, budget.UserID)
	})

	// Чужой пользователь не видит бюджет
	_, err := database.GetBudgetByID(pool, budget.ID, budget.UserID+1)
	if !errors.Is(err, database.ErrBudgetNotFound) {
		t.Fatalf("ожидали ErrBudgetNotFound для чужого пользователя, получили: %v", err)
	}
}
