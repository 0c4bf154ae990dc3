package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/models"
)

var (
	ErrBudgetNotFound    = errors.New("бюджет не найден")
	ErrBudgetScopeExists = errors.New("бюджет для этой категории и периода уже существует")
)

const (
	minBudgetYear = 2020
	maxBudgetYear = 2030
)

func validateBudget(budget *models.Budget) error {
	if len([]rune(budget.Name)) < 2 {
		return &models.ValidationError{Field: "name", Message: "название бюджета должно быть не короче 2 символов"}
	}
	if budget.Month < 1 || budget.Month > 12 {
		return &models.ValidationError{Field: "month", Message: "месяц должен быть от 1 до 12"}
	}
	if budget.Year < minBudgetYear || budget.Year > maxBudgetYear {
		return &models.ValidationError{Field: "year", Message: fmt.Sprintf("год должен быть от %d до %d", minBudgetYear, maxBudgetYear)}
	}
	if budget.MaxAmount.LessThanOrEqual(decimal.Zero) {
		return &models.ValidationError{Field: "max_amount", Message: "лимит бюджета должен быть больше нуля"}
	}
	return nil
}

// MonthBounds возвращает первый и последний день месяца включительно
func MonthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, -1)
	return start, end
}

func budgetScopeExists(pool *pgxpool.Pool, budget *models.Budget) (bool, error) {
	// IS NOT DISTINCT FROM корректно сравнивает и NULL-категорию
	query := `
		SELECT id FROM budgets
		WHERE user_id = $1 AND month = $2 AND year = $3
		AND category_id IS NOT DISTINCT FROM $4
		AND id <> $5`

	var id int
	err := pool.QueryRow(context.Background(), query,
		budget.UserID, budget.Month, budget.Year, budget.CategoryID, budget.ID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка проверки дубликата бюджета: %v", err)
	}
	return true, nil
}

func CreateBudget(pool *pgxpool.Pool, budget *models.Budget) error {
	if err := validateBudget(budget); err != nil {
		return err
	}

	exists, err := budgetScopeExists(pool, budget)
	if err != nil {
		return err
	}
	if exists {
		return ErrBudgetScopeExists
	}

	budget.SpentAmount = decimal.Zero
	query := `
		INSERT INTO budgets (user_id, category_id, name, month, year, max_amount, spent_amount)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		RETURNING id`

	err = pool.QueryRow(context.Background(), query,
		budget.UserID,
		budget.CategoryID,
		budget.Name,
		budget.Month,
		budget.Year,
		budget.MaxAmount).Scan(&budget.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении бюджета: %v", err)
	}

	// Сразу пересчитываем потраченное, чтобы новый бюджет не показывал ноль при уже существующих расходах
	if err := UpdateSpentAmounts(pool, budget.UserID, budget.Year, budget.Month); err != nil {
		return err
	}
	return nil
}

func GetBudgetByID(pool *pgxpool.Pool, budgetID, userID int) (*models.Budget, error) {
	query := `
		SELECT b.id, b.user_id, b.category_id, c.name, b.name, b.month, b.year, b.max_amount, b.spent_amount
		FROM budgets b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.id = $1 AND b.user_id = $2`

	budget := &models.Budget{}
	var categoryName *string
	err := pool.QueryRow(context.Background(), query, budgetID, userID).Scan(
		&budget.ID,
		&budget.UserID,
		&budget.CategoryID,
		&categoryName,
		&budget.Name,
		&budget.Month,
		&budget.Year,
		&budget.MaxAmount,
		&budget.SpentAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("ошибка при получении бюджета: %v", err)
	}
	if categoryName != nil {
		budget.CategoryName = *categoryName
	}

	return budget, nil
}

func GetMonthlyBudgets(pool *pgxpool.Pool, userID, year, month int) ([]models.Budget, error) {
	query := `
		SELECT b.id, b.user_id, b.category_id, c.name, b.name, b.month, b.year, b.max_amount, b.spent_amount
		FROM budgets b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.user_id = $1 AND b.year = $2 AND b.month = $3
		ORDER BY b.max_amount DESC`

	rows, err := pool.Query(context.Background(), query, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении бюджетов: %v", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var budget models.Budget
		var categoryName *string
		if err := rows.Scan(
			&budget.ID,
			&budget.UserID,
			&budget.CategoryID,
			&categoryName,
			&budget.Name,
			&budget.Month,
			&budget.Year,
			&budget.MaxAmount,
			&budget.SpentAmount,
		); err != nil {
			return nil, err
		}
		if categoryName != nil {
			budget.CategoryName = *categoryName
		}
		budgets = append(budgets, budget)
	}
	return budgets, nil
}

func UpdateBudget(pool *pgxpool.Pool, budget *models.Budget) error {
	old, err := GetBudgetByID(pool, budget.ID, budget.UserID)
	if err != nil {
		return err
	}

	if err := validateBudget(budget); err != nil {
		return err
	}

	exists, err := budgetScopeExists(pool, budget)
	if err != nil {
		return err
	}
	if exists {
		return ErrBudgetScopeExists
	}

	query := `
		UPDATE budgets
		SET category_id = $1, name = $2, month = $3, year = $4, max_amount = $5
		WHERE id = $6 AND user_id = $7`

	result, err := pool.Exec(context.Background(), query,
		budget.CategoryID,
		budget.Name,
		budget.Month,
		budget.Year,
		budget.MaxAmount,
		budget.ID,
		budget.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления бюджета: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrBudgetNotFound
	}

	// Пересчитываем старый период, а при переносе бюджета — и новый,
	// чтобы кэш потраченного не устаревал ни для одного из периодов
	if err := UpdateSpentAmounts(pool, budget.UserID, old.Year, old.Month); err != nil {
		return err
	}
	if old.Year != budget.Year || old.Month != budget.Month {
		if err := UpdateSpentAmounts(pool, budget.UserID, budget.Year, budget.Month); err != nil {
			return err
		}
	}
	return nil
}

func DeleteBudget(pool *pgxpool.Pool, budgetID, userID int) error {
	if _, err := GetBudgetByID(pool, budgetID, userID); err != nil {
		return err
	}

	// Уведомления бюджета удаляются вместе с ним
	if _, err := pool.Exec(context.Background(),
		`DELETE FROM notifications WHERE budget_id = $1 AND user_id = $2`, budgetID, userID); err != nil {
		return fmt.Errorf("ошибка удаления уведомлений бюджета: %v", err)
	}

	result, err := pool.Exec(context.Background(),
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления бюджета: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

// UpdateSpentAmounts — единственное место, где пишется spent_amount.
// Повторный вызов без новых транзакций дает тот же результат.
func UpdateSpentAmounts(pool *pgxpool.Pool, userID, year, month int) error {
	budgets, err := GetMonthlyBudgets(pool, userID, year, month)
	if err != nil {
		return err
	}

	from, to := MonthBounds(year, month)
	for _, budget := range budgets {
		spent, err := SumExpenses(pool, userID, budget.CategoryID, from, to)
		if err != nil {
			return err
		}
		_, err = pool.Exec(context.Background(),
			`UPDATE budgets SET spent_amount = $1 WHERE id = $2`, spent, budget.ID)
		if err != nil {
			return fmt.Errorf("ошибка записи потраченной суммы для бюджета %d: %v", budget.ID, err)
		}
	}
	return nil
}
