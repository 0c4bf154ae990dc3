package database

import (
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/net/context"
)

// GetTotalBalance считает текущий баланс пользователя:
// все доходы минус все расходы минус накопления по активным целям
func GetTotalBalance(pool *pgxpool.Pool, userID int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0) AS total_balance
		FROM transactions
		WHERE user_id = $1`
	var totalBalance decimal.Decimal
	err := pool.QueryRow(context.Background(), query, userID).Scan(&totalBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка при получении общего баланса: %v", err)
	}

	goalAmounts, err := SumActiveGoalAmounts(pool, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return totalBalance.Sub(goalAmounts), nil
}

func GetIncomeExpenseSummary(pool *pgxpool.Pool, userID int) (map[string]decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS total_expense
		FROM transactions
		WHERE user_id = $1
		AND DATE_TRUNC('month', transaction_date) = DATE_TRUNC('month', CURRENT_DATE)`
	var totalIncome, totalExpense decimal.Decimal
	err := pool.QueryRow(context.Background(), query, userID).Scan(&totalIncome, &totalExpense)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении доходов и расходов: %v", err)
	}
	return map[string]decimal.Decimal{
		"income":  totalIncome,
		"expense": totalExpense,
	}, nil
}

func GetMonthlyExpenses(pool *pgxpool.Pool, userID int) ([]map[string]interface{}, error) {
	query := `
		SELECT EXTRACT(MONTH FROM transaction_date) AS month, SUM(amount) AS total
		FROM transactions
		WHERE user_id = $1 AND type = 'expense'
		AND DATE_PART('year', transaction_date) = DATE_PART('year', CURRENT_DATE)
		GROUP BY month
		ORDER BY month`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении месячных расходов: %v", err)
	}
	defer rows.Close()

	var expenses []map[string]interface{}
	for rows.Next() {
		var month int
		var total decimal.Decimal
		if err := rows.Scan(&month, &total); err != nil {
			return nil, err
		}
		expenses = append(expenses, map[string]interface{}{
			"month": month,
			"total": total,
		})
	}
	return expenses, nil
}

func GetCategoryWiseExpenses(pool *pgxpool.Pool, userID int) ([]map[string]interface{}, error) {
	query := `
		SELECT c.name AS category, COALESCE(SUM(t.amount), 0) AS total
		FROM transactions t
		JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1 AND t.type = 'expense'
		AND DATE_TRUNC('month', t.transaction_date) = DATE_TRUNC('month', CURRENT_DATE)
		GROUP BY c.name
		ORDER BY total DESC`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении расходов по категориям: %v", err)
	}
	defer rows.Close()

	var expenses []map[string]interface{}
	for rows.Next() {
		var category string
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		expenses = append(expenses, map[string]interface{}{
			"category": category,
			"total":    total,
		})
	}
	return expenses, nil
}
