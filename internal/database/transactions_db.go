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

func CreateTransaction(pool *pgxpool.Pool, transaction *models.Transaction) error {
	if transaction.Amount.LessThanOrEqual(decimal.Zero) {
		return &models.ValidationError{Field: "amount", Message: "сумма транзакции должна быть больше нуля"}
	}
	if transaction.Type != models.TransactionIncome && transaction.Type != models.TransactionExpense {
		return &models.ValidationError{Field: "type", Message: "тип транзакции должен быть income или expense"}
	}

	query := `
		INSERT INTO transactions (user_id, category_id, amount, type, description, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := pool.QueryRow(context.Background(), query,
		transaction.UserID,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Type,
		transaction.Description,
		transaction.Date).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении транзакции: %v", err)
	}
	return nil
}

func GetTransactionByID(pool *pgxpool.Pool, transactionID int) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, category_id, amount, type, description, transaction_date
		FROM transactions
		WHERE id = $1`

	transaction := &models.Transaction{}
	err := pool.QueryRow(context.Background(), query, transactionID).Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.CategoryID,
		&transaction.Amount,
		&transaction.Type,
		&transaction.Description,
		&transaction.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("транзакция с ID %d не найдена", transactionID)
		}
		return nil, fmt.Errorf("ошибка при получении транзакции: %v", err)
	}

	return transaction, nil
}

func GetTransactionsByUserID(pool *pgxpool.Pool, userID int) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, category_id, amount, type, description, transaction_date
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций: %v", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var transaction models.Transaction
		if err := rows.Scan(
			&transaction.ID,
			&transaction.UserID,
			&transaction.CategoryID,
			&transaction.Amount,
			&transaction.Type,
			&transaction.Description,
			&transaction.Date,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, nil
}

func UpdateTransaction(pool *pgxpool.Pool, transaction *models.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $1, amount = $2, type = $3, description = $4, transaction_date = $5
		WHERE id = $6 AND user_id = $7`

	result, err := pool.Exec(context.Background(), query,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Type,
		transaction.Description,
		transaction.Date,
		transaction.ID,
		transaction.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления транзакции: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена", transaction.ID)
	}
	return nil
}

func DeleteTransaction(pool *pgxpool.Pool, transactionID, userID int) error {
	query := `
		DELETE FROM transactions
		WHERE id = $1 AND user_id = $2`

	result, err := pool.Exec(context.Background(), query, transactionID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления транзакции: %v", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена", transactionID)
	}
	return nil
}

// SumExpenses суммирует расходные транзакции пользователя за период.
// categoryID == nil означает бюджет на весь месяц, без фильтра по категории.
// Пустой результат — это ноль, а не ошибка.
func SumExpenses(pool *pgxpool.Pool, userID int, categoryID *int, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense'
		AND transaction_date BETWEEN $2 AND $3`
	args := []interface{}{userID, from, to}

	if categoryID != nil {
		query += ` AND category_id = $4`
		args = append(args, *categoryID)
	}

	var total decimal.Decimal
	err := pool.QueryRow(context.Background(), query, args...).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка при суммировании расходов: %v", err)
	}
	return total, nil
}
