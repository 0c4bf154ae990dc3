package database

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal" // Для точных денежных значений
	"github.com/valeriaulyamaeva/fintrack/models"
)

// CreateGoal добавляет новую цель в базу данных
func CreateGoal(pool *pgxpool.Pool, goal *models.Goal) error {
	if goal.Amount.LessThanOrEqual(decimal.Zero) {
		return &models.ValidationError{Field: "amount", Message: "сумма цели должна быть больше нуля"}
	}
	if goal.Status == "" {
		goal.Status = "active"
	}

	query := `
		INSERT INTO goals (user_id, amount, current_amount, target_date, name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id`
	err := pool.QueryRow(context.Background(), query,
		goal.UserID,
		goal.Amount,
		goal.CurrentAmount,
		goal.TargetDate,
		goal.Name,
		goal.Status).Scan(&goal.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении цели: %v", err)
	}
	return nil
}

// GetGoalByID извлекает цель по ID
func GetGoalByID(pool *pgxpool.Pool, goalID int) (*models.Goal, error) {
	query := `
		SELECT id, user_id, amount, current_amount, target_date, name, status, created_at
		FROM goals
		WHERE id = $1`

	goal := &models.Goal{}
	err := pool.QueryRow(context.Background(), query, goalID).Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Amount,
		&goal.CurrentAmount,
		&goal.TargetDate,
		&goal.Name,
		&goal.Status,
		&goal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("цель с ID %d не найдена", goalID)
		}
		return nil, fmt.Errorf("ошибка при получении цели: %v", err)
	}
	return goal, nil
}

func GetGoalsByUserID(pool *pgxpool.Pool, userID int) ([]models.Goal, error) {
	query := `
		SELECT id, user_id, amount, current_amount, target_date, name, status, created_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении целей: %v", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var goal models.Goal
		if err := rows.Scan(
			&goal.ID,
			&goal.UserID,
			&goal.Amount,
			&goal.CurrentAmount,
			&goal.TargetDate,
			&goal.Name,
			&goal.Status,
			&goal.CreatedAt,
		); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, nil
}

// AddProgressToGoal увеличивает накопленную сумму цели и обновляет ее статус
func AddProgressToGoal(pool *pgxpool.Pool, goalID int, progress decimal.Decimal) error {
	if progress.LessThanOrEqual(decimal.Zero) {
		return &models.ValidationError{Field: "amount", Message: "сумма прогресса должна быть больше нуля"}
	}

	goal, err := GetGoalByID(pool, goalID)
	if err != nil {
		return err
	}

	goal.CurrentAmount = goal.CurrentAmount.Add(progress)
	goal.UpdateGoalStatus()

	query := `
		UPDATE goals
		SET current_amount = $1, status = $2
		WHERE id = $3`
	_, err = pool.Exec(context.Background(), query, goal.CurrentAmount, goal.Status, goal.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления прогресса цели: %v", err)
	}
	return nil
}

func DeleteGoal(pool *pgxpool.Pool, goalID, userID int) error {
	query := `
		DELETE FROM goals
		WHERE id = $1 AND user_id = $2`

	result, err := pool.Exec(context.Background(), query, goalID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("цель с ID %d не найдена", goalID)
	}
	return nil
}

// SumActiveGoalAmounts возвращает сумму накоплений по активным целям пользователя
func SumActiveGoalAmounts(pool *pgxpool.Pool, userID int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(current_amount), 0)
		FROM goals
		WHERE user_id = $1 AND status = 'active'`

	var total decimal.Decimal
	err := pool.QueryRow(context.Background(), query, userID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка при суммировании накоплений: %v", err)
	}
	return total, nil
}
