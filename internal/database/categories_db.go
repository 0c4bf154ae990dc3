package database

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/fintrack/models"
)

func CreateCategory(pool *pgxpool.Pool, category *models.Category) error {
	// Имя категории уникально в пределах пользователя
	var existing int
	err := pool.QueryRow(context.Background(),
		`SELECT id FROM categories WHERE user_id = $1 AND name = $2`,
		category.UserID, category.Name).Scan(&existing)
	if err == nil {
		return fmt.Errorf("категория %q уже существует", category.Name)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка проверки категории: %v", err)
	}

	query := `
        INSERT INTO categories (user_id, name, type) VALUES ($1, $2, $3) RETURNING id`

	err = pool.QueryRow(context.Background(), query, category.UserID, category.Name, category.Type).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении категории: %v", err)
	}
	return nil
}

func GetCategoryByID(pool *pgxpool.Pool, categoryID int) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, type
		FROM categories
		WHERE id = $1`

	category := &models.Category{}

	err := pool.QueryRow(context.Background(), query, categoryID).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Type,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("категория с ID %d не найдена", categoryID)
		}
		return nil, fmt.Errorf("ошибка при получении категории: %v", err)
	}

	return category, nil
}

func UpdateCategory(pool *pgxpool.Pool, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, type = $2
		WHERE id = $3 AND user_id = $4`

	result, err := pool.Exec(context.Background(), query, category.Name, category.Type, category.ID, category.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления категории: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("категория с ID %d не найдена", category.ID)
	}
	return nil
}

// DeleteCategory удаляет категорию. Ссылки из транзакций и бюджетов обнуляются,
// сами записи не удаляются.
func DeleteCategory(pool *pgxpool.Pool, categoryID, userID int) error {
	if _, err := pool.Exec(context.Background(),
		`UPDATE transactions SET category_id = NULL WHERE category_id = $1 AND user_id = $2`,
		categoryID, userID); err != nil {
		return fmt.Errorf("ошибка отвязки транзакций от категории: %v", err)
	}
	if _, err := pool.Exec(context.Background(),
		`UPDATE budgets SET category_id = NULL WHERE category_id = $1 AND user_id = $2`,
		categoryID, userID); err != nil {
		return fmt.Errorf("ошибка отвязки бюджетов от категории: %v", err)
	}

	result, err := pool.Exec(context.Background(),
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении категории: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("категория с ID %d не найдена", categoryID)
	}

	return nil
}

func GetCategoriesByUserID(pool *pgxpool.Pool, userID int) ([]models.Category, error) {
	query := `SELECT id, user_id, name, type FROM categories WHERE user_id = $1 ORDER BY name`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении категорий: %v", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Type); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}
