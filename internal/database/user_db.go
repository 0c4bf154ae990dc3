package database

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/fintrack/models"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser регистрирует нового пользователя
func RegisterUser(pool *pgxpool.Pool, user *models.User) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %v", err)
	}

	// Почтовые уведомления включены по умолчанию, порог предупреждения 90%
	user.EmailNotifications = true
	if user.BudgetAlertThreshold == 0 {
		user.BudgetAlertThreshold = 90
	}

	query := `
		INSERT INTO users (email, password, name, email_notifications, budget_alert_threshold)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err = pool.QueryRow(context.Background(), query,
		user.Email, hashedPassword, user.Name, user.EmailNotifications, user.BudgetAlertThreshold).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении пользователя: %v", err)
	}
	return nil
}

func AuthenticateUser(pool *pgxpool.Pool, email, password string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, password, name, email_notifications, budget_alert_threshold
		FROM users WHERE email = $1`
	err := pool.QueryRow(context.Background(), query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.Name,
		&user.EmailNotifications, &user.BudgetAlertThreshold)
	if err != nil {
		return nil, fmt.Errorf("пользователь не найден: %v", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("неверный пароль")
	}

	return &user, nil
}

func GetUserByID(pool *pgxpool.Pool, id int) (*models.User, error) {
	query := `
		SELECT id, name, email, email_notifications, budget_alert_threshold
		FROM users WHERE id = $1`
	row := pool.QueryRow(context.Background(), query, id)

	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.EmailNotifications, &user.BudgetAlertThreshold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("пользователь не найден")
		}
		return nil, fmt.Errorf("ошибка получения пользователя по id: %v", err)
	}

	return &user, nil
}

// GetUsersWithEmailNotifications возвращает пользователей, подписанных на почтовые уведомления
func GetUsersWithEmailNotifications(pool *pgxpool.Pool) ([]models.User, error) {
	query := `
		SELECT id, name, email, email_notifications, budget_alert_threshold
		FROM users WHERE email_notifications = true`

	rows, err := pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователей с уведомлениями: %v", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.EmailNotifications, &user.BudgetAlertThreshold); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// UpdateNotificationPreferences обновляет настройки уведомлений пользователя
func UpdateNotificationPreferences(pool *pgxpool.Pool, userID int, emailNotifications bool, threshold int) error {
	if threshold < 50 || threshold > 100 {
		return &models.ValidationError{Field: "budget_alert_threshold", Message: "порог предупреждения должен быть от 50 до 100 процентов"}
	}

	query := `
		UPDATE users
		SET email_notifications = $1, budget_alert_threshold = $2
		WHERE id = $3`
	result, err := pool.Exec(context.Background(), query, emailNotifications, threshold, userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления настроек уведомлений: %v", err)
	}
	if result.RowsAffected() == 0 {
		return errors.New("пользователь не найден")
	}
	return nil
}
