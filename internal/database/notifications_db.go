package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/fintrack/models"
)

var ErrNotificationNotFound = errors.New("уведомление не найдено")

// CreateNotification добавляет запись в журнал уведомлений. Запись неизменяемая,
// после создания меняется только флаг is_read.
// Возвращает false, если уникальный индекс по (user_id, budget_id, type, дню sent_at)
// отклонил вставку: уведомление этого типа сегодня уже было, и это не ошибка.
func CreateNotification(pool *pgxpool.Pool, notification *models.Notification) (bool, error) {
	query := `
		INSERT INTO notifications (user_id, budget_id, type, title, message, sent_at, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, false)
		ON CONFLICT DO NOTHING
		RETURNING id`

	err := pool.QueryRow(context.Background(), query,
		notification.UserID,
		notification.BudgetID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.SentAt).Scan(&notification.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка при добавлении уведомления: %v", err)
	}
	return true, nil
}

// NotificationExistsForDay проверяет, было ли уведомление данного типа по бюджету
// в течение календарного дня [00:00, 00:00 следующего дня) по локальному времени
func NotificationExistsForDay(pool *pgxpool.Pool, userID, budgetID int, notificationType string, day time.Time) (bool, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND budget_id = $2 AND type = $3
			AND sent_at >= $4 AND sent_at < $5
		)`

	var exists bool
	err := pool.QueryRow(context.Background(), query,
		userID, budgetID, notificationType, dayStart, dayEnd).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки отправленных уведомлений: %v", err)
	}
	return exists, nil
}

func GetNotificationsByUserID(pool *pgxpool.Pool, userID, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, budget_id, type, title, message, sent_at, is_read
		FROM notifications
		WHERE user_id = $1
		ORDER BY sent_at DESC
		LIMIT $2`

	rows, err := pool.Query(context.Background(), query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении уведомлений: %v", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.BudgetID,
			&notification.Type,
			&notification.Title,
			&notification.Message,
			&notification.SentAt,
			&notification.IsRead,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}

func MarkNotificationAsRead(pool *pgxpool.Pool, notificationID, userID int) error {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE id = $1 AND user_id = $2`

	result, err := pool.Exec(context.Background(), query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления уведомления: %v", err)
	}

	// Чужое уведомление неотличимо от несуществующего
	if result.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func MarkAllNotificationsAsRead(pool *pgxpool.Pool, userID int) error {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE user_id = $1 AND is_read = false`

	_, err := pool.Exec(context.Background(), query, userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления уведомлений: %v", err)
	}
	return nil
}
