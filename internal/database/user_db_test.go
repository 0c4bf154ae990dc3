package database_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// Порог проверяется до обращения к БД
func TestUpdateNotificationPreferencesValidation(t *testing.T) {
	for _, threshold := range []int{49, 101, 0, -1} {
		err := database.UpdateNotificationPreferences(nil, 1, true, threshold)
		var validationErr *models.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("порог %d: ожидали ошибку валидации, получили: %v", threshold, err)
		}
	}
}

func TestRegisterUserDefaults(t *testing.T) {
	pool := testPool(t)

	user := &models.User{
		Email:    fmt.Sprintf("test%d@example.com", time.Now().UnixNano()),
		Password: "secret123",
		Name:     "Тестовый пользователь",
	}
	if err := database.RegisterUser(pool, user); err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	saved, err := database.GetUserByID(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка получения пользователя: %v", err)
	}
	if !saved.EmailNotifications {
		t.Error("уведомления должны быть включены по умолчанию")
	}
	if saved.BudgetAlertThreshold != 90 {
		t.Errorf("порог по умолчанию: получили %d, хотели 90", saved.BudgetAlertThreshold)
	}

	// Пароль хранится только в виде хеша
	authed, err := database.AuthenticateUser(pool, user.Email, "secret123")
	if err != nil {
		t.Fatalf("ошибка аутентификации: %v", err)
	}
	if authed.ID != user.ID {
		t.Errorf("аутентифицирован не тот пользователь: %d вместо %d", authed.ID, user.ID)
	}
	if _, err := database.AuthenticateUser(pool, user.Email, "wrong"); err == nil {
		t.Error("неверный пароль не должен проходить")
	}
}
