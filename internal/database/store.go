package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// Store оборачивает пул соединений для сервиса уведомлений,
// чтобы тот получал хранилище через конструктор, а не через пакетные функции
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) UserByID(id int) (*models.User, error) {
	return GetUserByID(s.pool, id)
}

func (s *Store) UsersWithEmailNotifications() ([]models.User, error) {
	return GetUsersWithEmailNotifications(s.pool)
}

func (s *Store) RecomputeSpentAmounts(userID, year, month int) error {
	return UpdateSpentAmounts(s.pool, userID, year, month)
}

func (s *Store) MonthlyBudgets(userID, year, month int) ([]models.Budget, error) {
	return GetMonthlyBudgets(s.pool, userID, year, month)
}

func (s *Store) RecordNotification(notification *models.Notification) (bool, error) {
	return CreateNotification(s.pool, notification)
}

func (s *Store) NotificationExistsForDay(userID, budgetID int, notificationType string, day time.Time) (bool, error) {
	return NotificationExistsForDay(s.pool, userID, budgetID, notificationType, day)
}
