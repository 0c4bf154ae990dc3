package models

import "time"

const (
	NotificationBudgetExceeded = "budget_exceeded"
	NotificationBudgetWarning  = "budget_warning"
	NotificationBudgetReminder = "budget_reminder"
)

type Notification struct {
	ID       int       `json:"id" db:"id"`
	UserID   int       `json:"user_id" db:"user_id"`
	BudgetID int       `json:"budget_id" db:"budget_id"`
	Type     string    `json:"type" db:"type"`
	Title    string    `json:"title" db:"title"`
	Message  string    `json:"message" db:"message"`
	SentAt   time.Time `json:"sent_at" db:"sent_at"`
	IsRead   bool      `json:"is_read" db:"is_read"`
}
