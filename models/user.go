package models

type User struct {
	ID                   int    `json:"id" db:"id"`
	Name                 string `json:"name" db:"name"`
	Email                string `json:"email" db:"email"`
	Password             string `json:"password,omitempty" db:"password"`
	Currency             string `json:"currency" db:"currency"`
	EmailNotifications   bool   `json:"email_notifications" db:"email_notifications"`
	BudgetAlertThreshold int    `json:"budget_alert_threshold" db:"budget_alert_threshold"` // процент от 50 до 100
}
