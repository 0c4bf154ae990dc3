package notify

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/models"
	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
}

// NewSMTPMailerFromEnv читает настройки почты из переменных окружения.
// По умолчанию используется SMTP-сервер gmail
func NewSMTPMailerFromEnv() *SMTPMailer {
	host := os.Getenv("EMAIL_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := 587
	if p, err := strconv.Atoi(os.Getenv("EMAIL_PORT")); err == nil && p > 0 {
		port = p
	}
	return &SMTPMailer{
		host:     host,
		port:     port,
		user:     os.Getenv("EMAIL_USER"),
		password: os.Getenv("EMAIL_PASSWORD"),
	}
}

func (m *SMTPMailer) SendBudgetAlertEmail(to, userName string, budget *models.Budget, categoryName string,
	spentPercentage decimal.Decimal, isExceeded bool, overAmount decimal.Decimal) error {

	subject := "Предупреждение о бюджете — FinTrack"
	if isExceeded {
		subject = "Превышение бюджета — FinTrack"
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.user, "FinTrack")
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", budgetAlertBody(userName, budget, categoryName, spentPercentage, isExceeded, overAmount))

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("ошибка отправки письма: %w", err)
	}
	return nil
}

func budgetAlertBody(userName string, budget *models.Budget, categoryName string,
	spentPercentage decimal.Decimal, isExceeded bool, overAmount decimal.Decimal) string {

	alertColor := "#F59E0B"
	alertTitle := "Бюджет почти исчерпан"
	detail := fmt.Sprintf("Бюджет «%s» (%s) израсходован на %s%% от лимита %s.",
		budget.Name, categoryName, spentPercentage.StringFixed(1), budget.MaxAmount.StringFixed(2))
	if isExceeded {
		alertColor = "#EF4444"
		alertTitle = "Бюджет превышен"
		detail = fmt.Sprintf("Бюджет «%s» (%s) превышен на %s: потрачено %s при лимите %s.",
			budget.Name, categoryName, overAmount.StringFixed(2),
			budget.SpentAmount.StringFixed(2), budget.MaxAmount.StringFixed(2))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="ru">
<head><meta charset="UTF-8"><title>FinTrack</title></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background-color: white; padding: 30px; border-radius: 10px;">
		<div style="background-color: #3B82F6; color: white; padding: 15px 30px; border-radius: 8px; display: inline-block; font-size: 24px; font-weight: bold;">FinTrack</div>
		<h2 style="color: %s;">%s</h2>
		<p>Здравствуйте, %s!</p>
		<p>%s</p>
		<p style="font-size: 14px; color: #666;">Настроить уведомления можно в профиле FinTrack.</p>
	</div>
</body>
</html>`, alertColor, alertTitle, userName, detail)
}
