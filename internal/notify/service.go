package notify

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// Store — операции хранилища, нужные проверке бюджетов
type Store interface {
	UserByID(id int) (*models.User, error)
	UsersWithEmailNotifications() ([]models.User, error)
	RecomputeSpentAmounts(userID, year, month int) error
	MonthlyBudgets(userID, year, month int) ([]models.Budget, error)
	RecordNotification(notification *models.Notification) (bool, error)
	NotificationExistsForDay(userID, budgetID int, notificationType string, day time.Time) (bool, error)
}

// Mailer — внешний почтовый коллаборатор. Ошибка отправки не фатальна
type Mailer interface {
	SendBudgetAlertEmail(to, userName string, budget *models.Budget, categoryName string,
		spentPercentage decimal.Decimal, isExceeded bool, overAmount decimal.Decimal) error
}

type Service struct {
	store  Store
	mailer Mailer
	now    func() time.Time
}

func NewService(store Store, mailer Mailer) *Service {
	return &Service{
		store:  store,
		mailer: mailer,
		now:    time.Now,
	}
}

// CheckAllBudgets проходит всех подписанных на уведомления пользователей
// и проверяет их бюджеты за текущий месяц. Ошибка одного пользователя
// логируется и не прерывает проверку остальных.
func (s *Service) CheckAllBudgets() (int, error) {
	now := s.now()
	year, month := now.Year(), int(now.Month())

	users, err := s.store.UsersWithEmailNotifications()
	if err != nil {
		return 0, fmt.Errorf("ошибка получения пользователей для проверки бюджетов: %w", err)
	}

	total := 0
	for _, user := range users {
		sent, err := s.CheckUserBudgets(user.ID, year, month)
		if err != nil {
			log.Printf("Ошибка проверки бюджетов пользователя %d: %v", user.ID, err)
			continue
		}
		total += sent
	}
	return total, nil
}

// CheckUserBudgets пересчитывает потраченные суммы и отправляет уведомления
// по всем бюджетам пользователя за период. Возвращает число отправленных уведомлений.
func (s *Service) CheckUserBudgets(userID, year, month int) (int, error) {
	user, err := s.store.UserByID(userID)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения пользователя %d: %w", userID, err)
	}

	// Пересчет обязателен: решение принимается только по свежим данным
	if err := s.store.RecomputeSpentAmounts(userID, year, month); err != nil {
		return 0, fmt.Errorf("ошибка пересчета бюджетов пользователя %d: %w", userID, err)
	}

	budgets, err := s.store.MonthlyBudgets(userID, year, month)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения бюджетов пользователя %d: %w", userID, err)
	}

	sent := 0
	for i := range budgets {
		budget := &budgets[i]

		notificationType, eligible, err := s.shouldNotify(user, budget)
		if err != nil {
			log.Printf("Ошибка проверки уведомлений по бюджету %d: %v", budget.ID, err)
			continue
		}
		if !eligible {
			continue
		}

		if s.sendBudgetNotification(user, budget, notificationType) {
			sent++
		}
	}
	return sent, nil
}

// shouldNotify решает, положено ли уведомление по бюджету.
// Состояние не хранится: оно каждый раз восстанавливается из журнала уведомлений,
// поэтому проверку можно безопасно запускать повторно.
// Дедупликация в пределах календарного дня считается отдельно для каждого типа.
func (s *Service) shouldNotify(user *models.User, budget *models.Budget) (string, bool, error) {
	today := s.now()

	if budget.IsExceeded() {
		exists, err := s.store.NotificationExistsForDay(user.ID, budget.ID, models.NotificationBudgetExceeded, today)
		if err != nil {
			return "", false, err
		}
		return models.NotificationBudgetExceeded, !exists, nil
	}

	threshold := decimal.NewFromInt(int64(user.BudgetAlertThreshold))
	if budget.SpentPercentage().GreaterThanOrEqual(threshold) {
		exists, err := s.store.NotificationExistsForDay(user.ID, budget.ID, models.NotificationBudgetWarning, today)
		if err != nil {
			return "", false, err
		}
		return models.NotificationBudgetWarning, !exists, nil
	}

	return "", false, nil
}

// sendBudgetNotification сначала пишет запись в журнал и только потом шлет письмо.
// Ошибка почты не откатывает запись: повторной отправки в тот же день не будет
func (s *Service) sendBudgetNotification(user *models.User, budget *models.Budget, notificationType string) bool {
	categoryName := budget.CategoryName
	if categoryName == "" {
		categoryName = "General"
	}

	isExceeded := notificationType == models.NotificationBudgetExceeded
	overAmount := decimal.Zero
	if isExceeded {
		overAmount = budget.SpentAmount.Sub(budget.MaxAmount)
	}
	spentPercentage := budget.SpentPercentage()

	var title, message string
	if isExceeded {
		title = "Превышение бюджета"
		message = fmt.Sprintf("Бюджет «%s» (%s) превышен на %s.", budget.Name, categoryName, overAmount.StringFixed(2))
	} else {
		title = "Предупреждение о бюджете"
		message = fmt.Sprintf("Бюджет «%s» (%s) израсходован на %s%% от лимита.", budget.Name, categoryName, spentPercentage.StringFixed(1))
	}

	notification := &models.Notification{
		UserID:   user.ID,
		BudgetID: budget.ID,
		Type:     notificationType,
		Title:    title,
		Message:  message,
		SentAt:   s.now(),
	}

	inserted, err := s.store.RecordNotification(notification)
	if err != nil {
		log.Printf("Ошибка записи уведомления по бюджету %d: %v", budget.ID, err)
		return false
	}
	if !inserted {
		// Параллельная проверка успела первой, дубликат превращается в no-op
		log.Printf("Уведомление типа %s по бюджету %d сегодня уже отправлено", notificationType, budget.ID)
		return false
	}

	if err := s.mailer.SendBudgetAlertEmail(user.Email, user.Name, budget, categoryName,
		spentPercentage, isExceeded, overAmount); err != nil {
		log.Printf("Ошибка отправки письма на %s: %v", user.Email, err)
		return false
	}

	log.Printf("Уведомление по бюджету «%s» отправлено на %s", budget.Name, user.Email)
	return true
}
