package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Checker — проверка бюджетов, которую планировщик запускает по расписанию
type Checker interface {
	CheckAllBudgets() (int, error)
}

type Status struct {
	IsRunning bool   `json:"is_running"`
	NextRun   string `json:"next_run"`
}

// Scheduler раз в час запускает проверку бюджетов всех пользователей.
// Зависимости передаются через конструктор, глобального состояния нет
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	running bool
	checker Checker
}

func New(checker Checker) *Scheduler {
	return &Scheduler{checker: checker}
}

// Start запускает планировщик: первая проверка выполняется сразу,
// дальше — каждый час. Повторный запуск уже работающего планировщика — no-op
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		log.Println("Планировщик уже запущен")
		return
	}

	log.Println("Запуск планировщика проверки бюджетов...")
	s.running = true

	go s.runCheck()

	s.cron = cron.New()
	entryID, err := s.cron.AddFunc("@every 1h", s.runCheck)
	if err != nil {
		log.Printf("Ошибка настройки CRON-задачи проверки бюджетов: %v", err)
		return
	}
	s.entryID = entryID
	s.cron.Start()

	log.Println("Планировщик проверки бюджетов запущен (проверка каждый час)")
}

// Stop останавливает планировщик. Уже начатая проверка дорабатывает до конца,
// отменяются только будущие запуски. Повторная остановка — no-op
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		log.Println("Планировщик не запущен")
		return
	}

	log.Println("Остановка планировщика проверки бюджетов...")
	s.running = false

	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}

	log.Println("Планировщик проверки бюджетов остановлен")
}

func (s *Scheduler) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.cron == nil {
		return Status{IsRunning: false, NextRun: "не запланирован"}
	}

	next := s.cron.Entry(s.entryID).Next
	if next.IsZero() {
		return Status{IsRunning: true, NextRun: "каждый час"}
	}
	return Status{IsRunning: true, NextRun: next.Format(time.RFC3339)}
}

func (s *Scheduler) runCheck() {
	log.Println("Запуск плановой проверки бюджетов...")
	sent, err := s.checker.CheckAllBudgets()
	if err != nil {
		log.Printf("Ошибка плановой проверки бюджетов: %v", err)
		return
	}
	log.Printf("Плановая проверка бюджетов завершена, отправлено уведомлений: %d", sent)
}
