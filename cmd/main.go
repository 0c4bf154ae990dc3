package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/internal/notify"
	"github.com/valeriaulyamaeva/fintrack/internal/scheduler"
	"github.com/valeriaulyamaeva/fintrack/models"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "http://localhost:3000" || origin == "http://localhost:3001" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// budgetErrorStatus переводит ошибку бюджета в HTTP-статус
func budgetErrorStatus(err error) int {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrBudgetScopeExists):
		return http.StatusConflict
	case errors.Is(err, database.ErrBudgetNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decimalFromString(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("пустая сумма")
	}
	return decimal.NewFromString(value)
}

func userIDQuery(c *gin.Context) (int, bool) {
	userID, err := strconv.Atoi(c.Query("user_id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор пользователя"})
		return 0, false
	}
	return userID, true
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf("Ошибка загрузки .env файла: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"), 5432, os.Getenv("DB_NAME")))
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	store := database.NewStore(pool)
	mailer := notify.NewSMTPMailerFromEnv()
	notifyService := notify.NewService(store, mailer)

	budgetScheduler := scheduler.New(notifyService)
	budgetScheduler.Start()

	r := gin.Default()
	r.Use(CORSMiddleware())

	r.POST("/register", func(c *gin.Context) {
		var user models.User

		if err := c.ShouldBindJSON(&user); err != nil {
			log.Printf("Ошибка привязки JSON: %v\n", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных. Проверьте введённые значения."})
			return
		}

		if err := database.RegisterUser(pool, &user); err != nil {
			log.Printf("Ошибка при регистрации пользователя: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Ошибка регистрации: %v", err)})
			return
		}

		log.Printf("Пользователь успешно зарегистрирован: ID = %d\n", user.ID)
		c.JSON(http.StatusOK, gin.H{"message": "Пользователь успешно зарегистрирован", "user_id": user.ID})
	})

	r.POST("/login", func(c *gin.Context) {
		var credentials models.User
		if err := c.ShouldBindJSON(&credentials); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ошибка ввода данных"})
			return
		}
		user, err := database.AuthenticateUser(pool, credentials.Email, credentials.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Ошибка авторизации: неверный email или пароль"})
			return
		}
		user.Password = ""
		c.JSON(http.StatusOK, gin.H{"message": "Авторизация успешна", "user": user})
	})

	r.POST("/categories", func(c *gin.Context) {
		var category models.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат категории"})
			return
		}
		if err := database.CreateCategory(pool, &category); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании категории"})
			return
		}
		c.JSON(http.StatusCreated, category)
	})

	r.GET("/categories", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		categories, err := database.GetCategoriesByUserID(pool, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка категорий"})
			return
		}
		c.JSON(http.StatusOK, categories)
	})

	r.PUT("/categories/:id", func(c *gin.Context) {
		var category models.Category
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор категории"})
			return
		}
		if err := c.ShouldBindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных для категории"})
			return
		}
		category.ID = id
		if err := database.UpdateCategory(pool, &category); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка обновления категории"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Категория успешно обновлена"})
	})

	r.DELETE("/categories/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор категории"})
			return
		}
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		if err := database.DeleteCategory(pool, id, userID); err != nil {
			log.Printf("Ошибка удаления категории с ID %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении категории", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Категория успешно удалена"})
	})

	r.POST("/transactions", func(c *gin.Context) {
		var transaction models.Transaction
		if err := c.ShouldBindJSON(&transaction); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат транзакции"})
			return
		}
		if err := database.CreateTransaction(pool, &transaction); err != nil {
			var validationErr *models.ValidationError
			if errors.As(err, &validationErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании транзакции"})
			return
		}
		c.JSON(http.StatusCreated, transaction)
	})

	r.GET("/transactions", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		transactions, err := database.GetTransactionsByUserID(pool, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении транзакций"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	})

	r.PUT("/transactions/:id", func(c *gin.Context) {
		var transaction models.Transaction
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}
		if err := c.ShouldBindJSON(&transaction); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат транзакции"})
			return
		}
		transaction.ID = id
		if err := database.UpdateTransaction(pool, &transaction); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка обновления транзакции"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Транзакция успешно обновлена"})
	})

	r.DELETE("/transactions/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		if err := database.DeleteTransaction(pool, id, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка удаления транзакции"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Транзакция успешно удалена"})
	})

	r.POST("/budgets", func(c *gin.Context) {
		var budget models.Budget
		if err := c.ShouldBindJSON(&budget); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат бюджета"})
			return
		}
		if err := database.CreateBudget(pool, &budget); err != nil {
			c.JSON(budgetErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, budget)
	})

	r.GET("/budgets", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		now := time.Now()
		year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный год"})
			return
		}
		month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный месяц"})
			return
		}

		budgets, err := database.GetMonthlyBudgets(pool, userID, year, month)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении бюджетов"})
			return
		}

		// Отдаем бюджеты вместе с производными полями для отображения
		response := make([]gin.H, 0, len(budgets))
		for i := range budgets {
			budget := &budgets[i]
			response = append(response, gin.H{
				"budget":           budget,
				"remaining_amount": budget.RemainingAmount(),
				"spent_percentage": budget.SpentPercentage().Round(1),
				"is_exceeded":      budget.IsExceeded(),
				"status_color":     budget.StatusColor(),
			})
		}
		c.JSON(http.StatusOK, response)
	})

	r.PUT("/budgets/:id", func(c *gin.Context) {
		var budget models.Budget
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		if err := c.ShouldBindJSON(&budget); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат бюджета"})
			return
		}
		budget.ID = id
		if err := database.UpdateBudget(pool, &budget); err != nil {
			c.JSON(budgetErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Бюджет успешно обновлен"})
	})

	r.DELETE("/budgets/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		if err := database.DeleteBudget(pool, id, userID); err != nil {
			c.JSON(budgetErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Бюджет успешно удален"})
	})

	// Ручной пересчет потраченных сумм за период
	r.POST("/budgets/refresh", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		now := time.Now()
		year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
		month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))

		if err := database.UpdateSpentAmounts(pool, userID, year, month); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка пересчета бюджетов"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Данные бюджетов успешно обновлены"})
	})

	r.GET("/notifications", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit <= 0 {
			limit = 20
		}
		notifications, err := database.GetNotificationsByUserID(pool, userID, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения уведомлений"})
			return
		}
		c.JSON(http.StatusOK, notifications)
	})

	r.POST("/notifications/:id/read", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор уведомления"})
			return
		}
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		if err := database.MarkNotificationAsRead(pool, id, userID); err != nil {
			if errors.Is(err, database.ErrNotificationNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Уведомление не найдено"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка обновления уведомления"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Уведомление помечено как прочитанное"})
	})

	r.POST("/notifications/read_all", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		if err := database.MarkAllNotificationsAsRead(pool, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка обновления уведомлений"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Все уведомления помечены как прочитанные"})
	})

	type NotificationPreferencesRequest struct {
		EmailNotifications   bool `json:"email_notifications"`
		BudgetAlertThreshold int  `json:"budget_alert_threshold"`
	}

	r.PUT("/notifications/preferences", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		var payload NotificationPreferencesRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные"})
			return
		}
		if err := database.UpdateNotificationPreferences(pool, userID, payload.EmailNotifications, payload.BudgetAlertThreshold); err != nil {
			var validationErr *models.ValidationError
			if errors.As(err, &validationErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка обновления настроек уведомлений"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Настройки уведомлений успешно обновлены"})
	})

	// Ручная проверка бюджетов одного пользователя, тот же конвейер, что и по расписанию
	r.POST("/notifications/check", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		now := time.Now()
		sent, err := notifyService.CheckUserBudgets(userID, now.Year(), int(now.Month()))
		if err != nil {
			log.Printf("Ошибка ручной проверки бюджетов пользователя %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка проверки бюджетов"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Проверка бюджетов завершена", "notifications_sent": sent})
	})

	r.GET("/scheduler/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, budgetScheduler.GetStatus())
	})

	r.POST("/goals", func(c *gin.Context) {
		var goal models.Goal
		if err := c.ShouldBindJSON(&goal); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат цели"})
			return
		}
		if err := database.CreateGoal(pool, &goal); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании цели"})
			return
		}
		c.JSON(http.StatusCreated, goal)
	})

	r.GET("/goals", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		goals, err := database.GetGoalsByUserID(pool, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении целей"})
			return
		}
		c.JSON(http.StatusOK, goals)
	})

	type GoalProgressRequest struct {
		Amount string `json:"amount"`
	}

	r.POST("/goals/:id/progress", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
			return
		}
		var payload GoalProgressRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректные данные"})
			return
		}
		amount, err := decimalFromString(payload.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная сумма прогресса"})
			return
		}
		if err := database.AddProgressToGoal(pool, id, amount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка обновления прогресса цели"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Прогресс цели успешно обновлен"})
	})

	r.DELETE("/goals/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
			return
		}
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		if err := database.DeleteGoal(pool, id, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка удаления цели"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Цель успешно удалена"})
	})

	r.GET("/dashboard/balance", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		balance, err := database.GetTotalBalance(pool, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении баланса"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": balance})
	})

	r.GET("/dashboard/summary", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		summary, err := database.GetIncomeExpenseSummary(pool, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении сводки"})
			return
		}
		c.JSON(http.StatusOK, summary)
	})

	r.GET("/dashboard/expenses", func(c *gin.Context) {
		userID, ok := userIDQuery(c)
		if !ok {
			return
		}
		expenses, err := database.GetCategoryWiseExpenses(pool, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении расходов по категориям"})
			return
		}
		c.JSON(http.StatusOK, expenses)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Остановка сервера...")
	budgetScheduler.Stop()
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("Ошибка остановки сервера: %v", err)
	}
}
