package utils

import (
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

func GenerateTestUsers(pool *pgxpool.Pool, numUsers int) {
	for i := 0; i < numUsers; i++ {
		user := &models.User{
			Email:                gofakeit.Email(),
			Password:             gofakeit.Password(true, true, true, false, false, 8), // Генерация случайного пароля
			Name:                 gofakeit.Name(),
			BudgetAlertThreshold: 50 + rand.Intn(51), // порог от 50 до 100
		}
		if err := database.RegisterUser(pool, user); err != nil {
			log.Fatalf("ошибка при добавлении пользователя: %v", err)
		}
	}
}

func GenerateTestCategories(pool *pgxpool.Pool, userID, numCategories int) {
	for i := 0; i < numCategories; i++ {
		category := &models.Category{
			UserID: userID,
			Name:   gofakeit.Word(),
			Type:   randomTransactionType(),
		}

		if err := database.CreateCategory(pool, category); err != nil {
			log.Fatalf("ошибка при добавлении категории: %v", err)
		}
	}
}

func randomTransactionType() string {
	if rand.Intn(2) == 0 {
		return models.TransactionExpense
	}
	return models.TransactionIncome
}

func GenerateTestTransactions(pool *pgxpool.Pool, userID int, categoryIDs []int, numTransactions int) {
	for i := 0; i < numTransactions; i++ {
		transaction := &models.Transaction{
			UserID:      userID,
			Amount:      decimal.NewFromFloat(gofakeit.Price(1, 1000)).Round(2),
			Type:        randomTransactionType(),
			Description: gofakeit.Sentence(5),                     // Генерация случайного описания транзакции
			Date:        time.Now().AddDate(0, 0, -rand.Intn(30)), // Случайная дата в прошлых 30 днях
		}
		if len(categoryIDs) > 0 && rand.Intn(4) != 0 {
			categoryID := categoryIDs[rand.Intn(len(categoryIDs))]
			transaction.CategoryID = &categoryID
		}

		if err := database.CreateTransaction(pool, transaction); err != nil {
			log.Fatalf("ошибка при добавлении транзакции: %v", err)
		}
	}
}

func GenerateTestBudgets(pool *pgxpool.Pool, userID int, categoryIDs []int, numBudgets int) {
	now := time.Now()

	for i := 0; i < numBudgets && i < len(categoryIDs); i++ {
		categoryID := categoryIDs[i]
		budget := &models.Budget{
			UserID:     userID,
			CategoryID: &categoryID,
			Name:       gofakeit.Word() + " budget",
			Month:      int(now.Month()),
			Year:       now.Year(),
			MaxAmount:  decimal.NewFromFloat(gofakeit.Price(100, 1000)).Round(2),
		}

		if err := database.CreateBudget(pool, budget); err != nil {
			log.Fatalf("ошибка при добавлении бюджета: %v", err)
		}
	}
}
