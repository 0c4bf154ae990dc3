package routes

import (
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/fintrack/internal/handlers"
)

func SetupRouter(pool *pgxpool.Pool) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/notifications", handlers.GetNotificationsHandler(pool)).Methods("GET")
	r.HandleFunc("/api/notifications/{id}/read", handlers.MarkNotificationAsReadHandler(pool)).Methods("POST")
	r.HandleFunc("/api/notifications/read_all", handlers.MarkAllNotificationsAsReadHandler(pool)).Methods("POST")

	// Здесь можно добавить другие маршруты...

	return r
}
