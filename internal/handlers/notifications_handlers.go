package handlers

import (
	"errors"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"net/http"
	"strconv"
)

// GetNotificationsHandler retrieves recent notifications for a user
func GetNotificationsHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}
		limit := 20
		if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
			limit = l
		}
		notifications, err := database.GetNotificationsByUserID(pool, userID, limit)
		if err != nil {
			http.Error(w, "Error retrieving notifications", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(notifications)
	}
}

// MarkNotificationAsReadHandler marks a notification as read
func MarkNotificationAsReadHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notificationID, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid notification ID", http.StatusBadRequest)
			return
		}
		userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}
		err = database.MarkNotificationAsRead(pool, notificationID, userID)
		if err != nil {
			if errors.Is(err, database.ErrNotificationNotFound) {
				http.Error(w, "Notification not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Error marking notification as read", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// MarkAllNotificationsAsReadHandler marks all user notifications as read
func MarkAllNotificationsAsReadHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}
		err = database.MarkAllNotificationsAsRead(pool, userID)
		if err != nil {
			http.Error(w, "Error marking notifications as read", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
