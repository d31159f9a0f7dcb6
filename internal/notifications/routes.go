// internal/notifications/routes.go
package notifications

import (
	"github.com/gorilla/mux"

	"github.com/nexora-app/nexora-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	protected := router.PathPrefix("/api/v1/notifications").Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("", handler.GetNotifications).Methods("GET")
	protected.HandleFunc("/read-all", handler.MarkAllRead).Methods("PUT")
}
