// internal/messaging/routes.go
package messaging

import (
	"github.com/gorilla/mux"

	"github.com/nexora-app/nexora-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	protected := router.PathPrefix("/api/v1/conversations").Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("", handler.ListConversations).Methods("GET")
	protected.HandleFunc("", handler.CreateConversation).Methods("POST")
	protected.HandleFunc("/{id}/messages", handler.ListMessages).Methods("GET")
	protected.HandleFunc("/{id}/messages", handler.SendMessage).Methods("POST")
}
