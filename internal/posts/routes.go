// internal/posts/routes.go
package posts

import (
	"github.com/gorilla/mux"

	"github.com/nexora-app/nexora-backend/internal/auth"
)

// RegisterRoutes mounts the post endpoints. Reads work anonymously;
// everything that writes requires a valid token.
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	public := router.PathPrefix("/api/v1/posts").Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("", handler.GetFeed).Methods("GET")
	public.HandleFunc("/{id}", handler.GetPost).Methods("GET")
	public.HandleFunc("/{id}/comments", handler.GetComments).Methods("GET")

	protected := router.PathPrefix("/api/v1/posts").Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("", handler.CreatePost).Methods("POST")
	protected.HandleFunc("/{id}", handler.UpdatePost).Methods("PUT")
	protected.HandleFunc("/{id}", handler.DeletePost).Methods("DELETE")
	protected.HandleFunc("/{id}/react", handler.React).Methods("POST")
	protected.HandleFunc("/{id}/comments", handler.AddComment).Methods("POST")
}
