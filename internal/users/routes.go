// internal/users/routes.go
package users

import (
	"github.com/gorilla/mux"

	"github.com/nexora-app/nexora-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	// "me" is registered before the public {id} routes so it is never
	// swallowed by the id matcher
	protected := router.PathPrefix("/api/v1/users").Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/me", handler.GetMyProfile).Methods("GET")
	protected.HandleFunc("/{id}", handler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/{id}/follow", handler.Follow).Methods("POST")
	protected.HandleFunc("/{id}/unfollow", handler.Unfollow).Methods("POST")

	public := router.PathPrefix("/api/v1/users").Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("/{id}", handler.GetProfile).Methods("GET")
	public.HandleFunc("/{id}/followers", handler.GetFollowers).Methods("GET")
	public.HandleFunc("/{id}/following", handler.GetFollowing).Methods("GET")
}
