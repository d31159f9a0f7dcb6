// internal/uploads/routes.go
package uploads

import (
	"github.com/gorilla/mux"

	"github.com/nexora-app/nexora-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	protected := router.PathPrefix("/api/v1/upload").Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/avatar", handler.UploadAvatar).Methods("POST")
	protected.HandleFunc("/banner", handler.UploadBanner).Methods("POST")
	protected.HandleFunc("/post-media", handler.UploadPostMedia).Methods("POST")
}
