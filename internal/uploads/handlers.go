// internal/uploads/handlers.go
package uploads

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/nexora-app/nexora-backend/internal/auth"
	"github.com/nexora-app/nexora-backend/internal/common/utils"
)

type Handler struct {
	service *Service
	maxSize int64
}

func NewHandler(service *Service, maxSize int64) *Handler {
	return &Handler{service: service, maxSize: maxSize}
}

type uploadFunc func(r *http.Request, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request, field string, upload uploadFunc) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+1024)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	url, err := upload(r, userID, file, header)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrUnsupportedType) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error handling upload for user %d: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, "avatar", func(r *http.Request, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
		return h.service.UploadAvatar(r.Context(), userID, file, header)
	})
}

func (h *Handler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, "banner", func(r *http.Request, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
		return h.service.UploadBanner(r.Context(), userID, file, header)
	})
}

func (h *Handler) UploadPostMedia(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, "media", func(r *http.Request, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
		return h.service.UploadPostMedia(r.Context(), userID, file, header)
	})
}
