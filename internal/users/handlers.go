// internal/users/handlers.go
package users

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/nexora-app/nexora-backend/internal/auth"
	"github.com/nexora-app/nexora-backend/internal/common/utils"
	"github.com/nexora-app/nexora-backend/internal/uploads"
)

// In-memory budget for parsing multipart profile edits; larger parts spill
// to temp files.
const profileFormMaxMemory = 10 << 20

// ImageUploader stores profile images and persists their URLs. Satisfied by
// *uploads.Service.
type ImageUploader interface {
	UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)
	UploadBanner(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)
}

type Handler struct {
	service  *Service
	uploader ImageUploader
}

func NewHandler(service *Service, uploader ImageUploader) *Handler {
	return &Handler{service: service, uploader: uploader}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.GetUserIDFromContext(r.Context())

	userID, err := parseUserID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID, viewerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error fetching profile %d: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error fetching own profile %d: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

// UpdateProfile edits the caller's own profile. The path id must match the
// authenticated user.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	targetID, err := parseUserID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if targetID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Cannot edit another user's profile")
		return
	}

	// Profile edits arrive either as JSON or, when images are attached, as
	// multipart/form-data with text fields alongside the files.
	var req UpdateProfileRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if !h.parseProfileForm(w, r, userID, &req) {
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error updating profile %d: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, profile)
}

// parseProfileForm fills req from a multipart form and stores any attached
// avatar/banner files. It writes the error response itself and returns false
// when the request should not proceed.
func (h *Handler) parseProfileForm(w http.ResponseWriter, r *http.Request, userID int64, req *UpdateProfileRequest) bool {
	if err := r.ParseMultipartForm(profileFormMaxMemory); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return false
	}

	field := func(name string) *string {
		if vs := r.MultipartForm.Value[name]; len(vs) > 0 {
			return &vs[0]
		}
		return nil
	}
	req.DisplayName = field("display_name")
	req.Bio = field("bio")
	req.Location = field("location")
	req.Website = field("website")
	req.PrivacyLevel = field("privacy_level")

	if !h.storeProfileImage(w, r, userID, "avatar", h.uploader.UploadAvatar) {
		return false
	}
	return h.storeProfileImage(w, r, userID, "banner", h.uploader.UploadBanner)
}

func (h *Handler) storeProfileImage(w http.ResponseWriter, r *http.Request, userID int64, field string,
	upload func(context.Context, int64, multipart.File, *multipart.FileHeader) (string, error)) bool {

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return true
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid "+field+" file")
		return false
	}
	defer file.Close()

	if _, err := upload(r.Context(), userID, file, header); err != nil {
		if errors.Is(err, uploads.ErrFileTooLarge) || errors.Is(err, uploads.ErrUnsupportedType) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return false
		}
		log.Printf("Error storing %s for user %d: %v", field, userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store "+field)
		return false
	}
	return true
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, _ := auth.GetUserIDFromContext(r.Context())

	followeeID, err := parseUserID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	count, err := h.service.Follow(r.Context(), followerID, followeeID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfFollow):
			utils.RespondWithError(w, http.StatusBadRequest, "Cannot follow yourself")
		case errors.Is(err, ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, ErrAlreadyFollowed):
			utils.RespondWithError(w, http.StatusConflict, "Already following this user")
		default:
			log.Printf("Error following user %d: %v", followeeID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to follow user")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, FollowResponse{
		Message:       "User followed successfully",
		FollowerCount: count,
	})
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, _ := auth.GetUserIDFromContext(r.Context())

	followeeID, err := parseUserID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	count, err := h.service.Unfollow(r.Context(), followerID, followeeID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfFollow):
			utils.RespondWithError(w, http.StatusBadRequest, "Cannot unfollow yourself")
		case errors.Is(err, ErrNotFollowing):
			utils.RespondWithError(w, http.StatusNotFound, "Not following this user")
		default:
			log.Printf("Error unfollowing user %d: %v", followeeID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unfollow user")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, FollowResponse{
		Message:       "User unfollowed successfully",
		FollowerCount: count,
	})
}

func (h *Handler) GetFollowers(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	followers, err := h.service.ListFollowers(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error listing followers of %d: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list followers")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"followers": followers})
}

func (h *Handler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	following, err := h.service.ListFollowing(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error listing following of %d: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list following")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"following": following})
}

func parseUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
