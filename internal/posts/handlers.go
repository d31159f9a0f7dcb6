// internal/posts/handlers.go
package posts

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nexora-app/nexora-backend/internal/auth"
	"github.com/nexora-app/nexora-backend/internal/common/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.service.CreatePost(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrMissingContent) || errors.Is(err, ErrTooMuchMedia) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error creating post: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, post)
}

// GetFeed serves the public feed. Auth is optional: anonymous viewers get
// is_liked=false everywhere instead of an error.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.GetUserIDFromContext(r.Context())

	posts, err := h.service.GetFeed(r.Context(), viewerID)
	if err != nil {
		log.Printf("Error fetching feed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch feed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, FeedResponse{Posts: posts})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.GetUserIDFromContext(r.Context())

	postID, err := parsePostID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.service.GetPost(r.Context(), postID, viewerID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		log.Printf("Error fetching post %d: %v", postID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, post)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	postID, err := parsePostID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.service.UpdatePost(r.Context(), postID, userID, &req)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			// Not-found and not-owner answer identically so callers cannot
			// probe for the existence of other users' posts
			utils.RespondWithError(w, http.StatusNotFound, "Post not found or unauthorized")
			return
		}
		log.Printf("Error updating post %d: %v", postID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	postID, err := parsePostID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.service.DeletePost(r.Context(), postID, userID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found or unauthorized")
			return
		}
		log.Printf("Error deleting post %d: %v", postID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	utils.RespondWithMessage(w, http.StatusOK, "Post deleted successfully")
}

func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	postID, err := parsePostID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	// Body is optional; an empty body means the default "like" reaction
	var req ReactRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	isLiked, err := h.service.React(r.Context(), postID, userID, req.ReactionType)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		log.Printf("Error reacting to post %d: %v", postID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to react to post")
		return
	}

	message := "Post unliked successfully"
	if isLiked {
		message = "Post liked successfully"
	}

	utils.RespondWithJSON(w, http.StatusOK, ReactResponse{Message: message, IsLiked: isLiked})
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	postID, err := parsePostID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.service.AddComment(r.Context(), postID, userID, &req)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		log.Printf("Error commenting on post %d: %v", postID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, comment)
}

func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	postID, err := parsePostID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	comments, err := h.service.ListComments(r.Context(), postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Post not found")
			return
		}
		log.Printf("Error fetching comments for post %d: %v", postID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

func parsePostID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
