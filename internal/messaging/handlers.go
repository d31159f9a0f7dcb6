// internal/messaging/handlers.go
package messaging

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

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conversations, err := h.service.ListConversations(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing conversations for user %d: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}

func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.service.CreateConversation(r.Context(), userID, req.RecipientID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfConversation):
			utils.RespondWithError(w, http.StatusBadRequest, "Cannot start a conversation with yourself")
		case errors.Is(err, ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
		default:
			log.Printf("Error creating conversation for user %d: %v", userID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create conversation")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, conv)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	conversationID, err := parseConversationID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	messages, err := h.service.ListMessages(r.Context(), conversationID, userID)
	if err != nil {
		if errors.Is(err, ErrNotParticipant) {
			utils.RespondWithError(w, http.StatusForbidden, "Not a participant of this conversation")
			return
		}
		log.Printf("Error listing messages in conversation %d: %v", conversationID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.GetUserIDFromContext(r.Context())

	conversationID, err := parseConversationID(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.SendMessage(r.Context(), conversationID, userID, req.Content)
	if err != nil {
		if errors.Is(err, ErrNotParticipant) {
			utils.RespondWithError(w, http.StatusForbidden, "Not a participant of this conversation")
			return
		}
		log.Printf("Error sending message in conversation %d: %v", conversationID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, msg)
}

func parseConversationID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
