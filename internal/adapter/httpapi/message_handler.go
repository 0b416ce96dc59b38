package httpapi

import (
	"net/http"

	"github.com/encounterhub/listing-service/internal/adapter/httpapi/middleware"
	"github.com/encounterhub/listing-service/internal/listing/usecase"
	"github.com/go-chi/chi/v5"
)

type MessageHandler struct {
	messages *usecase.MessageUsecase
}

func NewMessageHandler(messages *usecase.MessageUsecase) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type sendMessageRequest struct {
	ToUserID  string `json:"to_user_id"`
	ListingID string `json:"listing_id"`
	Content   string `json:"content"`
}

// Send handles POST /api/messages.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	message, err := h.messages.Send(r.Context(), middleware.ActorFrom(r.Context()),
		req.ToUserID, req.ListingID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toChatMessageResponse(message))
}

// Inbox handles GET /api/messages, newest first, both directions.
func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.Inbox(r.Context(), middleware.ActorFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChatMessageResponses(messages))
}

// Conversation handles GET /api/messages/conversation/{listingID} in
// chronological order.
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.Conversation(r.Context(), middleware.ActorFrom(r.Context()),
		chi.URLParam(r, "listingID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChatMessageResponses(messages))
}
