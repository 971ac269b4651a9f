package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/database"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/services"
)

// MaxVoiceSeconds caps voice message length.
const MaxVoiceSeconds = 300

// GetConversation returns the conversation for a link, creating it lazily.
func GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	linkID, err := parseUintParam(r, "link_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid link ID")
		return
	}

	link, err := services.LinkForUser(database.DB, linkID, userID)
	if err != nil {
		logger.Error("Failed to look up link", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to open conversation")
		return
	}
	if link == nil {
		writeError(w, http.StatusNotFound, "Link not found")
		return
	}

	var conv models.Conversation
	err = database.DB.Where("link_id = ?", link.ID).First(&conv).Error
	if err == gorm.ErrRecordNotFound {
		conv = models.Conversation{LinkID: link.ID}
		err = database.DB.Create(&conv).Error
	}
	if err != nil {
		logger.Error("Failed to open conversation", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to open conversation")
		return
	}

	writeJSON(w, http.StatusOK, conv)
}

// conversationForUser loads a conversation and its link, verifying the user
// is a party.
func conversationForUser(convID, userID uint) (*models.Conversation, *models.CoachLink, error) {
	var conv models.Conversation
	if err := database.DB.Preload("Link").First(&conv, convID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if conv.Link == nil || (conv.Link.CoachID != userID && conv.Link.ClientID != userID) {
		return nil, nil, nil
	}
	return &conv, conv.Link, nil
}

type SendMessageRequest struct {
	Body         string `json:"body"`
	AudioURL     string `json:"audio_url"`
	AudioSeconds int    `json:"audio_seconds"`
}

// SendMessage posts a text or voice message into a conversation. The link
// must be active with messaging permission, and the sender's daily message
// quota must have room.
func SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	convID, err := parseUintParam(r, "conversation_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	conv, link, err := conversationForUser(convID, userID)
	if err != nil {
		logger.Error("Failed to load conversation", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	if access := services.MessagingAllowed(link); !access.Allowed {
		writeError(w, http.StatusForbidden, access.Reason)
		return
	}

	quota, err := services.AllowDaily(database.DB, userID, services.MetricMessages)
	if err != nil {
		logger.Error("Failed to check message quota", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}
	if !quota.Allowed {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"error": "Daily message limit reached for your plan",
			"quota": quota,
		})
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	hasText := req.Body != ""
	hasVoice := req.AudioURL != ""
	if hasText == hasVoice {
		writeError(w, http.StatusBadRequest, "Message needs either a body or voice audio")
		return
	}
	if hasVoice && (req.AudioSeconds <= 0 || req.AudioSeconds > MaxVoiceSeconds) {
		writeError(w, http.StatusBadRequest, "Voice messages must be 1-300 seconds")
		return
	}

	msg := models.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Body:           req.Body,
		AudioURL:       req.AudioURL,
		AudioSeconds:   req.AudioSeconds,
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		logger.Error("Failed to create message", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	if err := services.ConsumeDaily(database.DB, userID, services.MetricMessages); err != nil {
		logger.Error("Failed to consume message quota", "user_id", userID, "error", err)
	}

	logger.Info("Message sent", "conversation_id", conv.ID, "sender_id", userID, "voice", hasVoice)
	writeJSON(w, http.StatusCreated, msg)
}

// ListMessages pages through a conversation, newest first. ?before= takes a
// message ID; ?limit= defaults to 50.
func ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	convID, err := parseUintParam(r, "conversation_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	conv, _, err := conversationForUser(convID, userID)
	if err != nil {
		logger.Error("Failed to load conversation", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := database.DB.Where("conversation_id = ?", conv.ID)
	if before, err := strconv.ParseUint(r.URL.Query().Get("before"), 10, 32); err == nil && before > 0 {
		q = q.Where("id < ?", before)
	}

	var messages []models.Message
	if err := q.Order("created_at desc").Limit(limit).Find(&messages).Error; err != nil {
		logger.Error("Failed to fetch messages", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// MarkRead stamps every unread message not sent by the caller.
func MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	convID, err := parseUintParam(r, "conversation_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	conv, _, err := conversationForUser(convID, userID)
	if err != nil {
		logger.Error("Failed to load conversation", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to mark read")
		return
	}
	if conv == nil {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	result := database.DB.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND read_at IS NULL", conv.ID, userID).
		Update("read_at", time.Now())
	if result.Error != nil {
		logger.Error("Failed to mark messages read", "error", result.Error)
		writeError(w, http.StatusInternalServerError, "Failed to mark read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"marked": result.RowsAffected})
}
