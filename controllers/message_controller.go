package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tasmeem-studio/tasmeem-api/config"
	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/pins"
)

// SendMessageRequest represents the request body for sending a message.
// Plain text needs only content; a modification point carries its pin
// fields explicitly and the prose rendering is derived from them.
type SendMessageRequest struct {
	Kind     string `json:"kind" binding:"omitempty,oneof=text modification_point"`
	Content  string `json:"content" binding:"omitempty"`
	PinIndex int    `json:"pin_index" binding:"omitempty,gt=0"`
	Location string `json:"location" binding:"omitempty"`
	Note     string `json:"note" binding:"omitempty"`
}

// SendMessage handles POST /api/v1/orders/:id/messages - appends a message
// to the order's thread.
func SendMessage(c *gin.Context) {
	principal, order, ok := loadOrderForPrincipal(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "بيانات الرسالة غير صحيحة")
		return
	}

	message := models.Message{
		OrderID:  order.ID,
		SenderID: principal.UserID,
	}

	switch req.Kind {
	case models.MessageKindModificationPoint:
		if req.PinIndex <= 0 || req.Location == "" {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "نقطة التعديل تتطلب رقماً وموقعاً")
			return
		}
		note := req.Note
		if note == "" {
			note = pins.NoNotePlaceholder
		}
		pinIndex := req.PinIndex
		location := req.Location
		message.Kind = models.MessageKindModificationPoint
		message.Content = pins.Encode(pinIndex, location, note)
		message.PinIndex = &pinIndex
		message.PinLocation = &location
		message.PinNote = &note
	default:
		if req.Content == "" {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "نص الرسالة مطلوب")
			return
		}
		message.Kind = models.MessageKindText
		message.Content = req.Content
	}

	db := config.GetDB()
	if err := db.Create(&message).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	if err := db.Preload("Sender").First(&message, message.ID).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, message)
}

// ListMessages handles GET /api/v1/orders/:id/messages - fetches the
// order's thread in creation order.
//
// Fetching is not purely read-only: it marks every unread message from the
// other participants as read in the same operation. The caller's own
// messages are never flipped by their own fetch.
func ListMessages(c *gin.Context) {
	principal, order, ok := loadOrderForPrincipal(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Model(&models.Message{}).
		Where("order_id = ? AND sender_id <> ? AND is_read = ?", order.ID, principal.UserID, false).
		Update("is_read", true).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	var messages []models.Message
	if err := db.Where("order_id = ?", order.ID).
		Preload("Sender").
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		respondDatabaseError(c, err)
		return
	}

	for i := range messages {
		classifyLegacyMessage(&messages[i])
	}

	respondOK(c, http.StatusOK, messages)
}

// classifyLegacyMessage backfills the tagged fields for rows written before
// messages carried an explicit kind, using the best-effort prose parser.
// Content that does not match the template renders as plain text.
func classifyLegacyMessage(message *models.Message) {
	if message.Kind != "" {
		return
	}

	point := pins.Parse(message.Content)
	if point == nil {
		message.Kind = models.MessageKindText
		return
	}

	message.Kind = models.MessageKindModificationPoint
	message.PinIndex = &point.PinIndex
	message.PinLocation = &point.Location
	message.PinNote = &point.Note
}
