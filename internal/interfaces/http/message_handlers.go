package http

import (
	"github.com/gin-gonic/gin"
)

// SendMessageRequest is the body for POST /api/messages
type SendMessageRequest struct {
	RecipientID int64  `json:"recipient_id" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

// SendMessage handles POST /api/messages
func (h *Handlers) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	message, err := h.services.Messages.Send(
		c.Request.Context(), currentUser(c).ID, req.RecipientID, req.Subject, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, message)
}

// ListMessages handles GET /api/messages
func (h *Handlers) ListMessages(c *gin.Context) {
	limit, offset := pagination(c)

	messages, err := h.services.Messages.ListForUser(c.Request.Context(), currentUser(c).ID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, messages)
}

// MarkMessageRead handles POST /api/messages/:id/read
func (h *Handlers) MarkMessageRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Messages.MarkRead(c.Request.Context(), id, currentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"read": true})
}
