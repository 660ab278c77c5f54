package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type ContactHandler struct {
	contactService *services.ContactService
}

func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req services.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.contactService.Submit(req)
	if err != nil {
		respondError(c, "Failed to send message", err)
		return
	}
	utils.SendCreated(c, "Message sent successfully", message)
}

func (h *ContactHandler) ListMessages(c *gin.Context) {
	messages, err := h.contactService.List(c.Query("status"))
	if err != nil {
		respondError(c, "Failed to fetch messages", err)
		return
	}
	utils.SendList(c, "Messages retrieved successfully", messages, len(messages))
}

func (h *ContactHandler) Respond(c *gin.Context) {
	id, ok := parseID(c, "id", "message ID")
	if !ok {
		return
	}

	var req services.ContactResponseRequest
	if !bindJSON(c, &req) {
		return
	}

	message, err := h.contactService.Respond(id, req)
	if err != nil {
		respondError(c, "Failed to respond to message", err)
		return
	}
	utils.SendSuccess(c, "Response sent successfully", message)
}
