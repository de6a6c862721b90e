package handler

import (
	"errors"
	"net/http"

	"message-api/internal/services"
	"message-api/internal/transport/httpdto"
	api_errors "message-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.MessageListResponse{Messages: items})
}

func (h *MessageHandler) GetByID(c *gin.Context) {
	msg, err := h.service.Get(c.Request.Context(), c.Param("messageId"))
	if err != nil {
		h.respondMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req httpdto.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", httpdto.CodeInvalidRequest))
		return
	}

	msg, err := h.service.Create(c.Request.Context(), services.CreateMessageInput{
		ID:     req.ID,
		Title:  req.Title,
		Body:   req.Body,
		Author: req.Author,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) Update(c *gin.Context) {
	var req httpdto.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", httpdto.CodeInvalidRequest))
		return
	}

	msg, err := h.service.Update(c.Request.Context(), c.Param("messageId"), req.ToUpdate())
	if err != nil {
		h.respondMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.MessageResponse{Message: msg})
}

func (h *MessageHandler) Delete(c *gin.Context) {
	messageID := c.Param("messageId")
	if _, err := h.service.Delete(c.Request.Context(), messageID); err != nil {
		h.respondMessageError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NoticeResponse{Message: httpdto.MessageDeleted, ID: messageID})
}

// respondMessageError answers a missing message with the {"message": ...}
// notice clients already expect, under a 404.
func (h *MessageHandler) respondMessageError(c *gin.Context, err error) {
	if errors.Is(err, api_errors.ErrNotFound) {
		c.JSON(http.StatusNotFound, httpdto.NoticeResponse{Message: httpdto.MessageDoesNotExist})
		return
	}
	respondError(c, err)
}
