package v1

import (
	"net/http"
	"strconv"

	"go-cvnetwork-backend/internal/delivery/http/response"
	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageUC domain.MessageUsecase
}

// NewMessageHandler mounts the inbox routes. Sending runs with optional
// auth so visitors without an account can contact members.
func NewMessageHandler(optional *gin.RouterGroup, protected *gin.RouterGroup, messageUC domain.MessageUsecase) {
	handler := &MessageHandler{messageUC: messageUC}

	optional.POST("/messages", handler.Send)

	messages := protected.Group("/messages")
	{
		messages.GET("", handler.Inbox)
		messages.GET("/unread-count", handler.UnreadCount)
		messages.POST("/:id/read", handler.MarkRead)
		messages.DELETE("/:id", handler.Delete)
	}
}

// Send godoc
// @Summary      Send a message
// @Description  Delivers a message to a member's inbox. Anonymous senders must include sender_name.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        message  body      domain.SendMessageInput  true  "Message"
// @Success      201  {object}  response.Response{data=domain.UserMessage}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var input domain.SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	msg, err := h.messageUC.Send(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Message sent", msg)
}

// Inbox godoc
// @Summary      My inbox
// @Description  Received messages, unread first, then newest first
// @Tags         messages
// @Produce      json
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Page offset"
// @Success      200  {object}  response.Response{data=[]domain.UserMessage}
// @Router       /messages [get]
// @Security     BearerAuth
func (h *MessageHandler) Inbox(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.messageUC.Inbox(c.Request.Context(), limit, offset)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Inbox", messages)
}

// UnreadCount godoc
// @Summary      Unread message count
// @Tags         messages
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /messages/unread-count [get]
// @Security     BearerAuth
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.messageUC.UnreadCount(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Unread count", gin.H{"unread": count})
}

// MarkRead godoc
// @Summary      Mark message as read
// @Description  Recipient only; marking twice keeps the first read timestamp
// @Tags         messages
// @Produce      json
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /messages/{id}/read [post]
// @Security     BearerAuth
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.messageUC.MarkRead(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Message marked as read", nil)
}

// Delete godoc
// @Summary      Delete message
// @Description  Recipient only
// @Tags         messages
// @Produce      json
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /messages/{id} [delete]
// @Security     BearerAuth
func (h *MessageHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.messageUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Message deleted", nil)
}
