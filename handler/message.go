package handler

import (
	"Campus/pkg/context"
	"Campus/pkg/response"
	"Campus/service"
	"Campus/types"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	MessageService service.IMessageService
}

func (h *MessageHandler) RegisterRouter(authed gin.IRouter) {
	messages := authed.Group("/messages")
	messages.POST("/conversations", context.Wrap(h.CreateConversation))
	messages.GET("/conversations", context.Wrap(h.ListConversations))
	messages.GET("/conversations/:id", context.Wrap(h.ConversationDetail))
	messages.POST("/conversations/:id/messages", context.Wrap(h.SendMessage))
	messages.POST("/conversations/:id/read", context.Wrap(h.MarkRead))
	messages.POST("/conversations/:id/archive", context.Wrap(h.Archive))
	messages.DELETE("/conversations/:id/archive", context.Wrap(h.Unarchive))
	messages.GET("/unread-count", context.Wrap(h.UnreadCount))
	messages.GET("/users/search", context.Wrap(h.SearchUsers))
}

func (h *MessageHandler) CreateConversation(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	detail, err := h.MessageService.CreateConversation(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (h *MessageHandler) ListConversations(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	archived := c.Query("archived") == "true"
	resp, err := h.MessageService.ListConversations(c.Request.Context(), userID, archived,
		c.Query("search"), queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *MessageHandler) ConversationDetail(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	convID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.MessageService.GetDetail(c.Request.Context(), userID, convID,
		queryInt(c, "page", 1), queryInt(c, "page_size", 0))
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (h *MessageHandler) SendMessage(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	convID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req types.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	msg, err := h.MessageService.SendMessage(c.Request.Context(), userID, convID, &req)
	if err != nil {
		return err
	}
	response.Success(c, msg)
	return nil
}

func (h *MessageHandler) MarkRead(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	convID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.MessageService.MarkRead(c.Request.Context(), userID, convID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *MessageHandler) Archive(c *gin.Context) error {
	return h.setArchived(c, true)
}

func (h *MessageHandler) Unarchive(c *gin.Context) error {
	return h.setArchived(c, false)
}

func (h *MessageHandler) setArchived(c *gin.Context, archived bool) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	convID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.MessageService.SetArchived(c.Request.Context(), userID, convID, archived); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *MessageHandler) UnreadCount(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	count, err := h.MessageService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, types.UnreadCountResponse{Count: count})
	return nil
}

func (h *MessageHandler) SearchUsers(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	results, err := h.MessageService.SearchUsers(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		return err
	}
	response.Success(c, results)
	return nil
}
