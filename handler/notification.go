package handler

import (
	"Campus/pkg/context"
	"Campus/pkg/response"
	"Campus/service"
	"Campus/types"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	NotificationService service.INotificationService
}

func (h *NotificationHandler) RegisterRouter(authed gin.IRouter) {
	notifications := authed.Group("/notifications")
	notifications.GET("", context.Wrap(h.ListMine))
	notifications.GET("/prefs", context.Wrap(h.GetPrefs))
	notifications.PUT("/prefs", context.Wrap(h.UpdatePrefs))
}

func (h *NotificationHandler) ListMine(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	items, total, err := h.NotificationService.ListMine(c.Request.Context(), userID,
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		return err
	}
	response.Success(c, gin.H{"notifications": items, "total": total})
	return nil
}

func (h *NotificationHandler) GetPrefs(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	prefs, err := h.NotificationService.GetPrefs(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, prefs)
	return nil
}

func (h *NotificationHandler) UpdatePrefs(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.UpdatePrefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	prefs, err := h.NotificationService.UpdatePrefs(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, prefs)
	return nil
}
