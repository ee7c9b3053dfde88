package handler

import (
	"Campus/dao"
	appctx "Campus/pkg/context"
	"Campus/pkg/response"
	"Campus/service"
	"Campus/types"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	AdminThreadService  service.IAdminThreadService
	MessageService      service.IMessageService
	TicketService       service.ITicketService
	NotificationService service.INotificationService
}

func (h *AdminHandler) RegisterRouter(admin gin.IRouter) {
	community := admin.Group("/community")
	community.PUT("/threads/:id", appctx.Wrap(h.UpdateThread))
	community.POST("/threads/bulk", appctx.Wrap(h.BulkAction))
	community.GET("/stats", appctx.Wrap(h.ThreadStats))
	community.GET("/user-activity", appctx.Wrap(h.UserActivity))

	messages := admin.Group("/messages")
	messages.GET("/conversations", appctx.Wrap(h.ListConversations))
	messages.GET("/conversations/:id", appctx.Wrap(h.ConversationDetail))
	messages.DELETE("/conversations/:id", appctx.Wrap(h.DeleteConversation))

	tickets := admin.Group("/tickets")
	tickets.GET("", appctx.Wrap(h.ListTickets))
	tickets.GET("/stats", appctx.Wrap(h.TicketStats))
	tickets.PUT("/:id/status", appctx.Wrap(h.UpdateTicketStatus))
	tickets.PUT("/:id/priority", appctx.Wrap(h.UpdateTicketPriority))

	admin.POST("/announcements", appctx.Wrap(h.Announce))
}

func (h *AdminHandler) UpdateThread(c *gin.Context) error {
	threadID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req types.AdminThreadUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	if err := h.AdminThreadService.Update(c.Request.Context(), threadID, &req); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *AdminHandler) BulkAction(c *gin.Context) error {
	var req types.BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	resp, err := h.AdminThreadService.BulkAction(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *AdminHandler) ThreadStats(c *gin.Context) error {
	stats, err := h.AdminThreadService.Stats(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}

func (h *AdminHandler) UserActivity(c *gin.Context) error {
	resp, err := h.AdminThreadService.UserActivity(c.Request.Context(),
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *AdminHandler) ListConversations(c *gin.Context) error {
	resp, err := h.MessageService.AdminList(c.Request.Context(), c.Query("search"),
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *AdminHandler) ConversationDetail(c *gin.Context) error {
	convID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.MessageService.AdminDetail(c.Request.Context(), convID)
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (h *AdminHandler) DeleteConversation(c *gin.Context) error {
	convID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.MessageService.AdminDelete(c.Request.Context(), convID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *AdminHandler) ListTickets(c *gin.Context) error {
	f := dao.TicketListFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	resp, err := h.TicketService.AdminList(c.Request.Context(), f)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *AdminHandler) TicketStats(c *gin.Context) error {
	stats, err := h.TicketService.AdminStats(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}

func (h *AdminHandler) UpdateTicketStatus(c *gin.Context) error {
	ticketID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	if err := h.TicketService.AdminUpdateStatus(c.Request.Context(), ticketID, req.Status); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *AdminHandler) UpdateTicketPriority(c *gin.Context) error {
	ticketID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateTicketPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	if err := h.TicketService.AdminUpdatePriority(c.Request.Context(), ticketID, req.Priority); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *AdminHandler) Announce(c *gin.Context) error {
	adminID, err := appctx.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	recipients, err := h.NotificationService.Announce(c.Request.Context(), adminID, &req)
	if err != nil {
		return err
	}
	response.Success(c, gin.H{"recipients": recipients})
	return nil
}
