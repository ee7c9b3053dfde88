package handler

import (
	"Campus/pkg/context"
	"Campus/pkg/response"
	"Campus/service"
	"Campus/types"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	TicketService service.ITicketService
}

func (h *TicketHandler) RegisterRouter(authed gin.IRouter) {
	tickets := authed.Group("/tickets")
	tickets.POST("", context.Wrap(h.Create))
	tickets.GET("", context.Wrap(h.ListMine))
	tickets.GET("/:id", context.Wrap(h.Detail))
	tickets.POST("/:id/messages", context.Wrap(h.AddMessage))
	tickets.POST("/:id/close", context.Wrap(h.Close))
}

func (h *TicketHandler) Create(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	detail, err := h.TicketService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (h *TicketHandler) ListMine(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	resp, err := h.TicketService.ListMine(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *TicketHandler) Detail(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	ticketID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.TicketService.GetDetail(c.Request.Context(), userID, context.IsAdmin(c), ticketID)
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (h *TicketHandler) Close(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	ticketID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.TicketService.Close(c.Request.Context(), userID, context.IsAdmin(c), ticketID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *TicketHandler) AddMessage(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	ticketID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req types.AddTicketMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	msg, err := h.TicketService.AddMessage(c.Request.Context(), userID, context.IsAdmin(c), ticketID, &req)
	if err != nil {
		return err
	}
	response.Success(c, msg)
	return nil
}
