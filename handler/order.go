package handler

import (
	"Campus/pkg/context"
	"Campus/pkg/response"
	"Campus/service"
	"Campus/types"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	OrderService service.IOrderService
}

func (h *OrderHandler) RegisterRouter(authed gin.IRouter) {
	authed.GET("/packages", context.Wrap(h.ListPackages))

	orders := authed.Group("/orders")
	orders.POST("", context.Wrap(h.Create))
	orders.GET("", context.Wrap(h.ListMine))
}

func (h *OrderHandler) ListPackages(c *gin.Context) error {
	items, err := h.OrderService.ListPackages(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, items)
	return nil
}

func (h *OrderHandler) Create(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	order, err := h.OrderService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, order)
	return nil
}

func (h *OrderHandler) ListMine(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	orders, err := h.OrderService.ListMine(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, orders)
	return nil
}
