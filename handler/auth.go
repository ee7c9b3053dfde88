package handler

import (
	"Campus/pkg/context"
	"Campus/pkg/response"
	"Campus/service"
	"Campus/types"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	AuthService service.IAuthService
}

func (h *AuthHandler) RegisterRouter(public, authed gin.IRouter) {
	auth := public.Group("/auth")
	auth.POST("/register", context.Wrap(h.Register))
	auth.POST("/login", context.Wrap(h.Login))
	auth.POST("/refresh", context.Wrap(h.Refresh))

	authed.GET("/me", context.Wrap(h.Me))
}

func (h *AuthHandler) Register(c *gin.Context) error {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	tokens, err := h.AuthService.Register(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, tokens)
	return nil
}

func (h *AuthHandler) Login(c *gin.Context) error {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	tokens, err := h.AuthService.Login(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, tokens)
	return nil
}

func (h *AuthHandler) Refresh(c *gin.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	tokens, err := h.AuthService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	response.Success(c, tokens)
	return nil
}

func (h *AuthHandler) Me(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	profile, err := h.AuthService.Profile(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, profile)
	return nil
}
