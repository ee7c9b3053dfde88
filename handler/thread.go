package handler

import (
	"Campus/dao"
	"Campus/pkg/context"
	"Campus/pkg/response"
	"Campus/service"
	"Campus/types"

	"github.com/gin-gonic/gin"
)

type ThreadHandler struct {
	ThreadService service.IThreadService
	ReplyService  service.IReplyService
}

func (h *ThreadHandler) RegisterRouter(authed gin.IRouter) {
	community := authed.Group("/community")
	community.GET("/threads", context.Wrap(h.List))
	community.POST("/threads", context.Wrap(h.Create))
	community.GET("/threads/:id", context.Wrap(h.Detail))
	community.PUT("/threads/:id", context.Wrap(h.Update))
	community.DELETE("/threads/:id", context.Wrap(h.Delete))
	community.GET("/categories", context.Wrap(h.CategoryCounts))

	community.POST("/threads/:id/replies", context.Wrap(h.AddReply))
	community.PUT("/threads/:id/replies/:replyID", context.Wrap(h.EditReply))
	community.DELETE("/threads/:id/replies/:replyID", context.Wrap(h.DeleteReply))
	community.POST("/threads/:id/replies/:replyID/solution", context.Wrap(h.MarkSolution))
	community.DELETE("/threads/:id/replies/:replyID/solution", context.Wrap(h.UnmarkSolution))
}

func (h *ThreadHandler) List(c *gin.Context) error {
	f := dao.ThreadListFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	resp, err := h.ThreadService.List(c.Request.Context(), f)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (h *ThreadHandler) Create(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	var req types.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	detail, err := h.ThreadService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (h *ThreadHandler) Detail(c *gin.Context) error {
	threadID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.ThreadService.GetDetail(c.Request.Context(), threadID)
	if err != nil {
		return err
	}
	response.Success(c, detail)
	return nil
}

func (h *ThreadHandler) Update(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	threadID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req types.UpdateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	if err := h.ThreadService.Update(c.Request.Context(), userID, context.IsAdmin(c), threadID, &req); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *ThreadHandler) Delete(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	threadID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.ThreadService.Delete(c.Request.Context(), userID, context.IsAdmin(c), threadID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *ThreadHandler) CategoryCounts(c *gin.Context) error {
	counts, err := h.ThreadService.CategoryCounts(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, counts)
	return nil
}

func (h *ThreadHandler) AddReply(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	threadID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req types.AddReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	reply, err := h.ReplyService.AddReply(c.Request.Context(), userID, threadID, &req)
	if err != nil {
		return err
	}
	response.Success(c, reply)
	return nil
}

func (h *ThreadHandler) EditReply(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	threadID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	replyID, err := parseID(c, "replyID")
	if err != nil {
		return err
	}
	var req types.EditReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BadRequest(err.Error())
	}
	if err := h.ReplyService.EditReply(c.Request.Context(), userID, context.IsAdmin(c), threadID, replyID, &req); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *ThreadHandler) DeleteReply(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	threadID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	replyID, err := parseID(c, "replyID")
	if err != nil {
		return err
	}
	if err := h.ReplyService.DeleteReply(c.Request.Context(), userID, context.IsAdmin(c), threadID, replyID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *ThreadHandler) MarkSolution(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	threadID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	replyID, err := parseID(c, "replyID")
	if err != nil {
		return err
	}
	if err := h.ReplyService.MarkSolution(c.Request.Context(), userID, context.IsAdmin(c), threadID, replyID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}

func (h *ThreadHandler) UnmarkSolution(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return err
	}
	threadID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	replyID, err := parseID(c, "replyID")
	if err != nil {
		return err
	}
	if err := h.ReplyService.UnmarkSolution(c.Request.Context(), userID, context.IsAdmin(c), threadID, replyID); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
