package handler

import (
	"strconv"

	"Campus/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(AuthHandler), "*"),
	wire.Struct(new(ThreadHandler), "*"),
	wire.Struct(new(MessageHandler), "*"),
	wire.Struct(new(TicketHandler), "*"),
	wire.Struct(new(NotificationHandler), "*"),
	wire.Struct(new(OrderHandler), "*"),
	wire.Struct(new(AdminHandler), "*"),
)

// parseID 路径参数转 int64，坏参数统一 BadRequest
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, response.BadRequest("参数 " + name + " 不合法")
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}
