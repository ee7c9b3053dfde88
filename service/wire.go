package service

import (
	"Campus/dao/cache"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(AuthService), "*"),
	wire.Struct(new(ThreadService), "*"),
	wire.Struct(new(ReplyService), "*"),
	wire.Struct(new(AdminThreadService), "*"),
	wire.Struct(new(MessageService), "*"),
	wire.Struct(new(TicketService), "*"),
	wire.Struct(new(NotificationService), "*"),
	wire.Struct(new(OrderService), "*"),

	wire.Bind(new(IAuthService), new(*AuthService)),
	wire.Bind(new(IThreadService), new(*ThreadService)),
	wire.Bind(new(IReplyService), new(*ReplyService)),
	wire.Bind(new(IAdminThreadService), new(*AdminThreadService)),
	wire.Bind(new(IMessageService), new(*MessageService)),
	wire.Bind(new(ITicketService), new(*TicketService)),
	wire.Bind(new(INotificationService), new(*NotificationService)),
	wire.Bind(new(IOrderService), new(*OrderService)),

	wire.Bind(new(UnreadCache), new(*cache.UnreadStorage)),
)
