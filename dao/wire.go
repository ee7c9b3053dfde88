package dao

import "github.com/google/wire"

var ProviderSet = wire.NewSet(
	NewUserDAO,
	NewThreadDAO,
	NewReplyDAO,
	NewConversationDAO,
	NewMessageDAO,
	NewTicketDAO,
	NewNotificationDAO,
	NewOrderDAO,
	NewCourseDAO,
)
