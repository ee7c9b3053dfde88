package types

import "encoding/json"

// NotificationPrefs 通知偏好。存储层是 users.notification_prefs JSON 列，
// 应用层只认这三个键，缺省全开
type NotificationPrefs struct {
	CourseUpdates  bool `json:"course_updates"`
	DirectMessages bool `json:"direct_messages"`
	Announcements  bool `json:"announcements"`
}

func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{
		CourseUpdates:  true,
		DirectMessages: true,
		Announcements:  true,
	}
}

// DecodeNotificationPrefs 解析 JSON 列。空列或坏数据回退到缺省值
func DecodeNotificationPrefs(raw []byte) NotificationPrefs {
	prefs := DefaultNotificationPrefs()
	if len(raw) == 0 {
		return prefs
	}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return DefaultNotificationPrefs()
	}
	return prefs
}

type UpdatePrefsRequest struct {
	CourseUpdates  *bool `json:"course_updates,omitempty"`
	DirectMessages *bool `json:"direct_messages,omitempty"`
	Announcements  *bool `json:"announcements,omitempty"`
}

type AnnouncementRequest struct {
	Subject string `json:"subject" binding:"required,min=1,max=255"`
	Body    string `json:"body" binding:"required,min=1"`
}

// 入队的通知载荷

type DirectMessagePayload struct {
	RecipientID    int64  `json:"recipient_id"`
	SenderID       int64  `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	Preview        string `json:"preview"`
	ConversationID int64  `json:"conversation_id"`
}

type ThreadReplyPayload struct {
	RecipientID int64  `json:"recipient_id"`
	ThreadID    int64  `json:"thread_id"`
	ThreadTitle string `json:"thread_title"`
	AuthorName  string `json:"author_name"`
	Preview     string `json:"preview"`
}

type TicketReplyPayload struct {
	RecipientID int64  `json:"recipient_id"`
	TicketID    int64  `json:"ticket_id"`
	Subject     string `json:"subject"`
	Preview     string `json:"preview"`
}

type AnnouncementPayload struct {
	AdminID int64  `json:"admin_id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
