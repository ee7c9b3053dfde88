package models

import "time"

const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

const (
	NotificationTypeDirectMessage = "direct_message"
	NotificationTypeThreadReply   = "thread_reply"
	NotificationTypeTicketReply   = "ticket_reply"
	NotificationTypeAnnouncement  = "announcement"
	NotificationTypeCourseUpdate  = "course_update"
)

// Notification 每次邮件投递一行，worker 消费队列后落库并更新状态
type Notification struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64   `gorm:"column:user_id;not null;index:idx_notification_user" json:"user_id"`
	Type     string  `gorm:"column:type;type:varchar(30);not null" json:"type"`
	Subject  string  `gorm:"column:subject;type:varchar(255);not null" json:"subject"`
	Status   string  `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	LastErr  *string `gorm:"column:last_err;type:varchar(500)" json:"last_err,omitempty"`
	CourseID *int64  `gorm:"column:course_id" json:"course_id,omitempty"`

	SentAt    *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

type AnnouncementLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AdminID    int64     `gorm:"column:admin_id;not null" json:"admin_id"`
	Subject    string    `gorm:"column:subject;type:varchar(255);not null" json:"subject"`
	Body       string    `gorm:"column:body;type:text;not null" json:"body"`
	Recipients int       `gorm:"column:recipients;not null;default:0" json:"recipients"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AnnouncementLog) TableName() string {
	return "announcement_logs"
}
