package models

import "time"

// 工单状态机：open -> in_progress -> resolved | closed
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)

const (
	TicketCategoryPayment   = "payment"
	TicketCategoryAccess    = "access"
	TicketCategoryTechnical = "technical"
	TicketCategoryOther     = "other"
)

type SupportTicket struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64  `gorm:"column:user_id;not null;index:idx_ticket_user_status,priority:1" json:"user_id"`
	Subject     string `gorm:"column:subject;type:varchar(255);not null" json:"subject"`
	Description string `gorm:"column:description;type:text;not null" json:"description"`
	Status      string `gorm:"column:status;type:varchar(20);not null;default:open;index:idx_ticket_user_status,priority:2" json:"status"`
	Priority    string `gorm:"column:priority;type:varchar(20);not null;default:medium" json:"priority"`
	Category    string `gorm:"column:category;type:varchar(20);not null;default:other" json:"category"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	User     *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Messages []TicketMessage `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}

type TicketMessage struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	TicketID     int64  `gorm:"column:ticket_id;not null;index:idx_ticket_msg" json:"ticket_id"`
	AuthorID     int64  `gorm:"column:author_id;not null" json:"author_id"`
	Content      string `gorm:"column:content;type:text;not null" json:"content"`
	IsAdminReply bool   `gorm:"column:is_admin_reply;not null;default:false" json:"is_admin_reply"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (TicketMessage) TableName() string {
	return "ticket_messages"
}
