package models

import "time"

// Conversation 1对1私信会话，两位参与者
type Conversation struct {
	ID      int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Subject *string `gorm:"column:subject;type:varchar(255)" json:"subject,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	// 新消息到达时手动 bump，列表按它倒序
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Messages     []Message                 `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// ConversationParticipant 按 (会话, 用户) 一行，保存该用户视角的
// 已读水位和归档标记，不是会话的全局状态
type ConversationParticipant struct {
	ID             int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID int64 `gorm:"column:conversation_id;not null;uniqueIndex:uq_conv_participant" json:"conversation_id"`
	UserID         int64 `gorm:"column:user_id;not null;uniqueIndex:uq_conv_participant;index:idx_participant_user" json:"user_id"`

	// 已读水位，只前移。拉详情时置为 now
	LastReadAt *time.Time `gorm:"column:last_read_at" json:"last_read_at,omitempty"`
	IsArchived bool       `gorm:"column:is_archived;not null;default:false" json:"is_archived"`
	JoinedAt   time.Time  `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ConversationParticipant) TableName() string {
	return "conversation_participants"
}

type Message struct {
	ID             int64  `gorm:"primaryKey" json:"id"` // Snowflake
	ConversationID int64  `gorm:"column:conversation_id;not null;index:idx_msg_conv_created,priority:1" json:"conversation_id"`
	SenderID       int64  `gorm:"column:sender_id;not null" json:"sender_id"`
	Content        string `gorm:"column:content;type:text;not null" json:"content"`
	IsSystem       bool   `gorm:"column:is_system;not null;default:false" json:"is_system"`

	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime;index:idx_msg_conv_created,priority:2" json:"created_at"`
	EditedAt  *time.Time `gorm:"column:edited_at" json:"edited_at,omitempty"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
