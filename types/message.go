package types

import "time"

// 发起会话请求。收件人等于自己时返回 BadRequest
type CreateConversationRequest struct {
	RecipientID    int64   `json:"recipient_id,string" binding:"required"`
	Subject        *string `json:"subject,omitempty"`
	InitialMessage string  `json:"initial_message" binding:"required,min=1"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type ParticipantInfo struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Role      string  `json:"role"`
}

// 最新一条消息的预览，正文截断到 100 字符
type MessagePreview struct {
	Content    string    `json:"content"`
	SenderName string    `json:"sender_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type ConversationListItem struct {
	ID               int64           `json:"id"`
	Subject          *string         `json:"subject,omitempty"`
	OtherParticipant ParticipantInfo `json:"other_participant"`
	LastMessage      *MessagePreview `json:"last_message,omitempty"`
	UnreadCount      int64           `json:"unread_count"`
	IsArchived       bool            `json:"is_archived"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type ConversationListResponse struct {
	Conversations []ConversationListItem `json:"conversations"`
	Total         int64                  `json:"total"`
}

type MessageResponse struct {
	ID        int64           `json:"id"`
	Sender    ParticipantInfo `json:"sender"`
	Content   string          `json:"content"`
	IsSystem  bool            `json:"is_system"`
	CreatedAt time.Time       `json:"created_at"`
	EditedAt  *time.Time      `json:"edited_at,omitempty"`
}

type ConversationDetail struct {
	ID            int64             `json:"id"`
	Subject       *string           `json:"subject,omitempty"`
	Participants  []ParticipantInfo `json:"participants"`
	Messages      []MessageResponse `json:"messages"`
	TotalMessages int64             `json:"total_messages"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type UserSearchResult struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Role      string  `json:"role"`
}
