package types

import "time"

type CreateTicketRequest struct {
	Subject     string `json:"subject" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"required,min=1"`
	Category    string `json:"category" binding:"required,oneof=payment access technical other"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

type AddTicketMessageRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type UpdateTicketStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
}

type UpdateTicketPriorityRequest struct {
	Priority string `json:"priority" binding:"required,oneof=low medium high urgent"`
}

type TicketListItem struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastMessage *string   `json:"last_message,omitempty"`
}

type TicketListResponse struct {
	Tickets []TicketListItem `json:"tickets"`
	Total   int64            `json:"total"`
}

type TicketMessageResponse struct {
	ID           int64      `json:"id"`
	TicketID     int64      `json:"ticket_id"`
	Author       AuthorInfo `json:"author"`
	Content      string     `json:"content"`
	IsAdminReply bool       `json:"is_admin_reply"`
	CreatedAt    time.Time  `json:"created_at"`
}

type TicketDetailResponse struct {
	ID          int64                   `json:"id"`
	Subject     string                  `json:"subject"`
	Description string                  `json:"description"`
	Status      string                  `json:"status"`
	Priority    string                  `json:"priority"`
	Category    string                  `json:"category"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	User        AuthorInfo              `json:"user"`
	Messages    []TicketMessageResponse `json:"messages"`
}

// 管理端工单看板：按状态/分类聚合
type TicketStatsResponse struct {
	Total          int64            `json:"total"`
	StatusCounts   map[string]int64 `json:"status_counts"`
	CategoryCounts map[string]int64 `json:"category_counts"`
}
