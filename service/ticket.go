package service

import (
	"context"
	"errors"
	"time"

	"Campus/dao"
	"Campus/models"
	"Campus/pkg/log"
	"Campus/pkg/queue"
	"Campus/pkg/response"
	"Campus/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ITicketService interface {
	Create(ctx context.Context, userID int64, req *types.CreateTicketRequest) (*types.TicketDetailResponse, error)
	ListMine(ctx context.Context, userID int64, status string) (*types.TicketListResponse, error)
	GetDetail(ctx context.Context, userID int64, isAdmin bool, ticketID int64) (*types.TicketDetailResponse, error)
	AddMessage(ctx context.Context, userID int64, isAdmin bool, ticketID int64, req *types.AddTicketMessageRequest) (*types.TicketMessageResponse, error)
	Close(ctx context.Context, userID int64, isAdmin bool, ticketID int64) error

	AdminList(ctx context.Context, f dao.TicketListFilter) (*types.TicketListResponse, error)
	AdminUpdateStatus(ctx context.Context, ticketID int64, status string) error
	AdminUpdatePriority(ctx context.Context, ticketID int64, priority string) error
	AdminStats(ctx context.Context) (*types.TicketStatsResponse, error)
}

type TicketService struct {
	TicketDAO  *dao.TicketDAO
	UserDAO    *dao.UserDAO
	Dispatcher queue.Dispatcher
}

var _ ITicketService = (*TicketService)(nil)

func (s *TicketService) Create(ctx context.Context, userID int64, req *types.CreateTicketRequest) (*types.TicketDetailResponse, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.TicketPriorityMedium
	}

	ticket := &models.SupportTicket{
		UserID:      userID,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      models.TicketStatusOpen,
		Priority:    priority,
		Category:    req.Category,
	}
	err := s.TicketDAO.Transaction(ctx, func(tx *gorm.DB) error {
		ticketTx := s.TicketDAO.WithTx(tx)
		if err := ticketTx.Create(ctx, ticket); err != nil {
			return err
		}
		// 描述同时作为工单的首条消息，时间线从它开始
		return ticketTx.AddMessage(ctx, &models.TicketMessage{
			TicketID: ticket.ID,
			AuthorID: userID,
			Content:  req.Description,
		})
	})
	if err != nil {
		return nil, err
	}

	detail, err := s.TicketDAO.GetDetail(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	return buildTicketDetail(detail), nil
}

func (s *TicketService) ListMine(ctx context.Context, userID int64, status string) (*types.TicketListResponse, error) {
	tickets, err := s.TicketDAO.ListForUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	items, err := s.buildListItems(ctx, tickets)
	if err != nil {
		return nil, err
	}
	return &types.TicketListResponse{Tickets: items, Total: int64(len(items))}, nil
}

func (s *TicketService) GetDetail(ctx context.Context, userID int64, isAdmin bool, ticketID int64) (*types.TicketDetailResponse, error) {
	ticket, err := s.TicketDAO.GetDetail(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("工单不存在")
		}
		return nil, err
	}
	if err := ensureOwnerOrAdmin(ticket.UserID, userID, isAdmin); err != nil {
		return nil, err
	}
	return buildTicketDetail(ticket), nil
}

// AddMessage 追加消息。管理员回复 open 状态的工单自动转 in_progress，
// 已关闭的工单不再接受消息
func (s *TicketService) AddMessage(ctx context.Context, userID int64, isAdmin bool, ticketID int64, req *types.AddTicketMessageRequest) (*types.TicketMessageResponse, error) {
	ticket, err := s.TicketDAO.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("工单不存在")
		}
		return nil, err
	}
	if err := ensureOwnerOrAdmin(ticket.UserID, userID, isAdmin); err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketStatusClosed {
		return nil, response.Conflict("工单已关闭")
	}

	msg := &models.TicketMessage{
		TicketID:     ticketID,
		AuthorID:     userID,
		Content:      req.Content,
		IsAdminReply: isAdmin && ticket.UserID != userID,
	}
	err = s.TicketDAO.Transaction(ctx, func(tx *gorm.DB) error {
		ticketTx := s.TicketDAO.WithTx(tx)
		if err := ticketTx.AddMessage(ctx, msg); err != nil {
			return err
		}
		if msg.IsAdminReply && ticket.Status == models.TicketStatusOpen {
			return ticketTx.UpdateFields(ctx, ticketID, map[string]interface{}{
				"status": models.TicketStatusInProgress,
			})
		}
		// 仅 bump updated_at，让列表排序反映最新活动
		return ticketTx.UpdateFields(ctx, ticketID, map[string]interface{}{
			"updated_at": time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	// 管理员回复时通知提单人
	if msg.IsAdminReply {
		payload := types.TicketReplyPayload{
			RecipientID: ticket.UserID,
			TicketID:    ticketID,
			Subject:     ticket.Subject,
			Preview:     truncatePreview(req.Content, previewLimit),
		}
		if err := s.Dispatcher.Enqueue(ctx, queue.KindTicketReply, payload); err != nil {
			log.L.Warn("工单回复通知入队失败", zap.Int64("ticket_id", ticketID), zap.Error(err))
		}
	}

	resp := &types.TicketMessageResponse{
		ID:           msg.ID,
		TicketID:     msg.TicketID,
		Content:      msg.Content,
		IsAdminReply: msg.IsAdminReply,
		CreatedAt:    msg.CreatedAt,
	}
	if u, uerr := s.UserDAO.GetByID(ctx, userID); uerr == nil {
		resp.Author = authorInfo(u)
	}
	return resp, nil
}

// Close 提单人主动关闭。关闭后不再接受消息，管理员仍可改状态
func (s *TicketService) Close(ctx context.Context, userID int64, isAdmin bool, ticketID int64) error {
	ticket, err := s.TicketDAO.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound("工单不存在")
		}
		return err
	}
	if err := ensureOwnerOrAdmin(ticket.UserID, userID, isAdmin); err != nil {
		return err
	}
	if ticket.Status == models.TicketStatusClosed {
		return response.Conflict("工单已关闭")
	}
	return s.TicketDAO.UpdateFields(ctx, ticketID, map[string]interface{}{
		"status": models.TicketStatusClosed,
	})
}

func (s *TicketService) AdminList(ctx context.Context, f dao.TicketListFilter) (*types.TicketListResponse, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 || f.PageSize > 100 {
		f.PageSize = 20
	}

	tickets, total, err := s.TicketDAO.ListAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items, err := s.buildListItems(ctx, tickets)
	if err != nil {
		return nil, err
	}
	return &types.TicketListResponse{Tickets: items, Total: total}, nil
}

func (s *TicketService) AdminUpdateStatus(ctx context.Context, ticketID int64, status string) error {
	if _, err := s.TicketDAO.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound("工单不存在")
		}
		return err
	}
	return s.TicketDAO.UpdateFields(ctx, ticketID, map[string]interface{}{
		"status": status,
	})
}

func (s *TicketService) AdminUpdatePriority(ctx context.Context, ticketID int64, priority string) error {
	if _, err := s.TicketDAO.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound("工单不存在")
		}
		return err
	}
	return s.TicketDAO.UpdateFields(ctx, ticketID, map[string]interface{}{
		"priority": priority,
	})
}

func (s *TicketService) AdminStats(ctx context.Context) (*types.TicketStatsResponse, error) {
	total, err := s.TicketDAO.Count(ctx)
	if err != nil {
		return nil, err
	}
	statusCounts, err := s.TicketDAO.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	categoryCounts, err := s.TicketDAO.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	return &types.TicketStatsResponse{
		Total:          total,
		StatusCounts:   statusCounts,
		CategoryCounts: categoryCounts,
	}, nil
}

// buildListItems 列表项组装，最新消息一条批量 SQL 带出
func (s *TicketService) buildListItems(ctx context.Context, tickets []models.SupportTicket) ([]types.TicketListItem, error) {
	ids := make([]int64, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID)
	}
	lastMsgs, err := s.TicketDAO.LatestMessageContents(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]types.TicketListItem, 0, len(tickets))
	for _, t := range tickets {
		item := types.TicketListItem{
			ID:        t.ID,
			Subject:   t.Subject,
			Status:    t.Status,
			Priority:  t.Priority,
			Category:  t.Category,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		}
		if content, ok := lastMsgs[t.ID]; ok {
			preview := truncatePreview(content, previewLimit)
			item.LastMessage = &preview
		}
		items = append(items, item)
	}
	return items, nil
}

func buildTicketDetail(ticket *models.SupportTicket) *types.TicketDetailResponse {
	detail := &types.TicketDetailResponse{
		ID:          ticket.ID,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Category:    ticket.Category,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if ticket.User != nil {
		detail.User = authorInfo(ticket.User)
	}
	detail.Messages = make([]types.TicketMessageResponse, 0, len(ticket.Messages))
	for _, m := range ticket.Messages {
		mr := types.TicketMessageResponse{
			ID:           m.ID,
			TicketID:     m.TicketID,
			Content:      m.Content,
			IsAdminReply: m.IsAdminReply,
			CreatedAt:    m.CreatedAt,
		}
		if m.Author != nil {
			mr.Author = authorInfo(m.Author)
		}
		detail.Messages = append(detail.Messages, mr)
	}
	return detail
}
