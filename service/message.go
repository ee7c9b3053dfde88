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
	"Campus/pkg/snowflake"
	"Campus/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnreadCache 未读会话数缓存的最小接口，生产实现是 redis，
// 测试里换内存假实现
type UnreadCache interface {
	Get(ctx context.Context, userID int64) (int64, bool)
	Set(ctx context.Context, userID int64, count int64) error
	Del(ctx context.Context, userID int64) error
}

type IMessageService interface {
	CreateConversation(ctx context.Context, userID int64, req *types.CreateConversationRequest) (*types.ConversationDetail, error)
	SendMessage(ctx context.Context, userID, convID int64, req *types.SendMessageRequest) (*types.MessageResponse, error)
	ListConversations(ctx context.Context, userID int64, archived bool, search string, page, pageSize int) (*types.ConversationListResponse, error)
	GetDetail(ctx context.Context, userID, convID int64, page, pageSize int) (*types.ConversationDetail, error)
	MarkRead(ctx context.Context, userID, convID int64) error
	SetArchived(ctx context.Context, userID, convID int64, archived bool) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	SearchUsers(ctx context.Context, userID int64, query string) ([]types.UserSearchResult, error)

	AdminList(ctx context.Context, search string, page, pageSize int) (*types.ConversationListResponse, error)
	AdminDetail(ctx context.Context, convID int64) (*types.ConversationDetail, error)
	AdminDelete(ctx context.Context, convID int64) error
}

type MessageService struct {
	DB         *gorm.DB
	ConvDAO    *dao.ConversationDAO
	MsgDAO     *dao.MessageDAO
	UserDAO    *dao.UserDAO
	Unread     UnreadCache
	Dispatcher queue.Dispatcher
}

var _ IMessageService = (*MessageService)(nil)

// CreateConversation 发起会话。同一对用户复用已有会话（查找-再建去重），
// 首条消息随会话一起落库
func (s *MessageService) CreateConversation(ctx context.Context, userID int64, req *types.CreateConversationRequest) (*types.ConversationDetail, error) {
	if req.RecipientID == userID {
		return nil, response.BadRequest("不能给自己发私信")
	}

	recipient, err := s.UserDAO.GetByID(ctx, req.RecipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("收件人不存在")
		}
		return nil, err
	}
	if !recipient.IsActive {
		return nil, response.NotFound("收件人不存在")
	}

	now := time.Now()
	conv, err := s.ConvDAO.FindByParticipants(ctx, userID, req.RecipientID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// 新会话：会话、双方参与者一个事务建好。
		// 发送方水位置 now，接收方留空表示全部未读
		conv = &models.Conversation{Subject: req.Subject, UpdatedAt: now}
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			convTx := s.ConvDAO.WithTx(tx)
			if err := convTx.Create(ctx, conv); err != nil {
				return err
			}
			sender := &models.ConversationParticipant{
				ConversationID: conv.ID,
				UserID:         userID,
				LastReadAt:     &now,
			}
			if err := convTx.CreateParticipant(ctx, sender); err != nil {
				return err
			}
			return convTx.CreateParticipant(ctx, &models.ConversationParticipant{
				ConversationID: conv.ID,
				UserID:         req.RecipientID,
			})
		})
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.sendToConversation(ctx, userID, conv.ID, req.InitialMessage, now); err != nil {
		return nil, err
	}

	return s.buildDetail(ctx, conv.ID, 1, 0)
}

func (s *MessageService) SendMessage(ctx context.Context, userID, convID int64, req *types.SendMessageRequest) (*types.MessageResponse, error) {
	if _, err := s.requireParticipant(ctx, userID, convID); err != nil {
		return nil, err
	}

	now := time.Now()
	msg, err := s.sendToConversation(ctx, userID, convID, req.Content, now)
	if err != nil {
		return nil, err
	}

	resp := &types.MessageResponse{
		ID:        msg.ID,
		Content:   msg.Content,
		IsSystem:  msg.IsSystem,
		CreatedAt: msg.CreatedAt,
	}
	if u, uerr := s.UserDAO.GetByID(ctx, userID); uerr == nil {
		resp.Sender = participantInfo(u)
	}
	return resp, nil
}

// sendToConversation 落消息、bump 会话时间、前移发送方水位，
// 然后失效对端缓存并入队通知
func (s *MessageService) sendToConversation(ctx context.Context, senderID, convID int64, content string, now time.Time) (*models.Message, error) {
	msg := &models.Message{
		ID:             snowflake.GenID(),
		ConversationID: convID,
		SenderID:       senderID,
		Content:        content,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		convTx := s.ConvDAO.WithTx(tx)
		if err := s.MsgDAO.WithTx(tx).Create(ctx, msg); err != nil {
			return err
		}
		if err := convTx.Touch(ctx, convID, now); err != nil {
			return err
		}
		p, err := convTx.GetParticipant(ctx, convID, senderID)
		if err != nil {
			return err
		}
		return convTx.AdvanceReadWatermark(ctx, p.ID, now)
	})
	if err != nil {
		return nil, err
	}

	others, err := s.ConvDAO.OtherParticipants(ctx, convID, senderID)
	if err != nil {
		log.L.Warn("查询会话对端失败", zap.Int64("conversation_id", convID), zap.Error(err))
		return msg, nil
	}

	sender, serr := s.UserDAO.GetByID(ctx, senderID)
	senderName := ""
	if serr == nil {
		senderName = sender.Name
	}
	for _, other := range others {
		if err := s.Unread.Del(ctx, other.UserID); err != nil {
			log.L.Warn("未读缓存失效失败", zap.Int64("user_id", other.UserID), zap.Error(err))
		}
		payload := types.DirectMessagePayload{
			RecipientID:    other.UserID,
			SenderID:       senderID,
			SenderName:     senderName,
			Preview:        truncatePreview(content, previewLimit),
			ConversationID: convID,
		}
		if err := s.Dispatcher.Enqueue(ctx, queue.KindDirectMessage, payload); err != nil {
			log.L.Warn("私信通知入队失败", zap.Int64("conversation_id", convID), zap.Error(err))
		}
	}
	return msg, nil
}

// ListConversations 会话列表。每页只发四条查询：会话页、参与者、
// 各会话最新消息（窗口函数）、分组未读数
func (s *MessageService) ListConversations(ctx context.Context, userID int64, archived bool, search string, page, pageSize int) (*types.ConversationListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	convs, total, err := s.ConvDAO.ListForUser(ctx, userID, archived, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	convIDs := make([]int64, 0, len(convs))
	for _, c := range convs {
		convIDs = append(convIDs, c.ID)
	}

	participants, err := s.ConvDAO.BatchGetParticipants(ctx, convIDs)
	if err != nil {
		return nil, err
	}
	latest, err := s.MsgDAO.LatestByConversations(ctx, convIDs)
	if err != nil {
		return nil, err
	}
	unread, err := s.MsgDAO.UnreadCountsForUser(ctx, userID, convIDs)
	if err != nil {
		return nil, err
	}

	// conversation_id -> 参与者行
	byConv := make(map[int64][]models.ConversationParticipant, len(convIDs))
	senderNames := make(map[int64]string)
	for _, p := range participants {
		byConv[p.ConversationID] = append(byConv[p.ConversationID], p)
		if p.User != nil {
			senderNames[p.UserID] = p.User.Name
		}
	}

	items := make([]types.ConversationListItem, 0, len(convs))
	for _, c := range convs {
		item := types.ConversationListItem{
			ID:          c.ID,
			Subject:     c.Subject,
			UnreadCount: unread[c.ID],
			UpdatedAt:   c.UpdatedAt,
		}
		for _, p := range byConv[c.ID] {
			if p.UserID == userID {
				item.IsArchived = p.IsArchived
				continue
			}
			if p.User != nil {
				item.OtherParticipant = participantInfo(p.User)
			}
		}
		if m, ok := latest[c.ID]; ok {
			item.LastMessage = &types.MessagePreview{
				Content:    truncatePreview(m.Content, previewLimit),
				SenderName: senderNames[m.SenderID],
				CreatedAt:  m.CreatedAt,
			}
		}
		items = append(items, item)
	}

	return &types.ConversationListResponse{Conversations: items, Total: total}, nil
}

// GetDetail 拉详情即已读：水位前移到 now 并失效自己的未读缓存
func (s *MessageService) GetDetail(ctx context.Context, userID, convID int64, page, pageSize int) (*types.ConversationDetail, error) {
	p, err := s.requireParticipant(ctx, userID, convID)
	if err != nil {
		return nil, err
	}

	detail, err := s.buildDetail(ctx, convID, page, pageSize)
	if err != nil {
		return nil, err
	}

	if err := s.ConvDAO.AdvanceReadWatermark(ctx, p.ID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Unread.Del(ctx, userID); err != nil {
		log.L.Warn("未读缓存失效失败", zap.Int64("user_id", userID), zap.Error(err))
	}
	return detail, nil
}

func (s *MessageService) MarkRead(ctx context.Context, userID, convID int64) error {
	p, err := s.requireParticipant(ctx, userID, convID)
	if err != nil {
		return err
	}
	if err := s.ConvDAO.AdvanceReadWatermark(ctx, p.ID, time.Now()); err != nil {
		return err
	}
	if err := s.Unread.Del(ctx, userID); err != nil {
		log.L.Warn("未读缓存失效失败", zap.Int64("user_id", userID), zap.Error(err))
	}
	return nil
}

func (s *MessageService) SetArchived(ctx context.Context, userID, convID int64, archived bool) error {
	p, err := s.requireParticipant(ctx, userID, convID)
	if err != nil {
		return err
	}
	if err := s.ConvDAO.SetArchived(ctx, p.ID, archived); err != nil {
		return err
	}
	// 归档影响未读会话口径
	if err := s.Unread.Del(ctx, userID); err != nil {
		log.L.Warn("未读缓存失效失败", zap.Int64("user_id", userID), zap.Error(err))
	}
	return nil
}

// UnreadCount 未读会话数（不是消息数）。缓存 miss 回源重算并写回，
// 缓存异常直接走库，绝不因为 redis 挂掉报错
func (s *MessageService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if count, ok := s.Unread.Get(ctx, userID); ok {
		return count, nil
	}

	count, err := s.MsgDAO.UnreadConversationCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.Unread.Set(ctx, userID, count); err != nil {
		log.L.Warn("未读缓存写入失败", zap.Int64("user_id", userID), zap.Error(err))
	}
	return count, nil
}

func (s *MessageService) SearchUsers(ctx context.Context, userID int64, query string) ([]types.UserSearchResult, error) {
	if len(query) < 2 {
		return []types.UserSearchResult{}, nil
	}
	users, err := s.UserDAO.Search(ctx, query, userID, 20)
	if err != nil {
		return nil, err
	}
	results := make([]types.UserSearchResult, 0, len(users))
	for i := range users {
		u := &users[i]
		results = append(results, types.UserSearchResult{
			ID:        u.ID,
			Name:      u.Name,
			AvatarURL: u.AvatarURL,
			Role:      u.Role,
		})
	}
	return results, nil
}

func (s *MessageService) AdminList(ctx context.Context, search string, page, pageSize int) (*types.ConversationListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	convs, total, err := s.ConvDAO.ListAll(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	convIDs := make([]int64, 0, len(convs))
	for _, c := range convs {
		convIDs = append(convIDs, c.ID)
	}
	participants, err := s.ConvDAO.BatchGetParticipants(ctx, convIDs)
	if err != nil {
		return nil, err
	}
	latest, err := s.MsgDAO.LatestByConversations(ctx, convIDs)
	if err != nil {
		return nil, err
	}

	byConv := make(map[int64][]models.ConversationParticipant, len(convIDs))
	senderNames := make(map[int64]string)
	for _, p := range participants {
		byConv[p.ConversationID] = append(byConv[p.ConversationID], p)
		if p.User != nil {
			senderNames[p.UserID] = p.User.Name
		}
	}

	items := make([]types.ConversationListItem, 0, len(convs))
	for _, c := range convs {
		item := types.ConversationListItem{
			ID:        c.ID,
			Subject:   c.Subject,
			UpdatedAt: c.UpdatedAt,
		}
		// 管理端视角没有"对端"，取首位参与者做展示位
		if ps := byConv[c.ID]; len(ps) > 0 && ps[0].User != nil {
			item.OtherParticipant = participantInfo(ps[0].User)
		}
		if m, ok := latest[c.ID]; ok {
			item.LastMessage = &types.MessagePreview{
				Content:    truncatePreview(m.Content, previewLimit),
				SenderName: senderNames[m.SenderID],
				CreatedAt:  m.CreatedAt,
			}
		}
		items = append(items, item)
	}

	return &types.ConversationListResponse{Conversations: items, Total: total}, nil
}

func (s *MessageService) AdminDetail(ctx context.Context, convID int64) (*types.ConversationDetail, error) {
	if _, err := s.ConvDAO.GetByID(ctx, convID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("会话不存在")
		}
		return nil, err
	}
	// 管理端只读，不动任何人的水位
	return s.buildDetail(ctx, convID, 1, 0)
}

func (s *MessageService) AdminDelete(ctx context.Context, convID int64) error {
	if _, err := s.ConvDAO.GetByID(ctx, convID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound("会话不存在")
		}
		return err
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.ConversationParticipant{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", convID).Delete(&models.Conversation{}).Error
	})
}

func (s *MessageService) requireParticipant(ctx context.Context, userID, convID int64) (*models.ConversationParticipant, error) {
	if _, err := s.ConvDAO.GetByID(ctx, convID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("会话不存在")
		}
		return nil, err
	}
	p, err := s.ConvDAO.GetParticipant(ctx, convID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.Forbidden("不是该会话的参与者")
		}
		return nil, err
	}
	return p, nil
}

func (s *MessageService) buildDetail(ctx context.Context, convID int64, page, pageSize int) (*types.ConversationDetail, error) {
	conv, err := s.ConvDAO.GetByID(ctx, convID)
	if err != nil {
		return nil, err
	}

	participants, err := s.ConvDAO.BatchGetParticipants(ctx, []int64{convID})
	if err != nil {
		return nil, err
	}
	msgs, err := s.MsgDAO.ListByConversation(ctx, convID, page, pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.MsgDAO.CountByConversation(ctx, convID)
	if err != nil {
		return nil, err
	}

	detail := &types.ConversationDetail{
		ID:            conv.ID,
		Subject:       conv.Subject,
		TotalMessages: total,
	}
	detail.Participants = make([]types.ParticipantInfo, 0, len(participants))
	for _, p := range participants {
		if p.User != nil {
			detail.Participants = append(detail.Participants, participantInfo(p.User))
		}
	}
	detail.Messages = make([]types.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		mr := types.MessageResponse{
			ID:        m.ID,
			Content:   m.Content,
			IsSystem:  m.IsSystem,
			CreatedAt: m.CreatedAt,
			EditedAt:  m.EditedAt,
		}
		if m.Sender != nil {
			mr.Sender = participantInfo(m.Sender)
		}
		detail.Messages = append(detail.Messages, mr)
	}
	return detail, nil
}

func participantInfo(u *models.User) types.ParticipantInfo {
	return types.ParticipantInfo{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
	}
}
