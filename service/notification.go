package service

import (
	"context"
	"encoding/json"
	"errors"

	"Campus/dao"
	"Campus/models"
	"Campus/pkg/log"
	"Campus/pkg/queue"
	"Campus/pkg/response"
	"Campus/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type INotificationService interface {
	GetPrefs(ctx context.Context, userID int64) (*types.NotificationPrefs, error)
	UpdatePrefs(ctx context.Context, userID int64, req *types.UpdatePrefsRequest) (*types.NotificationPrefs, error)
	ListMine(ctx context.Context, userID int64, page, pageSize int) ([]models.Notification, int64, error)
	Announce(ctx context.Context, adminID int64, req *types.AnnouncementRequest) (int, error)
}

type NotificationService struct {
	UserDAO         *dao.UserDAO
	NotificationDAO *dao.NotificationDAO
	Dispatcher      queue.Dispatcher
}

var _ INotificationService = (*NotificationService)(nil)

func (s *NotificationService) GetPrefs(ctx context.Context, userID int64) (*types.NotificationPrefs, error) {
	user, err := s.UserDAO.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound("用户不存在")
		}
		return nil, err
	}
	prefs := types.DecodeNotificationPrefs(user.NotificationPrefs)
	return &prefs, nil
}

// UpdatePrefs 部分更新：只覆盖请求里带的键，其余保持原值
func (s *NotificationService) UpdatePrefs(ctx context.Context, userID int64, req *types.UpdatePrefsRequest) (*types.NotificationPrefs, error) {
	prefs, err := s.GetPrefs(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.CourseUpdates != nil {
		prefs.CourseUpdates = *req.CourseUpdates
	}
	if req.DirectMessages != nil {
		prefs.DirectMessages = *req.DirectMessages
	}
	if req.Announcements != nil {
		prefs.Announcements = *req.Announcements
	}

	raw, err := json.Marshal(prefs)
	if err != nil {
		return nil, err
	}
	if err := s.UserDAO.UpdatePrefs(ctx, userID, raw); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *NotificationService) ListMine(ctx context.Context, userID int64, page, pageSize int) ([]models.Notification, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.NotificationDAO.ListForUser(ctx, userID, page, pageSize)
}

// Announce 全站公告：落操作日志后整体入队一条，
// 按人扇出在 worker 侧做
func (s *NotificationService) Announce(ctx context.Context, adminID int64, req *types.AnnouncementRequest) (int, error) {
	users, err := s.UserDAO.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	recipients := 0
	for i := range users {
		if types.DecodeNotificationPrefs(users[i].NotificationPrefs).Announcements {
			recipients++
		}
	}

	if err := s.NotificationDAO.CreateAnnouncementLog(ctx, &models.AnnouncementLog{
		AdminID:    adminID,
		Subject:    req.Subject,
		Body:       req.Body,
		Recipients: recipients,
	}); err != nil {
		return 0, err
	}

	payload := types.AnnouncementPayload{
		AdminID: adminID,
		Subject: req.Subject,
		Body:    req.Body,
	}
	if err := s.Dispatcher.Enqueue(ctx, queue.KindAnnouncement, payload); err != nil {
		log.L.Error("公告入队失败", zap.Int64("admin_id", adminID), zap.Error(err))
		return 0, err
	}
	return recipients, nil
}
