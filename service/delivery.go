package service

import (
	"context"
	"fmt"
	"time"

	"Campus/dao"
	"Campus/models"
	"Campus/pkg/log"
	"Campus/types"

	"go.uber.org/zap"
)

// EmailSender 邮件出口。线上对接邮件网关，开发环境用 LogSender
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender 只打日志不真发
type LogSender struct{}

func (LogSender) Send(ctx context.Context, to, subject, body string) error {
	log.L.Info("模拟发送邮件", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// DeliveryService worker 侧的投递逻辑：按通知类型检查收件人偏好，
// 落通知记录，发邮件，回写投递状态
type DeliveryService struct {
	UserDAO         *dao.UserDAO
	NotificationDAO *dao.NotificationDAO
	Sender          EmailSender
}

func (s *DeliveryService) HandleDirectMessage(ctx context.Context, p *types.DirectMessagePayload) error {
	subject := fmt.Sprintf("%s 给你发来新私信", p.SenderName)
	return s.deliverToUser(ctx, p.RecipientID, models.NotificationTypeDirectMessage, subject, p.Preview,
		func(prefs types.NotificationPrefs) bool { return prefs.DirectMessages })
}

func (s *DeliveryService) HandleThreadReply(ctx context.Context, p *types.ThreadReplyPayload) error {
	subject := fmt.Sprintf("%s 回复了你的帖子「%s」", p.AuthorName, p.ThreadTitle)
	return s.deliverToUser(ctx, p.RecipientID, models.NotificationTypeThreadReply, subject, p.Preview, nil)
}

func (s *DeliveryService) HandleTicketReply(ctx context.Context, p *types.TicketReplyPayload) error {
	subject := fmt.Sprintf("工单「%s」有新回复", p.Subject)
	return s.deliverToUser(ctx, p.RecipientID, models.NotificationTypeTicketReply, subject, p.Preview, nil)
}

// HandleAnnouncement 公告扇出：逐个活跃用户投递，
// 单人失败不中断整批
func (s *DeliveryService) HandleAnnouncement(ctx context.Context, p *types.AnnouncementPayload) error {
	users, err := s.UserDAO.ListActive(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		err := s.deliverToUser(ctx, users[i].ID, models.NotificationTypeAnnouncement, p.Subject, p.Body,
			func(prefs types.NotificationPrefs) bool { return prefs.Announcements })
		if err != nil {
			log.L.Warn("公告单人投递失败", zap.Int64("user_id", users[i].ID), zap.Error(err))
		}
	}
	return nil
}

func (s *DeliveryService) deliverToUser(ctx context.Context, userID int64, kind, subject, body string,
	allowed func(types.NotificationPrefs) bool) error {
	user, err := s.UserDAO.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}
	if allowed != nil && !allowed(types.DecodeNotificationPrefs(user.NotificationPrefs)) {
		return nil
	}

	n := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Subject: subject,
		Status:  models.NotificationStatusPending,
	}
	if err := s.NotificationDAO.Create(ctx, n); err != nil {
		return err
	}

	if err := s.Sender.Send(ctx, user.Email, subject, body); err != nil {
		if merr := s.NotificationDAO.MarkFailed(ctx, n.ID, err.Error()); merr != nil {
			log.L.Error("通知状态回写失败", zap.Int64("notification_id", n.ID), zap.Error(merr))
		}
		return err
	}
	return s.NotificationDAO.MarkSent(ctx, n.ID, time.Now())
}
