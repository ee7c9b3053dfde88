package dao

import (
	"context"
	"time"

	"Campus/models"

	"gorm.io/gorm"
)

type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{db: db}
}

func (d *NotificationDAO) Create(ctx context.Context, n *models.Notification) error {
	return d.db.WithContext(ctx).Create(n).Error
}

func (d *NotificationDAO) MarkSent(ctx context.Context, notificationID int64, at time.Time) error {
	return d.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{
			"status":  models.NotificationStatusSent,
			"sent_at": at,
		}).Error
}

func (d *NotificationDAO) MarkFailed(ctx context.Context, notificationID int64, reason string) error {
	if len(reason) > 500 {
		reason = reason[:500]
	}
	return d.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{
			"status":   models.NotificationStatusFailed,
			"last_err": reason,
		}).Error
}

func (d *NotificationDAO) ListForUser(ctx context.Context, userID int64, page, pageSize int) ([]models.Notification, int64, error) {
	query := d.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Notification
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (d *NotificationDAO) CreateAnnouncementLog(ctx context.Context, l *models.AnnouncementLog) error {
	return d.db.WithContext(ctx).Create(l).Error
}
